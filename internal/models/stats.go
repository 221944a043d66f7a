package models

// The stats series are sparse change-logs: a sample is appended only
// when the count differs from the previous sample.

type ChannelsJoined struct {
	NumChannelsJoined int   `json:"numChannelsJoined"`
	TimeStamp         int64 `json:"timeStamp"`
}

type DMsJoined struct {
	NumDMsJoined int   `json:"numDmsJoined"`
	TimeStamp    int64 `json:"timeStamp"`
}

type MessagesSent struct {
	NumMessagesSent int   `json:"numMessagesSent"`
	TimeStamp       int64 `json:"timeStamp"`
}

type UserStats struct {
	ChannelsJoined  []ChannelsJoined `json:"channelsJoined"`
	DMsJoined       []DMsJoined      `json:"dmsJoined"`
	MessagesSent    []MessagesSent   `json:"messagesSent"`
	InvolvementRate float64          `json:"involvementRate"`
}

type ChannelsExist struct {
	NumChannelsExist int   `json:"numChannelsExist"`
	TimeStamp        int64 `json:"timeStamp"`
}

type DMsExist struct {
	NumDMsExist int   `json:"numDmsExist"`
	TimeStamp   int64 `json:"timeStamp"`
}

type MessagesExist struct {
	NumMessagesExist int   `json:"numMessagesExist"`
	TimeStamp        int64 `json:"timeStamp"`
}

type WorkspaceStats struct {
	ChannelsExist   []ChannelsExist `json:"channelsExist"`
	DMsExist        []DMsExist      `json:"dmsExist"`
	MessagesExist   []MessagesExist `json:"messagesExist"`
	UtilizationRate float64         `json:"utilizationRate"`
}
