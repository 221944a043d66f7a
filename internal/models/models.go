package models

// User is a registered account.
//
// Tokens holds hashes of the session ids currently valid for this user,
// never the raw bearer tokens. A removed user keeps its record (moved to
// Data.RemovedUsers) so historical messages and DM names still resolve.
type User struct {
	UID           int64     `json:"uId"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password"`
	NameFirst     string    `json:"nameFirst"`
	NameLast      string    `json:"nameLast"`
	HandleStr     string    `json:"handleStr"`
	ProfileImgURL string    `json:"profileImgUrl"`
	IsGlobalOwner bool      `json:"isGlobalOwner"`
	Tokens        []string  `json:"tokens"`
	Stats         UserStats `json:"userStats"`
}

// Profile is the public view of a user.
type Profile struct {
	UID           int64  `json:"uId"`
	Email         string `json:"email"`
	NameFirst     string `json:"nameFirst"`
	NameLast      string `json:"nameLast"`
	HandleStr     string `json:"handleStr"`
	ProfileImgURL string `json:"profileImgUrl"`
}

func (u *User) Profile() Profile {
	return Profile{
		UID:           u.UID,
		Email:         u.Email,
		NameFirst:     u.NameFirst,
		NameLast:      u.NameLast,
		HandleStr:     u.HandleStr,
		ProfileImgURL: u.ProfileImgURL,
	}
}

// Standup is the per-channel buffered-message window.
// TimeFinish and CreatorID are nil while the standup is idle.
type Standup struct {
	IsActive   bool   `json:"isActive"`
	TimeFinish *int64 `json:"timeFinish"`
	CreatorID  *int64 `json:"creatorId"`
}

// Channel is a named chat room. OwnerIDs is always a subset of MemberIDs.
type Channel struct {
	ChannelID int64   `json:"channelId"`
	Name      string  `json:"name"`
	IsPublic  bool    `json:"isPublic"`
	OwnerIDs  []int64 `json:"ownerIds"`
	MemberIDs []int64 `json:"memberIds"`
	Standup   Standup `json:"standup"`
}

// DM is a direct-message group. OwnerID becomes nil once the creator leaves;
// an ownerless DM can never be removed.
type DM struct {
	DMID      int64   `json:"dmId"`
	Name      string  `json:"name"`
	OwnerID   *int64  `json:"ownerId"`
	MemberIDs []int64 `json:"memberIds"`
}

// React lists the users that reacted with one reaction kind.
type React struct {
	ReactID int     `json:"reactId"`
	UIDs    []int64 `json:"uIds"`
}

// Message belongs to exactly one chat (channel or DM). TimeSent is in unix
// seconds and may lie in the future; such a message stays invisible until due.
type Message struct {
	MessageID int64   `json:"messageId"`
	UID       int64   `json:"uId"`
	ChatID    int64   `json:"chatId"`
	Message   string  `json:"message"`
	TimeSent  int64   `json:"timeSent"`
	Reacts    []React `json:"reacts"`
	IsPinned  bool    `json:"isPinned"`
	IsStandup bool    `json:"isStandup"`
}

// VisibleAt reports whether the message is readable at unix time now.
func (m *Message) VisibleAt(now int64) bool {
	return m.TimeSent <= now
}

// React returns the reaction entry with the given kind, or nil.
func (m *Message) React(reactID int) *React {
	for i := range m.Reacts {
		if m.Reacts[i].ReactID == reactID {
			return &m.Reacts[i]
		}
	}
	return nil
}

// Notification is an immutable, pre-rendered feed entry. Exactly one of
// ChannelID and DMID is a real id; the other is -1.
type Notification struct {
	UID                 int64  `json:"uId"`
	ChannelID           int64  `json:"channelId"`
	DMID                int64  `json:"dmId"`
	NotificationMessage string `json:"notificationMessage"`
}

// ResetCode is a single-use password reset code.
type ResetCode struct {
	ResetCode string `json:"resetCode"`
	UID       int64  `json:"uId"`
}

// Data is the whole workspace snapshot. It is what gets persisted after
// every successful mutation.
type Data struct {
	Users           []*User         `json:"users"`
	RemovedUsers    []*User         `json:"removedUsers"`
	Channels        []*Channel      `json:"channels"`
	DMs             []*DM           `json:"DMs"`
	Messages        []*Message      `json:"messages"`
	RemovedMessages []*Message      `json:"removedMessages"`
	Notifications   []Notification  `json:"notifications"`
	WorkspaceStats  *WorkspaceStats `json:"workspaceStats"`
	ResetCodes      []ResetCode     `json:"resetCodes"`

	// PendingDeliveries lists the scheduled messages whose delivery
	// (tagging) has not happened yet, due or not.
	PendingDeliveries []int64 `json:"pendingDeliveries"`
}

// NewData returns an empty snapshot with non-nil collections so it
// serializes to [] rather than null.
func NewData() *Data {
	return &Data{
		Users:           make([]*User, 0),
		RemovedUsers:    make([]*User, 0),
		Channels:        make([]*Channel, 0),
		DMs:             make([]*DM, 0),
		Messages:        make([]*Message, 0),
		RemovedMessages: make([]*Message, 0),
		Notifications:   make([]Notification, 0),
		ResetCodes:      make([]ResetCode, 0),

		PendingDeliveries: make([]int64, 0),
	}
}

// Normalize replaces nil collections (e.g. after decoding an old
// snapshot) with empty ones.
func (d *Data) Normalize() {
	if d.Users == nil {
		d.Users = make([]*User, 0)
	}
	if d.RemovedUsers == nil {
		d.RemovedUsers = make([]*User, 0)
	}
	if d.Channels == nil {
		d.Channels = make([]*Channel, 0)
	}
	if d.DMs == nil {
		d.DMs = make([]*DM, 0)
	}
	if d.Messages == nil {
		d.Messages = make([]*Message, 0)
	}
	if d.RemovedMessages == nil {
		d.RemovedMessages = make([]*Message, 0)
	}
	if d.Notifications == nil {
		d.Notifications = make([]Notification, 0)
	}
	if d.ResetCodes == nil {
		d.ResetCodes = make([]ResetCode, 0)
	}
	if d.PendingDeliveries == nil {
		d.PendingDeliveries = make([]int64, 0)
	}
}
