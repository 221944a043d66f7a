// Package stats recomputes the derived usage statistics from the whole
// snapshot. It runs after every successful mutation and is never an input
// to any rule.
package stats

import (
	"slices"

	"github.com/lalith-99/beans/internal/models"
)

// NewUserStats is the series a freshly registered user starts with.
func NewUserStats(now int64) models.UserStats {
	return models.UserStats{
		ChannelsJoined: []models.ChannelsJoined{{NumChannelsJoined: 0, TimeStamp: now}},
		DMsJoined:      []models.DMsJoined{{NumDMsJoined: 0, TimeStamp: now}},
		MessagesSent:   []models.MessagesSent{{NumMessagesSent: 0, TimeStamp: now}},
	}
}

// NewWorkspaceStats is the series the workspace starts with on the first
// registration.
func NewWorkspaceStats(now int64) *models.WorkspaceStats {
	return &models.WorkspaceStats{
		ChannelsExist: []models.ChannelsExist{{NumChannelsExist: 0, TimeStamp: now}},
		DMsExist:      []models.DMsExist{{NumDMsExist: 0, TimeStamp: now}},
		MessagesExist: []models.MessagesExist{{NumMessagesExist: 0, TimeStamp: now}},
	}
}

// Recompute refreshes every active user's series and the workspace series
// as of unix time now.
func Recompute(data *models.Data, now int64) {
	visible := countVisible(data.Messages, now)
	for _, u := range data.Users {
		recomputeUser(data, u, visible, now)
	}
	recomputeWorkspace(data, visible, now)
}

func countVisible(msgs []*models.Message, now int64) int {
	n := 0
	for _, m := range msgs {
		if m.VisibleAt(now) {
			n++
		}
	}
	return n
}

// sentBy counts what uid ever sent, removed messages included, so the
// count never drops when a message is deleted.
func sentBy(data *models.Data, uid, now int64) int {
	n := 0
	for _, msgs := range [][]*models.Message{data.Messages, data.RemovedMessages} {
		for _, m := range msgs {
			if m.UID == uid && m.VisibleAt(now) {
				n++
			}
		}
	}
	return n
}

func recomputeUser(data *models.Data, u *models.User, visible int, now int64) {
	channels := 0
	for _, c := range data.Channels {
		if slices.Contains(c.MemberIDs, u.UID) {
			channels++
		}
	}
	dms := 0
	for _, dm := range data.DMs {
		if slices.Contains(dm.MemberIDs, u.UID) {
			dms++
		}
	}
	sent := sentBy(data, u.UID, now)

	s := &u.Stats
	if n := len(s.ChannelsJoined); n == 0 || s.ChannelsJoined[n-1].NumChannelsJoined != channels {
		s.ChannelsJoined = append(s.ChannelsJoined, models.ChannelsJoined{NumChannelsJoined: channels, TimeStamp: now})
	}
	if n := len(s.DMsJoined); n == 0 || s.DMsJoined[n-1].NumDMsJoined != dms {
		s.DMsJoined = append(s.DMsJoined, models.DMsJoined{NumDMsJoined: dms, TimeStamp: now})
	}
	if n := len(s.MessagesSent); n == 0 || s.MessagesSent[n-1].NumMessagesSent != sent {
		s.MessagesSent = append(s.MessagesSent, models.MessagesSent{NumMessagesSent: sent, TimeStamp: now})
	}

	s.InvolvementRate = Involvement(channels+dms+sent, len(data.Channels)+len(data.DMs)+visible)
}

func recomputeWorkspace(data *models.Data, visible int, now int64) {
	ws := data.WorkspaceStats
	if ws == nil {
		return
	}
	if n := len(ws.ChannelsExist); n == 0 || ws.ChannelsExist[n-1].NumChannelsExist != len(data.Channels) {
		ws.ChannelsExist = append(ws.ChannelsExist, models.ChannelsExist{NumChannelsExist: len(data.Channels), TimeStamp: now})
	}
	if n := len(ws.DMsExist); n == 0 || ws.DMsExist[n-1].NumDMsExist != len(data.DMs) {
		ws.DMsExist = append(ws.DMsExist, models.DMsExist{NumDMsExist: len(data.DMs), TimeStamp: now})
	}
	if n := len(ws.MessagesExist); n == 0 || ws.MessagesExist[n-1].NumMessagesExist != visible {
		ws.MessagesExist = append(ws.MessagesExist, models.MessagesExist{NumMessagesExist: visible, TimeStamp: now})
	}

	active := 0
	for _, u := range data.Users {
		if inAnyChat(data, u.UID) {
			active++
		}
	}
	ws.UtilizationRate = Utilization(active, len(data.Users))
}

func inAnyChat(data *models.Data, uid int64) bool {
	for _, c := range data.Channels {
		if slices.Contains(c.MemberIDs, uid) {
			return true
		}
	}
	for _, dm := range data.DMs {
		if slices.Contains(dm.MemberIDs, uid) {
			return true
		}
	}
	return false
}

// Involvement is min(1, user/total), or 0 when total is 0.
func Involvement(user, total int) float64 {
	if total == 0 {
		return 0
	}
	return min(1, float64(user)/float64(total))
}

// Utilization is active/users, or 0 with no users.
func Utilization(active, users int) float64 {
	if users == 0 {
		return 0
	}
	return float64(active) / float64(users)
}
