// Package store holds the in-memory workspace snapshot and the lookup and
// mutation primitives the engines build on.
//
// The registry does no locking. Callers must serialize access (the HTTP
// layer and the scheduler share one mutex).
package store

import (
	"slices"
	"strings"

	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/models"
)

// Registry is the in-memory view of the workspace that every engine reads
// and mutates.
//
// How lookups resolve:
//   - User finds active members only. ProfileUser also looks among
//     removed users, so a removed author still renders in old messages.
//   - Channels and DMs share one id space; Chat resolves either kind and
//     the caller branches on Chat.Kind.
//   - Misses come back as InvalidRequest errors (apperr.BadRequest)
//     carrying the message the HTTP layer shows.
//
// A Registry does no locking. Callers hold the workspace lock (the
// Serialize middleware or the scheduler) for the whole of a read-modify-
// commit cycle.
type Registry struct {
	data *models.Data
	ids  IDGenerator
}

// NewRegistry wraps data. A nil data starts an empty workspace.
func NewRegistry(data *models.Data, ids IDGenerator) *Registry {
	if data == nil {
		data = models.NewData()
	}
	data.Normalize()
	return &Registry{data: data, ids: ids}
}

// Data exposes the snapshot for persistence and derived recomputation.
func (r *Registry) Data() *models.Data {
	return r.data
}

// Reset wipes every collection.
func (r *Registry) Reset() {
	r.data = models.NewData()
}

func (r *Registry) NextID() int64 {
	return r.ids.NextID()
}

// ---------------------------------------------------------------
// Users
// ---------------------------------------------------------------

func (r *Registry) Users() []*models.User {
	return r.data.Users
}

// User returns the active user with uid.
func (r *Registry) User(uid int64) (*models.User, error) {
	for _, u := range r.data.Users {
		if u.UID == uid {
			return u, nil
		}
	}
	return nil, apperr.BadRequest("invalid uId")
}

// ProfileUser resolves removed users before active ones, so a removed
// account keeps displaying as "Removed user".
func (r *Registry) ProfileUser(uid int64) (*models.User, error) {
	for _, u := range r.data.RemovedUsers {
		if u.UID == uid {
			return u, nil
		}
	}
	return r.User(uid)
}

// UserByEmail matches case-insensitively among active users. Returns nil
// if not found.
func (r *Registry) UserByEmail(email string) *models.User {
	for _, u := range r.data.Users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

// UserByHandle matches exactly among active users. Returns nil if not found.
func (r *Registry) UserByHandle(handle string) *models.User {
	for _, u := range r.data.Users {
		if u.HandleStr == handle {
			return u
		}
	}
	return nil
}

func (r *Registry) AddUser(u *models.User) {
	r.data.Users = append(r.data.Users, u)
}

// RetireUser moves u from the active users to the removed users.
func (r *Registry) RetireUser(u *models.User) {
	r.data.Users = slices.DeleteFunc(r.data.Users, func(x *models.User) bool { return x == u })
	r.data.RemovedUsers = append(r.data.RemovedUsers, u)
}

func (r *Registry) CountGlobalOwners() int {
	n := 0
	for _, u := range r.data.Users {
		if u.IsGlobalOwner {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------
// Chats
// ---------------------------------------------------------------

func (r *Registry) Channels() []*models.Channel {
	return r.data.Channels
}

func (r *Registry) DMs() []*models.DM {
	return r.data.DMs
}

func (r *Registry) Channel(id int64) (*models.Channel, error) {
	for _, c := range r.data.Channels {
		if c.ChannelID == id {
			return c, nil
		}
	}
	return nil, apperr.BadRequest("invalid channelId")
}

func (r *Registry) DM(id int64) (*models.DM, error) {
	for _, dm := range r.data.DMs {
		if dm.DMID == id {
			return dm, nil
		}
	}
	return nil, apperr.BadRequest("invalid dmId")
}

// Chat resolves id in the shared channel/DM id space.
func (r *Registry) Chat(id int64) (models.Chat, error) {
	if ch, err := r.Channel(id); err == nil {
		return models.ChannelChat(ch), nil
	}
	if dm, err := r.DM(id); err == nil {
		return models.DMChat(dm), nil
	}
	return models.Chat{}, apperr.BadRequest("invalid channel/dm Id")
}

func (r *Registry) AddChannel(ch *models.Channel) {
	r.data.Channels = append(r.data.Channels, ch)
}

func (r *Registry) AddDM(dm *models.DM) {
	r.data.DMs = append(r.data.DMs, dm)
}

// DeleteDM hard-deletes dm and moves all of its messages to the removed
// collection.
func (r *Registry) DeleteDM(dm *models.DM) {
	r.data.DMs = slices.DeleteFunc(r.data.DMs, func(x *models.DM) bool { return x == dm })
	kept := r.data.Messages[:0]
	for _, m := range r.data.Messages {
		if m.ChatID == dm.DMID {
			r.data.RemovedMessages = append(r.data.RemovedMessages, m)
			continue
		}
		kept = append(kept, m)
	}
	r.data.Messages = kept
}

// ---------------------------------------------------------------
// Messages
// ---------------------------------------------------------------

func (r *Registry) Messages() []*models.Message {
	return r.data.Messages
}

// Message returns the active message with id that is visible at now.
func (r *Registry) Message(id, now int64) (*models.Message, error) {
	for _, m := range r.data.Messages {
		if m.MessageID == id && m.VisibleAt(now) {
			return m, nil
		}
	}
	return nil, apperr.BadRequest("invalid messageId")
}

// PendingMessage returns the active message with id regardless of its
// send time. Returns nil if it is gone.
func (r *Registry) PendingMessage(id int64) *models.Message {
	for _, m := range r.data.Messages {
		if m.MessageID == id {
			return m
		}
	}
	return nil
}

// StandupMessage returns the buffer message of the standup window in
// channelID ending at finish, or nil.
func (r *Registry) StandupMessage(channelID, finish int64) *models.Message {
	for _, m := range r.data.Messages {
		if m.IsStandup && m.ChatID == channelID && m.TimeSent == finish {
			return m
		}
	}
	return nil
}

func (r *Registry) AddMessage(m *models.Message) {
	r.data.Messages = append(r.data.Messages, m)
}

// RetireMessage moves m to the removed collection. Its id stays unique.
func (r *Registry) RetireMessage(m *models.Message) {
	r.data.Messages = slices.DeleteFunc(r.data.Messages, func(x *models.Message) bool { return x == m })
	r.data.RemovedMessages = append(r.data.RemovedMessages, m)
}

// AddPendingDelivery records that messageID still awaits delivery.
func (r *Registry) AddPendingDelivery(messageID int64) {
	r.data.PendingDeliveries = append(r.data.PendingDeliveries, messageID)
}

// PendingDeliveries returns the ids of scheduled messages not yet
// delivered.
func (r *Registry) PendingDeliveries() []int64 {
	return r.data.PendingDeliveries
}

// TakePendingDelivery removes messageID from the pending list. It reports
// false if the delivery already happened (or was never scheduled), so a
// delivery runs at most once.
func (r *Registry) TakePendingDelivery(messageID int64) bool {
	i := slices.Index(r.data.PendingDeliveries, messageID)
	if i < 0 {
		return false
	}
	r.data.PendingDeliveries = slices.Delete(r.data.PendingDeliveries, i, i+1)
	return true
}

// ---------------------------------------------------------------
// Notifications and reset codes
// ---------------------------------------------------------------

// PushNotification prepends n, keeping the feed most-recent-first.
func (r *Registry) PushNotification(n models.Notification) {
	r.data.Notifications = slices.Insert(r.data.Notifications, 0, n)
}

func (r *Registry) Notifications() []models.Notification {
	return r.data.Notifications
}

func (r *Registry) AddResetCode(code models.ResetCode) {
	r.data.ResetCodes = append(r.data.ResetCodes, code)
}

// TakeResetCode removes and returns the entry for code.
func (r *Registry) TakeResetCode(code string) (models.ResetCode, bool) {
	for i, c := range r.data.ResetCodes {
		if c.ResetCode == code {
			r.data.ResetCodes = slices.Delete(r.data.ResetCodes, i, i+1)
			return c, true
		}
	}
	return models.ResetCode{}, false
}

// FindResetCode looks up code without consuming it.
func (r *Registry) FindResetCode(code string) (models.ResetCode, bool) {
	for _, c := range r.data.ResetCodes {
		if c.ResetCode == code {
			return c, true
		}
	}
	return models.ResetCode{}, false
}

// DropResetCodes discards every pending code of uid.
func (r *Registry) DropResetCodes(uid int64) {
	r.data.ResetCodes = slices.DeleteFunc(r.data.ResetCodes, func(c models.ResetCode) bool { return c.UID == uid })
}
