package workspace

import (
	"context"
	"slices"
	"strings"

	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/perm"
	"golang.org/x/text/cases"
)

// Search matches query case-insensitively against every visible message
// in the chats actor belongs to.
func (s *Service) Search(actor *models.User, query string) ([]MessageView, error) {
	if err := apperr.CheckLength(query, 1, maxMessageLen); err != nil {
		return nil, err
	}
	// A Caser keeps state between calls, so each search gets its own.
	fold := cases.Fold()
	needle := fold.String(query)
	now := s.unix()

	out := make([]MessageView, 0)
	for _, m := range s.reg.Messages() {
		if !m.VisibleAt(now) {
			continue
		}
		chat, err := s.reg.Chat(m.ChatID)
		if err != nil || !chat.HasMember(actor.UID) {
			continue
		}
		if strings.Contains(fold.String(m.Message), needle) {
			out = append(out, viewFor(m, actor.UID))
		}
	}
	return out, nil
}

// Share reposts a message into exactly one of channelID and dmID (the
// other is -1) as "<note>: <original>". Only the note is scanned for tags.
func (s *Service) Share(ctx context.Context, actor *models.User, ogMessageID, channelID, dmID int64, note string) (int64, error) {
	if (channelID == -1) == (dmID == -1) {
		return 0, apperr.BadRequest("invalid channel and dm id input format")
	}
	var target models.Chat
	if dmID == -1 {
		ch, err := s.reg.Channel(channelID)
		if err != nil {
			return 0, err
		}
		target = models.ChannelChat(ch)
	} else {
		dm, err := s.reg.DM(dmID)
		if err != nil {
			return 0, err
		}
		target = models.DMChat(dm)
	}
	if !target.HasMember(actor.UID) {
		return 0, apperr.Forbidden("authorised user is not a part of the channel/DM that they are sharing to")
	}
	if err := apperr.CheckLength(note, 0, maxMessageLen); err != nil {
		return 0, err
	}

	now := s.unix()
	og, err := s.reg.Message(ogMessageID, now)
	if err != nil {
		return 0, err
	}
	source, err := s.reg.Chat(og.ChatID)
	if err != nil {
		return 0, err
	}
	if !source.HasMember(actor.UID) {
		return 0, apperr.BadRequest("authorised user is not a part of the channel/DM that the original message is within")
	}

	body := []rune(note + ": " + og.Message)
	if len(body) > maxMessageLen {
		body = body[:maxMessageLen]
	}
	shared := s.newMessage(actor.UID, target.ID(), string(body), now)
	s.reg.AddMessage(shared)
	s.feed.TagMentioned(actor, target, note)

	if err := s.commit(ctx); err != nil {
		return 0, err
	}
	return shared.MessageID, nil
}

// reactable resolves a visible message in a chat actor belongs to.
func (s *Service) reactable(actor *models.User, messageID int64, reactID int) (*models.Message, models.Chat, error) {
	m, err := s.reg.Message(messageID, s.unix())
	if err != nil {
		return nil, models.Chat{}, err
	}
	chat, err := s.reg.Chat(m.ChatID)
	if err != nil {
		return nil, models.Chat{}, err
	}
	if reactID != ReactLike {
		return nil, models.Chat{}, apperr.BadRequest("invalid react id")
	}
	if !chat.HasMember(actor.UID) {
		return nil, models.Chat{}, apperr.BadRequest("authorised user is not a part of the channel/DM that the message is within")
	}
	return m, chat, nil
}

// React adds actor's reaction and tells the author, if they are still in
// the chat.
func (s *Service) React(ctx context.Context, actor *models.User, messageID int64, reactID int) error {
	m, chat, err := s.reactable(actor, messageID, reactID)
	if err != nil {
		return err
	}
	r := m.React(reactID)
	if r != nil && slices.Contains(r.UIDs, actor.UID) {
		return apperr.BadRequest("message has already been reacted to with this react ID by the authorised user")
	}

	if r == nil {
		m.Reacts = append(m.Reacts, models.React{ReactID: reactID, UIDs: []int64{actor.UID}})
	} else {
		r.UIDs = append(r.UIDs, actor.UID)
	}
	if chat.HasMember(m.UID) {
		if author, err := s.reg.User(m.UID); err == nil {
			s.feed.Reacted(actor, author, chat)
		}
	}
	return s.commit(ctx)
}

// Unreact removes actor's reaction. It fails if the message is not visible
// to actor, reactID is unknown, or actor has not reacted with it. The
// author is not notified.
func (s *Service) Unreact(ctx context.Context, actor *models.User, messageID int64, reactID int) error {
	m, _, err := s.reactable(actor, messageID, reactID)
	if err != nil {
		return err
	}
	r := m.React(reactID)
	if r == nil || !slices.Contains(r.UIDs, actor.UID) {
		return apperr.BadRequest("the message does not contain a react with reactID from the authorised user")
	}

	r.UIDs = removeID(r.UIDs, actor.UID)
	return s.commit(ctx)
}

// Pin marks a message as pinned in its chat.
//
// Rules:
//   - The message must be visible (a scheduled message is not pinnable
//     before its send time) and in a chat actor belongs to.
//   - actor must own the chat. Global owners count for channels, not for
//     DMs, where only the DM's creator can pin.
//   - Pinning an already pinned message is an error, not a no-op.
func (s *Service) Pin(ctx context.Context, actor *models.User, messageID int64) error {
	return s.setPinned(ctx, actor, messageID, true)
}

// Unpin is the inverse of Pin, with the same rules.
func (s *Service) Unpin(ctx context.Context, actor *models.User, messageID int64) error {
	return s.setPinned(ctx, actor, messageID, false)
}

func (s *Service) setPinned(ctx context.Context, actor *models.User, messageID int64, pinned bool) error {
	m, err := s.reg.Message(messageID, s.unix())
	if err != nil {
		return err
	}
	chat, err := s.reg.Chat(m.ChatID)
	if err != nil {
		return err
	}
	if !chat.HasMember(actor.UID) {
		return apperr.BadRequest("message ID invalid in channels/DMs the authorised user is part of")
	}
	if err := perm.CheckOwnerPerms(actor, chat); err != nil {
		return err
	}
	if m.IsPinned == pinned {
		if pinned {
			return apperr.BadRequest("message is already pinned")
		}
		return apperr.BadRequest("message is already not pinned")
	}

	m.IsPinned = pinned
	return s.commit(ctx)
}
