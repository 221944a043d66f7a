package workspace

import (
	"context"
	"slices"
	"sort"

	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/perm"
	"go.uber.org/zap"
)

const (
	maxMessageLen = 1000
	pageSize      = 50

	// ReactLike is the only reaction kind clients may use.
	ReactLike = 1
)

// ReactView is a reaction annotated for the caller.
type ReactView struct {
	ReactID           int     `json:"reactId"`
	UIDs              []int64 `json:"uIds"`
	IsThisUserReacted bool    `json:"isThisUserReacted"`
}

// MessageView is what read operations return. It hides the chat id and
// the standup flag.
type MessageView struct {
	MessageID int64       `json:"messageId"`
	UID       int64       `json:"uId"`
	Message   string      `json:"message"`
	TimeSent  int64       `json:"timeSent"`
	Reacts    []ReactView `json:"reacts"`
	IsPinned  bool        `json:"isPinned"`
}

// Page is one page of chat history, newest first. End is -1 on the last page.
type Page struct {
	Messages []MessageView `json:"messages"`
	Start    int           `json:"start"`
	End      int           `json:"end"`
}

func viewFor(m *models.Message, uid int64) MessageView {
	reacts := make([]ReactView, 0, len(m.Reacts))
	for _, r := range m.Reacts {
		reacts = append(reacts, ReactView{
			ReactID:           r.ReactID,
			UIDs:              slices.Clone(r.UIDs),
			IsThisUserReacted: slices.Contains(r.UIDs, uid),
		})
	}
	return MessageView{
		MessageID: m.MessageID,
		UID:       m.UID,
		Message:   m.Message,
		TimeSent:  m.TimeSent,
		Reacts:    reacts,
		IsPinned:  m.IsPinned,
	}
}

func (s *Service) newMessage(uid, chatID int64, body string, timeSent int64) *models.Message {
	return &models.Message{
		MessageID: s.reg.NextID(),
		UID:       uid,
		ChatID:    chatID,
		Message:   body,
		TimeSent:  timeSent,
		Reacts:    []models.React{{ReactID: ReactLike, UIDs: []int64{}}},
	}
}

// touch resolves standup expiry when chat is a channel.
func (s *Service) touch(chat models.Chat) {
	if chat.Kind == models.KindChannel {
		s.resolveStandup(chat.Channel)
	}
}

// Send posts body into chat. A nil timeSent means now. A later timeSent
// stores the message right away but keeps it hidden, and tag
// notifications go out only once it is due.
func (s *Service) Send(ctx context.Context, actor *models.User, chatID int64, body string, timeSent *int64) (int64, error) {
	chat, err := s.reg.Chat(chatID)
	if err != nil {
		return 0, err
	}
	s.touch(chat)

	now := s.unix()
	if err := perm.CheckMember(actor, chat); err != nil {
		return 0, err
	}
	at := now
	if timeSent != nil {
		if *timeSent < now {
			return 0, apperr.BadRequest("cannot send a message in the past")
		}
		at = *timeSent
	}
	if err := apperr.CheckLength(body, 1, maxMessageLen); err != nil {
		return 0, err
	}

	m := s.newMessage(actor.UID, chat.ID(), body, at)
	s.reg.AddMessage(m)

	if at > now {
		s.reg.AddPendingDelivery(m.MessageID)
		s.schedule(at, s.deliverFunc(m.MessageID))
	} else {
		s.feed.TagMentioned(actor, chat, body)
	}
	if err := s.commit(ctx); err != nil {
		return 0, err
	}
	return m.MessageID, nil
}

// deliverFunc returns the callback that makes a scheduled message take
// effect. It runs at most once per message, even if a restart scheduled
// it again. The message, its chat or its author may be gone by then; the
// delivery is still marked done.
func (s *Service) deliverFunc(msgID int64) func() {
	return func() {
		if !s.reg.TakePendingDelivery(msgID) {
			return
		}
		if m := s.reg.PendingMessage(msgID); m != nil {
			chat, err := s.reg.Chat(m.ChatID)
			author, uerr := s.reg.User(m.UID)
			if err == nil && uerr == nil {
				s.feed.TagMentioned(author, chat, m.Message)
			}
		}
		if err := s.commit(context.Background()); err != nil {
			s.logger.Error("failed to deliver scheduled message", zap.Int64("message_id", msgID), zap.Error(err))
		}
	}
}

// editable returns the chat of m if actor may edit or remove it. Authors
// must still be members; anyone else needs owner permissions.
func (s *Service) editable(actor *models.User, m *models.Message) (models.Chat, error) {
	chat, err := s.reg.Chat(m.ChatID)
	if err != nil {
		return models.Chat{}, err
	}
	if m.UID != actor.UID {
		if err := perm.CheckOwnerPerms(actor, chat); err != nil {
			return models.Chat{}, err
		}
	} else if !chat.HasMember(actor.UID) {
		return models.Chat{}, apperr.BadRequest("user is not a member in the channel/dm")
	}
	return chat, nil
}

// Edit replaces the body of a message. An empty body removes it.
func (s *Service) Edit(ctx context.Context, actor *models.User, messageID int64, body string) error {
	m, err := s.reg.Message(messageID, s.unix())
	if err != nil {
		return err
	}
	chat, err := s.editable(actor, m)
	if err != nil {
		return err
	}
	if err := apperr.CheckLength(body, 0, maxMessageLen); err != nil {
		return err
	}
	if body == "" {
		return s.remove(ctx, chat, m)
	}
	if m.IsStandup {
		s.touch(chat)
	}

	m.Message = body
	s.feed.TagMentioned(actor, chat, body)
	return s.commit(ctx)
}

// Remove moves a message to the removed collection.
func (s *Service) Remove(ctx context.Context, actor *models.User, messageID int64) error {
	m, err := s.reg.Message(messageID, s.unix())
	if err != nil {
		return err
	}
	chat, err := s.editable(actor, m)
	if err != nil {
		return err
	}
	return s.remove(ctx, chat, m)
}

func (s *Service) remove(ctx context.Context, chat models.Chat, m *models.Message) error {
	if m.IsStandup {
		s.touch(chat)
	}
	s.reg.RetireMessage(m)
	return s.commit(ctx)
}

// ChannelMessages returns one page of a channel's history, newest first.
//
// Paging works on offsets: start indexes into the visible messages, a
// page holds up to 50, and End is the start of the next page or -1 when
// this page reaches the oldest message. A start past the end is an error;
// a start equal to the count returns an empty last page.
//
// Messages scheduled for the future stay hidden until their send time,
// even from their author.
func (s *Service) ChannelMessages(actor *models.User, channelID int64, start int) (Page, error) {
	ch, err := s.reg.Channel(channelID)
	if err != nil {
		return Page{}, err
	}
	return s.page(actor, models.ChannelChat(ch), start)
}

// DMMessages is ChannelMessages for a DM. Only current DM members may read
// it.
func (s *Service) DMMessages(actor *models.User, dmID int64, start int) (Page, error) {
	dm, err := s.reg.DM(dmID)
	if err != nil {
		return Page{}, err
	}
	return s.page(actor, models.DMChat(dm), start)
}

// page returns up to 50 visible messages of chat starting at start,
// most recent first. Messages sent in the same second keep newest-first
// insertion order.
func (s *Service) page(actor *models.User, chat models.Chat, start int) (Page, error) {
	if err := perm.CheckMember(actor, chat); err != nil {
		return Page{}, err
	}

	now := s.unix()
	var visible []*models.Message
	all := s.reg.Messages()
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if m.ChatID == chat.ID() && m.VisibleAt(now) {
			visible = append(visible, m)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].TimeSent > visible[j].TimeSent
	})

	if start < 0 || start > len(visible) {
		return Page{}, apperr.BadRequest("start is greater than the number of messages in the channel/dm")
	}
	end := start + pageSize
	last := min(end, len(visible))
	views := make([]MessageView, 0, last-start)
	for _, m := range visible[start:last] {
		views = append(views, viewFor(m, actor.UID))
	}
	if end >= len(visible) {
		end = -1
	}
	return Page{Messages: views, Start: start, End: end}, nil
}
