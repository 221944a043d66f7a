package workspace

import (
	"context"
	"slices"

	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/models"
	"go.uber.org/zap"
)

// StandupStatus is the public view of a channel's standup.
type StandupStatus struct {
	IsActive   bool   `json:"isActive"`
	TimeFinish *int64 `json:"timeFinish"`
}

// resolveStandup returns an expired standup to idle. It reports whether
// anything changed.
func (s *Service) resolveStandup(ch *models.Channel) bool {
	st := &ch.Standup
	if !st.IsActive && st.TimeFinish == nil && st.CreatorID == nil {
		return false
	}
	if st.TimeFinish != nil && *st.TimeFinish > s.unix() {
		return false
	}
	*st = models.Standup{}
	return true
}

// StartStandup opens a window of length seconds. Lines sent during it
// are collected into one message posted at the finish time.
func (s *Service) StartStandup(ctx context.Context, actor *models.User, channelID, length int64) (int64, error) {
	ch, err := s.reg.Channel(channelID)
	if err != nil {
		return 0, err
	}
	s.resolveStandup(ch)

	if !slices.Contains(ch.MemberIDs, actor.UID) {
		return 0, apperr.Forbidden("user is not a member of the channel")
	}
	if length < 0 {
		return 0, apperr.BadRequest("invalid time length")
	}
	if ch.Standup.IsActive {
		return 0, apperr.BadRequest("already an active standup in channel")
	}

	finish := s.unix() + length
	creator := actor.UID
	ch.Standup = models.Standup{IsActive: true, TimeFinish: &finish, CreatorID: &creator}
	s.schedule(finish, s.flushStandupFunc(ch.ChannelID))

	if err := s.commit(ctx); err != nil {
		return 0, err
	}
	return finish, nil
}

// ActiveStandup reports the standup state after resolving expiry.
func (s *Service) ActiveStandup(ctx context.Context, actor *models.User, channelID int64) (StandupStatus, error) {
	ch, err := s.reg.Channel(channelID)
	if err != nil {
		return StandupStatus{}, err
	}
	if !slices.Contains(ch.MemberIDs, actor.UID) {
		return StandupStatus{}, apperr.Forbidden("user is not a member of the channel")
	}

	if s.resolveStandup(ch) {
		if err := s.commit(ctx); err != nil {
			return StandupStatus{}, err
		}
	}
	return StandupStatus{IsActive: ch.Standup.IsActive, TimeFinish: ch.Standup.TimeFinish}, nil
}

// SendStandup appends "<handle>: <line>" to the pending standup message,
// creating it on the first line.
func (s *Service) SendStandup(ctx context.Context, actor *models.User, channelID int64, line string) error {
	ch, err := s.reg.Channel(channelID)
	if err != nil {
		return err
	}
	s.resolveStandup(ch)

	if !slices.Contains(ch.MemberIDs, actor.UID) {
		return apperr.Forbidden("user is not a member of the channel")
	}
	if !ch.Standup.IsActive {
		return apperr.BadRequest("no standup active")
	}
	if err := apperr.CheckLength(line, 0, maxMessageLen); err != nil {
		return err
	}

	entry := actor.HandleStr + ": " + line
	finish := *ch.Standup.TimeFinish
	if m := s.reg.StandupMessage(ch.ChannelID, finish); m != nil {
		m.Message += "\n" + entry
	} else {
		m = s.newMessage(*ch.Standup.CreatorID, ch.ChannelID, entry, finish)
		m.IsStandup = true
		s.reg.AddMessage(m)
	}
	return s.commit(ctx)
}

// flushStandupFunc returns the callback fired at a standup's finish time.
// It closes the window so the buffered message is counted as posted.
func (s *Service) flushStandupFunc(channelID int64) func() {
	return func() {
		ch, err := s.reg.Channel(channelID)
		if err != nil {
			return
		}
		s.resolveStandup(ch)
		if err := s.commit(context.Background()); err != nil {
			s.logger.Error("failed to flush standup", zap.Int64("channel_id", channelID), zap.Error(err))
		}
	}
}
