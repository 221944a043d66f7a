// Package workspace is the rule engine of the collaboration backend:
// membership and ownership, the message lifecycle, standups, notifications,
// admin actions, and the derived statistics recomputed after each change.
//
// A Service is not safe for concurrent use. Every call, including the
// callbacks it hands to its Scheduler, must run under one lock held by the
// caller.
package workspace

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lalith-99/beans/internal/auth"
	"github.com/lalith-99/beans/internal/mail"
	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/notify"
	"github.com/lalith-99/beans/internal/repository"
	"github.com/lalith-99/beans/internal/stats"
	"github.com/lalith-99/beans/internal/store"
	"go.uber.org/zap"
)

// Clock is the source of "now". Tests use a fake.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler runs fn once at (or soon after) when. Scheduled work is never
// cancelled; fn must tolerate the state having changed in the meantime.
type Scheduler interface {
	At(when time.Time, fn func())
}

type Deps struct {
	Registry          *store.Registry
	Repo              repository.SnapshotRepository
	Issuer            *auth.Issuer
	Hasher            *auth.Hasher
	Mailer            mail.Mailer
	Clock             Clock
	Scheduler         Scheduler
	Logger            *zap.Logger
	DefaultProfileImg string
}

// Service is the workspace rule engine. Each exported method is one API
// operation: it resolves the entities involved, checks permissions,
// mutates the registry and, if anything changed, commits.
//
// Validation always happens before the first mutation. There is no
// rollback, so a method either fails having changed nothing or applies
// its whole cascade (a user removal touches every chat and message).
//
// Deferred work (scheduled messages, standup windows) is handed to the
// Scheduler as callbacks. The callbacks re-resolve everything by id when
// they fire, because the chat, message or author may be gone by then.
type Service struct {
	reg        *store.Registry
	repo       repository.SnapshotRepository
	feed       *notify.Feed
	issuer     *auth.Issuer
	hasher     *auth.Hasher
	mailer     mail.Mailer
	clock      Clock
	sched      Scheduler
	logger     *zap.Logger
	defaultImg string
	validate   *validator.Validate
}

func New(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Service{
		reg:        d.Registry,
		repo:       d.Repo,
		feed:       notify.NewFeed(d.Registry),
		issuer:     d.Issuer,
		hasher:     d.Hasher,
		mailer:     d.Mailer,
		clock:      d.Clock,
		sched:      d.Scheduler,
		logger:     d.Logger,
		defaultImg: d.DefaultProfileImg,
		validate:   validator.New(),
	}
}

// unix is the current time in whole seconds, the resolution of every
// timestamp in the snapshot.
func (s *Service) unix() int64 {
	return s.clock.Now().Unix()
}

// commit recomputes the derived statistics and hands the snapshot to the
// repository. Every successful mutation ends here.
//
// By the time commit runs the mutation has already been applied in
// memory, so the save must not be cut short by the caller going away: a
// client that disconnects mid-request would otherwise get an error for a
// change that stays in place and is persisted by the next commit anyway.
// The save therefore keeps the request's values but drops its
// cancellation.
func (s *Service) commit(ctx context.Context) error {
	stats.Recompute(s.reg.Data(), s.unix())
	if err := s.repo.Save(context.WithoutCancel(ctx), s.reg.Data()); err != nil {
		s.logger.Error("failed to persist snapshot", zap.Error(err))
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

func (s *Service) schedule(at int64, fn func()) {
	s.sched.At(time.Unix(at, 0), fn)
}

// Authenticate resolves a bearer token to its active user. Any failure is
// auth.ErrInvalidToken.
func (s *Service) Authenticate(token string) (*models.User, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := s.reg.User(claims.UserID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	if !slices.Contains(u.Tokens, auth.HashSession(claims.SessionID)) {
		return nil, auth.ErrInvalidToken
	}
	return u, nil
}

// Clear wipes the workspace back to empty collections.
func (s *Service) Clear(ctx context.Context) error {
	s.reg.Reset()
	return s.commit(ctx)
}

// Restore reschedules the deferred work found in a freshly loaded
// snapshot: undelivered scheduled messages and running standups. Work
// whose deadline passed while the server was down is scheduled for now,
// so it still happens, only late.
func (s *Service) Restore() {
	now := s.unix()
	pending := 0
	for _, id := range s.reg.PendingDeliveries() {
		at := now
		if m := s.reg.PendingMessage(id); m != nil && m.TimeSent > now {
			at = m.TimeSent
		}
		s.schedule(at, s.deliverFunc(id))
		pending++
	}
	standups := 0
	for _, ch := range s.reg.Channels() {
		if ch.Standup.IsActive && ch.Standup.TimeFinish != nil {
			s.schedule(*ch.Standup.TimeFinish, s.flushStandupFunc(ch.ChannelID))
			standups++
		}
	}
	s.logger.Info("restored deferred work",
		zap.Int("pending_messages", pending),
		zap.Int("active_standups", standups),
	)
}

// Registry exposes the underlying store, for the CLI and tests.
func (s *Service) Registry() *store.Registry {
	return s.reg
}
