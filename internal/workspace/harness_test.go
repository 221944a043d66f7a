package workspace

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/lalith-99/beans/internal/auth"
	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/repository/memory"
	"github.com/lalith-99/beans/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type job struct {
	at time.Time
	fn func()
}

// manualScheduler queues callbacks until the test fires them.
type manualScheduler struct {
	jobs []job
}

func (s *manualScheduler) At(when time.Time, fn func()) {
	s.jobs = append(s.jobs, job{at: when, fn: fn})
}

// RunDue fires, in deadline order, every job due at now.
func (s *manualScheduler) RunDue(now time.Time) int {
	sort.SliceStable(s.jobs, func(i, j int) bool { return s.jobs[i].at.Before(s.jobs[j].at) })
	var pending []job
	fired := 0
	for _, j := range s.jobs {
		if j.at.After(now) {
			pending = append(pending, j)
			continue
		}
		j.fn()
		fired++
	}
	s.jobs = pending
	return fired
}

type sentCode struct {
	to, code string
}

type recordingMailer struct {
	sent []sentCode
}

func (m *recordingMailer) SendResetCode(_ context.Context, to, code string) error {
	m.sent = append(m.sent, sentCode{to: to, code: code})
	return nil
}

type harness struct {
	svc    *Service
	clock  *fakeClock
	sched  *manualScheduler
	repo   *memory.SnapshotStore
	mailer *recordingMailer
	ctx    context.Context
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:  &fakeClock{now: time.Unix(1_700_000_000, 0)},
		sched:  &manualScheduler{},
		repo:   memory.NewSnapshotStore(),
		mailer: &recordingMailer{},
		ctx:    context.Background(),
	}
	h.svc = h.service(t, store.NewRegistry(nil, store.NewSequence(1)))
	return h
}

// service builds a Service over reg that shares the harness collaborators.
func (h *harness) service(t *testing.T, reg *store.Registry) *Service {
	return New(Deps{
		Registry:          reg,
		Repo:              h.repo,
		Issuer:            auth.NewIssuer("test-secret", 0),
		Hasher:            auth.NewHasher(bcrypt.MinCost),
		Mailer:            h.mailer,
		Clock:             h.clock,
		Scheduler:         h.sched,
		Logger:            zaptest.NewLogger(t),
		DefaultProfileImg: "/static/default.jpg",
	})
}

// advance moves the clock and fires whatever came due.
func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.sched.RunDue(h.clock.Now())
}

func (h *harness) register(t *testing.T, first, last string) (*models.User, string) {
	t.Helper()
	res, err := h.svc.Register(h.ctx, first+"."+last+"@example.com", "password123", first, last)
	require.NoError(t, err)
	u, err := h.svc.Registry().User(res.AuthUserID)
	require.NoError(t, err)
	return u, res.Token
}

func (h *harness) channel(t *testing.T, owner *models.User, name string, public bool) int64 {
	t.Helper()
	id, err := h.svc.CreateChannel(h.ctx, owner, name, public)
	require.NoError(t, err)
	return id
}

func (h *harness) send(t *testing.T, actor *models.User, chatID int64, body string) int64 {
	t.Helper()
	id, err := h.svc.Send(h.ctx, actor, chatID, body, nil)
	require.NoError(t, err)
	return id
}

func ptr[T any](v T) *T { return &v }
