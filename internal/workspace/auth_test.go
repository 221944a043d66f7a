package workspace

import (
	"strings"
	"testing"

	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_FirstUserIsGlobalOwner(t *testing.T) {
	h := newHarness(t)
	a, _ := h.register(t, "Alice", "Smith")
	b, _ := h.register(t, "Bob", "Jones")

	assert.True(t, a.IsGlobalOwner)
	assert.False(t, b.IsGlobalOwner)
	assert.Equal(t, "/static/default.jpg", a.ProfileImgURL)
	assert.Positive(t, h.repo.Saves())
}

func TestRegister_GeneratesUniqueHandles(t *testing.T) {
	h := newHarness(t)
	first, err := h.svc.Register(h.ctx, "one@example.com", "password", "John-Paul", "Smith!")
	require.NoError(t, err)
	second, err := h.svc.Register(h.ctx, "two@example.com", "password", "John", "Paulsmith")
	require.NoError(t, err)
	third, err := h.svc.Register(h.ctx, "three@example.com", "password", "johnpaul", "smith")
	require.NoError(t, err)
	long, err := h.svc.Register(h.ctx, "four@example.com", "password", "Abcdefghijklmno", "Pqrstuvwxyz")
	require.NoError(t, err)

	handle := func(uid int64) string {
		p, err := h.svc.Profile(nil, uid)
		require.NoError(t, err)
		return p.HandleStr
	}
	assert.Equal(t, "johnpaulsmith", handle(first.AuthUserID))
	assert.Equal(t, "johnpaulsmith0", handle(second.AuthUserID))
	assert.Equal(t, "johnpaulsmith1", handle(third.AuthUserID))
	assert.Equal(t, "abcdefghijklmnopqrst", handle(long.AuthUserID))
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Register(h.ctx, "taken@example.com", "password", "A", "B")
	require.NoError(t, err)

	tests := []struct {
		name                   string
		email, pass, fst, last string
	}{
		{"bad email", "not-an-email", "password", "A", "B"},
		{"duplicate email any case", "TAKEN@example.com", "password", "A", "B"},
		{"short password", "new@example.com", "12345", "A", "B"},
		{"empty first name", "new@example.com", "password", "", "B"},
		{"long last name", "new@example.com", "password", "A", strings.Repeat("x", 51)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Register(h.ctx, tt.email, tt.pass, tt.fst, tt.last)
			assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
		})
	}
}

func TestLoginLogout(t *testing.T) {
	h := newHarness(t)
	a, first := h.register(t, "Alice", "Smith")

	_, err := h.svc.Login(h.ctx, "alice.smith@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
	_, err = h.svc.Login(h.ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)

	res, err := h.svc.Login(h.ctx, "ALICE.smith@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, a.UID, res.AuthUserID)
	assert.NotEqual(t, first, res.Token)

	require.NoError(t, h.svc.Logout(h.ctx, a, first))
	_, err = h.svc.Authenticate(first)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	u, err := h.svc.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, a.UID, u.UID)
}

func TestPasswordReset(t *testing.T) {
	h := newHarness(t)
	a, token := h.register(t, "Alice", "Smith")

	require.NoError(t, h.svc.RequestPasswordReset(h.ctx, "nobody@example.com"))
	assert.Empty(t, h.mailer.sent)

	require.NoError(t, h.svc.RequestPasswordReset(h.ctx, "alice.smith@example.com"))
	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, a.Email, h.mailer.sent[0].to)
	_, err := h.svc.Authenticate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "reset request ends every session")

	code := h.mailer.sent[0].code
	assert.ErrorIs(t, h.svc.ResetPassword(h.ctx, code, "short"), apperr.ErrInvalidRequest)
	assert.ErrorIs(t, h.svc.ResetPassword(h.ctx, "bogus", "newpassword"), apperr.ErrInvalidRequest)

	require.NoError(t, h.svc.ResetPassword(h.ctx, code, "newpassword"))
	assert.ErrorIs(t, h.svc.ResetPassword(h.ctx, code, "another1"), apperr.ErrInvalidRequest, "codes are single use")

	_, err = h.svc.Login(h.ctx, a.Email, "password123")
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
	_, err = h.svc.Login(h.ctx, a.Email, "newpassword")
	assert.NoError(t, err)
}

func TestProfileEdits(t *testing.T) {
	h := newHarness(t)
	a, _ := h.register(t, "Alice", "Smith")
	b, _ := h.register(t, "Bob", "Jones")

	require.NoError(t, h.svc.SetName(h.ctx, a, "Alicia", "Smythe"))
	assert.Equal(t, "Alicia", a.NameFirst)
	assert.ErrorIs(t, h.svc.SetName(h.ctx, a, "", "x"), apperr.ErrInvalidRequest)

	assert.ErrorIs(t, h.svc.SetEmail(h.ctx, a, b.Email), apperr.ErrInvalidRequest)
	assert.ErrorIs(t, h.svc.SetEmail(h.ctx, a, "nope"), apperr.ErrInvalidRequest)
	require.NoError(t, h.svc.SetEmail(h.ctx, a, "Alicia@Example.com"))
	assert.Equal(t, "alicia@example.com", a.Email)

	assert.ErrorIs(t, h.svc.SetHandle(h.ctx, a, b.HandleStr), apperr.ErrInvalidRequest)
	assert.ErrorIs(t, h.svc.SetHandle(h.ctx, a, "ab"), apperr.ErrInvalidRequest)
	assert.ErrorIs(t, h.svc.SetHandle(h.ctx, a, "has space"), apperr.ErrInvalidRequest)
	require.NoError(t, h.svc.SetHandle(h.ctx, a, "alicia"))

	all := h.svc.AllUsers(a)
	require.Len(t, all, 2)
	assert.Equal(t, "alicia", all[0].HandleStr)
}
