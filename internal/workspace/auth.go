package workspace

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/auth"
	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/stats"
	"go.uber.org/zap"
)

const (
	minPasswordLen = 6
	maxNameLen     = 50
	maxHandleLen   = 20
)

var nonWord = regexp.MustCompile(`\W`)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token      string `json:"token"`
	AuthUserID int64  `json:"authUserId"`
}

func (s *Service) checkEmail(email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return apperr.BadRequest("email is invalid")
	}
	return nil
}

// Register creates an account and logs it in. The first active user
// becomes a global owner.
func (s *Service) Register(ctx context.Context, email, password, nameFirst, nameLast string) (AuthResult, error) {
	email = strings.ToLower(email)
	if err := apperr.CheckLength(nameFirst, 1, maxNameLen); err != nil {
		return AuthResult{}, err
	}
	if err := apperr.CheckLength(nameLast, 1, maxNameLen); err != nil {
		return AuthResult{}, err
	}
	if err := s.checkEmail(email); err != nil {
		return AuthResult{}, err
	}
	if s.reg.UserByEmail(email) != nil {
		return AuthResult{}, apperr.BadRequest("email is already registered")
	}
	if len(password) < minPasswordLen {
		return AuthResult{}, apperr.BadRequest("password needs to be at least six characters")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, err
	}
	uid := s.reg.NextID()
	token, session, err := s.issuer.Issue(uid)
	if err != nil {
		return AuthResult{}, err
	}

	now := s.unix()
	data := s.reg.Data()
	if data.WorkspaceStats == nil {
		data.WorkspaceStats = stats.NewWorkspaceStats(now)
	}
	u := &models.User{
		UID:           uid,
		Email:         email,
		PasswordHash:  hash,
		NameFirst:     nameFirst,
		NameLast:      nameLast,
		HandleStr:     s.generateHandle(nameFirst, nameLast),
		ProfileImgURL: s.defaultImg,
		IsGlobalOwner: len(s.reg.Users()) == 0,
		Tokens:        []string{session},
		Stats:         stats.NewUserStats(now),
	}
	s.reg.AddUser(u)

	if err := s.commit(ctx); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, AuthUserID: uid}, nil
}

// generateHandle lowercases first+last, strips non-word characters, cuts
// to 20 and appends the smallest counter ("", "0", "1", ...) that is free
// among active users.
func (s *Service) generateHandle(nameFirst, nameLast string) string {
	base := nonWord.ReplaceAllString(strings.ToLower(nameFirst+nameLast), "")
	if len(base) > maxHandleLen {
		base = base[:maxHandleLen]
	}
	if s.reg.UserByHandle(base) == nil {
		return base
	}
	for n := 0; ; n++ {
		candidate := base + strconv.Itoa(n)
		if s.reg.UserByHandle(candidate) == nil {
			return candidate
		}
	}
}

// Login starts a new session. Existing sessions stay valid.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u := s.reg.UserByEmail(strings.ToLower(email))
	if u == nil {
		return AuthResult{}, apperr.BadRequest("email is not registered")
	}
	if !s.hasher.Matches(u.PasswordHash, password) {
		return AuthResult{}, apperr.BadRequest("incorrect password")
	}

	token, session, err := s.issuer.Issue(u.UID)
	if err != nil {
		return AuthResult{}, err
	}
	u.Tokens = append(u.Tokens, session)

	if err := s.commit(ctx); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, AuthUserID: u.UID}, nil
}

// Logout invalidates the session behind token only.
func (s *Service) Logout(ctx context.Context, actor *models.User, token string) error {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return err
	}
	session := auth.HashSession(claims.SessionID)
	actor.Tokens = slices.DeleteFunc(actor.Tokens, func(t string) bool { return t == session })
	return s.commit(ctx)
}

// RequestPasswordReset logs the account out everywhere and mails it a
// reset code. An unknown email succeeds silently.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u := s.reg.UserByEmail(strings.ToLower(email))
	if u == nil {
		return nil
	}

	code := uuid.NewString()
	u.Tokens = []string{}
	s.reg.AddResetCode(models.ResetCode{ResetCode: code, UID: u.UID})
	if err := s.commit(ctx); err != nil {
		return err
	}

	if err := s.mailer.SendResetCode(ctx, u.Email, code); err != nil {
		// The code is stored either way; the user can ask again.
		s.logger.Warn("failed to send reset email", zap.Int64("uid", u.UID), zap.Error(err))
	}
	return nil
}

// ResetPassword consumes code and sets the new password.
func (s *Service) ResetPassword(ctx context.Context, code, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return apperr.BadRequest("password needs to be at least six characters")
	}
	rc, ok := s.reg.FindResetCode(code)
	if !ok {
		return apperr.BadRequest("invalid reset code")
	}
	u, err := s.reg.User(rc.UID)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	u.PasswordHash = hash
	s.reg.TakeResetCode(code)
	return s.commit(ctx)
}
