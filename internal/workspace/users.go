package workspace

import (
	"context"
	"strings"

	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/models"
)

const minHandleLen = 3

// Profile resolves removed users too, so old messages keep an author.
func (s *Service) Profile(actor *models.User, uid int64) (models.Profile, error) {
	u, err := s.reg.ProfileUser(uid)
	if err != nil {
		return models.Profile{}, err
	}
	return u.Profile(), nil
}

// AllUsers lists active users only.
func (s *Service) AllUsers(actor *models.User) []models.Profile {
	users := s.reg.Users()
	out := make([]models.Profile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile())
	}
	return out
}

func (s *Service) profiles(ids []int64) ([]models.Profile, error) {
	out := make([]models.Profile, 0, len(ids))
	for _, id := range ids {
		u, err := s.reg.ProfileUser(id)
		if err != nil {
			return nil, err
		}
		out = append(out, u.Profile())
	}
	return out, nil
}

func (s *Service) SetName(ctx context.Context, actor *models.User, nameFirst, nameLast string) error {
	if err := apperr.CheckLength(nameFirst, 1, maxNameLen); err != nil {
		return err
	}
	if err := apperr.CheckLength(nameLast, 1, maxNameLen); err != nil {
		return err
	}
	actor.NameFirst = nameFirst
	actor.NameLast = nameLast
	return s.commit(ctx)
}

func (s *Service) SetEmail(ctx context.Context, actor *models.User, email string) error {
	email = strings.ToLower(email)
	if err := s.checkEmail(email); err != nil {
		return err
	}
	if s.reg.UserByEmail(email) != nil {
		return apperr.BadRequest("email already belongs to a user")
	}
	actor.Email = email
	return s.commit(ctx)
}

func (s *Service) SetHandle(ctx context.Context, actor *models.User, handle string) error {
	if err := apperr.CheckLength(handle, minHandleLen, maxHandleLen); err != nil {
		return err
	}
	if s.reg.UserByHandle(handle) != nil {
		return apperr.BadRequest("handle already in use")
	}
	if nonWord.MatchString(handle) {
		return apperr.BadRequest("handle may only contain alphanumeric characters")
	}
	actor.HandleStr = handle
	return s.commit(ctx)
}
