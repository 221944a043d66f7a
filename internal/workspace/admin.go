package workspace

import (
	"context"

	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/models"
	"go.uber.org/zap"
)

// Permission levels accepted by SetPermission.
const (
	PermissionOwner  = 1
	PermissionMember = 2
)

const removedUserText = "Removed user"

// RemoveUser retires uid from the workspace. Their messages read
// "Removed user", they leave every chat, and all their sessions end.
func (s *Service) RemoveUser(ctx context.Context, actor *models.User, uid int64) error {
	if !actor.IsGlobalOwner {
		return apperr.Forbidden("only owners can remove members")
	}
	u, err := s.reg.User(uid)
	if err != nil {
		return err
	}
	if u.IsGlobalOwner && s.reg.CountGlobalOwners() == 1 {
		return apperr.BadRequest("you cannot remove yourself as the only global owner")
	}

	for _, m := range s.reg.Messages() {
		if m.UID == u.UID {
			m.Message = removedUserText
		}
	}
	for _, ch := range s.reg.Channels() {
		ch.MemberIDs = removeID(ch.MemberIDs, u.UID)
		ch.OwnerIDs = removeID(ch.OwnerIDs, u.UID)
	}
	for _, dm := range s.reg.DMs() {
		dm.MemberIDs = removeID(dm.MemberIDs, u.UID)
		if dm.OwnerID != nil && *dm.OwnerID == u.UID {
			dm.OwnerID = nil
		}
	}
	u.NameFirst = "Removed"
	u.NameLast = "user"
	u.Tokens = []string{}
	s.reg.DropResetCodes(u.UID)
	s.reg.RetireUser(u)

	s.logger.Info("user removed", zap.Int64("uid", u.UID), zap.Int64("by", actor.UID))
	return s.commit(ctx)
}

// SetPermission makes uid a global owner (1) or a plain member (2). The
// last global owner cannot be demoted.
func (s *Service) SetPermission(ctx context.Context, actor *models.User, uid int64, permissionID int) error {
	if !actor.IsGlobalOwner {
		return apperr.Forbidden("only owners can change permissions")
	}
	u, err := s.reg.User(uid)
	if err != nil {
		return err
	}

	switch permissionID {
	case PermissionOwner:
		if u.IsGlobalOwner {
			return apperr.BadRequest("already has owner permission")
		}
	case PermissionMember:
		if !u.IsGlobalOwner {
			return apperr.BadRequest("already has user permission")
		}
		if s.reg.CountGlobalOwners() == 1 {
			return apperr.BadRequest("there must be at least one global owner at all times")
		}
	default:
		return apperr.BadRequest("invalid permission id")
	}

	u.IsGlobalOwner = permissionID == PermissionOwner
	return s.commit(ctx)
}
