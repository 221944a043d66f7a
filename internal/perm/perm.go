// Package perm answers "may user U act on chat C" questions. It never
// mutates anything.
package perm

import (
	"slices"

	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/models"
)

func IsMember(u *models.User, chat models.Chat) bool {
	return chat.HasMember(u.UID)
}

func IsChannelOwner(uid int64, ch *models.Channel) bool {
	return slices.Contains(ch.OwnerIDs, uid)
}

// HasOwnerPerms: a channel owner, or a global owner who is a member; for a
// DM only its (present) owner.
func HasOwnerPerms(u *models.User, chat models.Chat) bool {
	switch chat.Kind {
	case models.KindChannel:
		ch := chat.Channel
		return IsChannelOwner(u.UID, ch) ||
			(slices.Contains(ch.MemberIDs, u.UID) && u.IsGlobalOwner)
	case models.KindDM:
		return chat.DM.OwnerID != nil && *chat.DM.OwnerID == u.UID
	}
	return false
}

// CheckOwnerPerms is HasOwnerPerms as a guard.
func CheckOwnerPerms(u *models.User, chat models.Chat) error {
	if !HasOwnerPerms(u, chat) {
		return apperr.Forbidden("user does not have owner permissions in the channel/dm")
	}
	return nil
}

// CheckMember fails Forbidden unless u belongs to chat.
func CheckMember(u *models.User, chat models.Chat) error {
	if !IsMember(u, chat) {
		return apperr.Forbidden("authorised user is not a member of the specified channel/dm")
	}
	return nil
}

// CanJoin reports whether u may join ch on its own.
func CanJoin(u *models.User, ch *models.Channel) bool {
	return ch.IsPublic || u.IsGlobalOwner
}
