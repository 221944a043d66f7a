package workspace

import (
	"context"
	"slices"
	"strings"

	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/perm"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type DMSummary struct {
	DMID int64  `json:"dmId"`
	Name string `json:"name"`
}

type DMDetails struct {
	Name    string           `json:"name"`
	Members []models.Profile `json:"members"`
}

// dmName sorts the member handles alphabetically and joins them.
func dmName(handles []string) string {
	collate.New(language.English).SortStrings(handles)
	return strings.Join(handles, ", ")
}

// CreateDM opens a DM between actor (its owner) and uids. Each invitee is
// notified.
func (s *Service) CreateDM(ctx context.Context, actor *models.User, uids []int64) (int64, error) {
	invitees := make([]*models.User, 0, len(uids))
	for _, uid := range uids {
		u, err := s.reg.User(uid)
		if err != nil {
			return 0, err
		}
		invitees = append(invitees, u)
	}
	memberIDs := append([]int64{actor.UID}, uids...)
	seen := make(map[int64]bool, len(memberIDs))
	for _, id := range memberIDs {
		if seen[id] {
			return 0, apperr.BadRequest("duplicate uIds provided")
		}
		seen[id] = true
	}

	handles := []string{actor.HandleStr}
	for _, u := range invitees {
		handles = append(handles, u.HandleStr)
	}
	owner := actor.UID
	dm := &models.DM{
		DMID:      s.reg.NextID(),
		Name:      dmName(handles),
		OwnerID:   &owner,
		MemberIDs: memberIDs,
	}
	s.reg.AddDM(dm)
	for _, u := range invitees {
		s.feed.Added(actor, u, models.DMChat(dm))
	}

	if err := s.commit(ctx); err != nil {
		return 0, err
	}
	return dm.DMID, nil
}

func (s *Service) ListDMs(actor *models.User) []DMSummary {
	out := make([]DMSummary, 0)
	for _, dm := range s.reg.DMs() {
		if slices.Contains(dm.MemberIDs, actor.UID) {
			out = append(out, DMSummary{DMID: dm.DMID, Name: dm.Name})
		}
	}
	return out
}

func (s *Service) DMDetails(actor *models.User, dmID int64) (DMDetails, error) {
	dm, err := s.reg.DM(dmID)
	if err != nil {
		return DMDetails{}, err
	}
	if !slices.Contains(dm.MemberIDs, actor.UID) {
		return DMDetails{}, apperr.Forbidden("user is not a member of the dm")
	}
	members, err := s.profiles(dm.MemberIDs)
	if err != nil {
		return DMDetails{}, err
	}
	return DMDetails{Name: dm.Name, Members: members}, nil
}

// LeaveDM removes actor. If actor owned the DM it becomes ownerless and
// can no longer be removed by anyone.
func (s *Service) LeaveDM(ctx context.Context, actor *models.User, dmID int64) error {
	dm, err := s.reg.DM(dmID)
	if err != nil {
		return err
	}
	if !slices.Contains(dm.MemberIDs, actor.UID) {
		return apperr.Forbidden("user is not a member of the dm")
	}

	dm.MemberIDs = removeID(dm.MemberIDs, actor.UID)
	if dm.OwnerID != nil && *dm.OwnerID == actor.UID {
		dm.OwnerID = nil
	}
	return s.commit(ctx)
}

// RemoveDM deletes the DM and retires all of its messages. Only the
// present owner may do it.
func (s *Service) RemoveDM(ctx context.Context, actor *models.User, dmID int64) error {
	dm, err := s.reg.DM(dmID)
	if err != nil {
		return err
	}
	if err := perm.CheckOwnerPerms(actor, models.DMChat(dm)); err != nil {
		return err
	}

	s.reg.DeleteDM(dm)
	return s.commit(ctx)
}
