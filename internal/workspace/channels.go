package workspace

import (
	"context"
	"slices"

	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/perm"
)

const maxChannelNameLen = 20

type ChannelSummary struct {
	ChannelID int64  `json:"channelId"`
	Name      string `json:"name"`
}

type ChannelDetails struct {
	Name         string           `json:"name"`
	IsPublic     bool             `json:"isPublic"`
	OwnerMembers []models.Profile `json:"ownerMembers"`
	AllMembers   []models.Profile `json:"allMembers"`
}

// CreateChannel makes actor the sole owner and member of a new channel.
func (s *Service) CreateChannel(ctx context.Context, actor *models.User, name string, isPublic bool) (int64, error) {
	if err := apperr.CheckLength(name, 1, maxChannelNameLen); err != nil {
		return 0, err
	}

	ch := &models.Channel{
		ChannelID: s.reg.NextID(),
		Name:      name,
		IsPublic:  isPublic,
		OwnerIDs:  []int64{actor.UID},
		MemberIDs: []int64{actor.UID},
	}
	s.reg.AddChannel(ch)

	if err := s.commit(ctx); err != nil {
		return 0, err
	}
	return ch.ChannelID, nil
}

// ListChannels returns the channels actor belongs to.
func (s *Service) ListChannels(actor *models.User) []ChannelSummary {
	out := make([]ChannelSummary, 0)
	for _, ch := range s.reg.Channels() {
		if slices.Contains(ch.MemberIDs, actor.UID) {
			out = append(out, ChannelSummary{ChannelID: ch.ChannelID, Name: ch.Name})
		}
	}
	return out
}

// ListAllChannels returns every channel, private ones included.
func (s *Service) ListAllChannels(actor *models.User) []ChannelSummary {
	out := make([]ChannelSummary, 0, len(s.reg.Channels()))
	for _, ch := range s.reg.Channels() {
		out = append(out, ChannelSummary{ChannelID: ch.ChannelID, Name: ch.Name})
	}
	return out
}

func (s *Service) ChannelDetails(actor *models.User, channelID int64) (ChannelDetails, error) {
	ch, err := s.reg.Channel(channelID)
	if err != nil {
		return ChannelDetails{}, err
	}
	if !slices.Contains(ch.MemberIDs, actor.UID) {
		return ChannelDetails{}, apperr.Forbidden("authorised user is not a member of the specified channel")
	}

	owners, err := s.profiles(ch.OwnerIDs)
	if err != nil {
		return ChannelDetails{}, err
	}
	members, err := s.profiles(ch.MemberIDs)
	if err != nil {
		return ChannelDetails{}, err
	}
	return ChannelDetails{
		Name:         ch.Name,
		IsPublic:     ch.IsPublic,
		OwnerMembers: owners,
		AllMembers:   members,
	}, nil
}

// Join adds actor to a public channel; global owners may join private ones.
func (s *Service) Join(ctx context.Context, actor *models.User, channelID int64) error {
	ch, err := s.reg.Channel(channelID)
	if err != nil {
		return err
	}
	s.resolveStandup(ch)

	if !perm.CanJoin(actor, ch) {
		return apperr.Forbidden("non global owners may not join a private channel")
	}
	if slices.Contains(ch.MemberIDs, actor.UID) {
		return apperr.BadRequest("user already belongs to channel")
	}

	ch.MemberIDs = append(ch.MemberIDs, actor.UID)
	return s.commit(ctx)
}

// Invite adds uid to the channel immediately and notifies them.
func (s *Service) Invite(ctx context.Context, actor *models.User, channelID, uid int64) error {
	invitee, err := s.reg.User(uid)
	if err != nil {
		return err
	}
	ch, err := s.reg.Channel(channelID)
	if err != nil {
		return err
	}
	if !slices.Contains(ch.MemberIDs, actor.UID) {
		return apperr.Forbidden("user sending the invite is not a member of the specified channel")
	}
	if slices.Contains(ch.MemberIDs, invitee.UID) {
		return apperr.BadRequest("user being invited is already a member of the specified channel")
	}

	ch.MemberIDs = append(ch.MemberIDs, invitee.UID)
	s.feed.Added(actor, invitee, models.ChannelChat(ch))
	return s.commit(ctx)
}

// Leave removes actor from members and owners. The creator of a running
// standup cannot leave until it ends.
func (s *Service) Leave(ctx context.Context, actor *models.User, channelID int64) error {
	ch, err := s.reg.Channel(channelID)
	if err != nil {
		return err
	}
	s.resolveStandup(ch)

	if !slices.Contains(ch.MemberIDs, actor.UID) {
		return apperr.Forbidden("authorised user is not a member of the specified channel")
	}
	if ch.Standup.IsActive && ch.Standup.CreatorID != nil && *ch.Standup.CreatorID == actor.UID {
		return apperr.BadRequest("authorised user started the active standup")
	}

	ch.MemberIDs = removeID(ch.MemberIDs, actor.UID)
	ch.OwnerIDs = removeID(ch.OwnerIDs, actor.UID)
	return s.commit(ctx)
}

func (s *Service) AddOwner(ctx context.Context, actor *models.User, channelID, uid int64) error {
	target, err := s.reg.User(uid)
	if err != nil {
		return err
	}
	ch, err := s.reg.Channel(channelID)
	if err != nil {
		return err
	}
	if err := perm.CheckOwnerPerms(actor, models.ChannelChat(ch)); err != nil {
		return err
	}
	if !slices.Contains(ch.MemberIDs, target.UID) {
		return apperr.BadRequest("uId refers to someone who is not a member of the specified channel")
	}
	if perm.IsChannelOwner(target.UID, ch) {
		return apperr.BadRequest("uId refers to someone who is already an owner of the specified channel")
	}

	ch.OwnerIDs = append(ch.OwnerIDs, target.UID)
	return s.commit(ctx)
}

// RemoveOwner never removes the last owner, whoever asks.
func (s *Service) RemoveOwner(ctx context.Context, actor *models.User, channelID, uid int64) error {
	target, err := s.reg.User(uid)
	if err != nil {
		return err
	}
	ch, err := s.reg.Channel(channelID)
	if err != nil {
		return err
	}
	if err := perm.CheckOwnerPerms(actor, models.ChannelChat(ch)); err != nil {
		return err
	}
	if !perm.IsChannelOwner(target.UID, ch) {
		return apperr.BadRequest("uId refers to someone who is not an owner of the specified channel")
	}
	if len(ch.OwnerIDs) == 1 {
		return apperr.BadRequest("uId refers to someone who is the only owner of the specified channel")
	}

	ch.OwnerIDs = removeID(ch.OwnerIDs, target.UID)
	return s.commit(ctx)
}

func removeID(ids []int64, id int64) []int64 {
	return slices.DeleteFunc(ids, func(x int64) bool { return x == id })
}
