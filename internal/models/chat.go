package models

import "slices"

// ChatKind tags a Chat as a channel or a DM.
type ChatKind int

const (
	KindChannel ChatKind = iota + 1
	KindDM
)

func (k ChatKind) String() string {
	switch k {
	case KindChannel:
		return "channel"
	case KindDM:
		return "dm"
	default:
		return "unknown"
	}
}

// Chat is a resolved chat id: exactly one of Channel and DM is set,
// matching Kind.
type Chat struct {
	Kind    ChatKind
	Channel *Channel
	DM      *DM
}

func ChannelChat(ch *Channel) Chat { return Chat{Kind: KindChannel, Channel: ch} }

func DMChat(dm *DM) Chat { return Chat{Kind: KindDM, DM: dm} }

func (c Chat) ID() int64 {
	if c.Kind == KindDM {
		return c.DM.DMID
	}
	return c.Channel.ChannelID
}

func (c Chat) Name() string {
	if c.Kind == KindDM {
		return c.DM.Name
	}
	return c.Channel.Name
}

func (c Chat) MemberIDs() []int64 {
	if c.Kind == KindDM {
		return c.DM.MemberIDs
	}
	return c.Channel.MemberIDs
}

func (c Chat) HasMember(uid int64) bool {
	return slices.Contains(c.MemberIDs(), uid)
}

// NotificationTarget returns the (channelId, dmId) pair recorded on a
// notification about this chat.
func (c Chat) NotificationTarget() (channelID, dmID int64) {
	if c.Kind == KindDM {
		return -1, c.DM.DMID
	}
	return c.Channel.ChannelID, -1
}
