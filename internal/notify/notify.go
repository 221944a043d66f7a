// Package notify derives feed entries from chat actions. Entries are
// rendered once, at creation, and never rewritten.
package notify

import (
	"fmt"
	"regexp"

	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/store"
)

// FeedSize is how many entries a user ever sees.
const FeedSize = 20

// TagPreviewLen is how much of a tagging message the entry quotes.
const TagPreviewLen = 20

type Kind string

const (
	Tagged  Kind = "Tagged"
	Reacted Kind = "Reacted"
	Added   Kind = "Added"
)

var tagPattern = regexp.MustCompile(`@\w*`)

// Render builds the entry text. body is only used for Tagged.
func Render(kind Kind, notifier *models.User, chat models.Chat, body string) string {
	switch kind {
	case Tagged:
		return fmt.Sprintf("%s tagged you in %s: %s", notifier.HandleStr, chat.Name(), preview(body))
	case Reacted:
		return fmt.Sprintf("%s reacted to your message in %s", notifier.HandleStr, chat.Name())
	default:
		return fmt.Sprintf("%s added you to %s", notifier.HandleStr, chat.Name())
	}
}

func preview(body string) string {
	r := []rune(body)
	if len(r) > TagPreviewLen {
		r = r[:TagPreviewLen]
	}
	return string(r)
}

// Mentions extracts the distinct @handles of body, in first-seen order.
func Mentions(body string) []string {
	tags := tagPattern.FindAllString(body, -1)
	seen := make(map[string]bool, len(tags))
	handles := make([]string, 0, len(tags))
	for _, tag := range tags {
		h := tag[1:]
		if seen[h] {
			continue
		}
		seen[h] = true
		handles = append(handles, h)
	}
	return handles
}

// Feed writes entries into the registry.
type Feed struct {
	reg *store.Registry
}

func NewFeed(reg *store.Registry) *Feed {
	return &Feed{reg: reg}
}

func (f *Feed) push(kind Kind, notifier, target *models.User, chat models.Chat, body string) {
	channelID, dmID := chat.NotificationTarget()
	f.reg.PushNotification(models.Notification{
		UID:                 target.UID,
		ChannelID:           channelID,
		DMID:                dmID,
		NotificationMessage: Render(kind, notifier, chat, body),
	})
}

func (f *Feed) Added(notifier, target *models.User, chat models.Chat) {
	f.push(Added, notifier, target, chat, "")
}

func (f *Feed) Reacted(notifier, author *models.User, chat models.Chat) {
	f.push(Reacted, notifier, author, chat, "")
}

// TagMentioned sends one Tagged entry to every active user whose handle
// body mentions and who belongs to chat. It returns how many were sent.
func (f *Feed) TagMentioned(notifier *models.User, chat models.Chat, body string) int {
	sent := 0
	for _, handle := range Mentions(body) {
		u := f.reg.UserByHandle(handle)
		if u == nil || !chat.HasMember(u.UID) {
			continue
		}
		f.push(Tagged, notifier, u, chat, body)
		sent++
	}
	return sent
}

// Recent returns at most FeedSize entries for uid, newest first.
func (f *Feed) Recent(uid int64) []models.Notification {
	out := make([]models.Notification, 0, FeedSize)
	for _, n := range f.reg.Notifications() {
		if len(out) == FeedSize {
			break
		}
		if n.UID == uid {
			out = append(out, n)
		}
	}
	return out
}
