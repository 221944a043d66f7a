package workspace

import (
	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/stats"
)

// NotificationView drops the target uid, which is always the caller.
type NotificationView struct {
	ChannelID           int64  `json:"channelId"`
	DMID                int64  `json:"dmId"`
	NotificationMessage string `json:"notificationMessage"`
}

// Notifications returns actor's 20 most recent entries, newest first.
func (s *Service) Notifications(actor *models.User) []NotificationView {
	recent := s.feed.Recent(actor.UID)
	out := make([]NotificationView, 0, len(recent))
	for _, n := range recent {
		out = append(out, NotificationView{
			ChannelID:           n.ChannelID,
			DMID:                n.DMID,
			NotificationMessage: n.NotificationMessage,
		})
	}
	return out
}

func (s *Service) UserStats(actor *models.User) models.UserStats {
	return actor.Stats
}

// WorkspaceStats returns the workspace series, creating an empty one if
// nobody has registered yet.
func (s *Service) WorkspaceStats(actor *models.User) models.WorkspaceStats {
	ws := s.reg.Data().WorkspaceStats
	if ws == nil {
		return *stats.NewWorkspaceStats(s.unix())
	}
	return *ws
}
