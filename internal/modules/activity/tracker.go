package activity

import (
	"fmt"
	"time"

	"warden-bot/internal/utils"

	"github.com/puzpuzpuz/xsync/v3"
)

// Tracker counts distinct message authors per guild over a rolling window.
type Tracker struct {
	window time.Duration
	guilds *xsync.MapOf[string, *utils.ActivityWindow]
}

func NewTracker(window time.Duration) *Tracker {
	return &Tracker{
		window: window,
		guilds: xsync.NewMapOf[string, *utils.ActivityWindow](),
	}
}

func (t *Tracker) Touch(guildID, userID string, now time.Time) int {
	return t.guild(guildID).Touch(userID, now)
}

func (t *Tracker) Active(guildID string, now time.Time) int {
	window, ok := t.guilds.Load(guildID)
	if !ok {
		return 0
	}
	return window.Count(now)
}

func (t *Tracker) guild(guildID string) *utils.ActivityWindow {
	window, _ := t.guilds.LoadOrCompute(guildID, func() *utils.ActivityWindow {
		return utils.NewActivityWindow(t.window)
	})
	return window
}

func ActiveChannelName(count int) string {
	return fmt.Sprintf("Active Users: %d", count)
}

func TotalChannelName(count int) string {
	return fmt.Sprintf("Total Users: %d", count)
}
