package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"warden-bot/internal/modules/antispam"
	"warden-bot/internal/modules/banstats"

	"github.com/bwmarrin/discordgo"
)

const (
	discordEpochMillis = 1420070400000
	auditLogPageSize   = 100
)

// discordGateway performs moderation actions and audit log reads through the session.
type discordGateway struct {
	session *discordgo.Session
}

func (g *discordGateway) ApplyTimeout(ctx context.Context, guildID, userID string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("timeout duration must be positive, got %s", d)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	until := time.Now().Add(d)
	return permissionError(g.session.GuildMemberTimeout(guildID, userID, &until))
}

func (g *discordGateway) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := g.session.ChannelMessageSendEmbed(channelID, embed)
	return permissionError(err)
}

// BanEvents pages backwards through the ban entries of the audit log, newest first,
// until it reaches entries older than after.
func (g *discordGateway) BanEvents(ctx context.Context, guildID string, before, after time.Time) ([]banstats.AuditEvent, error) {
	var events []banstats.AuditEvent
	beforeID := snowflakeAt(before)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log, err := g.session.GuildAuditLog(guildID, "", beforeID, int(discordgo.AuditLogActionMemberBanAdd), auditLogPageSize)
		if err != nil {
			return nil, permissionError(err)
		}
		if log == nil || len(log.AuditLogEntries) == 0 {
			return events, nil
		}

		reachedStart := false
		for _, entry := range log.AuditLogEntries {
			if entry == nil {
				continue
			}
			created, err := discordgo.SnowflakeTimestamp(entry.ID)
			if err != nil {
				continue
			}
			if created.Before(after) {
				reachedStart = true
				break
			}
			if !created.Before(before) {
				continue
			}
			events = append(events, banstats.AuditEvent{
				TargetID:  entry.TargetID,
				ActorID:   entry.UserID,
				CreatedAt: created,
				Reason:    entry.Reason,
			})
		}
		if reachedStart || len(log.AuditLogEntries) < auditLogPageSize {
			return events, nil
		}
		beforeID = log.AuditLogEntries[len(log.AuditLogEntries)-1].ID
	}
}

// latestBan returns the newest audit entry banning userID, if it is recent enough to
// belong to a ban event that just arrived.
func (g *discordGateway) latestBan(guildID, userID string, maxAge time.Duration) (*discordgo.AuditLogEntry, bool) {
	log, err := g.session.GuildAuditLog(guildID, "", "", int(discordgo.AuditLogActionMemberBanAdd), 10)
	if err != nil || log == nil {
		return nil, false
	}
	for _, entry := range log.AuditLogEntries {
		if entry == nil || entry.TargetID != userID {
			continue
		}
		created, err := discordgo.SnowflakeTimestamp(entry.ID)
		if err == nil && time.Since(created) > maxAge {
			continue
		}
		return entry, true
	}
	return nil, false
}

// snowflakeAt returns the smallest snowflake created at t, usable as an exclusive "before" cursor.
func snowflakeAt(t time.Time) string {
	millis := t.UnixMilli() - discordEpochMillis
	if millis < 0 {
		millis = 0
	}
	return strconv.FormatInt(millis<<22, 10)
}

func permissionError(err error) error {
	if err == nil {
		return nil
	}
	if isForbidden(err) {
		return fmt.Errorf("%w: %v", antispam.ErrPermissionDenied, err)
	}
	return err
}

func isForbidden(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return true
	}
	return restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeMissingPermissions
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
