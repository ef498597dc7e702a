package banstats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warden-bot/internal/metrics"
	"warden-bot/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidWindow  = errors.New("invalid time window")
	ErrMalformedEvent = errors.New("malformed audit event")
)

// AuditSource lists the ban entries of a guild's audit log with after <= t < before.
type AuditSource interface {
	BanEvents(ctx context.Context, guildID string, before, after time.Time) ([]AuditEvent, error)
}

type BanStore interface {
	BansBetween(ctx context.Context, guildID string, before, after time.Time) ([]storage.BanRecord, error)
	AddBan(ctx context.Context, record storage.BanRecord) error
}

type Reconciler struct {
	botID     string
	audit     AuditSource
	store     BanStore
	tolerance time.Duration
	logger    *zap.Logger
}

func NewReconciler(botID string, audit AuditSource, store BanStore, tolerance time.Duration, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		botID:     botID,
		audit:     audit,
		store:     store,
		tolerance: tolerance,
		logger:    logger,
	}
}

// Reconcile counts the bans of guildID in [after, before) per responsible moderator.
func (r *Reconciler) Reconcile(ctx context.Context, guildID string, before, after time.Time) (Result, error) {
	if !before.After(after) {
		return nil, fmt.Errorf("%w: %s is not after %s", ErrInvalidWindow, before.Format(time.RFC3339), after.Format(time.RFC3339))
	}

	var (
		events  []AuditEvent
		records []storage.BanRecord
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		events, err = r.audit.BanEvents(groupCtx, guildID, before, after)
		if err != nil {
			return fmt.Errorf("fetch audit log: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		records, err = r.store.BansBetween(groupCtx, guildID, before, after)
		if err != nil {
			return fmt.Errorf("fetch stored bans: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	for i, event := range events {
		if event.TargetID == "" || event.ActorID == "" {
			return nil, fmt.Errorf("%w: entry %d has target %q actor %q", ErrMalformedEvent, i, event.TargetID, event.ActorID)
		}
	}

	backfill := func(event AuditEvent) error {
		err := r.store.AddBan(ctx, storage.BanRecord{
			GuildID:          guildID,
			BannedUserID:     event.TargetID,
			ResponsibleModID: event.ActorID,
			BannedTime:       event.CreatedAt,
		})
		if err != nil {
			r.logger.Warn("ban backfill failed", zap.String("guild_id", guildID), zap.String("user_id", event.TargetID), zap.Error(err))
		}
		return err
	}

	result, summary := Merge(r.botID, events, records, r.tolerance, backfill)
	metrics.BanStatsBans.WithLabelValues("matched").Add(float64(summary.Matched))
	metrics.BanStatsBans.WithLabelValues("untrackable").Add(float64(summary.Untrackable))
	metrics.BanStatsBans.WithLabelValues("manual").Add(float64(summary.Manual))
	metrics.BanStatsBans.WithLabelValues("leftover").Add(float64(summary.Leftover))
	r.logger.Debug("ban stats reconciled",
		zap.String("guild_id", guildID),
		zap.Int("audit_entries", len(events)),
		zap.Int("stored_bans", len(records)),
		zap.Int("matched", summary.Matched),
		zap.Int("untrackable", summary.Untrackable),
		zap.Int("manual", summary.Manual),
		zap.Int("backfilled", summary.Backfilled),
		zap.Int("leftover", summary.Leftover),
	)
	return result, nil
}
