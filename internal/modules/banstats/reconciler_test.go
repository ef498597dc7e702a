package banstats

import (
	"context"
	"errors"
	"testing"
	"time"

	"warden-bot/internal/storage"

	"go.uber.org/zap"
)

type fakeAudit struct {
	events []AuditEvent
	err    error
}

func (f *fakeAudit) BanEvents(ctx context.Context, guildID string, before, after time.Time) ([]AuditEvent, error) {
	return f.events, f.err
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestReconcilePersistsManualBan(t *testing.T) {
	store := newTestStore(t)
	audit := &fakeAudit{events: []AuditEvent{{TargetID: "42", ActorID: "99", CreatedAt: at(1000)}}}
	reconciler := NewReconciler(botID, audit, store, 20*time.Second, zap.NewNop())

	result, err := reconciler.Reconcile(context.Background(), "g1", at(2000), at(0))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(result) != 1 || result["99"] != 1 {
		t.Fatalf("expected {99: 1}, got %v", result)
	}

	records, err := store.BansBetween(context.Background(), "g1", at(2000), at(0))
	if err != nil {
		t.Fatalf("bans between: %v", err)
	}
	if len(records) != 1 || records[0].BannedUserID != "42" || records[0].ResponsibleModID != "99" || !records[0].BannedTime.Equal(at(1000)) {
		t.Fatalf("unexpected backfilled records %+v", records)
	}

	// the backfilled record now matches the audit entry instead of adding a second one
	result, err = reconciler.Reconcile(context.Background(), "g1", at(2000), at(0))
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if result["99"] != 1 {
		t.Fatalf("expected stable count on second pass, got %v", result)
	}
	records, _ = store.BansBetween(context.Background(), "g1", at(2000), at(0))
	if len(records) != 1 {
		t.Fatalf("expected no duplicate backfill, got %d records", len(records))
	}
}

func TestReconcileAttributesBotBans(t *testing.T) {
	store := newTestStore(t)
	if err := store.AddBan(context.Background(), record("42", "7", 1005)); err != nil {
		t.Fatalf("add ban: %v", err)
	}
	audit := &fakeAudit{events: []AuditEvent{
		{TargetID: "42", ActorID: botID, CreatedAt: at(1000)},
		{TargetID: "43", ActorID: botID, CreatedAt: at(1100)},
	}}
	reconciler := NewReconciler(botID, audit, store, 20*time.Second, zap.NewNop())

	result, err := reconciler.Reconcile(context.Background(), "g1", at(2000), at(0))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if result["7"] != 1 || result[Untrackable] != 1 || len(result) != 2 {
		t.Fatalf("unexpected result %v", result)
	}
}

func TestReconcileRejectsInvalidWindow(t *testing.T) {
	reconciler := NewReconciler(botID, &fakeAudit{}, newTestStore(t), 20*time.Second, zap.NewNop())

	if _, err := reconciler.Reconcile(context.Background(), "g1", at(1000), at(1000)); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestReconcileRejectsMalformedEvent(t *testing.T) {
	audit := &fakeAudit{events: []AuditEvent{{TargetID: "42", CreatedAt: at(1000)}}}
	reconciler := NewReconciler(botID, audit, newTestStore(t), 20*time.Second, zap.NewNop())

	if _, err := reconciler.Reconcile(context.Background(), "g1", at(2000), at(0)); !errors.Is(err, ErrMalformedEvent) {
		t.Fatalf("expected ErrMalformedEvent, got %v", err)
	}
}

func TestReconcilePropagatesFetchErrors(t *testing.T) {
	fetchErr := errors.New("gateway unavailable")
	reconciler := NewReconciler(botID, &fakeAudit{err: fetchErr}, newTestStore(t), 20*time.Second, zap.NewNop())

	if _, err := reconciler.Reconcile(context.Background(), "g1", at(2000), at(0)); !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}
