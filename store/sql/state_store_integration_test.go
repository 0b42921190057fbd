package sqlstore_test

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sync"
	"testing"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-hookgate/core"
	hookgatemigrations "github.com/goliatone/go-hookgate/migrations"
	sqlstore "github.com/goliatone/go-hookgate/store/sql"
)

func newSQLiteStore(t *testing.T) (*sqlstore.StateStore, func()) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:hookgate-store-test-%d?mode=memory&cache=shared&_foreign_keys=on",
		time.Now().UnixNano(),
	)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := core.DatabaseConfig{Driver: "sqlite3", DSN: dsn, PingTimeout: time.Second}
	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		t.Fatalf("new persistence client: %v", err)
	}

	ctx := context.Background()
	_, err = hookgatemigrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != hookgatemigrations.DialectSQLite {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, hookgatemigrations.WithValidationTargets(hookgatemigrations.DialectSQLite))
	if err != nil {
		_ = client.Close()
		t.Fatalf("register migrations: %v", err)
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		t.Fatalf("migrate: %v", err)
	}

	store, err := sqlstore.NewStateStoreFromPersistence(client)
	if err != nil {
		_ = client.Close()
		t.Fatalf("new state store: %v", err)
	}

	return store, func() {
		_ = client.Close()
	}
}

func TestClaimIsIdempotentPerSignal(t *testing.T) {
	store, cleanup := newSQLiteStore(t)
	defer cleanup()
	ctx := context.Background()

	claimed, err := store.Claim(ctx, "sig-claim")
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if !claimed {
		t.Fatalf("expected first claim to win")
	}

	claimed, err = store.Claim(ctx, "sig-claim")
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if claimed {
		t.Fatalf("expected second claim to lose")
	}

	seen, err := store.Seen(ctx, "sig-claim")
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if !seen {
		t.Fatalf("expected signal to be recorded")
	}
}

func TestClaimConcurrentSameSignalHasOneWinner(t *testing.T) {
	store, cleanup := newSQLiteStore(t)
	defer cleanup()
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := store.Claim(ctx, "sig-race")
			if err != nil {
				t.Errorf("claim: %v", err)
				return
			}
			if claimed {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestSeenReportsUnknownSignals(t *testing.T) {
	store, cleanup := newSQLiteStore(t)
	defer cleanup()
	ctx := context.Background()

	seen, err := store.Seen(ctx, "sig-never")
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if seen {
		t.Fatalf("expected unknown signal to report unseen")
	}
}

func TestGetReturnsProcessedAt(t *testing.T) {
	store, cleanup := newSQLiteStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.MarkSeen(ctx, "sig-get"); err != nil {
		t.Fatalf("mark seen: %v", err)
	}
	record, err := store.Get(ctx, "sig-get")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.SignalID != "sig-get" {
		t.Fatalf("expected signal id sig-get, got %q", record.SignalID)
	}
	if record.ProcessedAt.IsZero() {
		t.Fatalf("expected processed_at to be set")
	}
}

func TestCountProcessedTracksDistinctSignals(t *testing.T) {
	store, cleanup := newSQLiteStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.MarkSeen(ctx, fmt.Sprintf("sig-count-%d", i)); err != nil {
			t.Fatalf("mark seen %d: %v", i, err)
		}
	}
	// Replaying a known signal must not change the count.
	if err := store.MarkSeen(ctx, "sig-count-0"); err != nil {
		t.Fatalf("replay mark: %v", err)
	}

	count, err := store.CountProcessed(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 processed signals, got %d", count)
	}
}

func TestModeDefaultsToEnabled(t *testing.T) {
	store, cleanup := newSQLiteStore(t)
	defer cleanup()
	ctx := context.Background()

	mode, err := store.GetMode(ctx)
	if err != nil {
		t.Fatalf("get mode: %v", err)
	}
	if mode != core.ModeEnabled {
		t.Fatalf("expected enabled default, got %s", mode)
	}
}

func TestModeRoundTripsThroughSettings(t *testing.T) {
	store, cleanup := newSQLiteStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SetMode(ctx, core.ModeBlocked); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	mode, err := store.GetMode(ctx)
	if err != nil {
		t.Fatalf("get mode: %v", err)
	}
	if mode != core.ModeBlocked {
		t.Fatalf("expected blocked, got %s", mode)
	}

	if err := store.SetMode(ctx, core.ModeEnabled); err != nil {
		t.Fatalf("re-enable: %v", err)
	}
	mode, err = store.GetMode(ctx)
	if err != nil {
		t.Fatalf("get mode: %v", err)
	}
	if mode != core.ModeEnabled {
		t.Fatalf("expected enabled, got %s", mode)
	}
}

func TestSetModeRejectsInvalidValues(t *testing.T) {
	store, cleanup := newSQLiteStore(t)
	defer cleanup()

	if err := store.SetMode(context.Background(), core.Mode("paused")); err == nil {
		t.Fatalf("expected invalid mode error")
	}
}

func TestSettingsUpsertOverwrites(t *testing.T) {
	store, cleanup := newSQLiteStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.PutSetting(ctx, "greeting", "hello"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.PutSetting(ctx, "greeting", "goodbye"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	value, found, err := store.GetSetting(ctx, "greeting")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || value != "goodbye" {
		t.Fatalf("expected goodbye, got %q (found=%v)", value, found)
	}

	_, found, err = store.GetSetting(ctx, "missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if found {
		t.Fatalf("expected missing key to report not found")
	}
}
