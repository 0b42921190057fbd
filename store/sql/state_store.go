// Package sqlstore implements the persistent state store on bun. It is
// the single owner of durable state: the processed-signal ledger and
// the scalar settings table.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-hookgate/core"
)

type StateStore struct {
	db   *bun.DB
	repo repository.Repository[*processedSignalRecord]
	now  func() time.Time
}

func NewStateStore(db *bun.DB) (*StateStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*processedSignalRecord](db, processedSignalHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid processed signal repository wiring: %w", err)
		}
	}
	return &StateStore{
		db:   db,
		repo: repo,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}, nil
}

// Claim inserts the signal id into the ledger and reports whether this
// caller won the insert. The unique constraint on signal_id is the
// critical section: two concurrent callers with the same id cannot
// both observe claimed=true.
func (s *StateStore) Claim(ctx context.Context, signalID string) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("sqlstore: state store is not configured")
	}
	signalID = strings.TrimSpace(signalID)
	if signalID == "" {
		return false, fmt.Errorf("sqlstore: signal id is required")
	}

	record := &processedSignalRecord{
		ID:          uuid.NewString(),
		SignalID:    signalID,
		ProcessedAt: s.now(),
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, core.StoreUnavailableError(err, "sqlstore: claim signal failed")
	}
	return true, nil
}

// MarkSeen records the signal id; marking an already-seen id is a
// successful no-op.
func (s *StateStore) MarkSeen(ctx context.Context, signalID string) error {
	_, err := s.Claim(ctx, signalID)
	return err
}

func (s *StateStore) Seen(ctx context.Context, signalID string) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("sqlstore: state store is not configured")
	}
	exists, err := s.db.NewSelect().
		Model((*processedSignalRecord)(nil)).
		Where("?TableAlias.signal_id = ?", strings.TrimSpace(signalID)).
		Exists(ctx)
	if err != nil {
		return false, core.StoreUnavailableError(err, "sqlstore: seen lookup failed")
	}
	return exists, nil
}

// Get returns the ledger record for a signal id.
func (s *StateStore) Get(ctx context.Context, signalID string) (core.SignalRecord, error) {
	if s == nil || s.db == nil {
		return core.SignalRecord{}, fmt.Errorf("sqlstore: state store is not configured")
	}
	record := &processedSignalRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.signal_id = ?", strings.TrimSpace(signalID)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.SignalRecord{}, fmt.Errorf("sqlstore: signal %q not found", signalID)
		}
		return core.SignalRecord{}, core.StoreUnavailableError(err, "sqlstore: signal lookup failed")
	}
	return record.toDomain(), nil
}

func (s *StateStore) CountProcessed(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: state store is not configured")
	}
	count, err := s.db.NewSelect().
		Model((*processedSignalRecord)(nil)).
		Count(ctx)
	if err != nil {
		return 0, core.StoreUnavailableError(err, "sqlstore: processed count failed")
	}
	return int64(count), nil
}

func (s *StateStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, fmt.Errorf("sqlstore: state store is not configured")
	}
	record := &settingRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.key = ?", strings.TrimSpace(key)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, core.StoreUnavailableError(err, "sqlstore: setting lookup failed")
	}
	return record.Value, true, nil
}

// PutSetting persists immediately with last-write-wins semantics.
func (s *StateStore) PutSetting(ctx context.Context, key string, value string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: state store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("sqlstore: setting key is required")
	}
	record := &settingRecord{
		Key:       key,
		Value:     value,
		UpdatedAt: s.now(),
	}
	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return core.StoreUnavailableError(err, "sqlstore: setting write failed")
	}
	return nil
}

// GetMode defaults to enabled when the setting was never written.
func (s *StateStore) GetMode(ctx context.Context) (core.Mode, error) {
	value, found, err := s.GetSetting(ctx, core.SettingKeyMode)
	if err != nil {
		return "", err
	}
	if !found {
		return core.ModeEnabled, nil
	}
	mode, err := core.ParseMode(value)
	if err != nil {
		return "", core.StoreUnavailableError(err, "sqlstore: persisted mode is corrupt")
	}
	return mode, nil
}

func (s *StateStore) SetMode(ctx context.Context, mode core.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidMode, mode)
	}
	return s.PutSetting(ctx, core.SettingKeyMode, mode.String())
}

func isUniqueViolation(err error) bool {
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}

var _ core.StateStore = (*StateStore)(nil)
