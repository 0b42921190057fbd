package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-hookgate/core"
)

type processedSignalRecord struct {
	bun.BaseModel `bun:"table:hookgate_processed_signals,alias:hps"`

	ID          string    `bun:"id,pk"`
	SignalID    string    `bun:"signal_id,notnull"`
	ProcessedAt time.Time `bun:"processed_at,nullzero,notnull,default:current_timestamp"`
}

func (r *processedSignalRecord) toDomain() core.SignalRecord {
	if r == nil {
		return core.SignalRecord{}
	}
	return core.SignalRecord{
		SignalID:    r.SignalID,
		ProcessedAt: r.ProcessedAt,
	}
}

type settingRecord struct {
	bun.BaseModel `bun:"table:hookgate_settings,alias:hs"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
