package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidMode  = errors.New("core: invalid mode")
	ErrInvalidEvent = errors.New("core: invalid event")
)

// Mode is the operator-controlled execution switch. It lives in the
// state store, never in process memory, so admin toggles take effect on
// the next request across every handler instance.
type Mode string

const (
	ModeEnabled Mode = "enabled"
	ModeBlocked Mode = "blocked"
)

func ParseMode(value string) (Mode, error) {
	mode := Mode(strings.TrimSpace(strings.ToLower(value)))
	switch mode {
	case ModeEnabled, ModeBlocked:
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, value)
}

func (m Mode) Valid() bool {
	return m == ModeEnabled || m == ModeBlocked
}

func (m Mode) String() string {
	return string(m)
}

// Event is a single inbound signal. The transport layer validates and
// populates every field before the event reaches the processor.
type Event struct {
	SignalID  string
	Source    string
	Action    string
	Entity    string
	Payload   map[string]any
	EventTime time.Time
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.SignalID) == "" {
		return fmt.Errorf("%w: signal_id is required", ErrInvalidEvent)
	}
	if strings.TrimSpace(e.Source) == "" {
		return fmt.Errorf("%w: source is required", ErrInvalidEvent)
	}
	if strings.TrimSpace(e.Action) == "" {
		return fmt.Errorf("%w: action is required", ErrInvalidEvent)
	}
	if strings.TrimSpace(e.Entity) == "" {
		return fmt.Errorf("%w: entity is required", ErrInvalidEvent)
	}
	if e.EventTime.IsZero() {
		return fmt.Errorf("%w: event_time is required", ErrInvalidEvent)
	}
	return nil
}

// SignalRecord is a row in the idempotency ledger.
type SignalRecord struct {
	SignalID    string
	ProcessedAt time.Time
}

// ConnectorResult is the structured description of what a connector
// did for an accepted event.
type ConnectorResult map[string]any

// Outcome statuses reported to callers. Rejections and duplicates are
// business-level outcomes, not errors: the request itself succeeded.
const (
	StatusExecuted          = "executed"
	StatusDuplicate         = "duplicate"
	StatusRejected          = "rejected"
	StatusExecutedWithError = "executed_with_error"
)

// Outcome is the result of running an event through the webhook
// pipeline. Reason and Details are populated for rejections; Result
// for executions; Error for executions that reached the connector and
// failed after the signal was already committed to the ledger.
type Outcome struct {
	Status   string
	Reason   string
	Details  map[string]any
	SignalID string
	Result   ConnectorResult
	Error    string
}

// StatusReport is the read-only admin snapshot.
type StatusReport struct {
	Mode           Mode
	ProcessedCount int64
}
