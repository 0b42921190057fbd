package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// SettingKeyMode is the settings-table key holding the operator mode.
const SettingKeyMode = "mode"

// StateStore owns all persisted state: the processed-signal ledger and
// the scalar settings table. Implementations must serialize the
// check-then-mark sequence so that Claim is atomic per signal id, and
// must surface storage failures as errors rather than defaulting to
// "not seen" or "enabled".
type StateStore interface {
	// Seen reports whether the signal id has been durably recorded.
	Seen(ctx context.Context, signalID string) (bool, error)
	// MarkSeen records the signal id. Marking an already-seen id is a
	// successful no-op.
	MarkSeen(ctx context.Context, signalID string) error
	// Claim atomically records the signal id and reports whether this
	// caller won the insert. At most one concurrent caller per id
	// observes claimed=true.
	Claim(ctx context.Context, signalID string) (bool, error)
	// CountProcessed returns the total number of signals ever marked.
	CountProcessed(ctx context.Context) (int64, error)

	GetMode(ctx context.Context) (Mode, error)
	SetMode(ctx context.Context, mode Mode) error

	GetSetting(ctx context.Context, key string) (string, bool, error)
	PutSetting(ctx context.Context, key string, value string) error
}

// Connector performs the real-world side effect for an accepted event.
// Implementations are selected by configuration, not inheritance; the
// mock connector is the reference variant.
type Connector interface {
	Execute(ctx context.Context, action string, entity string, payload map[string]any) (ConnectorResult, error)
}

// Authenticator guards the webhook boundary. The static shared-secret
// strategy is the reference implementation; signed-request or mTLS
// schemes can be substituted without touching the processor.
type Authenticator interface {
	Authenticate(ctx context.Context, presentedKey string) error
}

// AdminService exposes the operator surface consumed by the command
// handlers and the HTTP transport.
type AdminService interface {
	SetKillSwitch(ctx context.Context, enabled bool) (Mode, error)
	Status(ctx context.Context) (StatusReport, error)
}

// Logger aliases keep go-logger the single logging contract.
type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
