// Package guardrails holds the pure decision procedure gating event
// execution. Evaluate owns no state and performs no I/O, so it stays
// independently testable and decoupled from transport and storage.
package guardrails

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-hookgate/core"
)

const (
	ReasonOK                = "ok"
	ReasonKillSwitchEnabled = "kill_switch_enabled"
	ReasonActionNotAllowed  = "action_not_allowed"
	ReasonPayloadTooLarge   = "payload_too_large"
)

// MaxPayloadChars bounds the rendered payload size. A coarse
// heuristic: real deployments should enforce byte limits at the
// network-facing layer before requests get this far.
const MaxPayloadChars = 50_000

// Allowlist maps an entity type to its permitted actions. A nil
// Allowlist disables the policy rule entirely.
type Allowlist map[string][]string

// Actions returns the permitted actions for an entity, never nil.
func (a Allowlist) Actions(entity string) []string {
	if a == nil {
		return []string{}
	}
	actions, ok := a[entity]
	if !ok || actions == nil {
		return []string{}
	}
	return actions
}

func (a Allowlist) permits(entity string, action string) bool {
	actions, ok := a[entity]
	if !ok {
		return false
	}
	for _, permitted := range actions {
		if permitted == action {
			return true
		}
	}
	return false
}

// DefaultAllowlist is the static policy shipped with the reference
// deployment.
func DefaultAllowlist() Allowlist {
	return Allowlist{
		"lead":   {"create_task", "enrich"},
		"doc":    {"write", "summarize"},
		"system": {"ping"},
	}
}

// Decision is the evaluator outcome. Reason is a machine-readable code
// and Details carries structured context for it.
type Decision struct {
	Allowed bool
	Reason  string
	Details map[string]any
}

// Input bundles the evaluator arguments.
type Input struct {
	Mode      core.Mode
	Action    string
	Entity    string
	Payload   map[string]any
	Allowlist Allowlist
}

// Evaluate applies the guardrail rules in order; the first matching
// rule wins. Order is load-bearing: callers depend on which reason
// fires first when several rules would deny.
func Evaluate(in Input) Decision {
	if in.Mode != core.ModeEnabled {
		return Decision{
			Allowed: false,
			Reason:  ReasonKillSwitchEnabled,
			Details: map[string]any{"mode": in.Mode.String()},
		}
	}

	if in.Allowlist != nil {
		if !in.Allowlist.permits(in.Entity, in.Action) {
			return Decision{
				Allowed: false,
				Reason:  ReasonActionNotAllowed,
				Details: map[string]any{
					"entity":  in.Entity,
					"action":  in.Action,
					"allowed": in.Allowlist.Actions(in.Entity),
				},
			}
		}
	}

	if size := approxPayloadChars(in.Payload); size > MaxPayloadChars {
		return Decision{
			Allowed: false,
			Reason:  ReasonPayloadTooLarge,
			Details: map[string]any{"approx_chars": size},
		}
	}

	return Decision{
		Allowed: true,
		Reason:  ReasonOK,
		Details: map[string]any{},
	}
}

// approxPayloadChars measures the payload's rendered form. Keys are
// visited in sorted order so the measurement is deterministic across
// runs.
func approxPayloadChars(payload map[string]any) int {
	if len(payload) == 0 {
		return len(fmt.Sprint(payload))
	}
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	size := 2
	for i, key := range keys {
		if i > 0 {
			size += 1
		}
		size += len(fmt.Sprintf("%s:%v", key, payload[key]))
	}
	return size
}
