package guardrails

import (
	"strings"
	"testing"

	"github.com/goliatone/go-hookgate/core"
)

func TestEvaluateAllowsPermittedAction(t *testing.T) {
	decision := Evaluate(Input{
		Mode:      core.ModeEnabled,
		Action:    "create_task",
		Entity:    "lead",
		Payload:   map[string]any{"name": "Ada"},
		Allowlist: DefaultAllowlist(),
	})
	if !decision.Allowed {
		t.Fatalf("expected allow, got reason %q", decision.Reason)
	}
	if decision.Reason != ReasonOK {
		t.Fatalf("expected reason %q, got %q", ReasonOK, decision.Reason)
	}
	if len(decision.Details) != 0 {
		t.Fatalf("expected empty details, got %v", decision.Details)
	}
}

func TestEvaluateKillSwitchWinsOverAllowlist(t *testing.T) {
	// Mode check has precedence: a disallowed action under a blocked
	// mode still reports the kill switch.
	decision := Evaluate(Input{
		Mode:      core.ModeBlocked,
		Action:    "delete_everything",
		Entity:    "lead",
		Allowlist: DefaultAllowlist(),
	})
	if decision.Allowed {
		t.Fatalf("expected deny")
	}
	if decision.Reason != ReasonKillSwitchEnabled {
		t.Fatalf("expected reason %q, got %q", ReasonKillSwitchEnabled, decision.Reason)
	}
	if decision.Details["mode"] != core.ModeBlocked.String() {
		t.Fatalf("expected mode detail, got %v", decision.Details)
	}
}

func TestEvaluateDeniesActionOutsideAllowlist(t *testing.T) {
	decision := Evaluate(Input{
		Mode:      core.ModeEnabled,
		Action:    "delete_everything",
		Entity:    "lead",
		Allowlist: DefaultAllowlist(),
	})
	if decision.Allowed {
		t.Fatalf("expected deny")
	}
	if decision.Reason != ReasonActionNotAllowed {
		t.Fatalf("expected reason %q, got %q", ReasonActionNotAllowed, decision.Reason)
	}
	allowed, ok := decision.Details["allowed"].([]string)
	if !ok {
		t.Fatalf("expected allowed actions detail, got %T", decision.Details["allowed"])
	}
	if len(allowed) != 2 {
		t.Fatalf("expected the entity's permitted set, got %v", allowed)
	}
}

func TestEvaluateDeniesUnknownEntityWithEmptyPermittedSet(t *testing.T) {
	decision := Evaluate(Input{
		Mode:      core.ModeEnabled,
		Action:    "ping",
		Entity:    "spaceship",
		Allowlist: DefaultAllowlist(),
	})
	if decision.Allowed {
		t.Fatalf("expected deny for unknown entity")
	}
	if decision.Reason != ReasonActionNotAllowed {
		t.Fatalf("expected reason %q, got %q", ReasonActionNotAllowed, decision.Reason)
	}
	allowed, ok := decision.Details["allowed"].([]string)
	if !ok || len(allowed) != 0 {
		t.Fatalf("expected empty permitted set, got %v", decision.Details["allowed"])
	}
}

func TestEvaluateSkipsAllowlistWhenAbsent(t *testing.T) {
	decision := Evaluate(Input{
		Mode:   core.ModeEnabled,
		Action: "anything",
		Entity: "whatever",
	})
	if !decision.Allowed {
		t.Fatalf("expected allow without an allowlist, got %q", decision.Reason)
	}
}

func TestEvaluatePayloadSizeThreshold(t *testing.T) {
	oversized := map[string]any{
		"blob": strings.Repeat("x", MaxPayloadChars+1),
	}
	decision := Evaluate(Input{
		Mode:      core.ModeEnabled,
		Action:    "create_task",
		Entity:    "lead",
		Payload:   oversized,
		Allowlist: DefaultAllowlist(),
	})
	if decision.Allowed {
		t.Fatalf("expected oversized payload to be denied")
	}
	if decision.Reason != ReasonPayloadTooLarge {
		t.Fatalf("expected reason %q, got %q", ReasonPayloadTooLarge, decision.Reason)
	}
	size, ok := decision.Details["approx_chars"].(int)
	if !ok || size <= MaxPayloadChars {
		t.Fatalf("expected approx_chars above threshold, got %v", decision.Details["approx_chars"])
	}

	underLimit := map[string]any{
		"blob": strings.Repeat("x", MaxPayloadChars-100),
	}
	decision = Evaluate(Input{
		Mode:      core.ModeEnabled,
		Action:    "create_task",
		Entity:    "lead",
		Payload:   underLimit,
		Allowlist: DefaultAllowlist(),
	})
	if !decision.Allowed {
		t.Fatalf("expected payload under threshold to pass, got %q", decision.Reason)
	}
}

func TestAllowlistActionsNeverNil(t *testing.T) {
	var empty Allowlist
	if actions := empty.Actions("lead"); actions == nil {
		t.Fatalf("expected non-nil slice for nil allowlist")
	}
	if actions := DefaultAllowlist().Actions("missing"); actions == nil {
		t.Fatalf("expected non-nil slice for unknown entity")
	}
}
