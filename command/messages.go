// Package command exposes the admin mutations as validated go-command
// messages so operator tooling can dispatch them without binding to
// the HTTP transport.
package command

import (
	"fmt"

	"github.com/goliatone/go-hookgate/core"
)

const (
	TypeSetKillSwitch = "hookgate.command.kill_switch.set"
	TypeSetMode       = "hookgate.command.mode.set"
)

// SetKillSwitchMessage toggles the operator kill switch. Enabled=true
// blocks execution; the boolean is inverted from the mode naming on
// purpose, matching the admin surface.
type SetKillSwitchMessage struct {
	Enabled bool
}

func (SetKillSwitchMessage) Type() string { return TypeSetKillSwitch }

func (SetKillSwitchMessage) Validate() error { return nil }

// SetModeMessage writes the operator mode directly.
type SetModeMessage struct {
	Mode core.Mode
}

func (SetModeMessage) Type() string { return TypeSetMode }

func (m SetModeMessage) Validate() error {
	if !m.Mode.Valid() {
		return fmt.Errorf("command: mode must be %q or %q, got %q", core.ModeEnabled, core.ModeBlocked, m.Mode)
	}
	return nil
}
