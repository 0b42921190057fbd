package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-hookgate/core"
)

// MutatingService is the admin surface the commands drive.
type MutatingService interface {
	SetKillSwitch(ctx context.Context, enabled bool) (core.Mode, error)
	SetMode(ctx context.Context, mode core.Mode) error
}

type SetKillSwitchCommand struct {
	service MutatingService
}

func NewSetKillSwitchCommand(service MutatingService) *SetKillSwitchCommand {
	return &SetKillSwitchCommand{service: service}
}

func (c *SetKillSwitchCommand) Execute(ctx context.Context, msg SetKillSwitchMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: kill switch service is required")
	}
	mode, err := c.service.SetKillSwitch(ctx, msg.Enabled)
	if err != nil {
		return err
	}
	storeResult(ctx, mode)
	return nil
}

type SetModeCommand struct {
	service MutatingService
}

func NewSetModeCommand(service MutatingService) *SetModeCommand {
	return &SetModeCommand{service: service}
}

func (c *SetModeCommand) Execute(ctx context.Context, msg SetModeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: mode service is required")
	}
	if err := msg.Validate(); err != nil {
		return commandInvalidInputError(err.Error())
	}
	if err := c.service.SetMode(ctx, msg.Mode); err != nil {
		return err
	}
	storeResult(ctx, msg.Mode)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
