package webhooks

import (
	"context"
	"fmt"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-hookgate/core"
	"github.com/goliatone/go-hookgate/guardrails"
)

// Processor runs each event through the guarded pipeline. Stages
// short-circuit at the first failure; the ledger claim happens before
// the connector call, trading "the connector might not run for a
// claimed signal" for "the connector never double-runs".
type Processor struct {
	Auth      core.Authenticator
	Store     core.StateStore
	Connector core.Connector
	Allowlist guardrails.Allowlist
	Logger    core.Logger
}

func NewProcessor(authenticator core.Authenticator, store core.StateStore, conn core.Connector) *Processor {
	_, logger := glog.Resolve("hookgate.webhooks", nil, nil)
	return &Processor{
		Auth:      authenticator,
		Store:     store,
		Connector: conn,
		Allowlist: guardrails.DefaultAllowlist(),
		Logger:    glog.Ensure(logger),
	}
}

// Process authenticates the presented key and runs the event
// end-to-end. Rejections and duplicates come back as outcomes with a
// nil error; errors are reserved for auth failures and infrastructure
// faults.
func (p *Processor) Process(ctx context.Context, presentedKey string, evt core.Event) (core.Outcome, error) {
	if p == nil || p.Store == nil || p.Connector == nil {
		return core.Outcome{}, core.InternalError("webhooks: processor requires store and connector")
	}

	if p.Auth != nil {
		if err := p.Auth.Authenticate(ctx, presentedKey); err != nil {
			return core.Outcome{}, err
		}
	}

	if err := evt.Validate(); err != nil {
		return core.Outcome{}, core.BadInputError(err.Error(), nil)
	}

	mode, err := p.Store.GetMode(ctx)
	if err != nil {
		return core.Outcome{}, err
	}
	if mode != core.ModeEnabled {
		return core.Outcome{
			Status:   core.StatusRejected,
			Reason:   guardrails.ReasonKillSwitchEnabled,
			SignalID: evt.SignalID,
		}, nil
	}

	decision := guardrails.Evaluate(guardrails.Input{
		Mode:      mode,
		Action:    evt.Action,
		Entity:    evt.Entity,
		Payload:   evt.Payload,
		Allowlist: p.allowlist(),
	})
	if !decision.Allowed {
		p.log().Info("event rejected by guardrails",
			"signal_id", evt.SignalID,
			"reason", decision.Reason,
		)
		return core.Outcome{
			Status:   core.StatusRejected,
			Reason:   decision.Reason,
			Details:  decision.Details,
			SignalID: evt.SignalID,
		}, nil
	}

	claimed, err := p.Store.Claim(ctx, evt.SignalID)
	if err != nil {
		return core.Outcome{}, err
	}
	if !claimed {
		return core.Outcome{
			Status:   core.StatusDuplicate,
			SignalID: evt.SignalID,
		}, nil
	}

	result, err := p.Connector.Execute(ctx, evt.Action, evt.Entity, evt.Payload)
	if err != nil {
		// The signal is already committed to the ledger: surface the
		// failure as a distinct outcome so operators can tell "ran and
		// failed" from "never ran". Retries are out-of-band.
		failure := core.ConnectorFailure(err, fmt.Sprintf("webhooks: connector execution failed for signal %s", evt.SignalID))
		p.log().Error("connector execution failed",
			"signal_id", evt.SignalID,
			"action", evt.Action,
			"entity", evt.Entity,
			"error", err.Error(),
		)
		return core.Outcome{
			Status:   core.StatusExecutedWithError,
			SignalID: evt.SignalID,
			Error:    failure.Error(),
		}, nil
	}

	p.log().Info("event executed",
		"signal_id", evt.SignalID,
		"action", evt.Action,
		"entity", evt.Entity,
	)
	return core.Outcome{
		Status:   core.StatusExecuted,
		SignalID: evt.SignalID,
		Result:   result,
	}, nil
}

func (p *Processor) allowlist() guardrails.Allowlist {
	if p != nil && p.Allowlist != nil {
		return p.Allowlist
	}
	return guardrails.DefaultAllowlist()
}

func (p *Processor) log() core.Logger {
	if p != nil && p.Logger != nil {
		return p.Logger
	}
	return glog.Nop()
}
