// Package hookgate wires the guarded webhook ingestion service: the
// persistent state store, the guardrail-gated processor, and the admin
// surface consumed by the command handlers and the HTTP transport.
package hookgate

import (
	"context"
	"fmt"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-hookgate/auth"
	"github.com/goliatone/go-hookgate/connector"
	"github.com/goliatone/go-hookgate/core"
	"github.com/goliatone/go-hookgate/guardrails"
	"github.com/goliatone/go-hookgate/webhooks"
)

type Service struct {
	cfg       core.Config
	logger    core.Logger
	store     core.StateStore
	processor *webhooks.Processor
}

type Option func(*serviceBuilder)

type serviceBuilder struct {
	logger        core.Logger
	provider      core.LoggerProvider
	store         core.StateStore
	connector     core.Connector
	authenticator core.Authenticator
	allowlist     guardrails.Allowlist
	registry      *connector.Registry
}

func WithLogger(logger core.Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.provider = provider
	}
}

func WithStateStore(store core.StateStore) Option {
	return func(b *serviceBuilder) {
		b.store = store
	}
}

func WithConnector(conn core.Connector) Option {
	return func(b *serviceBuilder) {
		b.connector = conn
	}
}

func WithAuthenticator(authenticator core.Authenticator) Option {
	return func(b *serviceBuilder) {
		b.authenticator = authenticator
	}
}

func WithAllowlist(allowlist guardrails.Allowlist) Option {
	return func(b *serviceBuilder) {
		b.allowlist = allowlist
	}
}

func WithConnectorRegistry(registry *connector.Registry) Option {
	return func(b *serviceBuilder) {
		b.registry = registry
	}
}

// New builds the service from configuration. The state store is the
// one dependency without a default: persistence wiring belongs to the
// caller (see OpenPersistence).
func New(cfg core.Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	builder := serviceBuilder{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("hookgate", builder.provider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("hookgate"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.store == nil {
		return nil, fmt.Errorf("hookgate: state store is required")
	}

	if builder.connector == nil {
		registry := builder.registry
		if registry == nil {
			registry = connector.DefaultRegistry()
		}
		conn, err := registry.Resolve(cfg.Connector.Kind)
		if err != nil {
			return nil, err
		}
		builder.connector = conn
	}

	if builder.authenticator == nil {
		strategy, err := auth.NewStaticKeyStrategy(cfg.APIKey)
		if err != nil {
			return nil, err
		}
		builder.authenticator = strategy
	}

	processor := webhooks.NewProcessor(builder.authenticator, builder.store, builder.connector)
	processor.Logger = logger
	if builder.allowlist != nil {
		processor.Allowlist = builder.allowlist
	}

	return &Service{
		cfg:       cfg,
		logger:    logger,
		store:     builder.store,
		processor: processor,
	}, nil
}

// ProcessWebhook runs an inbound event through the guarded pipeline.
func (s *Service) ProcessWebhook(ctx context.Context, presentedKey string, evt core.Event) (core.Outcome, error) {
	if s == nil || s.processor == nil {
		return core.Outcome{}, core.InternalError("hookgate: service is not configured")
	}
	return s.processor.Process(ctx, presentedKey, evt)
}

// SetKillSwitch maps the operator toggle onto the persisted mode:
// enabling the switch blocks execution.
func (s *Service) SetKillSwitch(ctx context.Context, enabled bool) (core.Mode, error) {
	if s == nil || s.store == nil {
		return "", core.InternalError("hookgate: service is not configured")
	}
	mode := core.ModeEnabled
	if enabled {
		mode = core.ModeBlocked
	}
	if err := s.store.SetMode(ctx, mode); err != nil {
		return "", err
	}
	current, err := s.store.GetMode(ctx)
	if err != nil {
		return "", err
	}
	s.logger.Info("kill switch updated", "enabled", enabled, "mode", current.String())
	return current, nil
}

// SetMode writes the operator mode directly.
func (s *Service) SetMode(ctx context.Context, mode core.Mode) error {
	if s == nil || s.store == nil {
		return core.InternalError("hookgate: service is not configured")
	}
	return s.store.SetMode(ctx, mode)
}

// Status reads the admin snapshot. No side effects.
func (s *Service) Status(ctx context.Context) (core.StatusReport, error) {
	if s == nil || s.store == nil {
		return core.StatusReport{}, core.InternalError("hookgate: service is not configured")
	}
	mode, err := s.store.GetMode(ctx)
	if err != nil {
		return core.StatusReport{}, err
	}
	count, err := s.store.CountProcessed(ctx)
	if err != nil {
		return core.StatusReport{}, err
	}
	return core.StatusReport{Mode: mode, ProcessedCount: count}, nil
}

func (s *Service) Config() core.Config {
	if s == nil {
		return core.Config{}
	}
	return s.cfg
}

func (s *Service) Store() core.StateStore {
	if s == nil {
		return nil
	}
	return s.store
}

var (
	_ core.AdminService = (*Service)(nil)
)
