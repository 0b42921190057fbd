package core

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// EnvConfigLoader reads the recognized HOOKGATE_* environment
// variables. HOOKGATE_API_KEY is the one variable spec'd for the demo
// deployment; the rest cover the ambient service settings.
type EnvConfigLoader struct {
	Lookup func(key string) (string, bool)
}

func (l EnvConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	lookup := l.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	raw := map[string]any{}
	if value, ok := lookup("HOOKGATE_API_KEY"); ok && strings.TrimSpace(value) != "" {
		raw["api_key"] = strings.TrimSpace(value)
	}
	if value, ok := lookup("HOOKGATE_LISTEN"); ok && strings.TrimSpace(value) != "" {
		raw["listen"] = strings.TrimSpace(value)
	}
	if value, ok := lookup("HOOKGATE_CONNECTOR"); ok && strings.TrimSpace(value) != "" {
		raw["connector"] = map[string]any{"kind": strings.TrimSpace(value)}
	}

	database := map[string]any{}
	if value, ok := lookup("HOOKGATE_DB_DRIVER"); ok && strings.TrimSpace(value) != "" {
		database["driver"] = strings.TrimSpace(value)
	}
	if value, ok := lookup("HOOKGATE_DB_DSN"); ok && strings.TrimSpace(value) != "" {
		database["dsn"] = strings.TrimSpace(value)
	}
	if value, ok := lookup("HOOKGATE_DB_DEBUG"); ok {
		debug, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("core: HOOKGATE_DB_DEBUG must be a boolean: %w", err)
		}
		database["debug"] = debug
	}
	if len(database) > 0 {
		raw["database"] = database
	}
	return raw, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GoOptionsResolver merges configuration layers with deterministic
/// precedence: defaults < loaded < runtime overrides.
type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.ServiceName) != "" {
		layer["service_name"] = cfg.ServiceName
	}
	if includeZero || strings.TrimSpace(cfg.Listen) != "" {
		layer["listen"] = cfg.Listen
	}
	if includeZero || strings.TrimSpace(cfg.APIKey) != "" {
		layer["api_key"] = cfg.APIKey
	}

	database := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.Database.Driver) != "" {
		database["driver"] = cfg.Database.Driver
	}
	if includeZero || strings.TrimSpace(cfg.Database.DSN) != "" {
		database["dsn"] = cfg.Database.DSN
	}
	if includeZero || cfg.Database.Debug {
		database["debug"] = cfg.Database.Debug
	}
	if includeZero || cfg.Database.PingTimeout > 0 {
		database["ping_timeout"] = durationOrDefault(cfg.Database.PingTimeout)
	}
	if len(database) > 0 {
		layer["database"] = database
	}

	if includeZero || strings.TrimSpace(cfg.Connector.Kind) != "" {
		layer["connector"] = map[string]any{"kind": cfg.Connector.Kind}
	}
	return layer
}

func durationOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return time.Second
	}
	return value
}
