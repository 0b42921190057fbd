package hookgate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	hookgate "github.com/goliatone/go-hookgate"
	"github.com/goliatone/go-hookgate/connector"
	"github.com/goliatone/go-hookgate/core"
)

type fakeStateStore struct {
	mu       sync.Mutex
	signals  map[string]struct{}
	settings map[string]string
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{
		signals:  map[string]struct{}{},
		settings: map[string]string{},
	}
}

func (s *fakeStateStore) Seen(_ context.Context, signalID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.signals[signalID]
	return found, nil
}

func (s *fakeStateStore) MarkSeen(_ context.Context, signalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals[signalID] = struct{}{}
	return nil
}

func (s *fakeStateStore) Claim(_ context.Context, signalID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.signals[signalID]; found {
		return false, nil
	}
	s.signals[signalID] = struct{}{}
	return true, nil
}

func (s *fakeStateStore) CountProcessed(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.signals)), nil
}

func (s *fakeStateStore) GetMode(ctx context.Context) (core.Mode, error) {
	value, found, err := s.GetSetting(ctx, core.SettingKeyMode)
	if err != nil {
		return "", err
	}
	if !found {
		return core.ModeEnabled, nil
	}
	return core.ParseMode(value)
}

func (s *fakeStateStore) SetMode(ctx context.Context, mode core.Mode) error {
	if !mode.Valid() {
		return core.ErrInvalidMode
	}
	return s.PutSetting(ctx, core.SettingKeyMode, mode.String())
}

func (s *fakeStateStore) GetSetting(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, found := s.settings[key]
	return value, found, nil
}

func (s *fakeStateStore) PutSetting(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

func TestNewRequiresStateStore(t *testing.T) {
	_, err := hookgate.New(core.DefaultConfig())
	if err == nil {
		t.Fatalf("expected error without a state store")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.APIKey = ""

	_, err := hookgate.New(cfg, hookgate.WithStateStore(newFakeStateStore()))
	if err == nil {
		t.Fatalf("expected config validation error")
	}
}

func TestNewRejectsUnknownConnectorKind(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Connector.Kind = "carrier-pigeon"

	_, err := hookgate.New(cfg, hookgate.WithStateStore(newFakeStateStore()))
	if err == nil {
		t.Fatalf("expected unknown connector error")
	}
	if core.HTTPStatus(err) != 400 {
		t.Fatalf("expected bad input classification, got %d", core.HTTPStatus(err))
	}
}

func newFakeService(t *testing.T, store core.StateStore) *hookgate.Service {
	t.Helper()
	service, err := hookgate.New(core.DefaultConfig(),
		hookgate.WithStateStore(store),
		hookgate.WithConnector(&connector.MockConnector{Delay: time.Millisecond}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func TestSetKillSwitchMapsToMode(t *testing.T) {
	store := newFakeStateStore()
	service := newFakeService(t, store)
	ctx := context.Background()

	mode, err := service.SetKillSwitch(ctx, true)
	if err != nil {
		t.Fatalf("engage: %v", err)
	}
	if mode != core.ModeBlocked {
		t.Fatalf("expected blocked, got %s", mode)
	}

	mode, err = service.SetKillSwitch(ctx, false)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if mode != core.ModeEnabled {
		t.Fatalf("expected enabled, got %s", mode)
	}
}

func TestStatusReportsModeAndCount(t *testing.T) {
	store := newFakeStateStore()
	service := newFakeService(t, store)
	ctx := context.Background()

	if err := store.MarkSeen(ctx, "sig-1"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := store.MarkSeen(ctx, "sig-2"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	report, err := service.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if report.Mode != core.ModeEnabled {
		t.Fatalf("expected enabled, got %s", report.Mode)
	}
	if report.ProcessedCount != 2 {
		t.Fatalf("expected 2 processed, got %d", report.ProcessedCount)
	}
}

func TestProcessWebhookEndToEnd(t *testing.T) {
	store := newFakeStateStore()
	service := newFakeService(t, store)
	ctx := context.Background()

	evt := core.Event{
		SignalID:  "sig-facade",
		Source:    "crm",
		Action:    "ping",
		Entity:    "system",
		Payload:   map[string]any{},
		EventTime: time.Now().UTC(),
	}

	outcome, err := service.ProcessWebhook(ctx, core.DefaultAPIKey, evt)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome.Status != core.StatusExecuted {
		t.Fatalf("expected executed, got %+v", outcome)
	}

	outcome, err = service.ProcessWebhook(ctx, core.DefaultAPIKey, evt)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if outcome.Status != core.StatusDuplicate {
		t.Fatalf("expected duplicate, got %+v", outcome)
	}
}
