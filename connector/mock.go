// Package connector holds the execution backends. Variants are
// selected by configured kind through the registry; the mock is the
// reference implementation used in demos and tests.
package connector

import (
	"context"
	"sort"
	"time"

	"github.com/goliatone/go-hookgate/core"
)

const KindMock = "mock"

const defaultMockDelay = 50 * time.Millisecond

// MockConnector simulates work and returns a deterministic record. It
// echoes the sorted payload key names rather than the values, so the
// result never leaks payload content.
type MockConnector struct {
	Delay time.Duration
}

func NewMockConnector() *MockConnector {
	return &MockConnector{Delay: defaultMockDelay}
}

func (c *MockConnector) Kind() string {
	return KindMock
}

func (c *MockConnector) Execute(ctx context.Context, action string, entity string, payload map[string]any) (core.ConnectorResult, error) {
	delay := defaultMockDelay
	if c != nil && c.Delay > 0 {
		delay = c.Delay
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return core.ConnectorResult{
		"connector":    KindMock,
		"action":       action,
		"entity":       entity,
		"payload_keys": keys,
		"status":       "ok",
	}, nil
}

var _ core.Connector = (*MockConnector)(nil)
