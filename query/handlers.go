// Package query exposes the read-only admin lookups as go-command
// queries.
package query

import (
	"context"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-hookgate/core"
)

const TypeGetStatus = "hookgate.query.status.get"

// StatusReader is implemented by the hookgate service.
type StatusReader interface {
	Status(ctx context.Context) (core.StatusReport, error)
}

type GetStatusMessage struct{}

func (GetStatusMessage) Type() string { return TypeGetStatus }

type GetStatusQuery struct {
	reader StatusReader
}

func NewGetStatusQuery(reader StatusReader) *GetStatusQuery {
	return &GetStatusQuery{reader: reader}
}

func (q *GetStatusQuery) Query(ctx context.Context, _ GetStatusMessage) (core.StatusReport, error) {
	if q == nil || q.reader == nil {
		return core.StatusReport{}, queryDependencyError("query: status reader is required")
	}
	return q.reader.Status(ctx)
}

func queryDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.ErrorInternal)
}
