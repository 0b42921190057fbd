package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-hookgate/core"
)

var _ gocmd.Querier[GetStatusMessage, core.StatusReport] = (*GetStatusQuery)(nil)
