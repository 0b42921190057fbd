package core

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorAuthInvalid      = "HOOKGATE_AUTH_INVALID"
	ErrorBadInput         = "HOOKGATE_BAD_INPUT"
	ErrorStoreUnavailable = "HOOKGATE_STORE_UNAVAILABLE"
	ErrorConnectorFailed  = "HOOKGATE_CONNECTOR_FAILED"
	ErrorInternal         = "HOOKGATE_INTERNAL"
)

// AuthenticationError rejects a request at the boundary. No state is
// touched when it fires.
func AuthenticationError(message string) error {
	return goerrors.New(message, goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(ErrorAuthInvalid)
}

func BadInputError(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// StoreUnavailableError wraps a storage I/O failure. Callers must
// propagate it as a request failure: coercing it to "not seen" or
// "mode enabled" would break the idempotency guarantee.
func StoreUnavailableError(source error, message string) error {
	if source == nil {
		return goerrors.New(message, goerrors.CategoryExternal).
			WithCode(http.StatusServiceUnavailable).
			WithTextCode(ErrorStoreUnavailable)
	}
	return goerrors.Wrap(source, goerrors.CategoryExternal, message).
		WithCode(http.StatusServiceUnavailable).
		WithTextCode(ErrorStoreUnavailable)
}

// ConnectorFailure wraps an error raised by the execution backend. It
// is distinct from rejections and duplicates: by the time it fires the
// signal is already committed to the ledger.
func ConnectorFailure(source error, message string) error {
	if source == nil {
		return goerrors.New(message, goerrors.CategoryExternal).
			WithCode(http.StatusBadGateway).
			WithTextCode(ErrorConnectorFailed)
	}
	return goerrors.Wrap(source, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorConnectorFailed)
}

func InternalError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorInternal)
}

// HTTPStatus maps an error to the transport status code, defaulting to
// 500 for errors outside the taxonomy.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Code > 0 {
		return richErr.Code
	}
	return http.StatusInternalServerError
}

// TextCode extracts the machine-readable code from a taxonomy error.
func TextCode(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode != "" {
		return richErr.TextCode
	}
	return ErrorInternal
}
