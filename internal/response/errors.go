package response

import (
	"context"
	"errors"
	"io"

	"github.com/getsentry/sentry-go"

	"fileservice/internal/sentryx"
	"fileservice/internal/workspace"
)

// Kinds reported besides the workspace error kinds.
const (
	KindCanceled = "canceled"
	KindUsage    = "usage"
)

// ErrorBody is the standard error envelope.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Error writes the error envelope for err. Cancellation is reported as
// such; other failures not classified by the workspace package are sent to
// sentry as messages.
func Error(w io.Writer, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return JSON(w, ErrorBody{Error: err.Error(), Kind: KindCanceled})
	}

	kind := workspace.KindOf(err)
	var wsErr *workspace.Error
	if !errors.As(err, &wsErr) {
		sentryx.CaptureMessage(sentry.LevelError, "command_error kind=%s message=%s", kind, err)
	}
	return JSON(w, ErrorBody{Error: err.Error(), Kind: kind.String()})
}

// Usage writes a usage error envelope.
func Usage(w io.Writer, message string) error {
	return JSON(w, ErrorBody{Error: message, Kind: KindUsage})
}
