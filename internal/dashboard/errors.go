package dashboard

import (
	"errors"

	"signal-desk/internal/domain"
)

var (
	ErrControlsDisabled = errors.New("result controls are disabled")
	ErrNoPrediction     = errors.New("no prediction has been committed")
	ErrNothingToConfirm = errors.New("no confirmation is pending")
	ErrFeatureDisabled  = errors.New("feature is not enabled")
	ErrNoFile           = errors.New("no file selected")
	ErrOutsideUploadDir = errors.New("screenshot must be inside the upload directory")
)

// ErrorClass buckets an action error for logs and metrics.
func ErrorClass(err error) string {
	var rej *domain.RejectedError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrTransport):
		return "transport"
	case errors.As(err, &rej):
		return "rejected"
	case IsValidation(err):
		return "validation"
	case errors.Is(err, ErrBusy):
		return "busy"
	}
	return "local"
}
