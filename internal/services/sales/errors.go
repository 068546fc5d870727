package sales

import (
	"errors"
	"strings"
)

// ErrNoProviders is returned when a project has no enabled and configured
// payment provider.
var ErrNoProviders = errors.New("no payment providers configured or enabled")

// ProvidersFailedError is returned when every attempted provider failed.
type ProvidersFailedError struct {
	Errors []string
}

func (e *ProvidersFailedError) Error() string {
	return strings.Join(e.Errors, " | ")
}

// ErrorMessage returns the text shown on a project card for a failed fetch.
func ErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoProviders):
		return "No payment providers configured or enabled"
	default:
		return err.Error()
	}
}
