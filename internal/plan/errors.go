package plan

import (
	"errors"
	"strings"

	"github.com/gogotex/planstore/internal/plan/schema"
)

var (
	ErrNotFound           = errors.New("plan not found")
	ErrMissingIdentifier  = errors.New("objectId is required")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
	ErrMalformedInput     = errors.New("malformed input")
)

// ValidationError carries the full list of schema violations for a document.
type ValidationError struct {
	Errors []schema.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsClientError reports whether err was caused by the request rather than the store.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrMissingIdentifier) || errors.Is(err, ErrMalformedInput)
}
