package plan

import (
	"fmt"
	"time"

	"github.com/gogotex/planstore/internal/plan/schema"
)

// SourceDateLayout is the day-month-year form clients send.
const SourceDateLayout = "02-01-2006"

// DateNormalizer rewrites one string member from From layout to To layout.
type DateNormalizer struct {
	Field string
	From  string
	To    string
}

// NewDateNormalizer returns the creationDate normalizer (DD-MM-YYYY to YYYY-MM-DD).
func NewDateNormalizer() DateNormalizer {
	return DateNormalizer{Field: FieldCreationDate, From: SourceDateLayout, To: schema.DateLayout}
}

// Normalize returns doc with the field rewritten. An absent or non-string field
// is left for the schema to judge. A value already in the target layout passes
// unchanged so normalizing is idempotent. Any other string is rejected.
func (n DateNormalizer) Normalize(doc Document) (Document, error) {
	raw, ok := doc[n.Field]
	if !ok {
		return doc, nil
	}
	s, ok := raw.(string)
	if !ok {
		return doc, nil
	}
	if _, err := time.Parse(n.To, s); err == nil {
		return doc, nil
	}
	t, err := time.Parse(n.From, s)
	if err != nil {
		return nil, &ValidationError{Errors: []schema.FieldError{{
			Field:      n.Field,
			Constraint: schema.ConstraintFormat,
			Message:    fmt.Sprintf("must be a date in %s form", n.From),
		}}}
	}
	out := doc.clone()
	out[n.Field] = t.Format(n.To)
	return out, nil
}
