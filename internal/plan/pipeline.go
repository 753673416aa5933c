package plan

import (
	"github.com/gogotex/planstore/internal/plan/schema"
)

// Stage transforms a request-scoped document or rejects it.
type Stage func(Document) (Document, error)

// Pipeline runs stages in order and stops at the first failure.
type Pipeline []Stage

func (p Pipeline) Run(doc Document) (Document, error) {
	var err error
	for _, stage := range p {
		if doc, err = stage(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Process decodes body and runs the pipeline over it.
func (p Pipeline) Process(body []byte) (Document, error) {
	doc, err := Decode(body)
	if err != nil {
		return nil, err
	}
	return p.Run(doc)
}

func NormalizeStage(n DateNormalizer) Stage {
	return n.Normalize
}

func ValidateStage(s *schema.Schema) Stage {
	return func(doc Document) (Document, error) {
		if errs := s.Validate(doc); len(errs) > 0 {
			return nil, &ValidationError{Errors: errs}
		}
		return doc, nil
	}
}

// RequireIdentifier rejects documents without a usable storage key.
func RequireIdentifier(doc Document) (Document, error) {
	if _, ok := doc.ID(); !ok {
		return nil, ErrMissingIdentifier
	}
	return doc, nil
}

// WritePipeline is the ordered set of checks a document passes before it is stored.
func WritePipeline(s *schema.Schema) Pipeline {
	return Pipeline{
		NormalizeStage(NewDateNormalizer()),
		ValidateStage(s),
		RequireIdentifier,
	}
}
