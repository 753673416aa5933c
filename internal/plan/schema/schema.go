package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// Type is a JSON value kind a field may be constrained to.
type Type string

const (
	String  Type = "string"
	Number  Type = "number"
	Integer Type = "integer"
	Boolean Type = "boolean"
	Object  Type = "object"
	Array   Type = "array"
)

// Constraint names reported in FieldError.Constraint.
const (
	ConstraintRequired  = "required"
	ConstraintType      = "type"
	ConstraintMinLength = "minLength"
	ConstraintFormat    = "format"
)

// Field describes one member of an object.
type Field struct {
	Name      string
	Type      Type
	Required  bool
	MinLength int
	// Format names a checker registered in Formats. Strings only.
	Format string
	// Properties describes the members of an Object field. Members not listed are allowed.
	Properties []Field
	// Items describes every element of an Array field. Items.Name is ignored.
	Items *Field
}

// FieldError is a single violation. Field is a dotted path, array elements are
// addressed as name[i].
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// Schema is a compiled, immutable set of field rules. It is safe for concurrent use.
type Schema struct {
	fields  []Field
	formats *Formats
}

// Compile checks the field list for internal consistency and returns a Schema
// that can be applied to documents.
func Compile(fields []Field, formats *Formats) (*Schema, error) {
	if formats == nil {
		formats = NewFormats()
	}
	if err := checkFields("", fields, formats); err != nil {
		return nil, err
	}
	return &Schema{fields: fields, formats: formats}, nil
}

// MustCompile is Compile for package-level schemas; it panics on an inconsistent schema.
func MustCompile(fields []Field, formats *Formats) *Schema {
	s, err := Compile(fields, formats)
	if err != nil {
		panic(err)
	}
	return s
}

func checkFields(prefix string, fields []Field, formats *Formats) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("schema: empty field name under %q", prefix)
		}
		path := join(prefix, f.Name)
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("schema: duplicate field %q", path)
		}
		seen[f.Name] = struct{}{}
		if err := checkField(path, f, formats); err != nil {
			return err
		}
	}
	return nil
}

func checkField(path string, f Field, formats *Formats) error {
	switch f.Type {
	case String, Number, Integer, Boolean, Object, Array:
	default:
		return fmt.Errorf("schema: field %q: unknown type %q", path, f.Type)
	}
	if f.Type != String && (f.Format != "" || f.MinLength != 0) {
		return fmt.Errorf("schema: field %q: format and minLength apply to strings only", path)
	}
	if f.MinLength < 0 {
		return fmt.Errorf("schema: field %q: negative minLength", path)
	}
	if f.Format != "" {
		if err := formats.verify(f.Format); err != nil {
			return fmt.Errorf("schema: field %q: %w", path, err)
		}
	}
	if len(f.Properties) > 0 {
		if f.Type != Object {
			return fmt.Errorf("schema: field %q: properties on non-object", path)
		}
		if err := checkFields(path, f.Properties, formats); err != nil {
			return err
		}
	}
	if f.Items != nil {
		if f.Type != Array {
			return fmt.Errorf("schema: field %q: items on non-array", path)
		}
		if err := checkField(path+"[]", *f.Items, formats); err != nil {
			return err
		}
	}
	return nil
}

// Validate applies the schema to doc. The result is empty when doc conforms.
// Errors are ordered by schema field order, depth first.
func (s *Schema) Validate(doc map[string]any) []FieldError {
	var errs []FieldError
	s.object("", s.fields, doc, &errs)
	return errs
}

func (s *Schema) object(prefix string, fields []Field, obj map[string]any, errs *[]FieldError) {
	for _, f := range fields {
		path := join(prefix, f.Name)
		v, ok := obj[f.Name]
		if !ok {
			if f.Required {
				*errs = append(*errs, FieldError{Field: path, Constraint: ConstraintRequired, Message: "is required"})
			}
			continue
		}
		s.value(path, f, v, errs)
	}
}

func (s *Schema) value(path string, f Field, v any, errs *[]FieldError) {
	if !hasType(f.Type, v) {
		*errs = append(*errs, FieldError{
			Field:      path,
			Constraint: ConstraintType,
			Message:    fmt.Sprintf("must be %s, got %s", f.Type, kindOf(v)),
		})
		return
	}
	switch f.Type {
	case String:
		str := v.(string)
		if f.MinLength > 0 && utf8.RuneCountInString(str) < f.MinLength {
			*errs = append(*errs, FieldError{
				Field:      path,
				Constraint: ConstraintMinLength,
				Message:    fmt.Sprintf("must be at least %d characters", f.MinLength),
			})
			return
		}
		if f.Format != "" {
			if err := s.formats.Check(f.Format, str); err != nil {
				*errs = append(*errs, FieldError{
					Field:      path,
					Constraint: ConstraintFormat,
					Message:    fmt.Sprintf("must match format %q", f.Format),
				})
			}
		}
	case Object:
		if len(f.Properties) > 0 {
			s.object(path, f.Properties, v.(map[string]any), errs)
		}
	case Array:
		if f.Items != nil {
			for i, item := range v.([]any) {
				s.value(path+"["+strconv.Itoa(i)+"]", *f.Items, item, errs)
			}
		}
	}
}

func hasType(t Type, v any) bool {
	switch t {
	case String:
		_, ok := v.(string)
		return ok
	case Number:
		switch v.(type) {
		case json.Number, float64, float32, int, int64:
			return true
		}
		return false
	case Integer:
		switch n := v.(type) {
		case json.Number:
			if _, err := n.Int64(); err == nil {
				return true
			}
			// exponent forms such as 1e3
			fv, err := n.Float64()
			return err == nil && isWhole(fv)
		case int, int64:
			return true
		case float64:
			return isWhole(n)
		}
		return false
	case Boolean:
		_, ok := v.(bool)
		return ok
	case Object:
		_, ok := v.(map[string]any)
		return ok
	case Array:
		_, ok := v.([]any)
		return ok
	}
	return false
}

func isWhole(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, float32, int, int64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
