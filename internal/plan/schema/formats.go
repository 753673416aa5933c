package schema

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Built-in format names.
const (
	FormatDate       = "date"
	FormatIdentifier = "identifier"
)

// DateLayout is the canonical creationDate representation.
const DateLayout = "2006-01-02"

var identifierRe = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// Formats maps format names to validator tags. Register everything before the
// first Check; lookups afterwards are read-only.
type Formats struct {
	v    *validator.Validate
	tags map[string]string
}

// NewFormats returns a registry with the date and identifier formats.
func NewFormats() *Formats {
	v := validator.New()
	// a registration error here means the tag name is reserved, which is a programming error
	if err := v.RegisterValidation("planid", func(fl validator.FieldLevel) bool {
		return identifierRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	f := &Formats{v: v, tags: make(map[string]string)}
	for name, tag := range map[string]string{
		FormatDate:       "datetime=" + DateLayout,
		FormatIdentifier: "planid",
	} {
		if err := f.Register(name, tag); err != nil {
			panic(err)
		}
	}
	return f
}

// Register binds a format name to a go-playground/validator tag expression,
// e.g. Register("email", "email") or Register("short", "max=16"). Tags naming
// an undefined validation function are rejected here.
func (f *Formats) Register(name, tag string) error {
	if err := f.dryRun(tag); err != nil {
		return fmt.Errorf("register format %q: %w", name, err)
	}
	f.tags[name] = tag
	return nil
}

// RegisterFunc adds a custom check under name.
func (f *Formats) RegisterFunc(name string, fn func(string) bool) error {
	tag := "fmt_" + name
	if err := f.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register format %q: %w", name, err)
	}
	f.tags[name] = tag
	return nil
}

// verify reports whether name is registered and its tag can be applied.
func (f *Formats) verify(name string) error {
	tag, ok := f.tags[name]
	if !ok {
		return fmt.Errorf("unregistered format %q", name)
	}
	return f.dryRun(tag)
}

// dryRun applies tag once; validator panics on tags it cannot parse.
func (f *Formats) dryRun(tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid validator tag %q: %v", tag, r)
		}
	}()
	_ = f.v.Var("", tag)
	return nil
}

// Check returns nil when value satisfies the named format.
func (f *Formats) Check(name, value string) (err error) {
	tag, ok := f.tags[name]
	if !ok {
		return fmt.Errorf("unknown format %q", name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("format %q: %v", name, r)
		}
	}()
	return f.v.Var(value, tag)
}
