package validation

import (
	"fmt"
	"strings"

	"inkwell/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const defaultMessage = "Invalid value"

type skipMode int

const (
	skipNever skipMode = iota
	// skipAbsent skips the chain when the field is missing or null.
	skipAbsent
	// skipFalsy additionally skips empty strings, false and zero.
	skipFalsy
)

type step struct {
	sanitize func(string) string
	check    func(value string, body Body) bool
	msg      string
}

// Chain is the ordered list of sanitizers and checks for one body field.
// Every check runs and reports its own error; sanitizers rewrite the value
// seen by the checks after them.
type Chain struct {
	path  string
	skip  skipMode
	steps []step
}

// Field starts a chain for path.
func Field(path string) *Chain {
	return &Chain{path: path}
}

// Optional skips the chain when the field is absent.
func (c *Chain) Optional() *Chain {
	c.skip = skipAbsent
	return c
}

// OptionalFalsy skips the chain when the field is absent or falsy.
func (c *Chain) OptionalFalsy() *Chain {
	c.skip = skipFalsy
	return c
}

func (c *Chain) sanitize(fn func(string) string) *Chain {
	c.steps = append(c.steps, step{sanitize: fn})
	return c
}

func (c *Chain) check(msg string, fn func(string, Body) bool) *Chain {
	if msg == "" {
		msg = defaultMessage
	}
	c.steps = append(c.steps, step{check: fn, msg: msg})
	return c
}

func (c *Chain) tag(tag, msg string) *Chain {
	return c.check(msg, func(v string, _ Body) bool {
		return validate.Var(v, tag) == nil
	})
}

// Trim strips surrounding whitespace.
func (c *Chain) Trim() *Chain { return c.sanitize(strings.TrimSpace) }

// Escape replaces HTML-sensitive characters with entities.
func (c *Chain) Escape() *Chain { return c.sanitize(Escape) }

// Required fails on an empty value.
func (c *Chain) Required(msg string) *Chain { return c.tag("min=1", msg) }

// MinLength fails when the value has fewer than n characters.
func (c *Chain) MinLength(n int, msg string) *Chain { return c.tag(fmt.Sprintf("min=%d", n), msg) }

// MaxLength fails when the value has more than n characters.
func (c *Chain) MaxLength(n int, msg string) *Chain { return c.tag(fmt.Sprintf("max=%d", n), msg) }

// Boolean fails unless the value parses as a boolean.
func (c *Chain) Boolean(msg string) *Chain { return c.tag("boolean", msg) }

// Date fails unless the value is YYYY-MM-DD, YYYY/MM/DD or RFC 3339.
func (c *Chain) Date(msg string) *Chain {
	return c.tag("datetime=2006-01-02|datetime=2006/01/02|datetime="+rfc3339Tag, msg)
}

// OneOf fails unless the value is one of values.
func (c *Chain) OneOf(values []string, msg string) *Chain {
	return c.tag("oneof="+strings.Join(values, " "), msg)
}

// Custom fails when fn returns false. fn sees the body as sanitized so far.
func (c *Chain) Custom(msg string, fn func(value string, body Body) bool) *Chain {
	return c.check(msg, fn)
}

const rfc3339Tag = "2006-01-02T15:04:05Z07:00"

// Check is a whole-body rule, run after every field chain.
type Check func(body Body) *models.FieldError

// Schema is the set of rules for one request body.
type Schema struct {
	Name   string
	chains []*Chain
	checks []Check
}

// NewSchema assembles chains into a schema.
func NewSchema(name string, chains ...*Chain) *Schema {
	return &Schema{Name: name, chains: chains}
}

// With appends whole-body checks.
func (s *Schema) With(checks ...Check) *Schema {
	s.checks = append(s.checks, checks...)
	return s
}

// Run applies every chain to body and returns the sanitized copy. The error
// list is empty only when every rule passed.
func (s *Schema) Run(body Body) (Body, models.ValidationErrors) {
	out := body.clone()
	var errs models.ValidationErrors

	for _, c := range s.chains {
		raw, present := body[c.path]
		switch c.skip {
		case skipAbsent:
			if !present || raw == nil {
				continue
			}
		case skipFalsy:
			if isFalsy(raw) {
				continue
			}
		}

		value := stringify(raw)
		sanitized := false
		for _, st := range c.steps {
			if st.sanitize != nil {
				value = st.sanitize(value)
				sanitized = true
				continue
			}
			if !st.check(value, out) {
				errs = append(errs, FieldError(c.path, value, st.msg))
			}
		}
		if sanitized {
			out[c.path] = value
		}
	}

	for _, check := range s.checks {
		if fe := check(out); fe != nil {
			errs = append(errs, *fe)
		}
	}

	return out, errs
}

// FieldError builds a body field error.
func FieldError(path string, value any, msg string) models.FieldError {
	return models.FieldError{Type: "field", Value: value, Msg: msg, Path: path, Location: "body"}
}
