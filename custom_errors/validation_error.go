package custom_errors

import (
	"errors"
	"strings"
)

// ValidationError collects every problem found in a config or a submitted form,
// so the operator sees them all at once.
type ValidationError struct {
	Errors []error `json:"errors"`
}

func (c *ValidationError) Add(err error) {
	c.Errors = append(c.Errors, err)
}

func (c *ValidationError) HasError() bool {
	return len(c.Errors) > 0
}

// Messages returns one line per collected error, for display.
func (c *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(c.Errors))
	for _, err := range c.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

func (c *ValidationError) Error() string {
	if len(c.Errors) == 0 {
		return ""
	}
	return strings.Join(c.Messages(), "; ")
}

func (c *ValidationError) Unwrap() []error {
	return c.Errors
}

// AsValidation reports whether err is, or wraps, a ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}
