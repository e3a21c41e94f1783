// Package validation adapts go-playground/validator to echo's Validator
// interface so request structs are checked through c.Validate.
package validation

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps a single validator.Validate. The instance caches struct
// metadata, so one is shared by the whole server.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

// Underlying exposes the wrapped instance for controllers that validate
// request structs without going through echo.
func (v *Validator) Underlying() *validator.Validate { return v.v }

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}
