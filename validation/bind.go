package validation

import (
	"goyave.dev/formrules/util/errors"
	"goyave.dev/formrules/util/typeutil"
)

// Bind converts the valid values of the form into a new `T`, matching the
// field names with the struct's JSON tags.
//
//	type Registration struct {
//		Email string   `json:"email"`
//		Tags  []string `json:"tags"`
//	}
//	dto, err := validation.Bind[Registration](form)
func Bind[T any](form *Form) (T, error) {
	return typeutil.Convert[T](form.Values())
}

// Apply binds the valid values of the form and copies the non-empty ones onto
// the given model. Fields left empty in the form keep their current value in the model.
func Apply[T any](form *Form, model *T) error {
	if model == nil {
		return errors.New("cannot apply form values on a nil model")
	}
	dto, err := Bind[T](form)
	if err != nil {
		return err
	}
	return typeutil.Copy(model, &dto)
}
