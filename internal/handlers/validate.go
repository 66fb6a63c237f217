package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all handlers. Struct validation runs explicitly at the
// top of each handler body, before any repo call.
var validate = validator.New()

// validationFields flattens validator errors into a field -> constraint map
// for the "fields" part of a 400 response.
func validationFields(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fields
	}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		if fe.Param() != "" {
			fields[name] = fe.Tag() + "=" + fe.Param()
		} else {
			fields[name] = fe.Tag()
		}
	}
	return fields
}
