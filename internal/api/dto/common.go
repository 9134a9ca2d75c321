package dto

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/fairgrounds/registration-service/pkg/util"
)

// AsDomainError converts a request validation failure into the shared
// field-keyed error shape so callers see one envelope format.
func AsDomainError(err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make(map[string]any, len(verrs))
		for name, fieldErr := range verrs {
			fields[name] = fieldErr.Error()
		}
		return util.NewValidationError("request validation failed", fields)
	}
	return util.NewValidationError(err.Error(), nil)
}
