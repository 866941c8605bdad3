package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"fulfillment/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

// requestValidator plugs validator/v10 into echo.Context.Validate and reports
// failures as errs validation errors keyed by JSON field path.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

func (v *requestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.NewValueIsInvalidErrorWithCause("request", err)
	}

	errList := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		if fe.Tag() == "required" {
			errList = append(errList, errs.NewValueIsRequiredError(field))
			continue
		}
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(field,
			fmt.Errorf("failed %q check", strings.TrimSpace(fe.Tag()+" "+fe.Param()))))
	}
	return errors.Join(errList...)
}

// fieldPath drops the root struct name: "TransitionRequest.action" becomes "action".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
