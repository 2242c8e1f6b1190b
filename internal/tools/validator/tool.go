package validator

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"toolrent/pkg/logger"
	"toolrent/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type ToolValidator struct {
	validate *validator.Validate
}

func NewToolValidator(log *logger.Logger) *ToolValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("tool_category", func(fl validator.FieldLevel) bool {
		return slices.Contains(model.ToolCategories, fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register 'tool_category' validator", "error", err)
	}

	return &ToolValidator{validate: v}
}

func (v *ToolValidator) Validate(tool *model.Tool) error {
	return v.check(tool)
}

func (v *ToolValidator) ValidateUpdate(update *model.ToolUpdate) error {
	return v.check(update)
}

func (v *ToolValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors

	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min", "max":
			message = fmt.Sprintf("%s must be between the allowed length bounds (%s %s)", err.Field(), err.Tag(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "e164":
			message = fmt.Sprintf("%s must be a valid phone number", err.Field())
		case "iso4217":
			message = fmt.Sprintf("%s must be an ISO 4217 currency code", err.Field())
		case "tool_category":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(model.ToolCategories, ", "))
		}
		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}

	return out
}
