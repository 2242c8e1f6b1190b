package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"toolrent/internal/availability"
	bookingserrors "toolrent/internal/bookings/errors"
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
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	maxDays  int
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger, maxDays int) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonTagName)

	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}

	log.Debug("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		maxDays:  maxDays,
		logger:   log,
	}
}

func jsonTagName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := availability.ParseDate(fl.Field().String())
	return err == nil
}

// Validate checks field formats, then the date range. A well formed but
// inverted range yields bookingserrors.ErrInvalidRange.
func (v *BookingValidator) Validate(booking *model.Booking) (availability.Range, error) {
	if err := v.structErrors(booking); err != nil {
		return availability.Range{}, err
	}
	return v.ValidateRange(booking.StartDate, booking.EndDate)
}

func (v *BookingValidator) ValidateCancel(req *model.CancelRequest) error {
	if err := v.structErrors(req); err != nil {
		return err
	}
	_, err := v.ValidateRange(req.StartDate, req.EndDate)
	return err
}

// ValidateRange reports every unparseable bound under its own field name.
func (v *BookingValidator) ValidateRange(startDate, endDate string) (availability.Range, error) {
	var fieldErrs ValidationErrors
	start, err := availability.ParseDate(startDate)
	if err != nil {
		fieldErrs = append(fieldErrs, ValidationError{Field: "start_date", Message: err.Error()})
	}
	end, err := availability.ParseDate(endDate)
	if err != nil {
		fieldErrs = append(fieldErrs, ValidationError{Field: "end_date", Message: err.Error()})
	}
	if len(fieldErrs) > 0 {
		return availability.Range{}, fieldErrs
	}

	r, err := availability.NewRange(start, end)
	if err != nil {
		return availability.Range{}, fmt.Errorf("%w: %s > %s", bookingserrors.ErrInvalidRange, startDate, endDate)
	}
	if v.maxDays > 0 && r.Days() > v.maxDays {
		return availability.Range{}, fmt.Errorf("%w: %d days requested, at most %d allowed", bookingserrors.ErrRangeTooLong, r.Days(), v.maxDays)
	}
	return r, nil
}

func (v *BookingValidator) structErrors(s any) error {
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
	validationErrors := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "calendar_date":
			message = fmt.Sprintf("%s must be a calendar date in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
