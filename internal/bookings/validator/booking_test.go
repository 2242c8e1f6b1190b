package validator

import (
	"testing"

	bookingserrors "toolrent/internal/bookings/errors"
	"toolrent/pkg/logger"
	"toolrent/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRange_ReportsFailingField(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), 365)

	tests := []struct {
		name   string
		start  string
		end    string
		fields []string
	}{
		{"bad start", "2026-02-30", "2026-03-02", []string{"start_date"}},
		{"bad end", "2026-03-01", "03/02/2026", []string{"end_date"}},
		{"both bad", "", "tomorrow", []string{"start_date", "end_date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateRange(tt.start, tt.end)

			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidateRange(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), 3)

	r, err := v.ValidateRange("2026-03-01", "2026-03-03")
	require.NoError(t, err)
	assert.Equal(t, 3, r.Days())

	_, err = v.ValidateRange("2026-03-03", "2026-03-01")
	assert.ErrorIs(t, err, bookingserrors.ErrInvalidRange)

	_, err = v.ValidateRange("2026-03-01", "2026-03-04")
	assert.ErrorIs(t, err, bookingserrors.ErrRangeTooLong)
}

func TestValidate_StructErrorsUseJSONNames(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), 365)

	_, err := v.Validate(&model.Booking{ToolID: "not-an-id", StartDate: "2026-03-01", EndDate: "2026-03-02"})

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"tool_id", "user_id"}, fields)
}
