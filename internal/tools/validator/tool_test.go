package validator

import (
	"testing"

	"toolrent/pkg/logger"
	"toolrent/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := NewToolValidator(logger.Discard())

	valid := model.Tool{
		OwnerID:    "owner-1",
		Name:       "Ladder",
		Category:   "ladders",
		City:       "berlin",
		DailyRate:  800,
		Currency:   "EUR",
		OwnerPhone: "+4915123456789",
	}
	require.NoError(t, v.Validate(&valid))

	invalid := valid
	invalid.Category = "boats"
	invalid.DailyRate = -1

	err := v.Validate(&invalid)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)

	fields := []string{errs[0].Field, errs[1].Field}
	assert.ElementsMatch(t, []string{"category", "daily_rate"}, fields)
	assert.Contains(t, errs[0].Message+errs[1].Message, "power_tools")
}

func TestValidateUpdate(t *testing.T) {
	v := NewToolValidator(logger.Discard())

	require.NoError(t, v.ValidateUpdate(&model.ToolUpdate{}))

	rate := int64(0)
	assert.Error(t, v.ValidateUpdate(&model.ToolUpdate{DailyRate: &rate}))
	assert.Error(t, v.ValidateUpdate(&model.ToolUpdate{Currency: "dollars"}))
}
