package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorFormatting(t *testing.T) {
	err := NewValidationError("max_attempts", "must be between 1 and 50", 0)

	assert.Equal(t, "max_attempts", err.Field)
	assert.Equal(t, 0, err.Value)
	assert.Equal(t, "validation error on field 'max_attempts': must be between 1 and 50", err.Error())
}

func TestValidationErrorsSummary(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("title", "is required", nil))
	assert.Equal(t, "validation failed: title is required", errs.Error())

	errs = append(errs, *NewValidationErrorWithRule("keyword", "must be a positive weight", "keyword_weight", -1.0))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
	assert.Equal(t, "keyword_weight", errs[1].Rule)
}

func TestToValidationErrorsUsesFriendlyMessages(t *testing.T) {
	type createSimulation struct {
		Title       string `json:"title" validate:"required"`
		MaxAttempts int    `json:"max_attempts" validate:"min=1"`
	}

	v := validator.New()
	err := v.Struct(createSimulation{MaxAttempts: 0})
	require.Error(t, err)

	converted := ToValidationErrors(err)
	require.Len(t, converted, 2)

	byField := map[string]ValidationError{}
	for _, ve := range converted {
		byField[ve.Field] = ve
	}
	assert.Equal(t, "is required", byField["Title"].Message)
	assert.Equal(t, "required", byField["Title"].Rule)
	assert.Equal(t, "must be at least 1", byField["MaxAttempts"].Message)
}

func TestToValidationErrorsIgnoresForeignErrors(t *testing.T) {
	assert.Empty(t, ToValidationErrors(assert.AnError))
}
