package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leonardo-school/simulation-service/internal/models"
)

// Validator combines struct tag validation with the question-level checks
// that tags cannot express.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs struct tag validation and converts failures to the
// shared ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("simulation_type", validateSimulationType)
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("simulation_status", validateSimulationStatus)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateSimulationType(fl validator.FieldLevel) bool {
	switch models.SimulationType(fl.Field().String()) {
	case models.SimulationOfficial, models.SimulationQuickQuiz, models.SimulationPersonal:
		return true
	}
	return false
}

func validateQuestionType(fl validator.FieldLevel) bool {
	switch models.QuestionType(fl.Field().String()) {
	case models.SingleChoice, models.MultipleChoice, models.TrueFalse, models.OpenText:
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.RoleStudent, models.RoleCollaborator, models.RoleAdmin:
		return true
	}
	return false
}

func validateSimulationStatus(fl validator.FieldLevel) bool {
	switch models.SimulationStatus(fl.Field().String()) {
	case models.SimulationDraft, models.SimulationPublished, models.SimulationArchived:
		return true
	}
	return false
}
