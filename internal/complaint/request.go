package complaint

import (
	"campusdesk/backend/internal/models"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// SubmitRequest is what a student fills in. Urgency is never part of it.
type SubmitRequest struct {
	Department  string `json:"department" validate:"required,department"`
	Description string `json:"description" validate:"required,max=2000"`
	Location    string `json:"location" validate:"max=200"`
}

// Normalize trims every field and lowercases the department.
func (r *SubmitRequest) Normalize() {
	r.Department = strings.ToLower(strings.TrimSpace(r.Department))
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		err := validate.RegisterValidation("department", func(fl validator.FieldLevel) bool {
			_, err := models.ParseDepartment(fl.Field().String())
			return err == nil
		})
		if err != nil {
			panic(fmt.Sprintf("complaint: register department validation: %v", err))
		}
	})
	return validate
}

// Validate returns a *ValidationError for the first failing field.
func (r *SubmitRequest) Validate() error {
	err := requestValidator().Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "request", Reason: err.Error()}
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Reason: "is required"}
	case "department":
		return &ValidationError{Field: field, Reason: fmt.Sprintf("unknown department %q", fe.Value())}
	case "max":
		return &ValidationError{Field: field, Reason: "must be at most " + fe.Param() + " characters"}
	}
	return &ValidationError{Field: field, Reason: "failed " + fe.Tag()}
}
