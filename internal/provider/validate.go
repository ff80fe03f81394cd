package provider

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError aggregates every constraint a Config violates
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid provider config: %s", strings.Join(e.Errors, "; "))
}

// configFields is the validated view of a Config; field names double as
// the names reported in ValidationError.
type configFields struct {
	Name            string `validate:"required,max=255"`
	Description     string `validate:"max=1000"`
	APIKey          string `validate:"required,max=500"`
	BaseURL         string `validate:"required,max=255,url"`
	IframeEmbedCode string `validate:"max=10000"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the config against its field constraints
func (c *Config) Validate() error {
	view := configFields{
		Name:            c.Name,
		Description:     c.Description,
		APIKey:          c.APIKey,
		BaseURL:         c.baseURL,
		IframeEmbedCode: c.IframeEmbedCode,
	}

	err := getValidator().Struct(view)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Errors = append(out.Errors, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
