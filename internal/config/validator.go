package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/themer/internal/source/seed"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	hexColourPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// ValidationError describes the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("hexcolour", func(fl validator.FieldLevel) bool {
			return hexColourPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("seed_mode", func(fl validator.FieldLevel) bool {
			_, err := seed.ParseMode(fl.Field().String())
			return err == nil
		})

		// The theme id is substituted with a single %s.
		_ = v.RegisterValidation("url_template", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return strings.Count(s, "%s") == 1 && (strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://"))
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if cfg == nil {
		return &ValidationError{Field: "config", Message: "configuration is nil"}
	}
	return convertValidationError(validatorInstance().Struct(cfg))
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		ve := ves[0]
		field := strings.ToLower(ve.StructNamespace())
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("failed validation for tag '%s'", ve.Tag()),
			Err:     err,
		}
	}

	return &ValidationError{Field: "config", Message: err.Error(), Err: err}
}
