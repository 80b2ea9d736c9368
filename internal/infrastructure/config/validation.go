package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks a configuration against its tags and the cross-field
// rules below
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the configuration rules registered
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})
	v.RegisterStructValidation(validateSimulation, SimulationConfig{})
	return &Validator{validate: v}
}

// postgres needs somewhere to connect to
func validateDatabase(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	if db.Type != "postgres" || db.URL != "" {
		return
	}
	if db.Host == "" {
		sl.ReportError(db.Host, "Host", "Host", "required_without_url", "")
	}
	if db.Name == "" {
		sl.ReportError(db.Name, "Name", "Name", "required_without_url", "")
	}
}

// a pacing limit only makes sense for a bounded run
func validateSimulation(sl validator.StructLevel) {
	sim := sl.Current().Interface().(SimulationConfig)
	if sim.TickRate > 0 && sim.MaxTicks == 0 {
		sl.ReportError(sim.MaxTicks, "MaxTicks", "MaxTicks", "required_with_tick_rate", "")
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError lists every failed field by its full path
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msg := fmt.Sprintf("%s: failed %q", strings.TrimPrefix(e.Namespace(), "Config."), e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (%s)", e.Param())
		}
		if v := e.Value(); v != nil && fmt.Sprint(v) != "" {
			msg += fmt.Sprintf(", got %v", v)
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
