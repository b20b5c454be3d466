package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// Declarative validation uses go-playground/validator struct tags; rules
// that cannot be expressed in tags are checked separately.
//
// Note: Log level normalization happens in ApplyDefaults, not here.
// Validation accepts both uppercase and lowercase log levels.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// The full report fires less often than the summary; the reverse is
	// almost certainly a configuration mistake.
	if cfg.Stats.ReportInterval < cfg.Stats.SummaryInterval {
		return fmt.Errorf("stats: report_interval (%s) must not be shorter than summary_interval (%s)",
			cfg.Stats.ReportInterval, cfg.Stats.SummaryInterval)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		return fmt.Errorf("metrics: port is required when metrics are enabled")
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly
// messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
