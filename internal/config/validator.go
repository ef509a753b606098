package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// ConfigValidator validates configuration values.
type ConfigValidator interface {
	Validate(cfg *Config) error
}

// validatorImpl implements ConfigValidator using go-playground/validator.
type validatorImpl struct {
	validate *validator.Validate
}

// NewValidator creates a new ConfigValidator instance. Field paths in
// errors use the config file keys.
func NewValidator() ConfigValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &validatorImpl{validate: v}
}

// Validate checks struct tags first, then the rules each section owns.
func (v *validatorImpl) Validate(cfg *Config) error {
	if cfg == nil {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "configuration is nil")
	}

	if err := v.validate.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return types.WrapError(types.CONFIG_VALIDATION_FAILED, "validation error", err)
		}

		messages := make([]string, 0, len(validationErrs))
		for _, e := range validationErrs {
			messages = append(messages, formatValidationError(e))
		}
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"configuration validation failed:\n  - "+strings.Join(messages, "\n  - "))
	}

	sections := []struct {
		name  string
		check func() error
	}{
		{"llm.rate_limit", cfg.LLM.RateLimit.Validate},
		{"cache", cfg.Cache.Validate},
		{"embedder", cfg.Embedder.Validate},
		{"logging", cfg.Logging.Validate},
		{"tracing", cfg.Tracing.Validate},
		{"metrics", cfg.Metrics.Validate},
	}
	for _, s := range sections {
		if err := s.check(); err != nil {
			return types.WrapError(types.CONFIG_VALIDATION_FAILED,
				fmt.Sprintf("configuration validation failed:\n  - %s: %v", s.name, err), err)
		}
	}

	if cfg.Pipeline.ContextLimit > cfg.Pipeline.FetchLimit {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, fmt.Sprintf(
			"configuration validation failed:\n  - pipeline.context_limit (%d) cannot exceed pipeline.context_fetch_limit (%d)",
			cfg.Pipeline.ContextLimit, cfg.Pipeline.FetchLimit))
	}

	return nil
}

// formatValidationError formats a single validation error with field path and details.
func formatValidationError(e validator.FieldError) string {
	fieldPath := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldPath)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s (got: %v)", fieldPath, e.Param(), e.Value())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s (got: %v)", fieldPath, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", fieldPath, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed validation '%s' (got: %v)", fieldPath, e.Tag(), e.Value())
	}
}

// formatFieldPath turns a validator namespace into a config key path.
// Example: "Config.pipeline.CriticConfig.context_limit" -> "pipeline.context_limit"
//
// Segments still carrying a Go field name come from squashed embeds and
// have no key of their own.
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) <= 1 {
		return namespace
	}

	result := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if part == "" || unicode.IsUpper(rune(part[0])) {
			continue
		}
		result = append(result, part)
	}
	return strings.Join(result, ".")
}
