package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for field %q: %s", e.Field, e.Message)
}

// Validator collects field errors so that all of them are reported at once.
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{errors: []ValidationError{}}
}

// RequireNonEmpty validates that a string field is not empty.
func (v *Validator) RequireNonEmpty(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "value cannot be empty")
	}
	return v
}

// RequirePositive validates that an integer field is greater than 0.
func (v *Validator) RequirePositive(field string, value int) *Validator {
	if value <= 0 {
		v.add(field, fmt.Sprintf("value must be positive, got %d", value))
	}
	return v
}

// RequireNonNegative validates that an integer field is not negative.
func (v *Validator) RequireNonNegative(field string, value int64) *Validator {
	if value < 0 {
		v.add(field, fmt.Sprintf("value must not be negative, got %d", value))
	}
	return v
}

// ValidateFloatRange validates that a float field is within [min, max].
func (v *Validator) ValidateFloatRange(field string, value, min, max float64) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("value must be between %.2f and %.2f, got %.2f", min, max, value))
	}
	return v
}

// ValidateOneOf validates that a string value is one of the allowed options.
func (v *Validator) ValidateOneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if a == value {
			return v
		}
	}
	v.add(field, fmt.Sprintf("value must be one of %v, got %q", allowed, value))
	return v
}

// When runs fn only if cond holds, for fields that depend on another setting.
func (v *Validator) When(cond bool, fn func(*Validator)) *Validator {
	if cond {
		fn(v)
	}
	return v
}

// HasErrors returns true if there are any validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the collected errors.
func (v *Validator) Errors() []ValidationError {
	return append([]ValidationError(nil), v.errors...)
}

// Error returns a combined error or nil if no errors.
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	msgs := make([]string, 0, len(v.errors))
	for _, e := range v.errors {
		msgs = append(msgs, fmt.Sprintf("  - %s: %s", e.Field, e.Message))
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
}

func (v *Validator) add(field, msg string) {
	v.errors = append(v.errors, ValidationError{Field: field, Message: msg})
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	v := NewValidator().
		RequireNonEmpty("server.addr", c.Server.Addr).
		RequireNonEmpty("api.name", c.API.Name).
		ValidateOneOf("prompts.source", c.Prompts.Source, SourceDir, SourceRedis).
		RequireNonEmpty("prompts.system", c.Prompts.System).
		RequirePositive("prompts.max_words", c.Prompts.MaxWords).
		When(c.Prompts.Source == SourceDir, func(v *Validator) {
			v.RequireNonEmpty("prompts.dir", c.Prompts.Dir)
		}).
		When(c.Prompts.Source == SourceRedis, func(v *Validator) {
			v.RequireNonEmpty("prompts.redis_url", c.Prompts.RedisURL)
		}).
		ValidateOneOf("llm.provider", c.LLM.Provider, ProviderOpenAI, ProviderAnthropic, ProviderMock).
		When(c.LLM.Provider != ProviderMock, func(v *Validator) {
			v.RequireNonEmpty("llm.api_key", c.LLM.APIKey)
		}).
		ValidateFloatRange("llm.temperature", c.LLM.Temperature, 0, 2).
		RequireNonNegative("llm.max_tokens", c.LLM.MaxTokens).
		RequireNonNegative("llm.retries", int64(c.LLM.Retries)).
		ValidateOneOf("log.format", strings.ToLower(c.Log.Format), "text", "json")

	return v.Error()
}
