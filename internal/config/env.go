package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const envPrefix = "AURA_"

// applyEnv overrides fields from AURA_* variables. A set but empty string variable clears the field.
func (c *Config) applyEnv() error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	str("SERVER_ADDR", &c.Server.Addr)
	duration("SERVER_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)

	str("API_NAME", &c.API.Name)
	str("API_DESCRIPTION", &c.API.Description)
	str("API_VERSION", &c.API.Version)

	str("PROMPTS_SOURCE", &c.Prompts.Source)
	str("PROMPTS_DIR", &c.Prompts.Dir)
	str("PROMPTS_SYSTEM", &c.Prompts.System)
	str("PROMPTS_GREETING", &c.Prompts.Greeting)
	integer("PROMPTS_MAX_WORDS", &c.Prompts.MaxWords)
	str("REDIS_URL", &c.Prompts.RedisURL)
	str("REDIS_PREFIX", &c.Prompts.RedisPrefix)

	str("LLM_PROVIDER", &c.LLM.Provider)
	str("LLM_MODEL", &c.LLM.Model)
	str("LLM_API_KEY", &c.LLM.APIKey)
	str("LLM_BASE_URL", &c.LLM.BaseURL)
	if v, ok := os.LookupEnv(envPrefix + "LLM_TEMPERATURE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sLLM_TEMPERATURE: %w", envPrefix, err))
		} else {
			c.LLM.Temperature = f
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "LLM_MAX_TOKENS"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sLLM_MAX_TOKENS: %w", envPrefix, err))
		} else {
			c.LLM.MaxTokens = n
		}
	}
	duration("LLM_TIMEOUT", &c.LLM.Timeout)
	integer("LLM_RETRIES", &c.LLM.Retries)

	// Provider-native variables as a fallback for the key.
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case ProviderOpenAI:
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case ProviderAnthropic:
			c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	boolean("METRICS_ENABLED", &c.Metrics.Enabled)
	boolean("TELEMETRY_ENABLED", &c.Telemetry.Enabled)
	str("TELEMETRY_SERVICE_NAME", &c.Telemetry.ServiceName)
	boolean("ERRORS_EXPOSE", &c.Errors.Expose)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %v", errs)
	}
	return nil
}
