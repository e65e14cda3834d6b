package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateInputs(); err != nil {
		return err
	}
	if err := c.validateSampling(); err != nil {
		return err
	}
	if err := c.validateNER(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateInputs() error {
	required := []struct {
		name  string
		value string
	}{
		{"inputs.restaurants", c.Inputs.Restaurants},
		{"inputs.menus", c.Inputs.Menus},
		{"inputs.cost_index", c.Inputs.CostIndex},
		{"inputs.density", c.Inputs.Density},
		{"inputs.states", c.Inputs.States},
		{"output.sample_path", c.Output.SamplePath},
		{"output.state_dir", c.Output.StateDir},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s must be set", field.name)
		}
	}
	return nil
}

func (c *Config) validateSampling() error {
	if len(c.Sampling.FocusCategories) == 0 {
		return errors.New("sampling.focus_categories must list at least one category")
	}
	if c.Sampling.TopCategoriesPerCity <= 0 {
		return errors.New("sampling.top_categories_per_city must be positive")
	}
	if c.Sampling.TopCitiesPerState <= 0 {
		return errors.New("sampling.top_cities_per_state must be positive")
	}
	if len(c.Sampling.TopStates) == 0 {
		return errors.New("sampling.top_states must list at least one state")
	}
	for _, state := range c.Sampling.TopStates {
		if len(state) != 2 {
			return fmt.Errorf("sampling.top_states: %q is not a two-letter state code", state)
		}
	}
	if c.Sampling.IQRWhisker < 0 {
		return errors.New("sampling.iqr_whisker must be non-negative")
	}
	return nil
}

func (c *Config) validateNER() error {
	if c.NER.TimeoutSeconds <= 0 {
		return errors.New("ner.timeout_seconds must be positive")
	}
	if c.NER.RetryAttempts <= 0 {
		return errors.New("ner.retry_attempts must be positive")
	}
	switch c.NER.Cache {
	case CacheNone, CacheSQLite:
	case CacheRedis:
		if c.NER.RedisAddr == "" {
			return errors.New("ner.redis_addr is required when ner.cache is redis")
		}
		if c.NER.RedisDB < 0 {
			return errors.New("ner.redis_db must be non-negative")
		}
	default:
		return fmt.Errorf("ner.cache: unsupported value %q (use none, sqlite or redis)", c.NER.Cache)
	}
	if c.NER.CacheTTLHours < 0 {
		return errors.New("ner.cache_ttl_hours must be non-negative")
	}
	return nil
}

func (c *Config) validateSplit() error {
	if c.Split.TestSize <= 0 || c.Split.TestSize >= 1 {
		return errors.New("split.test_size must be between 0 and 1 (exclusive)")
	}
	if strings.TrimSpace(c.Split.StratifyColumn) == "" {
		return errors.New("split.stratify_column must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
