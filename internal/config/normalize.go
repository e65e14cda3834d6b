package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSampling()
	c.normalizeNER()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"inputs.restaurants", &c.Inputs.Restaurants},
		{"inputs.menus", &c.Inputs.Menus},
		{"inputs.cost_index", &c.Inputs.CostIndex},
		{"inputs.density", &c.Inputs.Density},
		{"inputs.states", &c.Inputs.States},
		{"output.sample_path", &c.Output.SamplePath},
		{"output.state_dir", &c.Output.StateDir},
		{"output.metadata_path", &c.Output.MetadataPath},
		{"split.train_path", &c.Split.TrainPath},
		{"split.test_path", &c.Split.TestPath},
		{"logging.dir", &c.Logging.Dir},
	}
	for _, field := range fields {
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeSampling() {
	c.Sampling.FocusCategories = trimList(c.Sampling.FocusCategories, false)
	c.Sampling.TopStates = trimList(c.Sampling.TopStates, true)
}

func (c *Config) normalizeNER() {
	if c.NER.APIToken == "" {
		for _, key := range []string{"MENUSAMPLE_NER_TOKEN", "HF_TOKEN", "HUGGINGFACE_ACCESS_TOKEN"} {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.NER.APIToken = strings.TrimSpace(value)
				break
			}
		}
	}
	if value, ok := os.LookupEnv("MENUSAMPLE_REDIS_ADDR"); ok && strings.TrimSpace(value) != "" {
		c.NER.RedisAddr = strings.TrimSpace(value)
	}
	c.NER.Endpoint = strings.TrimRight(strings.TrimSpace(c.NER.Endpoint), "/")
	if c.NER.Endpoint == "" {
		c.NER.Endpoint = defaultNEREndpoint
	}
	c.NER.Model = strings.TrimSpace(c.NER.Model)
	if c.NER.Model == "" {
		c.NER.Model = defaultNERModel
	}
	c.NER.Cache = strings.ToLower(strings.TrimSpace(c.NER.Cache))
	if c.NER.Cache == "" {
		c.NER.Cache = defaultNERCache
	}
	c.NER.RedisAddr = strings.TrimSpace(c.NER.RedisAddr)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimList(values []string, lower bool) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if lower {
			value = strings.ToLower(value)
		}
		out = append(out, value)
	}
	return out
}
