package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Inputs lists the raw CSV tables consumed by the sampling pipeline.
type Inputs struct {
	Restaurants string `toml:"restaurants"`
	Menus       string `toml:"menus"`
	CostIndex   string `toml:"cost_index"`
	Density     string `toml:"density"`
	States      string `toml:"states"`
}

// Output describes where artifacts and pipeline state are written.
type Output struct {
	SamplePath   string `toml:"sample_path"`
	StateDir     string `toml:"state_dir"`
	MetadataPath string `toml:"metadata_path"`
}

// Sampling holds the selection knobs of the pipeline.
type Sampling struct {
	FocusCategories      []string `toml:"focus_categories"`
	TopCategoriesPerCity int      `toml:"top_categories_per_city"`
	TopCitiesPerState    int      `toml:"top_cities_per_state"`
	TopStates            []string `toml:"top_states"`
	IQRWhisker           float64  `toml:"iqr_whisker"`
}

// NER configures the token-classification endpoint used for ingredient extraction.
type NER struct {
	Endpoint       string `toml:"endpoint"`
	Model          string `toml:"model"`
	APIToken       string `toml:"api_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryAttempts  int    `toml:"retry_attempts"`
	// Cache selects the response cache backend: "none", "sqlite" or "redis".
	Cache         string `toml:"cache"`
	RedisAddr     string `toml:"redis_addr"`
	RedisDB       int    `toml:"redis_db"`
	CacheTTLHours int    `toml:"cache_ttl_hours"`
}

// Split configures the stratified train/test split of a persisted sample.
type Split struct {
	TestSize       float64 `toml:"test_size"`
	Seed           int64   `toml:"seed"`
	StratifyColumn string  `toml:"stratify_column"`
	TrainPath      string  `toml:"train_path"`
	TestPath       string  `toml:"test_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for menusample.
//
// Configuration sections by subsystem:
//   - Inputs: raw restaurant, menu and reference tables
//   - Output: sample CSV, metadata JSON and the state directory (ledger, locks, cache)
//   - Sampling: focus categories, top-N limits, state allow-list, IQR whisker
//   - NER: ingredient extraction endpoint and response cache
//   - Split: stratified train/test split
//   - Logging: log format and level
type Config struct {
	Inputs   Inputs   `toml:"inputs"`
	Output   Output   `toml:"output"`
	Sampling Sampling `toml:"sampling"`
	NER      NER      `toml:"ner"`
	Split    Split    `toml:"split"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory and the parents of every output file.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Output.StateDir}
	for _, file := range []string{c.Output.SamplePath, c.Output.MetadataPath, c.Split.TrainPath, c.Split.TestPath} {
		if strings.TrimSpace(file) != "" {
			dirs = append(dirs, filepath.Dir(file))
		}
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the location of the run ledger database.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Output.StateDir, "runs.db")
}

// NERCachePath returns the location of the SQLite inference cache.
func (c *Config) NERCachePath() string {
	return filepath.Join(c.Output.StateDir, "ner_cache.db")
}

// LockPath returns the lock file guarding output writes.
func (c *Config) LockPath() string {
	return filepath.Join(c.Output.StateDir, "menusample.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
