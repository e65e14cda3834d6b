package testsupport

import (
	"path/filepath"
	"testing"

	"menusample/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose inputs, outputs and state directory all
// live under a per-test temp directory. The NER cache is disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	inputs := filepath.Join(base, "data")
	cfgVal.Inputs = config.Inputs{
		Restaurants: filepath.Join(inputs, "restaurants.csv"),
		Menus:       filepath.Join(inputs, "restaurant-menus.csv"),
		CostIndex:   filepath.Join(inputs, "cost-of-living.csv"),
		Density:     filepath.Join(inputs, "uscities.csv"),
		States:      filepath.Join(inputs, "states.csv"),
	}
	cfgVal.Output = config.Output{
		SamplePath:   filepath.Join(base, "out", "sampled-final-data.csv"),
		StateDir:     filepath.Join(base, "state"),
		MetadataPath: filepath.Join(base, "out", "state_city_map.json"),
	}
	cfgVal.Split.TrainPath = filepath.Join(base, "out", "train.csv")
	cfgVal.Split.TestPath = filepath.Join(base, "out", "test.csv")
	cfgVal.NER.Endpoint = "http://127.0.0.1:0"
	cfgVal.NER.Cache = config.CacheNone

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithFocusCategories overrides the focus category list.
func WithFocusCategories(categories ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sampling.FocusCategories = categories
	}
}

// WithTopStates overrides the state allow-list.
func WithTopStates(states ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sampling.TopStates = states
	}
}

// WithNEREndpoint points the NER client at endpoint, typically an httptest server.
func WithNEREndpoint(endpoint string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.NER.Endpoint = endpoint
	}
}

// WithNERCache selects the NER cache backend.
func WithNERCache(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.NER.Cache = backend
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Output.StateDir)
}
