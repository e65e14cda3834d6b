package sampling

import (
	"errors"
	"log/slog"
	"time"

	"menusample/internal/config"
	"menusample/internal/dataset"
	"menusample/internal/ledger"
	"menusample/internal/ner"
)

// Options configures one pipeline run.
type Options struct {
	Config *config.Config
	// ConfigPath is recorded in the ledger; it may be empty.
	ConfigPath string
	Extractor  ner.Extractor
	// Ledger is optional. When set, the run and its stage counts are recorded.
	Ledger   *ledger.Store
	Logger   *slog.Logger
	Progress ner.Progress
	// DryRun skips writing the sample.
	DryRun bool
}

func (o Options) validate() error {
	if o.Config == nil {
		return errors.New("sampling: config is required")
	}
	if o.Extractor == nil {
		return errors.New("sampling: extractor is required")
	}
	return nil
}

// Result summarizes a finished run.
type Result struct {
	RunID      string
	OutputPath string
	Rows       []dataset.SampledRow
	Stages     []ledger.StageCount
	Duration   time.Duration
}
