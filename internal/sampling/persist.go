package sampling

import (
	"io"

	"menusample/internal/dataset"
	"menusample/internal/fileutil"
)

// WriteCSV persists rows to path atomically. Callers writing the configured
// sample path hold the output lock.
func WriteCSV(path string, rows []dataset.SampledRow) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return dataset.EncodeSample(w, rows)
	})
}
