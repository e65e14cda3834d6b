package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"menusample/internal/services"
)

const ctxCheckEvery = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// table is a header-indexed CSV file held in memory.
type table struct {
	name    string
	columns map[string]int
	records [][]string
}

// readTable loads a CSV file and verifies that every required column is
// present. Header names match case-insensitively after trimming; blank or
// "Unnamed" auxiliary headers are ignored.
func readTable(ctx context.Context, name, path string, required ...string) (*table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "load", name, "read "+path, err)
	}
	return parseTable(ctx, name, bytes.TrimPrefix(raw, utf8BOM), required...)
}

func parseTable(ctx context.Context, name string, raw []byte, required ...string) (*table, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, services.Wrap(services.ErrSchemaMissing, "load", name, "empty table", nil)
		}
		return nil, services.Wrap(services.ErrSchemaMissing, "load", name, "read header", err)
	}

	t := &table{name: name, columns: make(map[string]int, len(header))}
	for idx, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if key == "" || strings.HasPrefix(key, "unnamed") {
			continue
		}
		if _, dup := t.columns[key]; !dup {
			t.columns[key] = idx
		}
	}
	for _, col := range required {
		if _, ok := t.columns[strings.ToLower(col)]; !ok {
			return nil, services.Wrap(services.ErrSchemaMissing, "load", name, fmt.Sprintf("missing column %q", col), nil)
		}
	}

	for line := 0; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "load", name, "parse csv", err)
		}
		t.records = append(t.records, record)
	}
	return t, nil
}

// cell returns the trimmed value of col in record. Absent columns and short
// records yield the empty string, which callers treat as missing.
func (t *table) cell(record []string, col string) string {
	idx, ok := t.columns[strings.ToLower(col)]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
