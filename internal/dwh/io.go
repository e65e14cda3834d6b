package dwh

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"menusample/internal/fileutil"
	"menusample/internal/services"
)

// Output file names, matching the default input paths of the pipeline.
const (
	RestaurantsFile = "restaurants.csv"
	MenusFile       = "restaurant-menus.csv"
)

const maxDocumentSize = 64 << 20

// ReadDocuments decodes JSON lines. Blank lines are skipped; a line that is
// not a JSON object fails with its line number. Input ending in .gz is
// decompressed.
func ReadDocuments(ctx context.Context, path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open documents: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip documents: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return DecodeDocuments(ctx, r)
}

// DecodeDocuments decodes JSON lines from r.
func DecodeDocuments(ctx context.Context, r io.Reader) ([]Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxDocumentSize)
	var docs []Document
	line := 0
	for scanner.Scan() {
		line++
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var doc Document
		if err := dec.Decode(&doc); err != nil || doc == nil {
			if err == nil {
				err = fmt.Errorf("not an object")
			}
			return nil, services.Wrap(services.ErrValidation, "flatten", "decode documents", fmt.Sprintf("line %d", line), err)
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	return docs, nil
}

// WriteTable writes t as CSV with a header row. Missing cells are empty.
func WriteTable(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportOptions configures Export.
type ExportOptions struct {
	Input    string
	OutDir   string
	Compress bool
}

// Summary reports what Export wrote.
type Summary struct {
	Documents      int
	Restaurants    int
	MenuItems      int
	RestaurantPath string
	MenuPath       string
}

// Export reads documents from opts.Input and writes both tables into
// opts.OutDir. The menu table is skipped when no document has menu items.
func Export(ctx context.Context, opts ExportOptions) (Summary, error) {
	docs, err := ReadDocuments(ctx, opts.Input)
	if err != nil {
		return Summary{}, err
	}
	restaurants, menus := BuildTables(docs)
	summary := Summary{
		Documents:   len(docs),
		Restaurants: len(restaurants.Rows),
		MenuItems:   len(menus.Rows),
	}

	suffix := ""
	if opts.Compress {
		suffix = ".gz"
	}
	summary.RestaurantPath = filepath.Join(opts.OutDir, RestaurantsFile+suffix)
	if err := writeTableFile(summary.RestaurantPath, restaurants, opts.Compress); err != nil {
		return summary, err
	}
	if len(menus.Rows) > 0 {
		summary.MenuPath = filepath.Join(opts.OutDir, MenusFile+suffix)
		if err := writeTableFile(summary.MenuPath, menus, opts.Compress); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func writeTableFile(path string, t *Table, compress bool) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		if !compress {
			return WriteTable(w, t)
		}
		gz := gzip.NewWriter(w)
		if err := WriteTable(gz, t); err != nil {
			_ = gz.Close()
			return err
		}
		return gz.Close()
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
