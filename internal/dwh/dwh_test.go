package dwh

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"menusample/internal/services"
)

const sampleDocuments = `{"_id": {"$oid": "b2"}, "name": "Second", "url": "https://x", "phone": "555", "menu_items": [{"category": "Wraps", "name": "Veggie", "price": "7.5 USD"}]}

{"_id": {"$oid": "a1"}, "name": "First", "task_id": 4, "rating": {"score": 4.5, "count": 20}, "menu_items": [{"category": "Salads", "price": 9}, null, {"category": "Sides", "price": 3}]}
{"_id": {"$oid": "c3"}, "name": "No Menu", "menu_items": []}
`

func decodeSample(t *testing.T) []Document {
	t.Helper()
	docs, err := DecodeDocuments(context.Background(), strings.NewReader(sampleDocuments))
	if err != nil {
		t.Fatalf("DecodeDocuments returned error: %v", err)
	}
	return docs
}

func TestBuildTables(t *testing.T) {
	restaurants, menus := BuildTables(decodeSample(t))

	wantColumns := []string{"id", "name", "rating.count", "rating.score"}
	if !reflect.DeepEqual(restaurants.Columns, wantColumns) {
		t.Fatalf("unexpected restaurant columns %v", restaurants.Columns)
	}
	names := []string{}
	for _, row := range restaurants.Rows {
		names = append(names, row["id"]+":"+row["name"])
	}
	if !reflect.DeepEqual(names, []string{"1:First", "2:Second", "3:No Menu"}) {
		t.Fatalf("expected rows sorted by _id with 1-based ids, got %v", names)
	}
	if restaurants.Rows[0]["rating.score"] != "4.5" {
		t.Fatalf("expected flattened nested field, got %v", restaurants.Rows[0])
	}

	if !reflect.DeepEqual(menus.Columns, []string{"restaurant_id", "category", "price", "name"}) {
		t.Fatalf("unexpected menu columns %v", menus.Columns)
	}
	if len(menus.Rows) != 3 {
		t.Fatalf("expected 3 menu rows, got %d", len(menus.Rows))
	}
	if menus.Rows[2]["restaurant_id"] != "2" || menus.Rows[2]["price"] != "7.5 USD" {
		t.Fatalf("unexpected menu row %v", menus.Rows[2])
	}
}

func TestDecodeDocumentsRejectsBadLine(t *testing.T) {
	_, err := DecodeDocuments(context.Background(), strings.NewReader("{\"_id\": 1}\n[1,2]\n"))
	if !errors.Is(err, services.ErrValidation) || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected validation error naming line 2, got %v", err)
	}
}

func TestExportWritesCompressedTables(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "docs.jsonl")
	if err := os.WriteFile(input, []byte(sampleDocuments), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	summary, err := Export(context.Background(), ExportOptions{Input: input, OutDir: filepath.Join(dir, "out"), Compress: true})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if summary.Documents != 3 || summary.Restaurants != 3 || summary.MenuItems != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	data, err := os.ReadFile(summary.MenuPath)
	if err != nil {
		t.Fatalf("read menu table: %v", err)
	}
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open gzip: %v", err)
	}
	records, err := csv.NewReader(gz).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 || records[0][0] != "restaurant_id" {
		t.Fatalf("unexpected menu table %v", records)
	}
}
