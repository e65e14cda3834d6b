package dataset_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"menusample/internal/dataset"
	"menusample/internal/services"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadAllReadsEveryTable(t *testing.T) {
	dir := t.TempDir()
	paths := dataset.Paths{
		Restaurants: writeFile(t, dir, "restaurants.csv", "\ufeffid,score,ratings,category,price_range,full_address,lat,lng\n"+
			"1,4.5,10,Deli,$,\"123 Main, Appleton, WI 54911\",44.26,-88.41\n"+
			"x,,,,$$,\"1 Elm, Nowhere, TX, 75001\",,\n"),
		Menus: writeFile(t, dir, "menus.csv", "restaurant_id,category,name,description,price\n"+
			"1,Sandwiches,Club,\" Turkey &amp; bacon \",8.99 USD\n"),
		CostIndex: writeFile(t, dir, "cost.csv", "state_id,city,cost_of_living_index\n"+
			"WI,Appleton,92.1\n"+
			"TX,Austin,\n"),
		Density: writeFile(t, dir, "density.csv", "city,state_id,density,population\n"+
			"Appleton,WI,1200.7,75000\n"),
		States: writeFile(t, dir, "states.csv", "Unnamed: 0,State,Abbreviation\n"+
			"0,Wisconsin,WI\n"+
			"1,Nowhere,\n"),
	}

	tables, err := dataset.LoadAll(context.Background(), paths)
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if len(tables.Restaurants) != 1 {
		t.Fatalf("expected non-integer id to be skipped, got %d restaurants", len(tables.Restaurants))
	}
	r := tables.Restaurants[0]
	if r.ID != 1 || r.FullAddress != "123 Main, Appleton, WI 54911" || r.PriceRange != "$" || r.Lat != "44.26" {
		t.Fatalf("unexpected restaurant: %+v", r)
	}
	if len(tables.Menus) != 1 || tables.Menus[0].RawPrice != "8.99 USD" || tables.Menus[0].Description != "Turkey &amp; bacon" {
		t.Fatalf("unexpected menus: %+v", tables.Menus)
	}
	if len(tables.CostIndex) != 1 || tables.CostIndex[0].Index != 92.1 {
		t.Fatalf("expected blank index to be skipped: %+v", tables.CostIndex)
	}
	if len(tables.Density) != 1 || tables.Density[0].Density != "1200.7" {
		t.Fatalf("unexpected density rows: %+v", tables.Density)
	}
	if len(tables.States) != 1 || tables.States[0] != (dataset.StateName{Abbreviation: "WI", Name: "Wisconsin"}) {
		t.Fatalf("unexpected states: %+v", tables.States)
	}
}

func TestLoadReportsMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "menus.csv", "restaurant_id,category,description\n1,Salads,Greens\n")

	_, err := dataset.LoadMenus(context.Background(), path)
	if !errors.Is(err, services.ErrSchemaMissing) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if !strings.Contains(err.Error(), "menus") || !strings.Contains(err.Error(), `"price"`) {
		t.Fatalf("expected table and column in error, got %v", err)
	}
}

func TestLoadAllPropagatesFailure(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.csv", "city,state_id,density\n")
	paths := dataset.Paths{
		Restaurants: filepath.Join(dir, "missing.csv"),
		Menus:       ok,
		CostIndex:   ok,
		Density:     ok,
		States:      ok,
	}
	if _, err := dataset.LoadAll(context.Background(), paths); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSampleRoundTrip(t *testing.T) {
	index := 92.1
	rows := []dataset.SampledRow{{
		PriceRange:        "cheap",
		StateID:           "Wisconsin",
		City:              "appleton",
		Density:           1200,
		Category:          "Sandwiches",
		Description:       "dropped before persisting",
		Price:             8.99,
		Ingredients:       []string{"turkey", "bacon, crispy"},
		CostOfLivingIndex: &index,
	}}

	var buf bytes.Buffer
	if err := dataset.EncodeSample(&buf, rows); err != nil {
		t.Fatalf("EncodeSample returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "price_range,state_id,city,density,category,price,ingredients,cost_of_living_index" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], `"[""turkey"",""bacon, crispy""]"`) {
		t.Fatalf("expected JSON ingredients cell, got %q", lines[1])
	}

	path := writeFile(t, t.TempDir(), "sample.csv", buf.String())
	got, err := dataset.ReadSample(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadSample returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one row, got %d", len(got))
	}
	row := got[0]
	if row.City != "appleton" || row.Density != 1200 || row.Price != 8.99 || *row.CostOfLivingIndex != 92.1 {
		t.Fatalf("unexpected row: %+v", row)
	}
	if strings.Join(row.Ingredients, "|") != "turkey|bacon, crispy" {
		t.Fatalf("unexpected ingredients: %v", row.Ingredients)
	}
}

func TestReadSampleMalformedIngredientsDecodeEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sample.csv",
		"price_range,state_id,city,density,category,price,ingredients,cost_of_living_index\n"+
			"cheap,Texas,austin,3000,Salads,9.5,not-a-list,\n")
	rows, err := dataset.ReadSample(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadSample returned error: %v", err)
	}
	if rows[0].Ingredients == nil || len(rows[0].Ingredients) != 0 {
		t.Fatalf("expected empty ingredients, got %#v", rows[0].Ingredients)
	}
	if rows[0].CostOfLivingIndex != nil {
		t.Fatal("expected nil cost index for empty cell")
	}
}

func TestCompleteRequiresEveryColumn(t *testing.T) {
	index := 1.0
	row := dataset.SampledRow{PriceRange: "cheap", StateID: "Texas", City: "austin", Category: "Salads", Ingredients: []string{"kale"}, CostOfLivingIndex: &index}
	if !row.Complete() {
		t.Fatal("expected complete row")
	}
	row.CostOfLivingIndex = nil
	if row.Complete() {
		t.Fatal("expected nil index to make the row incomplete")
	}
}
