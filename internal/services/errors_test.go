package services_test

import (
	"errors"
	"strings"
	"testing"

	"menusample/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrInference, "extract_ingredients", "ner", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrInference) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"extract_ingredients", "ner", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestAtStageRecordsFirstStage(t *testing.T) {
	base := services.Wrap(services.ErrSchemaMissing, "load", "menus", "missing column price", nil)
	err := services.AtStage("load_tables", base)
	err = services.AtStage("outer", err)

	stage, ok := services.StageOf(err)
	if !ok || stage != "load_tables" {
		t.Fatalf("unexpected stage: %q %v", stage, ok)
	}
	if !errors.Is(err, services.ErrSchemaMissing) {
		t.Fatalf("expected schema marker to survive, got %v", err)
	}
	if services.AtStage("x", nil) != nil {
		t.Fatal("expected nil error to stay nil")
	}
}

func TestKindMapping(t *testing.T) {
	cases := map[string]error{
		"schema_missing":    services.Wrap(services.ErrSchemaMissing, "load", "", "", nil),
		"inference_failure": services.Wrap(services.ErrInference, "ner", "", "", nil),
		"configuration":     services.Wrap(services.ErrConfiguration, "config", "", "", nil),
		"failure":           errors.New("plain"),
		"":                  nil,
	}
	for want, err := range cases {
		if got := services.Kind(err); got != want {
			t.Fatalf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
}
