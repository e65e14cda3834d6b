package main

import (
	"strings"
	"testing"

	"menusample/internal/ledger"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Sample path", statusOK, "/tmp/sample.csv", false)
	if !strings.Contains(line, "Sample path:") || !strings.Contains(line, "[OK] /tmp/sample.csv") {
		t.Fatalf("unexpected status line %q", line)
	}
	if strings.Contains(line, ansiReset) {
		t.Fatalf("expected no color codes, got %q", line)
	}

	colored := renderStatusLine("Ledger", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red status line, got %q", colored)
	}
}

func TestRunStatusKind(t *testing.T) {
	tests := []struct {
		status ledger.Status
		want   statusKind
	}{
		{ledger.StatusSucceeded, statusOK},
		{ledger.StatusFailed, statusError},
		{ledger.StatusInterrupted, statusWarn},
		{ledger.StatusRunning, statusInfo},
	}
	for _, tt := range tests {
		if got := runStatusKind(tt.status); got != tt.want {
			t.Fatalf("runStatusKind(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader(" Stages ", false)
	if len(lines) != 2 || lines[0] != "== Stages ==" || lines[1] != strings.Repeat("-", len("== Stages ==")) {
		t.Fatalf("unexpected header %q", lines)
	}
}
