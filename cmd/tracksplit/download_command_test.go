package main

import (
	"strings"
	"testing"

	"tracksplit/internal/downloads"
	"tracksplit/internal/logging"
)

func TestPrintSummaryRendersQueue(t *testing.T) {
	manager := downloads.NewManager(nil, logging.NopLogger())
	manager.Add("https://example.test/a", "Artist", "Album One")
	manager.Add("https://example.test/b", "", "")

	var buf strings.Builder
	if err := printSummary(&buf, manager); err != nil {
		t.Fatalf("summary: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Artist - Album One") {
		t.Fatalf("output %q missing album column", output)
	}
	if !strings.Contains(output, "pending") {
		t.Fatalf("output %q missing status column", output)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"download", "history", "deps", "config"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == nil || cmd.Name() != name {
			t.Fatalf("command %q not wired: %v", name, err)
		}
	}
}
