package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	got := FormatError(os.ErrNotExist)
	if !strings.Contains(got, "Error:") || !strings.Contains(got, "not exist") {
		t.Errorf("FormatError() = %q", got)
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	oldStdout := stdout
	stdout = &buf
	defer func() { stdout = oldStdout }()

	if err := outputJSON(map[string]string{"test": "value"}); err != nil {
		t.Fatalf("outputJSON() error = %v", err)
	}

	var result map[string]string
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("outputJSON() produced invalid JSON: %v", err)
	}
	if result["test"] != "value" {
		t.Errorf("outputJSON() = %v", result)
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	oldStdout := stdout
	stdout = &buf
	defer func() { stdout = oldStdout }()

	PrintTable([]string{"A", "LONGER"}, [][]string{{"wide-cell", "x"}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, separator and one row, got %q", buf.String())
	}
	if !strings.Contains(lines[1], strings.Repeat("-", len("wide-cell"))) {
		t.Errorf("separator should span the widest cell: %q", lines[1])
	}
}

func TestPrintCount(t *testing.T) {
	if got := PrintCount(1, "file", "files"); got != "1 file" {
		t.Errorf("PrintCount(1) = %q", got)
	}
	if got := PrintCount(3, "file", "files"); got != "3 files" {
		t.Errorf("PrintCount(3) = %q", got)
	}
}
