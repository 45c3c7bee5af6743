package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScanCommandText(t *testing.T) {
	path := writeTempSource(t, "app.py", "# 这是中文注释\nprint('x')\n")

	out, err := executeCommand(t, "scan", path)
	if err != nil {
		t.Fatalf("scan failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "这是中文注释") {
		t.Errorf("output missing unit content: %s", out)
	}
	if !strings.Contains(out, "Total: 1 units in 1 files") {
		t.Errorf("output missing total: %s", out)
	}
}

func TestScanCommandJSON(t *testing.T) {
	path := writeTempSource(t, "app.py", "# 这是中文注释\n")

	out, err := executeCommand(t, "scan", path, "--json")
	if err != nil {
		t.Fatalf("scan failed: %v\n%s", err, out)
	}

	var decoded struct {
		TotalUnits int
		Files      []struct {
			FileType string
		}
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if decoded.TotalUnits != 1 {
		t.Errorf("TotalUnits = %d", decoded.TotalUnits)
	}
	if len(decoded.Files) != 1 || decoded.Files[0].FileType != "python" {
		t.Errorf("Files = %+v", decoded.Files)
	}
}

func TestScanCommandEmptyResult(t *testing.T) {
	path := writeTempSource(t, "app.py", "print('x')\n")

	out, err := executeCommand(t, "scan", path)
	if err != nil {
		t.Fatalf("scan failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No translatable units found.") {
		t.Errorf("output = %s", out)
	}
}

func TestScanCommandGeminiNeedsNoKey(t *testing.T) {
	restore := withKeyStubs(t, "", "", false, "")
	defer restore()

	path := writeTempSource(t, "app.py", "# 这是中文注释\n")

	out, err := executeCommand(t, "scan", path, "--translator", "gemini")
	if err != nil {
		t.Fatalf("scan must not resolve an API key: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Total: 1 units in 1 files") {
		t.Errorf("output missing total: %s", out)
	}
}

func TestScanCommandBadPriority(t *testing.T) {
	path := writeTempSource(t, "app.py", "# 这是中文注释\n")

	if _, err := executeCommand(t, "scan", path, "--min-priority", "urgent"); err == nil {
		t.Error("invalid priority must fail")
	}
}
