package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFixCommandRewritesWithBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	original := "# 你好世界\nprint('x')\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "fix", dir, "--translator", "mock", "--target", "zh")
	if err != nil {
		t.Fatalf("fix failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Success") {
		t.Errorf("output = %q", out)
	}

	rewritten, _ := os.ReadFile(path)
	if !strings.Contains(string(rewritten), "[中文] 你好世界") {
		t.Errorf("rewritten = %q", rewritten)
	}
	backup, err := os.ReadFile(path + ".backup")
	if err != nil {
		t.Fatal(err)
	}
	if string(backup) != original {
		t.Errorf("backup = %q", backup)
	}
}

func TestFixCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	original := "# 你好世界\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "fix", dir,
		"--translator", "mock", "--target", "zh", "--dry-run")
	if err != nil {
		t.Fatalf("fix failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "would change") {
		t.Errorf("output = %q", out)
	}

	onDisk, _ := os.ReadFile(path)
	if string(onDisk) != original {
		t.Error("dry run must not modify files")
	}
}

func TestFixCommandNoBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte("# 你好世界\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "fix", dir,
		"--translator", "mock", "--target", "zh", "--no-backup")
	if err != nil {
		t.Fatalf("fix failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(path + ".backup"); err == nil {
		t.Error("no backup should exist with --no-backup")
	}
}
