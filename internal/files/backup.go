package files

import (
	"fmt"
	"os"
)

// BackupSuffix is appended to a file's path for its pre-rewrite copy.
const BackupSuffix = ".backup"

// CreateBackup copies path to path + BackupSuffix before an in-place
// rewrite, preserving the original permissions. An existing backup is
// overwritten; the newest original is the one worth keeping.
func CreateBackup(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat source: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}

	backupPath := path + BackupSuffix
	if err := AtomicWrite(backupPath, data, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return backupPath, nil
}
