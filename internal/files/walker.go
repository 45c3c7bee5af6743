package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/oukeidos/codeglot/internal/extractor"
	"github.com/oukeidos/codeglot/internal/logger"
)

// DefaultIgnores are directory names skipped during traversal.
var DefaultIgnores = []string{
	".git", ".hg", ".svn",
	"node_modules", "__pycache__", ".venv", "venv",
	"target", "dist", "build", ".idea", ".vscode",
}

// Walker discovers files an extractor can handle under a directory tree.
type Walker struct {
	registry *extractor.Registry
	ignores  []string
}

// FileEntry is a discovered file paired with the extractor chosen by
// extension. Content-sniffed selection can still override it at parse
// time.
type FileEntry struct {
	Path      string
	Extractor extractor.Extractor
}

// NewWalker creates a walker. Extra ignore patterns are matched with
// filepath.Match against each path component, on top of DefaultIgnores.
func NewWalker(registry *extractor.Registry, ignorePatterns []string) *Walker {
	ignores := make([]string, 0, len(DefaultIgnores)+len(ignorePatterns))
	ignores = append(ignores, DefaultIgnores...)
	ignores = append(ignores, ignorePatterns...)
	return &Walker{registry: registry, ignores: ignores}
}

func (w *Walker) ignored(name string) bool {
	for _, pattern := range w.ignores {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Walk returns all supported files under root in traversal order.
// Unreadable entries are logged and skipped; one bad directory must not
// abort a whole run.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error walking path", "path", path, "error", err)
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (w.ignored(name) || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.ignored(name) || strings.HasSuffix(name, BackupSuffix) {
			return nil
		}
		ex, err := w.registry.ForFile(path, "")
		if err != nil {
			return nil
		}
		entries = append(entries, FileEntry{Path: path, Extractor: ex})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	logger.Info("Discovered files", "count", len(entries), "root", root)
	return entries, nil
}
