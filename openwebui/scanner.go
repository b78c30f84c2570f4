package openwebui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ScanLocal walks the base directory and returns every supported file
// keyed by its slash-separated relative path. Hidden directories and
// unsupported files are skipped silently. A walk error (missing root,
// permission denied) aborts the scan; there is no partial success.
func ScanLocal(root string, logger *slog.Logger) (map[string]LocalFile, error) {
	files := make(map[string]LocalFile)

	err := filepath.WalkDir(root, func(absPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if absPath != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		// Skip symlinks to avoid following links outside the tree or to
		// special files that could hang the hash read.
		if d.Type()&os.ModeSymlink != 0 {
			logger.Debug("skipping symlink during scan", slog.String("path", absPath))
			return nil
		}

		if !IsSupported(absPath) {
			logger.Debug("skipping unsupported file", slog.String("path", absPath))
			return nil
		}

		relPath, err := filepath.Rel(root, absPath)
		if err != nil {
			return err
		}
		relPath = normalizePath(filepath.ToSlash(relPath))

		hash, err := HashFile(absPath)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", relPath, err)
		}

		files[relPath] = LocalFile{
			RelPath: relPath,
			AbsPath: absPath,
			Hash:    hash,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	logger.Info("local scan complete",
		slog.String("root", root),
		slog.Int("files", len(files)),
	)

	return files, nil
}

// normalizePath collapses repeated slashes, trims leading/trailing
// slashes, and applies Unicode NFC normalization so paths scanned on
// different filesystems compare equal.
func normalizePath(path string) string {
	var b strings.Builder
	prevSlash := false
	for _, r := range path {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	path = strings.Trim(b.String(), "/")

	return norm.NFC.String(path)
}
