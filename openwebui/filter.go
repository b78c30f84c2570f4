package openwebui

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions is the fixed allow-list of file types the remote
// service can ingest. Extensions are matched case-insensitively.
var supportedExtensions = map[string]struct{}{
	// Plain text and markup.
	".txt": {}, ".md": {}, ".markdown": {}, ".rst": {}, ".rtf": {},
	// Office and document formats.
	".pdf": {}, ".doc": {}, ".docx": {}, ".ppt": {}, ".pptx": {}, ".xls": {}, ".xlsx": {},
	// Source code.
	".py": {}, ".js": {}, ".java": {}, ".c": {}, ".cpp": {}, ".h": {}, ".hpp": {},
	".cs": {}, ".php": {}, ".rb": {}, ".go": {},
	// Web and structured data.
	".html": {}, ".htm": {}, ".css": {}, ".xml": {}, ".json": {}, ".yaml": {}, ".yml": {},
	".csv": {}, ".tsv": {},
}

// IsSupported reports whether the file at path should be uploaded.
// Hidden files, unknown extensions, and zero-byte files are rejected.
func IsSupported(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}

	ext := strings.ToLower(filepath.Ext(base))
	if _, ok := supportedExtensions[ext]; !ok {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return false
	}

	return true
}

// hashChunkSize bounds memory use when hashing large files.
const hashChunkSize = 4096

// HashFile returns the lowercase hex SHA-256 digest of the file content,
// streamed in fixed-size chunks.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
