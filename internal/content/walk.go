package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude selects the files read from a content directory.
var DefaultInclude = []string{"**/*.yaml", "**/*.yml", "**/*.json"}

// excludedDirs are skipped wholesale during traversal.
var excludedDirs = []string{".git", "node_modules", "media", ".playdeck"}

// SourceFile is a content file found during traversal.
type SourceFile struct {
	RelPath string
	Hash    string
	Data    []byte
}

// Walk collects the content files of fsys that match include (default
// DefaultInclude) and do not match exclude, in lexical order.
func Walk(fsys fs.FS, include, exclude []string) ([]SourceFile, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	var files []SourceFile
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != "." && shouldExcludeDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !matchesAny(p, include) || matchesAny(p, exclude) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		sum := sha256.Sum256(data)
		files = append(files, SourceFile{RelPath: p, Hash: hex.EncodeToString(sum[:]), Data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("content: traversal: %w", err)
	}
	return files, nil
}

// Fingerprint combines file hashes into a version string for the whole set.
func Fingerprint(files []SourceFile) string {
	h := sha256.New()
	for _, f := range files {
		fmt.Fprintf(h, "%s\x00%s\n", f.RelPath, f.Hash)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func shouldExcludeDir(name string) bool {
	for _, excl := range excludedDirs {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// matchesAny matches the full relative path, then the base name, against
// each doublestar pattern.
func matchesAny(relPath string, patterns []string) bool {
	base := path.Base(relPath)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
