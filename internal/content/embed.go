package content

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed sample
var sampleFS embed.FS

// Sample returns the bundled demo course, used when no content directory
// is configured.
func Sample() (*Catalog, error) {
	sub, err := fs.Sub(sampleFS, "sample")
	if err != nil {
		return nil, fmt.Errorf("sample content: %w", err)
	}
	return Load(sub, Options{})
}
