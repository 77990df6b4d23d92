package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RawDocument is extracted document text ready for chunking.
type RawDocument struct {
	Name       string
	SourceType string
	Text       string
}

// LoadFile reads a plain-text document from disk. Extraction from binary
// formats (pdf, docx) happens upstream of this engine; only already-textual
// files are accepted here.
func LoadFile(path string) (*RawDocument, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &RawDocument{
		Name:       filepath.Base(path),
		SourceType: strings.TrimPrefix(ext, "."),
		Text:       string(data),
	}, nil
}
