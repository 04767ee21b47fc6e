package source

import (
	"context"
	"fmt"
	"os"

	"boardgame-catalog/internal/catalog"
)

// File reads the catalog from a JSON file on disk.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (s *File) Name() string {
	return "file " + s.path
}

func (s *File) Fetch(ctx context.Context) ([]catalog.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	return catalog.DecodeRecords(f)
}
