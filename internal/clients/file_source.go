package clients

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/corridormap/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileSource reads corridors from a local JSON or YAML export.
// The file is re-read on every call; the same records serve every period.
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// ListCorridors reads the file and decodes it by extension.
func (s *FileSource) ListCorridors(ctx context.Context, _ domain.Period) ([]domain.CorridorRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrap(err, "read corridors file")
	}

	var corridors []domain.CorridorRecord
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &corridors); err != nil {
			return nil, errors.Wrapf(err, "decode yaml corridors file %s", s.path)
		}
	default:
		corridors, err = decodeCorridors(data)
		if err != nil {
			return nil, errors.Wrapf(err, "corridors file %s", s.path)
		}
	}

	return corridors, nil
}
