package sources

import (
	"context"
	"fmt"
	"os"

	"github.com/i474232898/temperature-heatmap/internal/temperature"
)

// FileSource reads the dataset from a local JSON file.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file"
}

func (s *FileSource) Fetch(ctx context.Context) (temperature.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return temperature.Dataset{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return temperature.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return temperature.DecodeDataset(f)
}
