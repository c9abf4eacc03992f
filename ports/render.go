package ports

import (
	"context"

	"zgony/domain/mortality"
)

// DatasetRenderer consumes a finished dataset and writes one output artifact.
// Renderers never modify the dataset.
type DatasetRenderer interface {
	Name() string
	Render(ctx context.Context, ds *mortality.Dataset) ([]string, error)
}
