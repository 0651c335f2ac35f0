package workflow

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_catalog.go -package=mocks . Catalog

import (
	"context"
)

// Catalog lists the workflow definitions available for a context tag.
type Catalog interface {
	ListDefinitions(ctx context.Context, tag string) ([]Definition, error)
}
