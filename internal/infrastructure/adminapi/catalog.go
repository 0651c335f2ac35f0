package adminapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/execution-hub/event-console/internal/domain/workflow"
)

// Catalog implements workflow.Catalog on top of the processing endpoint.
type Catalog struct {
	client *Client
}

func NewCatalog(client *Client) *Catalog {
	return &Catalog{client: client}
}

type processingResponse struct {
	Workflows []workflow.Definition `json:"workflows"`
}

// ListDefinitions calls GET event/new/processing?tags={tag}.
func (c *Catalog) ListDefinitions(ctx context.Context, tag string) ([]workflow.Definition, error) {
	q := url.Values{}
	q.Set("tags", tag)
	var out processingResponse
	if err := c.client.Get(ctx, "event/new/processing?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("failed to list workflow definitions: %w", err)
	}
	if out.Workflows == nil {
		return []workflow.Definition{}, nil
	}
	return out.Workflows, nil
}
