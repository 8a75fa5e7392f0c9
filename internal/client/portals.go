package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// PortalsClient implements zoho.PortalsClient.
type PortalsClient struct {
	client *Client
}

// NewPortalsClient creates a new portals client.
func NewPortalsClient(client *Client) *PortalsClient {
	return &PortalsClient{client: client}
}

// List implements zoho.PortalsClient.List. The portals endpoint is not paginated.
func (c *PortalsClient) List(ctx context.Context) ([]zoho.Portal, error) {
	desc := c.client.Descriptor(zoho.ResourcePortals)

	var portals []zoho.Portal

	err := c.client.send(ctx, http.MethodGet, desc, nil, zoho.ResourcePortals.ItemsKey, &portals)
	if err != nil {
		return nil, fmt.Errorf("listing portals: %w", err)
	}

	return portals, nil
}
