package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// CategoriesClient implements zoho.CategoriesClient.
type CategoriesClient struct {
	client *Client
}

// NewCategoriesClient creates a new forum categories client.
func NewCategoriesClient(client *Client) *CategoriesClient {
	return &CategoriesClient{client: client}
}

// List implements zoho.CategoriesClient.List.
func (c *CategoriesClient) List(ctx context.Context) *zoho.PaginationIterator[zoho.Category] {
	return list[zoho.Category](ctx, c.client, c.client.Descriptor(zoho.ResourceCategories))
}

// Create implements zoho.CategoriesClient.Create.
func (c *CategoriesClient) Create(ctx context.Context, request *zoho.CategoryCreateRequest) (*zoho.Category, error) {
	form, err := c.client.encodeForm(request)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	category, err := first[zoho.Category](ctx, c.client, http.MethodPost, c.client.Descriptor(zoho.ResourceCategories), form)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return category, nil
}
