package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// BugsClient implements zoho.BugsClient.
type BugsClient struct {
	client *Client
}

// NewBugsClient creates a new bugs client.
func NewBugsClient(client *Client) *BugsClient {
	return &BugsClient{client: client}
}

// List implements zoho.BugsClient.List.
func (c *BugsClient) List(ctx context.Context, filters ...zoho.BugFilter) *zoho.PaginationIterator[zoho.Bug] {
	desc := c.client.Descriptor(zoho.ResourceBugs)
	for _, filter := range filters {
		desc = desc.WithFilter(filter)
	}

	return list[zoho.Bug](ctx, c.client, desc)
}

// Get implements zoho.BugsClient.Get.
func (c *BugsClient) Get(ctx context.Context, bugID string) (*zoho.Bug, error) {
	desc := c.client.Descriptor(zoho.ResourceBugs).WithID(bugID)

	bug, err := first[zoho.Bug](ctx, c.client, http.MethodGet, desc, nil)
	if err != nil {
		return nil, fmt.Errorf("getting bug %s: %w", bugID, err)
	}

	return bug, nil
}

// Create implements zoho.BugsClient.Create.
func (c *BugsClient) Create(ctx context.Context, request *zoho.BugCreateRequest) (*zoho.Bug, error) {
	form, err := c.client.encodeForm(request)
	if err != nil {
		return nil, fmt.Errorf("creating bug: %w", err)
	}

	bug, err := first[zoho.Bug](ctx, c.client, http.MethodPost, c.client.Descriptor(zoho.ResourceBugs), form)
	if err != nil {
		return nil, fmt.Errorf("creating bug: %w", err)
	}

	return bug, nil
}

// Update implements zoho.BugsClient.Update.
func (c *BugsClient) Update(ctx context.Context, bugID string, request *zoho.BugUpdateRequest) (*zoho.Bug, error) {
	form, err := c.client.encodeForm(request)
	if err != nil {
		return nil, fmt.Errorf("updating bug %s: %w", bugID, err)
	}

	desc := c.client.Descriptor(zoho.ResourceBugs).WithID(bugID)

	bug, err := first[zoho.Bug](ctx, c.client, http.MethodPost, desc, form)
	if err != nil {
		return nil, fmt.Errorf("updating bug %s: %w", bugID, err)
	}

	return bug, nil
}

// Delete implements zoho.BugsClient.Delete.
func (c *BugsClient) Delete(ctx context.Context, bugID string) error {
	desc := c.client.Descriptor(zoho.ResourceBugs).WithID(bugID)

	err := c.client.send(ctx, http.MethodDelete, desc, nil, "", nil)
	if err != nil {
		return fmt.Errorf("deleting bug %s: %w", bugID, err)
	}

	return nil
}
