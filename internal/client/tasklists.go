package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// TasklistsClient implements zoho.TasklistsClient.
type TasklistsClient struct {
	client *Client
}

// NewTasklistsClient creates a new tasklists client.
func NewTasklistsClient(client *Client) *TasklistsClient {
	return &TasklistsClient{client: client}
}

// List implements zoho.TasklistsClient.List. The remote service requires a flag filter.
func (c *TasklistsClient) List(ctx context.Context, filters ...zoho.TasklistFilter) *zoho.PaginationIterator[zoho.Tasklist] {
	desc := c.client.Descriptor(zoho.ResourceTasklists)
	for _, filter := range filters {
		desc = desc.WithFilter(filter)
	}

	return list[zoho.Tasklist](ctx, c.client, desc)
}

// Create implements zoho.TasklistsClient.Create.
func (c *TasklistsClient) Create(ctx context.Context, request *zoho.TasklistCreateRequest) (*zoho.Tasklist, error) {
	form, err := c.client.encodeForm(request)
	if err != nil {
		return nil, fmt.Errorf("creating tasklist: %w", err)
	}

	tasklist, err := first[zoho.Tasklist](ctx, c.client, http.MethodPost, c.client.Descriptor(zoho.ResourceTasklists), form)
	if err != nil {
		return nil, fmt.Errorf("creating tasklist: %w", err)
	}

	return tasklist, nil
}

// Update implements zoho.TasklistsClient.Update.
func (c *TasklistsClient) Update(ctx context.Context, tasklistID string, request *zoho.TasklistUpdateRequest) (*zoho.Tasklist, error) {
	form, err := c.client.encodeForm(request)
	if err != nil {
		return nil, fmt.Errorf("updating tasklist %s: %w", tasklistID, err)
	}

	desc := c.client.Descriptor(zoho.ResourceTasklists).WithID(tasklistID)

	tasklist, err := first[zoho.Tasklist](ctx, c.client, http.MethodPost, desc, form)
	if err != nil {
		return nil, fmt.Errorf("updating tasklist %s: %w", tasklistID, err)
	}

	return tasklist, nil
}

// Delete implements zoho.TasklistsClient.Delete.
func (c *TasklistsClient) Delete(ctx context.Context, tasklistID string) error {
	desc := c.client.Descriptor(zoho.ResourceTasklists).WithID(tasklistID)

	err := c.client.send(ctx, http.MethodDelete, desc, nil, "", nil)
	if err != nil {
		return fmt.Errorf("deleting tasklist %s: %w", tasklistID, err)
	}

	return nil
}
