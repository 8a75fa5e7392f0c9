package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// ProjectsClient implements zoho.ProjectsClient.
type ProjectsClient struct {
	client *Client
}

// NewProjectsClient creates a new projects client.
func NewProjectsClient(client *Client) *ProjectsClient {
	return &ProjectsClient{client: client}
}

// List implements zoho.ProjectsClient.List.
func (c *ProjectsClient) List(ctx context.Context, filters ...zoho.ProjectFilter) *zoho.PaginationIterator[zoho.Project] {
	desc := c.client.Descriptor(zoho.ResourceProjects)
	for _, filter := range filters {
		desc = desc.WithFilter(filter)
	}

	return list[zoho.Project](ctx, c.client, desc)
}

// Get implements zoho.ProjectsClient.Get.
func (c *ProjectsClient) Get(ctx context.Context, projectID string) (*zoho.Project, error) {
	desc := c.client.Descriptor(zoho.ResourceProjects).WithID(projectID)

	project, err := first[zoho.Project](ctx, c.client, http.MethodGet, desc, nil)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", projectID, err)
	}

	return project, nil
}
