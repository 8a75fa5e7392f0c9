package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// TasksClient implements zoho.TasksClient.
type TasksClient struct {
	client *Client
}

// NewTasksClient creates a new tasks client.
func NewTasksClient(client *Client) *TasksClient {
	return &TasksClient{client: client}
}

func (c *TasksClient) descriptor(filters []zoho.TaskFilter) zoho.RequestDescriptor {
	desc := c.client.Descriptor(zoho.ResourceTasks)
	for _, filter := range filters {
		desc = desc.WithFilter(filter)
	}

	return desc
}

// List implements zoho.TasksClient.List. Only top-level tasks are returned.
func (c *TasksClient) List(ctx context.Context, filters ...zoho.TaskFilter) *zoho.PaginationIterator[zoho.Task] {
	return list[zoho.Task](ctx, c.client, c.descriptor(filters))
}

// ListWithSubtasks implements zoho.TasksClient.ListWithSubtasks. Filters apply to the
// top level only; nested levels are fetched with the page size alone.
func (c *TasksClient) ListWithSubtasks(ctx context.Context, filters ...zoho.TaskFilter) *zoho.PaginationIterator[zoho.Task] {
	subtasks := c.client.Descriptor(zoho.ResourceSubtasks).Resource()

	expansion := zoho.Expansion[zoho.Task]{
		HasChildren: func(task zoho.Task) bool { return task.Subtasks },
		ID:          zoho.Task.Identifier,
		ChildPath:   subtasks.ChildPath,
	}

	return list[zoho.Task](ctx, c.client, c.descriptor(filters),
		zoho.WithExpansion(expansion),
		zoho.WithRateLimitGuard[zoho.Task](c.client.guard()),
	)
}

// Subtasks implements zoho.TasksClient.Subtasks.
func (c *TasksClient) Subtasks(ctx context.Context, taskID string) *zoho.PaginationIterator[zoho.Task] {
	desc := c.client.Descriptor(zoho.ResourceSubtasks)
	desc = desc.WithPath(desc.Resource().ChildPath(taskID))

	return list[zoho.Task](ctx, c.client, desc)
}

// Get implements zoho.TasksClient.Get.
func (c *TasksClient) Get(ctx context.Context, taskID string) (*zoho.Task, error) {
	desc := c.client.Descriptor(zoho.ResourceTasks).WithID(taskID)

	task, err := first[zoho.Task](ctx, c.client, http.MethodGet, desc, nil)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", taskID, err)
	}

	return task, nil
}

// Create implements zoho.TasksClient.Create.
func (c *TasksClient) Create(ctx context.Context, request *zoho.TaskCreateRequest) (*zoho.Task, error) {
	form, err := c.client.encodeForm(request)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	task, err := first[zoho.Task](ctx, c.client, http.MethodPost, c.client.Descriptor(zoho.ResourceTasks), form)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	return task, nil
}

// Update implements zoho.TasksClient.Update. Updates are posted to the task itself.
func (c *TasksClient) Update(ctx context.Context, taskID string, request *zoho.TaskUpdateRequest) (*zoho.Task, error) {
	form, err := c.client.encodeForm(request)
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", taskID, err)
	}

	desc := c.client.Descriptor(zoho.ResourceTasks).WithID(taskID)

	task, err := first[zoho.Task](ctx, c.client, http.MethodPost, desc, form)
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", taskID, err)
	}

	return task, nil
}

// Delete implements zoho.TasksClient.Delete.
func (c *TasksClient) Delete(ctx context.Context, taskID string) error {
	desc := c.client.Descriptor(zoho.ResourceTasks).WithID(taskID)

	err := c.client.send(ctx, http.MethodDelete, desc, nil, "", nil)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", taskID, err)
	}

	return nil
}
