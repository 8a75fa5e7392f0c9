package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// NewTasksCommand creates the tasks command group.
func NewTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Manage tasks",
		Long:    "List, show, create, update, and delete tasks of the configured project",
	}

	cmd.AddCommand(newTasksListCommand())
	cmd.AddCommand(newTasksSubtasksCommand())
	cmd.AddCommand(newTasksGetCommand())
	cmd.AddCommand(newTasksCreateCommand())
	cmd.AddCommand(newTasksUpdateCommand())
	cmd.AddCommand(newTasksDeleteCommand())

	return cmd
}

type taskListFlags struct {
	status    string
	time      string
	priority  string
	owners    []string
	tasklist  int64
	pageSize  int
	limit     int
	subtasks  bool
	customIDs []string
}

func (f *taskListFlags) filters() ([]zoho.TaskFilter, error) {
	var filters []zoho.TaskFilter

	if f.status != "" {
		filters = append(filters, zoho.TaskByStatus(zoho.TaskStatus(f.status)))
	}

	if f.time != "" {
		filters = append(filters, zoho.TaskByTime(zoho.TaskTime(f.time)))
	}

	if f.priority != "" {
		filters = append(filters, zoho.TaskByPriority(zoho.Priority(f.priority)))
	}

	if len(f.owners) > 0 {
		ids, err := parseIDs(f.owners)
		if err != nil {
			return nil, err
		}

		filters = append(filters, zoho.TaskOwner(ids...))
	}

	if len(f.customIDs) > 0 {
		ids, err := parseIDs(f.customIDs)
		if err != nil {
			return nil, err
		}

		filters = append(filters, zoho.TaskCustomStatus(ids...))
	}

	if f.tasklist != 0 {
		filters = append(filters, zoho.TaskInTasklist(f.tasklist))
	}

	if f.pageSize > 0 {
		filters = append(filters, zoho.TaskPageSize(f.pageSize))
	}

	return filters, nil
}

func newTasksListCommand() *cobra.Command {
	flags := &taskListFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks of the configured project. With --subtasks every subtask is listed
right after its parent; requests for subtasks are paced to stay within the API rate limit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := flags.filters()
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			iterator := client.Tasks().List(cmd.Context(), filters...)
			if flags.subtasks {
				iterator = client.Tasks().ListWithSubtasks(cmd.Context(), filters...)
			}

			tasks, err := collect(iterator.Seq(), flags.limit)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			return outputTasks(cmd, tasks)
		},
	}

	cmd.Flags().StringVar(&flags.status, "status", "", "filter by status (all, completed, notcompleted)")
	cmd.Flags().StringVar(&flags.time, "time", "", "filter by due date (all, overdue, today, tomorrow)")
	cmd.Flags().StringVar(&flags.priority, "priority", "", "filter by priority (all, none, low, medium, high)")
	cmd.Flags().StringSliceVar(&flags.owners, "owner", nil, "filter by owner user ids")
	cmd.Flags().StringSliceVar(&flags.customIDs, "custom-status", nil, "filter by custom status ids")
	cmd.Flags().Int64Var(&flags.tasklist, "tasklist", 0, "filter by tasklist id")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "tasks per request (max 100)")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "stop after this many tasks (0 for all)")
	cmd.Flags().BoolVar(&flags.subtasks, "subtasks", false, "include subtasks")

	return cmd
}

func newTasksSubtasksCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "subtasks TASK_ID",
		Short: "List the direct subtasks of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			tasks, err := collect(client.Tasks().Subtasks(cmd.Context(), args[0]).Seq(), limit)
			if err != nil {
				return fmt.Errorf("failed to list subtasks of %s: %w", args[0], err)
			}

			return outputTasks(cmd, tasks)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many subtasks (0 for all)")

	return cmd
}

func newTasksGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TASK_ID",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			task, err := client.Tasks().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return outputTasks(cmd, []zoho.Task{*task})
		},
	}
}

func newTasksCreateCommand() *cobra.Command {
	request := &zoho.TaskCreateRequest{}

	var priority string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			request.Priority = zoho.Priority(priority)

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			task, err := client.Tasks().Create(cmd.Context(), request)
			if err != nil {
				return err
			}

			return outputTasks(cmd, []zoho.Task{*task})
		},
	}

	cmd.Flags().StringVar(&request.Name, "name", "", "task name")
	cmd.Flags().StringVar(&request.Description, "description", "", "task description")
	cmd.Flags().StringVar(&request.TasklistID, "tasklist", "", "tasklist id")
	cmd.Flags().StringSliceVar(&request.Owners, "owner", nil, "owner user ids")
	cmd.Flags().StringVar(&request.StartDate, "start", "", "start date (MM-DD-YYYY)")
	cmd.Flags().StringVar(&request.EndDate, "end", "", "end date (MM-DD-YYYY)")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (none, low, medium, high)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTasksUpdateCommand() *cobra.Command {
	request := &zoho.TaskUpdateRequest{}

	var (
		priority string
		percent  int
	)

	cmd := &cobra.Command{
		Use:   "update TASK_ID",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !anyFlagChanged(cmd, "name", "description", "owner", "start", "end", "priority", "percent", "custom-status") {
				return ErrNothingToUpdate
			}

			request.Priority = zoho.Priority(priority)

			if cmd.Flags().Changed("percent") {
				if percent < 0 || percent > 100 {
					return ErrInvalidPercent
				}

				request.PercentComplete = &percent
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			task, err := client.Tasks().Update(cmd.Context(), args[0], request)
			if err != nil {
				return err
			}

			return outputTasks(cmd, []zoho.Task{*task})
		},
	}

	cmd.Flags().StringVar(&request.Name, "name", "", "task name")
	cmd.Flags().StringVar(&request.Description, "description", "", "task description")
	cmd.Flags().StringSliceVar(&request.Owners, "owner", nil, "owner user ids")
	cmd.Flags().StringVar(&request.StartDate, "start", "", "start date (MM-DD-YYYY)")
	cmd.Flags().StringVar(&request.EndDate, "end", "", "end date (MM-DD-YYYY)")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (none, low, medium, high)")
	cmd.Flags().IntVar(&percent, "percent", 0, "percent complete (0-100)")
	cmd.Flags().StringVar(&request.CustomStatus, "custom-status", "", "custom status id")

	return cmd
}

func newTasksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TASK_ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			err = client.Tasks().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s deleted\n", args[0])

			return nil
		},
	}
}

func outputTasks(cmd *cobra.Command, tasks []zoho.Task) error {
	if len(tasks) == 0 && isTableOutput() {
		printEmpty(cmd, "tasks")

		return nil
	}

	return renderOutput(cmd.OutOrStdout(), tasks, func(out io.Writer) error {
		table := newTable(out, "ID", "Name", "Status", "Priority", "Owners", "Tasklist", "Due", "Parent")

		for _, task := range tasks {
			owners := make([]string, 0, len(task.Details.Owners))
			for _, owner := range task.Details.Owners {
				owners = append(owners, owner.Name)
			}

			tasklist := ""
			if task.Tasklist != nil {
				tasklist = task.Tasklist.Name
			}

			_ = table.Append([]string{
				task.Identifier(),
				truncate(task.Name),
				orNotAvailable(task.Status.Name),
				orNotAvailable(task.Priority),
				orNotAvailable(strings.Join(owners, ", ")),
				orNotAvailable(truncate(tasklist)),
				orNotAvailable(task.EndDate),
				orNotAvailable(task.ParentTaskID),
			})
		}

		return renderTable(table)
	})
}
