package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// NewTasklistsCommand creates the tasklists command group.
func NewTasklistsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasklists",
		Aliases: []string{"tasklist", "tl"},
		Short:   "Manage tasklists",
		Long:    "List, create, update, and delete tasklists of the configured project",
	}

	cmd.AddCommand(newTasklistsListCommand())
	cmd.AddCommand(newTasklistsCreateCommand())
	cmd.AddCommand(newTasklistsUpdateCommand())
	cmd.AddCommand(newTasklistsDeleteCommand())

	return cmd
}

func newTasklistsListCommand() *cobra.Command {
	var (
		flag      string
		milestone int64
		pageSize  int
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasklists",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := []zoho.TasklistFilter{zoho.TasklistFlag(zoho.Flag(flag))}

			if milestone != 0 {
				filters = append(filters, zoho.TasklistMilestone(milestone))
			}

			if pageSize > 0 {
				filters = append(filters, zoho.TasklistPageSize(pageSize))
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			tasklists, err := collect(client.Tasklists().List(cmd.Context(), filters...).Seq(), limit)
			if err != nil {
				return fmt.Errorf("failed to list tasklists: %w", err)
			}

			return outputTasklists(cmd, tasklists)
		},
	}

	cmd.Flags().StringVar(&flag, "flag", string(zoho.FlagInternal), "visibility (internal, external)")
	cmd.Flags().Int64Var(&milestone, "milestone", 0, "filter by milestone id")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "tasklists per request (max 100)")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many tasklists (0 for all)")

	return cmd
}

func newTasklistsCreateCommand() *cobra.Command {
	request := &zoho.TasklistCreateRequest{}

	var flag string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a tasklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.Name = args[0]
			request.Flag = zoho.Flag(flag)

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			tasklist, err := client.Tasklists().Create(cmd.Context(), request)
			if err != nil {
				return err
			}

			return outputTasklists(cmd, []zoho.Tasklist{*tasklist})
		},
	}

	cmd.Flags().StringVar(&flag, "flag", string(zoho.FlagInternal), "visibility (internal, external)")
	cmd.Flags().StringVar(&request.MilestoneID, "milestone", "", "milestone id")

	return cmd
}

func newTasklistsUpdateCommand() *cobra.Command {
	request := &zoho.TasklistUpdateRequest{}

	var flag string

	cmd := &cobra.Command{
		Use:   "update TASKLIST_ID",
		Short: "Update a tasklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !anyFlagChanged(cmd, "name", "flag", "milestone", "status") {
				return ErrNothingToUpdate
			}

			request.Flag = zoho.Flag(flag)

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			tasklist, err := client.Tasklists().Update(cmd.Context(), args[0], request)
			if err != nil {
				return err
			}

			return outputTasklists(cmd, []zoho.Tasklist{*tasklist})
		},
	}

	cmd.Flags().StringVar(&request.Name, "name", "", "tasklist name")
	cmd.Flags().StringVar(&flag, "flag", "", "visibility (internal, external)")
	cmd.Flags().StringVar(&request.MilestoneID, "milestone", "", "milestone id")
	cmd.Flags().StringVar(&request.Status, "status", "", "status (active, completed)")

	return cmd
}

func newTasklistsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TASKLIST_ID",
		Short: "Delete a tasklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			err = client.Tasklists().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Tasklist %s deleted\n", args[0])

			return nil
		},
	}
}

func outputTasklists(cmd *cobra.Command, tasklists []zoho.Tasklist) error {
	if len(tasklists) == 0 && isTableOutput() {
		printEmpty(cmd, "tasklists")

		return nil
	}

	return renderOutput(cmd.OutOrStdout(), tasklists, func(out io.Writer) error {
		table := newTable(out, "ID", "Name", "Flag", "Completed", "Milestone")

		for _, tasklist := range tasklists {
			milestone := ""
			if tasklist.Milestone != nil {
				milestone = tasklist.Milestone.Name
			}

			_ = table.Append([]string{
				tasklist.Identifier(),
				truncate(tasklist.Name),
				orNotAvailable(tasklist.Flag),
				strconv.FormatBool(tasklist.Completed),
				orNotAvailable(milestone),
			})
		}

		return renderTable(table)
	})
}
