package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// NewBugsCommand creates the bugs command group.
func NewBugsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bugs",
		Aliases: []string{"bug", "issues"},
		Short:   "Manage bugs",
		Long:    "List, show, create, update, and delete bugs of the configured project",
	}

	cmd.AddCommand(newBugsListCommand())
	cmd.AddCommand(newBugsGetCommand())
	cmd.AddCommand(newBugsCreateCommand())
	cmd.AddCommand(newBugsUpdateCommand())
	cmd.AddCommand(newBugsDeleteCommand())

	return cmd
}

func newBugsListCommand() *cobra.Command {
	var (
		statusType string
		flag       string
		severity   []string
		assignee   []string
		milestone  []string
		sortColumn string
		sortOrder  string
		pageSize   int
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bugs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filters []zoho.BugFilter

			if statusType != "" {
				filters = append(filters, zoho.BugStatusType(zoho.StatusType(statusType)))
			}

			if flag != "" {
				filters = append(filters, zoho.BugFlag(zoho.Flag(flag)))
			}

			idFilters := []struct {
				values []string
				filter func(...int64) zoho.BugFilter
			}{
				{severity, zoho.BugSeverity},
				{assignee, zoho.BugAssignee},
				{milestone, zoho.BugMilestone},
			}

			for _, idFilter := range idFilters {
				if len(idFilter.values) == 0 {
					continue
				}

				ids, err := parseIDs(idFilter.values)
				if err != nil {
					return err
				}

				filters = append(filters, idFilter.filter(ids...))
			}

			if sortColumn != "" {
				filters = append(filters, zoho.BugSortColumn(zoho.SortColumn(sortColumn)))
			}

			if sortOrder != "" {
				filters = append(filters, zoho.BugSortOrder(zoho.SortOrder(sortOrder)))
			}

			if pageSize > 0 {
				filters = append(filters, zoho.BugPageSize(pageSize))
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			bugs, err := collect(client.Bugs().List(cmd.Context(), filters...).Seq(), limit)
			if err != nil {
				return fmt.Errorf("failed to list bugs: %w", err)
			}

			return outputBugs(cmd, bugs)
		},
	}

	cmd.Flags().StringVar(&statusType, "status-type", "", "filter by state (open, closed, all)")
	cmd.Flags().StringVar(&flag, "flag", "", "filter by visibility (internal, external, allflag)")
	cmd.Flags().StringSliceVar(&severity, "severity", nil, "filter by severity ids")
	cmd.Flags().StringSliceVar(&assignee, "assignee", nil, "filter by assignee user ids")
	cmd.Flags().StringSliceVar(&milestone, "milestone", nil, "filter by milestone ids")
	cmd.Flags().StringVar(&sortColumn, "sort", "", "sort by column (created_time, last_modified_time)")
	cmd.Flags().StringVar(&sortOrder, "order", "", "sort order (ascending, descending)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "bugs per request (max 100)")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many bugs (0 for all)")

	return cmd
}

func newBugsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get BUG_ID",
		Short: "Show a bug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			bug, err := client.Bugs().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return outputBugs(cmd, []zoho.Bug{*bug})
		},
	}
}

func newBugsCreateCommand() *cobra.Command {
	request := &zoho.BugCreateRequest{}

	var flag string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Report a bug",
		RunE: func(cmd *cobra.Command, args []string) error {
			request.Flag = zoho.Flag(flag)

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			bug, err := client.Bugs().Create(cmd.Context(), request)
			if err != nil {
				return err
			}

			return outputBugs(cmd, []zoho.Bug{*bug})
		},
	}

	cmd.Flags().StringVar(&request.Title, "title", "", "bug title")
	cmd.Flags().StringVar(&request.Description, "description", "", "bug description")
	cmd.Flags().StringVar(&request.AssigneeID, "assignee", "", "assignee user id")
	cmd.Flags().StringVar(&flag, "flag", "", "visibility (internal, external)")
	cmd.Flags().StringVar(&request.SeverityID, "severity", "", "severity id")
	cmd.Flags().StringVar(&request.ClassificationID, "classification", "", "classification id")
	cmd.Flags().StringVar(&request.ModuleID, "module", "", "module id")
	cmd.Flags().StringVar(&request.MilestoneID, "milestone", "", "milestone id")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newBugsUpdateCommand() *cobra.Command {
	request := &zoho.BugUpdateRequest{}

	var flag string

	cmd := &cobra.Command{
		Use:   "update BUG_ID",
		Short: "Update a bug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !anyFlagChanged(cmd, "title", "description", "assignee", "status", "severity", "flag") {
				return ErrNothingToUpdate
			}

			request.Flag = zoho.Flag(flag)

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			bug, err := client.Bugs().Update(cmd.Context(), args[0], request)
			if err != nil {
				return err
			}

			return outputBugs(cmd, []zoho.Bug{*bug})
		},
	}

	cmd.Flags().StringVar(&request.Title, "title", "", "bug title")
	cmd.Flags().StringVar(&request.Description, "description", "", "bug description")
	cmd.Flags().StringVar(&request.AssigneeID, "assignee", "", "assignee user id")
	cmd.Flags().StringVar(&request.StatusID, "status", "", "status id")
	cmd.Flags().StringVar(&request.SeverityID, "severity", "", "severity id")
	cmd.Flags().StringVar(&flag, "flag", "", "visibility (internal, external)")

	return cmd
}

func newBugsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete BUG_ID",
		Short: "Delete a bug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			err = client.Bugs().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Bug %s deleted\n", args[0])

			return nil
		},
	}
}

func outputBugs(cmd *cobra.Command, bugs []zoho.Bug) error {
	if len(bugs) == 0 && isTableOutput() {
		printEmpty(cmd, "bugs")

		return nil
	}

	return renderOutput(cmd.OutOrStdout(), bugs, func(out io.Writer) error {
		table := newTable(out, "ID", "Key", "Title", "Status", "Severity", "Assignee", "Module")

		for _, bug := range bugs {
			_ = table.Append([]string{
				bug.Identifier(),
				orNotAvailable(bug.Key),
				truncate(bug.Title),
				orNotAvailable(bug.Status.Type),
				orNotAvailable(bug.Severity.Type),
				orNotAvailable(bug.AssigneeName),
				orNotAvailable(bug.Module.Name),
			})
		}

		return renderTable(table)
	})
}
