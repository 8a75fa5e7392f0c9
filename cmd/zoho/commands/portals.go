package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// NewPortalsCommand creates the portals command group.
func NewPortalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "portals",
		Aliases: []string{"portal"},
		Short:   "List portals",
		Long:    "List the portals visible to the logged in user",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List portals",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			portals, err := client.Portals().List(cmd.Context())
			if err != nil {
				return err
			}

			if len(portals) == 0 && isTableOutput() {
				printEmpty(cmd, "portals")

				return nil
			}

			return renderOutput(cmd.OutOrStdout(), portals, func(out io.Writer) error {
				table := newTable(out, "ID", "Name", "Role", "Default")

				for _, portal := range portals {
					_ = table.Append([]string{
						portal.Identifier(),
						truncate(portal.Name),
						orNotAvailable(portal.Role),
						strconv.FormatBool(portal.Default),
					})
				}

				return renderTable(table)
			})
		},
	})

	return cmd
}

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Show projects",
		Long:    "List and show projects of the configured portal",
	}

	cmd.AddCommand(newProjectsListCommand())
	cmd.AddCommand(newProjectsGetCommand())

	return cmd
}

func newProjectsListCommand() *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filters []zoho.ProjectFilter
			if status != "" {
				filters = append(filters, zoho.ProjectStatus(status))
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			projects, err := collect(client.Projects().List(cmd.Context(), filters...).Seq(), limit)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			return outputProjects(cmd, projects)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (active, archived, template)")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many projects (0 for all)")

	return cmd
}

func newProjectsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PROJECT_ID",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			project, err := client.Projects().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return outputProjects(cmd, []zoho.Project{*project})
		},
	}
}

func outputProjects(cmd *cobra.Command, projects []zoho.Project) error {
	if len(projects) == 0 && isTableOutput() {
		printEmpty(cmd, "projects")

		return nil
	}

	return renderOutput(cmd.OutOrStdout(), projects, func(out io.Writer) error {
		table := newTable(out, "ID", "Key", "Name", "Status", "Owner")

		for _, project := range projects {
			_ = table.Append([]string{
				project.Identifier(),
				orNotAvailable(project.Key),
				truncate(project.Name),
				orNotAvailable(project.Status),
				orNotAvailable(project.OwnerName),
			})
		}

		return renderTable(table)
	})
}
