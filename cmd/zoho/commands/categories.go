package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// NewCategoriesCommand creates the forum categories command group.
func NewCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage forum categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List forum categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			categories, err := client.Categories().List(cmd.Context()).All()
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			return outputCategories(cmd, categories)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create a forum category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			category, err := client.Categories().Create(cmd.Context(), &zoho.CategoryCreateRequest{Name: args[0]})
			if err != nil {
				return err
			}

			return outputCategories(cmd, []zoho.Category{*category})
		},
	})

	return cmd
}

func outputCategories(cmd *cobra.Command, categories []zoho.Category) error {
	if len(categories) == 0 && isTableOutput() {
		printEmpty(cmd, "categories")

		return nil
	}

	return renderOutput(cmd.OutOrStdout(), categories, func(out io.Writer) error {
		table := newTable(out, "ID", "Name")

		for _, category := range categories {
			_ = table.Append([]string{category.Identifier(), truncate(category.Name)})
		}

		return renderTable(table)
	})
}
