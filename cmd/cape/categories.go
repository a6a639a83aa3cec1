package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cape-app/cape/internal/cli"
	"github.com/cape-app/cape/internal/icons"
	"github.com/cape-app/cape/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List spending categories",
		Long:  `Display the global category set with icons and keywords.`,
	}

	cmd.AddCommand(listCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, guard, err := initGuard()
			if err != nil {
				return err
			}
			if err := requireSignIn(ctx, guard); err != nil {
				return err
			}

			categories, err := client.ListCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Kategori"),
				cli.TableHeaderStyle.Render("Tipe"),
				cli.TableHeaderStyle.Render("Keywords"),
				cli.TableHeaderStyle.Render("ID"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 24), strings.Repeat("-", 6),
				strings.Repeat("-", 30), strings.Repeat("-", 24))

			for _, cat := range categories {
				kind := cli.ExpenseStyle.Render("Keluar")
				if cat.Type == model.CategoryTypeIncome {
					kind = cli.IncomeStyle.Render("Masuk")
				}
				fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n",
					icons.Resolve(cat.IconSlug), cat.Name, kind,
					strings.Join(cat.Keywords, ", "),
					cli.SubtleStyle.Render(cat.ID))
			}
			return nil
		},
	}
}
