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

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txn"},
		Short:   "Browse and record transactions",
		Long:    `List, add, edit, and delete transactions, or record one with the AI parser.`,
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(editTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())
	cmd.AddCommand(aiTransactionCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  `Display transactions with the same filters the dashboard offers.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, guard, err := initGuard()
			if err != nil {
				return err
			}
			if err := requireSignIn(ctx, guard); err != nil {
				return err
			}

			params := model.ListParams{
				SortBy:    model.SortByDate,
				SortOrder: model.SortDesc,
			}
			params.Month, _ = cmd.Flags().GetString("month")
			params.Search, _ = cmd.Flags().GetString("search")
			params.CategoryID, _ = cmd.Flags().GetString("category")
			params.StartDate, _ = cmd.Flags().GetString("from")
			params.EndDate, _ = cmd.Flags().GetString("to")
			params.Limit, _ = cmd.Flags().GetInt("limit")
			page, _ := cmd.Flags().GetInt("page")
			if page > 1 {
				params.Offset = (page - 1) * params.Limit
			}
			if sortBy, _ := cmd.Flags().GetString("sort"); sortBy == "amount" {
				params.SortBy = model.SortByAmount
			}
			if asc, _ := cmd.Flags().GetBool("asc"); asc {
				params.SortOrder = model.SortAsc
			}

			transactions, pagination, err := client.ListTransactions(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			if len(transactions) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions matched. Try 'cape transactions add'."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Tanggal"),
				cli.TableHeaderStyle.Render("Deskripsi"),
				cli.TableHeaderStyle.Render("Kategori"),
				cli.TableHeaderStyle.Render("Jumlah"),
				cli.TableHeaderStyle.Render("ID"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 10), strings.Repeat("-", 30),
				strings.Repeat("-", 20), strings.Repeat("-", 14), strings.Repeat("-", 24))

			for i := range transactions {
				fmt.Fprintln(w, formatTransactionRow(&transactions[i]))
			}

			if pagination != nil {
				first := params.Offset + 1
				last := params.Offset + len(transactions)
				fmt.Fprintf(w, "\n%s\n", cli.SubtleStyle.Render(
					fmt.Sprintf("Menampilkan %d–%d dari %d", first, last, pagination.Total)))
			}
			return nil
		},
	}

	cmd.Flags().String("month", "", "filter by month (2025-01)")
	cmd.Flags().String("search", "", "search description text")
	cmd.Flags().String("category", "", "filter by category id")
	cmd.Flags().String("from", "", "start date (2006-01-02)")
	cmd.Flags().String("to", "", "end date (2006-01-02)")
	cmd.Flags().String("sort", "date", "sort field (date, amount)")
	cmd.Flags().Bool("asc", false, "sort ascending")
	cmd.Flags().Int("limit", 20, "page size")
	cmd.Flags().Int("page", 1, "page number")

	return cmd
}

func formatTransactionRow(txn *model.Transaction) string {
	category := "(tanpa kategori)"
	glyph := string(icons.FallbackGlyph)
	if txn.Category != nil {
		category = txn.Category.Name
		glyph = string(icons.Resolve(txn.Category.IconSlug))
	}

	amount := cli.ExpenseStyle.Render("-" + model.FormatIDR(txn.AmountValue()))
	if !txn.IsExpense() {
		amount = cli.IncomeStyle.Render("+" + model.FormatIDR(txn.AmountValue()))
	}

	desc := txn.Description
	if txn.IsAiGenerated {
		desc += " " + cli.AiStyle.Render("✨")
	}

	return fmt.Sprintf("%s\t%s\t%s %s\t%s\t%s",
		txn.Date, desc, glyph, category, amount, cli.SubtleStyle.Render(txn.ID))
}

func addTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, guard, err := initGuard()
			if err != nil {
				return err
			}
			if err := requireSignIn(ctx, guard); err != nil {
				return err
			}

			input := model.CreateTransactionInput{}
			input.Amount, _ = cmd.Flags().GetString("amount")
			input.Description, _ = cmd.Flags().GetString("description")
			input.Date, _ = cmd.Flags().GetString("date")
			input.CategoryID, _ = cmd.Flags().GetString("category")

			if input.Amount == "" || input.Description == "" {
				return fmt.Errorf("--amount and --description are required")
			}

			txn, err := client.CreateTransaction(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Transaksi tercatat: %s (%s)",
				txn.Description, model.FormatIDR(txn.AmountValue()))))
			return nil
		},
	}

	cmd.Flags().String("amount", "", "amount in rupiah, e.g. 45000")
	cmd.Flags().String("description", "", "what the money went to")
	cmd.Flags().String("date", "", "date (2006-01-02, default today)")
	cmd.Flags().String("category", "", "category id")

	return cmd
}

func editTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, guard, err := initGuard()
			if err != nil {
				return err
			}
			if err := requireSignIn(ctx, guard); err != nil {
				return err
			}

			input := model.UpdateTransactionInput{}
			input.Amount, _ = cmd.Flags().GetString("amount")
			input.Description, _ = cmd.Flags().GetString("description")
			input.Date, _ = cmd.Flags().GetString("date")
			input.CategoryID, _ = cmd.Flags().GetString("category")

			txn, err := client.UpdateTransaction(ctx, args[0], input)
			if err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Transaksi diupdate: %s", txn.Description)))
			return nil
		},
	}

	cmd.Flags().String("amount", "", "new amount")
	cmd.Flags().String("description", "", "new description")
	cmd.Flags().String("date", "", "new date")
	cmd.Flags().String("category", "", "new category id")

	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, guard, err := initGuard()
			if err != nil {
				return err
			}
			if err := requireSignIn(ctx, guard); err != nil {
				return err
			}

			if err := client.DeleteTransaction(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Transaksi berhasil dihapus! 🗑️"))
			return nil
		},
	}
}

func aiTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ai <text...>",
		Short: "Record a transaction from free text",
		Long: `Send natural language to the AI parser, e.g.:

  cape transactions ai "Kopi Starbucks 45k"

The backend detects amount, description, and category.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, guard, err := initGuard()
			if err != nil {
				return err
			}
			if err := requireSignIn(ctx, guard); err != nil {
				return err
			}

			result, err := client.ParseWithAi(ctx, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("AI parse failed: %w", err)
			}

			detected := result.Parsed.Detected
			fmt.Println(cli.FormatSuccess("Transaksi AI tercatat! ✨"))
			fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Deskripsi:"), detected.Description)
			fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Jumlah:   "), model.FormatIDR(detected.Amount))
			fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Kategori: "), detected.CategoryName)
			fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Yakin:    "),
				cli.AiStyle.Render(fmt.Sprintf("%.0f%%", detected.Confidence*100)))
			return nil
		},
	}
}
