package main

import (
	"fmt"
	"time"

	"github.com/cape-app/cape/internal/cli"
	"github.com/cape-app/cape/internal/icons"
	"github.com/cape-app/cape/internal/model"
	"github.com/spf13/cobra"
)

func monthFlag(cmd *cobra.Command) string {
	month, _ := cmd.Flags().GetString("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	return month
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Monthly expense/income summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, guard, err := initGuard()
			if err != nil {
				return err
			}
			if err := requireSignIn(ctx, guard); err != nil {
				return err
			}

			stats, err := client.TransactionStats(ctx, monthFlag(cmd))
			if err != nil {
				return fmt.Errorf("failed to fetch stats: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("Ringkasan " + stats.Month))
			fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Pengeluaran:"),
				cli.ExpenseStyle.Render(model.FormatIDR(stats.TotalExpense)))
			fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Pemasukan:  "),
				cli.IncomeStyle.Render(model.FormatIDR(stats.TotalIncome)))

			if len(stats.ByCategory) > 0 {
				fmt.Println()
				for _, row := range stats.ByCategory {
					name, glyph := "Tanpa kategori", string(icons.FallbackGlyph)
					if row.Category != nil {
						name = row.Category.Name
						glyph = string(icons.Resolve(row.Category.IconSlug))
					}
					fmt.Printf("  %s %-20s %14s  (%d)\n", glyph, name,
						model.FormatIDR(row.Total), row.Count)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("month", "", "month (2025-01, default current)")
	return cmd
}

func analyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Monthly analytics with trend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, guard, err := initGuard()
			if err != nil {
				return err
			}
			if err := requireSignIn(ctx, guard); err != nil {
				return err
			}

			analytics, err := client.Analytics(ctx, monthFlag(cmd))
			if err != nil {
				return fmt.Errorf("failed to fetch analytics: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("Analitik " + analytics.Month))
			fmt.Printf("  %s %s dalam %d transaksi\n", cli.BoldStyle.Render("Total:"),
				model.FormatIDR(analytics.TotalExpense), analytics.TransactionCount)

			if analytics.PercentChange > 0 {
				fmt.Println("  " + cli.WarningStyle.Render(
					fmt.Sprintf("▲ %.1f%% dari bulan lalu", analytics.PercentChange)))
			} else {
				fmt.Println("  " + cli.SuccessStyle.Render(
					fmt.Sprintf("▼ %.1f%% dari bulan lalu", -analytics.PercentChange)))
			}

			for i, share := range analytics.TopCategories {
				name := "Tanpa kategori"
				if share.Category != nil {
					name = share.Category.Name
				}
				fmt.Printf("  %d. %-20s %14s  %5.1f%%\n", i+1, name,
					model.FormatIDR(share.Total), share.Percentage)
			}
			return nil
		},
	}

	cmd.Flags().String("month", "", "month (2025-01, default current)")
	return cmd
}

func insightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insight",
		Short: "Ask the AI for a spending insight",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, guard, err := initGuard()
			if err != nil {
				return err
			}
			if err := requireSignIn(ctx, guard); err != nil {
				return err
			}

			insight, err := client.Insight(ctx, monthFlag(cmd))
			if err != nil {
				return fmt.Errorf("failed to fetch insight: %w", err)
			}

			fmt.Println(cli.AiStyle.Render("💡 Insight"))
			fmt.Println(cli.BoxStyle.Render(insight.Insight))
			return nil
		},
	}

	cmd.Flags().String("month", "", "month (2025-01, default current)")
	return cmd
}
