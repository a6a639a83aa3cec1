package main

import (
	"github.com/cape-app/cape/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Launch the interactive dashboard",
		Long: `Open the full-screen dashboard: transactions with search and
filters, monthly analytics, and (for admins) user, category and
settings management.`,
		RunE: runDashboard,
	}

	cmd.Flags().String("theme", "default", "color theme (default, clay)")
	cmd.Flags().String("month", "", "stats month, e.g. 2025-01 (default: current)")
	cmd.Flags().Int("page-size", 20, "transactions per page")
	_ = viper.BindPFlag("dashboard.theme", cmd.Flags().Lookup("theme"))
	_ = viper.BindPFlag("dashboard.page_size", cmd.Flags().Lookup("page-size"))

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, guard, err := initGuard()
	if err != nil {
		return err
	}
	if err := requireSignIn(ctx, guard); err != nil {
		return err
	}

	recents, err := initRecents()
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithTheme(viper.GetString("dashboard.theme")),
		tui.WithPageSize(viper.GetInt("dashboard.page_size")),
	}
	if month, _ := cmd.Flags().GetString("month"); month != "" {
		opts = append(opts, tui.WithMonth(month))
	}

	return tui.Run(ctx, tui.NewConfig(client, guard, recents, opts...))
}
