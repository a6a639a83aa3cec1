package main

import (
	"fmt"

	"github.com/cape-app/cape/internal/cli"
	"github.com/spf13/cobra"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or update your profile",
	}

	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileUpdateCmd())

	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, guard, err := initGuard()
			if err != nil {
				return err
			}
			if err := requireSignIn(ctx, guard); err != nil {
				return err
			}

			profile, err := client.Profile(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch profile: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("Profil"))
			fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Nama:    "), profile.FullName)
			fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Email:   "), profile.Email)
			fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Role:    "), profile.Role)
			fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Provider:"), profile.AuthProvider)
			return nil
		},
	}
}

func profileUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your display name",
		Long:  `Change the display name. Email is managed by the auth provider and cannot be edited.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			client, guard, err := initGuard()
			if err != nil {
				return err
			}
			if err := requireSignIn(ctx, guard); err != nil {
				return err
			}

			profile, err := client.UpdateProfile(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Profil diupdate: " + profile.FullName))
			return nil
		},
	}

	cmd.Flags().String("name", "", "new display name")
	return cmd
}
