package main

import (
	"fmt"
	"time"

	"github.com/cape-app/cape/internal/cli"
	"github.com/cape-app/cape/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the backend session",
		Long:  `Sign in with an API token, inspect the current session, or sign out.`,
	}

	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authLogoutCmd())
	cmd.AddCommand(authStatusCmd())

	return cmd
}

func authLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an API token",
		Long: `Store an API token for subsequent commands.

The token comes from the --token flag or the CAPE_TOKEN environment
variable. The session is verified against the backend before saving.`,
		RunE: runAuthLogin,
	}

	cmd.Flags().String("token", "", "bearer token issued by the backend")
	_ = viper.BindPFlag("token", cmd.Flags().Lookup("token"))

	return cmd
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	accessToken := viper.GetString("token")
	if accessToken == "" {
		return fmt.Errorf("no token provided - pass --token or set CAPE_TOKEN")
	}

	client, store, err := initClient()
	if err != nil {
		return err
	}

	if err := store.SignIn(&oauth2.Token{AccessToken: accessToken}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	// Verify before declaring success; roll back a bad token.
	profile, err := client.Profile(ctx)
	if err != nil {
		_ = store.SignOut()
		return fmt.Errorf("token rejected by backend: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Selamat datang, %s!", profile.FullName)))
	if profile.Role == model.RoleAdmin {
		fmt.Println(cli.InfoStyle.Render("Akun Admin - panel admin tersedia di dashboard."))
	}
	return nil
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := initSession()
			if err != nil {
				return err
			}
			if err := store.SignOut(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Sampai jumpa! 👋"))
			return nil
		},
	}
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, store, err := initClient()
			if err != nil {
				return err
			}

			if !store.SignedIn(ctx) {
				fmt.Println(cli.FormatWarning("Not signed in. Run 'cape auth login'."))
				return nil
			}

			profile, err := client.Profile(ctx)
			if err != nil {
				fmt.Println(cli.FormatError("Session stored but the backend rejected it."))
				return err
			}

			fmt.Println(cli.FormatSuccess("Signed in"))
			fmt.Printf("  %s %s <%s>\n", cli.BoldStyle.Render("Akun:"), profile.FullName, profile.Email)
			fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Role:"), profile.Role)
			if expiry := store.Expiry(ctx); !expiry.IsZero() {
				fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Berlaku sampai:"), expiry.Format(time.RFC1123))
			}
			return nil
		},
	}
}
