package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/cli"
	"github.com/cape-app/cape/internal/model"
	"github.com/spf13/cobra"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer users, categories, and settings",
		Long:  `Admin-only management commands. Requires an ADMIN account.`,
	}

	cmd.AddCommand(adminUsersCmd())
	cmd.AddCommand(adminCategoriesCmd())
	cmd.AddCommand(adminSettingsCmd())

	return cmd
}

// initAdmin wires the client and enforces the admin role up front.
func initAdmin(ctx context.Context) (*api.Client, error) {
	client, guard, err := initGuard()
	if err != nil {
		return nil, err
	}
	if err := requireSignIn(ctx, guard); err != nil {
		return nil, err
	}
	if err := guard.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func adminUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(adminUsersListCmd())
	cmd.AddCommand(adminUsersCreateCmd())
	cmd.AddCommand(adminUsersDeleteCmd())
	cmd.AddCommand(adminUsersAiAccessCmd())
	cmd.AddCommand(adminUsersAiLimitCmd())

	return cmd
}

func adminUsersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := initAdmin(ctx)
			if err != nil {
				return err
			}

			params := model.AdminUserListParams{}
			params.Search, _ = cmd.Flags().GetString("search")
			params.Page, _ = cmd.Flags().GetInt("page")
			params.Limit, _ = cmd.Flags().GetInt("limit")
			if role, _ := cmd.Flags().GetString("role"); role != "" {
				params.Role = model.Role(strings.ToUpper(role))
			}

			users, pagination, err := client.ListAdminUsers(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			defaultLimit := fetchAiLimitDefault(ctx, client)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Email"),
				cli.TableHeaderStyle.Render("Nama"),
				cli.TableHeaderStyle.Render("Role"),
				cli.TableHeaderStyle.Render("Transaksi"),
				cli.TableHeaderStyle.Render("AI"),
				cli.TableHeaderStyle.Render("ID"))

			for _, user := range users {
				ai := cli.SubtleStyle.Render("off")
				if user.AiEnabled {
					ai = cli.AiStyle.Render(model.AiLimitLabel(user.AiDailyLimit, defaultLimit))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					user.Email, user.FullName, user.Role,
					user.Count.Transactions, ai, cli.SubtleStyle.Render(user.ID))
			}

			if pagination != nil {
				fmt.Fprintf(w, "\n%s\n", cli.SubtleStyle.Render(
					fmt.Sprintf("%d pengguna, hal %d/%d", pagination.Total,
						pagination.Page, pagination.TotalPages)))
			}
			return nil
		},
	}

	cmd.Flags().String("search", "", "filter by email or name")
	cmd.Flags().String("role", "", "filter by role (CLIENT, ADMIN)")
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("limit", 20, "page size")

	return cmd
}

// fetchAiLimitDefault reads the global quota for labels, defaulting to
// 50 when settings are unreadable.
func fetchAiLimitDefault(ctx context.Context, client *api.Client) int {
	settings, err := client.AdminSettings(ctx)
	if err != nil {
		return 50
	}
	if n, err := strconv.Atoi(settings["ai_daily_limit_default"]); err == nil {
		return n
	}
	return 50
}

func adminUsersCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := initAdmin(ctx)
			if err != nil {
				return err
			}

			input := model.CreateAdminInput{}
			input.Email, _ = cmd.Flags().GetString("email")
			input.Password, _ = cmd.Flags().GetString("password")
			input.FullName, _ = cmd.Flags().GetString("name")

			if input.Email == "" || input.Password == "" || input.FullName == "" {
				return fmt.Errorf("--email, --password and --name are required")
			}

			user, err := client.CreateAdminUser(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Admin baru: " + user.Email))
			return nil
		},
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "initial password (min 8 chars)")
	cmd.Flags().String("name", "", "display name")

	return cmd
}

func adminUsersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user and all their transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := initAdmin(ctx)
			if err != nil {
				return err
			}

			if err := client.DeleteAdminUser(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Pengguna dihapus."))
			return nil
		},
	}
}

func adminUsersAiAccessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai-access <id>",
		Short: "Enable or disable the AI parser for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := initAdmin(ctx)
			if err != nil {
				return err
			}

			enabled, _ := cmd.Flags().GetBool("enable")
			if err := client.SetAiAccess(ctx, args[0], enabled); err != nil {
				return fmt.Errorf("failed to set AI access: %w", err)
			}

			if enabled {
				fmt.Println(cli.FormatSuccess("Fitur AI diaktifkan."))
			} else {
				fmt.Println(cli.FormatSuccess("Fitur AI dimatikan."))
			}
			return nil
		},
	}

	cmd.Flags().Bool("enable", true, "enable (true) or disable (false)")
	return cmd
}

func adminUsersAiLimitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai-limit <id>",
		Short: "Set a user's daily AI quota",
		Long: `Override the per-user AI quota:

  cape admin users ai-limit <id> --limit 100    # 100/hari
  cape admin users ai-limit <id> --unlimited    # ∞
  cape admin users ai-limit <id> --default      # follow the global default`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := initAdmin(ctx)
			if err != nil {
				return err
			}

			var limit *int
			switch {
			case mustBool(cmd, "unlimited"):
				unlimited := model.UnlimitedAiLimit
				limit = &unlimited
			case mustBool(cmd, "default"):
				limit = nil
			default:
				n, _ := cmd.Flags().GetInt("limit")
				if n <= 0 {
					return fmt.Errorf("pass --limit N, --unlimited, or --default")
				}
				limit = &n
			}

			if err := client.SetAiLimit(ctx, args[0], limit); err != nil {
				return fmt.Errorf("failed to set AI limit: %w", err)
			}

			label := model.AiLimitLabel(limit, fetchAiLimitDefault(ctx, client))
			fmt.Println(cli.FormatSuccess("Limit AI: " + label))
			return nil
		},
	}

	cmd.Flags().Int("limit", 0, "daily quota")
	cmd.Flags().Bool("unlimited", false, "no cap")
	cmd.Flags().Bool("default", false, "follow the global default")

	return cmd
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func adminCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage global categories",
	}

	cmd.AddCommand(adminCategoriesAddCmd())
	cmd.AddCommand(adminCategoriesUpdateCmd())
	cmd.AddCommand(adminCategoriesDeleteCmd())

	return cmd
}

func categoryFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "category name")
	cmd.Flags().String("type", "EXPENSE", "EXPENSE or INCOME")
	cmd.Flags().String("icon", "", "icon slug, e.g. utensils")
	cmd.Flags().String("color", "", "hex color, e.g. #10b981")
	cmd.Flags().String("keywords", "", "comma-separated keywords for the AI parser")
}

func splitKeywords(raw string) []string {
	var keywords []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

func adminCategoriesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := initAdmin(ctx)
			if err != nil {
				return err
			}

			input := model.CreateCategoryInput{}
			input.Name, _ = cmd.Flags().GetString("name")
			input.IconSlug, _ = cmd.Flags().GetString("icon")
			input.ColorHex, _ = cmd.Flags().GetString("color")
			kw, _ := cmd.Flags().GetString("keywords")
			input.Keywords = splitKeywords(kw)
			kind, _ := cmd.Flags().GetString("type")
			input.Type = model.CategoryType(strings.ToUpper(kind))

			if input.Name == "" {
				return fmt.Errorf("--name is required")
			}

			cat, err := client.CreateCategory(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Kategori baru: " + cat.Name))
			return nil
		},
	}

	categoryFlags(cmd)
	return cmd
}

func adminCategoriesUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := initAdmin(ctx)
			if err != nil {
				return err
			}

			input := model.UpdateCategoryInput{}
			input.Name, _ = cmd.Flags().GetString("name")
			input.IconSlug, _ = cmd.Flags().GetString("icon")
			input.ColorHex, _ = cmd.Flags().GetString("color")
			if kw, _ := cmd.Flags().GetString("keywords"); kw != "" {
				input.Keywords = splitKeywords(kw)
			}
			if kind, _ := cmd.Flags().GetString("type"); kind != "" {
				input.Type = model.CategoryType(strings.ToUpper(kind))
			}

			cat, err := client.UpdateCategory(ctx, args[0], input)
			if err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Kategori diupdate: " + cat.Name))
			return nil
		},
	}

	categoryFlags(cmd)
	return cmd
}

func adminCategoriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. Its transactions survive as uncategorized.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := initAdmin(ctx)
			if err != nil {
				return err
			}

			result, err := client.DeleteCategory(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Kategori dihapus."))
			if result != nil && result.OrphanedTransactions > 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"%d transaksi menjadi tanpa kategori.", result.OrphanedTransactions)))
			}
			return nil
		},
	}
}

func adminSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write app settings",
	}

	cmd.AddCommand(adminSettingsGetCmd())
	cmd.AddCommand(adminSettingsSetCmd())

	return cmd
}

func adminSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Show settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := initAdmin(ctx)
			if err != nil {
				return err
			}

			settings, err := client.AdminSettings(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch settings: %w", err)
			}

			if len(args) == 1 {
				value, ok := settings[args[0]]
				if !ok {
					return fmt.Errorf("unknown setting: %s", args[0])
				}
				fmt.Println(value)
				return nil
			}

			keys := make([]string, 0, len(settings))
			for key := range settings {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Printf("%s = %s\n", cli.BoldStyle.Render(key), settings[key])
			}
			return nil
		},
	}
}

func adminSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Update a setting",
		Long: `Update a setting, e.g. the global AI quota:

  cape admin settings set ai_daily_limit_default 100
  cape admin settings set ai_daily_limit_default -1   # unlimited (∞)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := initAdmin(ctx)
			if err != nil {
				return err
			}

			if err := client.UpdateAdminSetting(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to update setting: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s = %s", args[0], args[1])))
			return nil
		},
	}
}
