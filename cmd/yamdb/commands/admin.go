package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"yamdb/internal/api"
	"yamdb/internal/database"
	"yamdb/internal/models"
	"yamdb/internal/store"
)

var (
	adminEmail    string
	adminPassword string
)

// createAdminCmd creates an administrator account
var createAdminCmd = &cobra.Command{
	Use:   "create-admin USERNAME",
	Short: "Create an administrator account",
	Long: `Create an account with the admin role. Admins manage categories,
genres and titles and may moderate any review or comment.

Examples:
  yamdb create-admin root --email root@example.com --password 's3cret-pass'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := api.Signup{Username: args[0], Email: adminEmail, Password: adminPassword}
		if err := in.Validate(); err != nil {
			return err
		}

		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			return err
		}

		user, err := store.NewUserStore(db).Create(context.Background(), in.Username, in.Email, in.Password, models.RoleAdmin)
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("user %q or email %q already exists", in.Username, in.Email)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Email address (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password, at least 8 characters (required)")
	createAdminCmd.MarkFlagRequired("email")
	createAdminCmd.MarkFlagRequired("password")
}
