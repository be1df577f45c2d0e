package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"yamdb/internal/database"
)

var seed bool

// migrateCmd applies the embedded schema migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every pending migration embedded in the binary and print the
resulting schema version.

Examples:
  yamdb migrate          # Apply pending migrations
  yamdb migrate --seed   # Also create the default admin and a starter catalog`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			return err
		}
		if seed {
			if err := database.Seed(db); err != nil {
				return err
			}
		}

		v, err := database.Version(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", v)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&seed, "seed", false, "Seed development data when the database is empty")
}
