package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclecast/internal/config"
	"github.com/terraincognita07/cyclecast/internal/db"
	"gorm.io/gorm"
)

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

// openStore opens the database named by --db, or by the configuration when
// the flag is empty.
func openStore(cmd *cobra.Command) (*gorm.DB, *db.Repositories, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		resolved, err := config.DatabasePath(configPath(cmd))
		if err != nil {
			return nil, nil, err
		}
		dbPath = resolved
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	return database, db.NewRepositories(database), nil
}
