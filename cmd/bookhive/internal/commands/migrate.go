package commands

import (
	"github.com/spf13/cobra"

	"github.com/bookhive/api/internal/infrastructure/db/sqldb"
	"github.com/bookhive/api/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the relational schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Close()

			db, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			return sqldb.Close(db)
		},
	}
}
