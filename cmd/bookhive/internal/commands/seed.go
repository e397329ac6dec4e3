package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookhive/api/internal/infrastructure/db/sqldb"
	"github.com/bookhive/api/internal/infrastructure/seed"
	"github.com/bookhive/api/pkg/logger"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample authors, books, libraries and librarians (postgres only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Close()

			if cfg.Database.Type != sqldb.TypePostgres {
				return fmt.Errorf("seed requires DB_TYPE=%s, got %q", sqldb.TypePostgres, cfg.Database.Type)
			}

			// Make sure the tables exist before the batch references them.
			db, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			if err := sqldb.Close(db); err != nil {
				return err
			}

			pool, err := seed.NewPool(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			return seed.NewSeeder(pool, log).Load(cmd.Context(), seed.DefaultFixtures())
		},
	}
}
