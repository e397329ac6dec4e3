package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookhive/api/internal/core/service"
	"github.com/bookhive/api/internal/infrastructure/db/sqldb"
	"github.com/bookhive/api/pkg/logger"
)

func newCreateSuperuserCmd() *cobra.Command {
	var email, username, password string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff account holding every permission",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || username == "" || password == "" {
				return errors.New("--email, --username and --password are required")
			}

			cfg, log, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Close()

			db, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer sqldb.Close(db)

			// No denylist is needed to create an account.
			auth := service.NewAuthService(sqldb.NewUserRepository(db), nil, cfg.Secret(), cfg.TokenTTL, log)
			user, err := auth.CreateSuperuser(cmd.Context(), email, username, password)
			if err != nil {
				return fmt.Errorf("create superuser: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %q created (id %d).\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&username, "username", "", "unique username")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}
