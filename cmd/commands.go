package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/db/migration"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

// env is what every command needs after loading the configuration.
type env struct {
	config configpkg.Config
	logger zerolog.Logger
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		e          env
	)

	rootCmd := &cobra.Command{
		Use:   "pet-ledger",
		Short: "Multi-tenant hierarchical double-entry ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := configpkg.Load(configPath)
			if err != nil {
				return fmt.Errorf("cannot load config: %w", err)
			}

			e.config = config
			e.logger = middleware.CreateLogger(config)

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs", "directory holding app.env")

	rootCmd.AddCommand(newServeCommand(&e))
	rootCmd.AddCommand(newMigrateCommand(&e))
	rootCmd.AddCommand(newRecomputeCommand(&e))

	return rootCmd
}

// connect opens the database unless the memory store is configured.
func connect(e *env) (*sql.DB, error) {
	if e.config.StoreBackend == configpkg.StoreMemory {
		return nil, nil
	}

	db, err := dbpkg.Setup(e.config.DBDriver, e.config.DBSource)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}

	return db, nil
}

func newServeCommand(e *env) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ledger HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect(e)
			if err != nil {
				return err
			}

			if db != nil {
				defer db.Close()

				if migrate {
					if err := migration.Up(db); err != nil {
						return err
					}
				}
			}

			server, err := httpserver.New(db, e.logger, e.config)
			if err != nil {
				return fmt.Errorf("cannot create server: %w", err)
			}

			e.logger.Info().
				Str("address", e.config.ServerAddress).
				Str("store", e.config.StoreBackend).
				Msg("LEDGER API SERVER HAS STARTED")

			return server.Engine.Run(e.config.ServerAddress)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}

func newMigrateCommand(e *env) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.config.StoreBackend == configpkg.StoreMemory {
				return errors.New("migrate needs the postgres store")
			}

			db, err := connect(e)
			if err != nil {
				return err
			}
			defer db.Close()

			if down {
				err = migration.Down(db)
			} else {
				err = migration.Up(db)
			}

			if err != nil {
				return err
			}

			e.logger.Info().Bool("down", down).Msg("migrations applied")

			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll every migration back")

	return cmd
}

func newRecomputeCommand(e *env) *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild a tenant's account balances from its transaction history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect(e)
			if err != nil {
				return err
			}

			if db != nil {
				defer db.Close()
			}

			service, err := httpserver.NewService(db, e.config)
			if err != nil {
				return err
			}

			ctx := e.logger.WithContext(cmd.Context())

			report, err := service.RecomputeBalances(ctx, tenantID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tenant %s: %d accounts, %d updated, %d issues\n",
				report.TenantID, report.Accounts, report.Updated, len(report.Issues))

			for _, issue := range report.Issues {
				fmt.Fprintf(cmd.OutOrStdout(), "  account %d (%s): %s\n", issue.AccountID, issue.Code, issue.Problem)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant whose balances are rebuilt (required)")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
