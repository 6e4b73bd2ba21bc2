package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/bulletin-api/pkg/config"
	"github.com/noah-isme/bulletin-api/pkg/database"
	"github.com/noah-isme/bulletin-api/pkg/logger"
)

// app bundles what every subcommand needs.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *sqlx.DB
}

func (r *app) Close() {
	if r.db != nil {
		_ = r.db.Close()
	}
	_ = r.log.Sync()
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &app{cfg: cfg, log: logr, db: db}, nil
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bulletinctl",
		Short:         "Operations tooling for the bulletin API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCommand(), newReportCommand(), newCreateAdminCommand())
	return root
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.Close()
			return database.RunMigrations(rt.db.DB, rt.log)
		},
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
