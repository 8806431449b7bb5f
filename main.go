package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xImouto/imoddit/server"
	"github.com/xImouto/imoddit/storage"
)

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "imoddit",
		Short:         "GraphQL API for blog posts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			server.SetDefaults(v)
			if configPath == "" {
				return nil
			}
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return errors.Wrapf(err, "reading config file %s failed", configPath)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	_ = v.BindPFlag(server.LogLevelKey, root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newServeCmd(v), newMigrateCmd(v))
	return root
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the GraphQL API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(v)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.RunServer(ctx, cfg, logger)
		},
	}
	cmd.Flags().String("port", "8080", "port to listen on")
	cmd.Flags().String("store", server.StorePostgres, "storage backend: postgres or memory")
	cmd.Flags().Bool("migrate", false, "migrate database schema before serving")
	_ = v.BindPFlag(server.ServerPortKey, cmd.Flags().Lookup("port"))
	_ = v.BindPFlag(server.StoreKey, cmd.Flags().Lookup("store"))
	_ = v.BindPFlag(server.MigrateKey, cmd.Flags().Lookup("migrate"))
	return cmd
}

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(v)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			db, err := storage.Open(ctx, &cfg.DB, logger.Named("storage").Sugar())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return db.Migrate(ctx)
		},
	}
}

func setup(v *viper.Viper) (*server.Config, *zap.Logger, error) {
	cfg, err := server.LoadConfig(v)
	if err != nil {
		return nil, nil, err
	}
	logger, err := server.NewLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
