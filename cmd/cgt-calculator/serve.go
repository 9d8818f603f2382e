package main

import (
	"fmt"

	"github.com/iwvelando/cgt-calculator/internal/config"
	"github.com/iwvelando/cgt-calculator/internal/server"
	"github.com/iwvelando/cgt-calculator/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type serveOptions struct {
	serverConfig  string
	address       string
	maxUploadSize string
}

// resolve loads the server config and applies command-line overrides.
func (o *serveOptions) resolve() (*server.Config, error) {
	cfg, err := server.LoadConfig(o.serverConfig)
	if err != nil {
		return nil, err
	}
	if o.address != "" {
		cfg.Address = o.address
	}
	if o.maxUploadSize != "" {
		size, err := server.ParseSize(o.maxUploadSize)
		if err != nil {
			return nil, fmt.Errorf("--max-upload-size: %w", err)
		}
		if size <= 0 {
			return nil, fmt.Errorf("--max-upload-size must be positive, got %s", o.maxUploadSize)
		}
		cfg.SetUploadSizeBytes(size)
	}
	return cfg, nil
}

func (a *app) serveCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. The configuration file's defaults fill any field a
request leaves out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}

			logger := a.logger
			if cfg.Logging != (config.LoggingConfig{}) {
				logger, err = initializeLogger(cfg.Logging, a.v.GetString("logging.level"))
				if err != nil {
					return fmt.Errorf("failed to initialize server logger: %w", err)
				}
				defer func() { _ = logger.Sync() }()
			}

			handler := server.NewHandler(logger, cfg.UploadSizeBytes(), version,
				server.WithClock(now),
				server.WithDefaults(a.conf.Defaults),
				server.WithAllowedOrigins(cfg.AllowedOrigins),
			)

			logger.Info("starting server",
				zap.String("op", "main.serve"),
				zap.String("address", cfg.Address),
				zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
				zap.String("version", version),
			)
			return server.Run(cmd.Context(), logger, cfg, handler)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	flags.StringVar(&opts.address, "address", "", "listen address override, e.g. :8080")
	flags.StringVar(&opts.maxUploadSize, "max-upload-size", "", "batch upload limit override, e.g. 512K or 1M")

	return cmd
}
