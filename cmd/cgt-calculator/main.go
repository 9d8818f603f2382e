package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/cgt-calculator/internal/config"
	"github.com/iwvelando/cgt-calculator/pkg/constants"
	"github.com/iwvelando/cgt-calculator/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "dev"

// now is the clock used for default sell dates.
var now = time.Now

// app holds the state shared by all subcommands of one invocation.
type app struct {
	v      *viper.Viper
	out    io.Writer
	conf   *config.Configuration
	logger *zap.Logger
}

func newApp(out io.Writer) *app {
	return &app{v: viper.New(), out: out}
}

// execute runs the command line and flushes the logger whether or not the
// command succeeded.
func (a *app) execute(ctx context.Context, args []string) error {
	defer a.sync()

	rootCmd := a.newRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cgt-calculator",
		Short: "Australian capital gains tax estimate for a single disposal",
		Long: `cgt-calculator works out the capital gains tax treatment of selling an asset:
how long it was held, the gross profit or loss, whether the 50% CGT discount
applies and how much is added to assessable income.

This tool is for educational purposes only.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to configuration file (default: "+constants.DefaultConfigFile+" if present)")
	flags.String("log-level", "", "log level override (debug, info, warn, error)")
	flags.String("output-format", "", "type of output override: pretty, csv, json")

	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("output.format", flags.Lookup("output-format"))

	rootCmd.AddCommand(a.calculateCmd())
	rootCmd.AddCommand(a.batchCmd())
	rootCmd.AddCommand(a.serveCmd())
	rootCmd.AddCommand(versionCmd(a.out))

	return rootCmd
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	conf, err := loadConfiguration(a.v.GetString("config"))
	if err != nil {
		return err
	}
	a.conf = conf
	if err := conf.ParseDatesWithFixedTime(now()); err != nil {
		return fmt.Errorf("failed to parse configuration dates: %w", err)
	}

	logger, err := initializeLogger(conf.Logging, a.v.GetString("logging.level"))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	for _, warning := range conf.ValidateConfiguration() {
		a.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.initConfig"),
		)
	}
	return nil
}

// loadConfiguration reads the named config file. With no name it falls back
// to the default file when present and to built-in defaults otherwise.
func loadConfiguration(path string) (*config.Configuration, error) {
	if path == "" {
		if _, err := os.Stat(constants.DefaultConfigFile); err != nil {
			return config.NewConfiguration(), nil
		}
		path = constants.DefaultConfigFile
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", path, err)
	}
	return conf, nil
}

// outputFormat resolves the output format: CLI flag, then config, then pretty.
func (a *app) outputFormat() (string, error) {
	format := a.v.GetString("output.format")
	if format == "" {
		format = a.conf.Output.Format
	}
	if format == "" {
		format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

func versionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// version needs neither config nor logger.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintln(out, version)
			return err
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newApp(os.Stdout).execute(ctx, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
