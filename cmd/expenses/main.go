package main

import (
	"context"
	"fmt"
	"os"

	"expenses/internal/cli"
	"expenses/internal/config"
	"expenses/internal/log"

	"github.com/spf13/cobra"
)

var version = "dev"

// rootOptions carries state from PersistentPreRunE to the subcommands.
type rootOptions struct {
	cfgFile string
	app     *cli.App
}

// newRootCmd builds the command tree. Callers close the returned options
// once Execute returns.
func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "expenses",
		Short: "Personal expense tracker",
		Long: `expenses records purchases by title, amount and category, lists and
searches them, and summarizes spending per month.

Data lives in a local SQLite file by default. Settings come from
config.yaml, .env and EXPENSES_* environment variables.`,
		SilenceUsage: true,
		Version:      version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipsApp(cmd) {
				return nil
			}
			return opts.open(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/expenses/config.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	flags.String("backend", "", "storage backend (memory, sqlite)")
	flags.String("db", "", "SQLite database path")

	rootCmd.AddCommand(
		addCmd(opts),
		listCmd(opts),
		deleteCmd(opts),
		summaryCmd(opts),
		categoriesCmd(opts),
		exportCmd(opts),
		clearCmd(opts),
	)
	return rootCmd, opts
}

func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "help" || c.Name() == "completion" {
			return true
		}
	}
	return false
}

// flagKeys binds persistent flags to config keys; a flag only wins when set.
var flagKeys = map[string]string{
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"backend":    "storage.backend",
	"db":         "storage.sqlite_path",
}

func (o *rootOptions) open(cmd *cobra.Command) error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	v, err := config.NewViper(o.cfgFile)
	if err != nil {
		return err
	}
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}

	cfg := config.FromViper(v)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cli.SetupLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	app, err := cli.OpenApp(cmd.Context(), cfg, logger.WithComponent(log.ComponentCLI))
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	o.app = app
	return nil
}

func (o *rootOptions) close() error {
	if o.app == nil {
		return nil
	}
	err := o.app.Close()
	o.app = nil
	return err
}

func main() {
	ctx, cancel := cli.SignalContext(context.Background(), nil)

	rootCmd, opts := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := opts.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
