package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/renga"
	"github.com/hupe1980/renga/config"
	"github.com/hupe1980/renga/logging"
	"github.com/hupe1980/renga/native"
)

// cli carries the state shared by all commands.
type cli struct {
	backend native.Backend

	configPath string
	hidden     bool
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *logging.RengaLogger
}

func newRootCmd(backend native.Backend) *cobra.Command {
	c := &cli{backend: backend}

	rootCmd := &cobra.Command{
		Use:               "rengactl",
		Short:             "Drive the Renga application through its automation interface",
		SilenceUsage:      true,
		PersistentPreRunE: c.prepare,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to a YAML config file")
	flags.BoolVar(&c.hidden, "hidden", false, "start the application without its user interface")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&c.logFormat, "log-format", "", "log format (text, json)")

	rootCmd.AddCommand(
		c.versionCmd(),
		c.categoriesCmd(),
		c.importCmd(),
		c.entitiesCmd(),
	)

	return rootCmd
}

// prepare loads the configuration and applies flag overrides.
func (c *cli) prepare(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("hidden") {
		cfg.Hidden = c.hidden
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Logging.Format = c.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	native.SetLogger(logger.WithComponent("native"))

	return nil
}

// open starts an application session. Callers must Close it.
func (c *cli) open() (*renga.Application, error) {
	return renga.New(c.cfg.Options(), func(o *renga.Options) {
		o.Backend = c.backend
		o.Logger = c.logger
	})
}

// requireCompatible fails when the application is older than the configured
// minimum version.
func (c *cli) requireCompatible(app *renga.Application) error {
	minVersion, err := c.cfg.MinVersion()
	if err != nil || minVersion.IsZero() {
		return err
	}

	v, err := app.Version()
	if err != nil {
		return err
	}

	if v.Less(minVersion) {
		return fmt.Errorf("renga %s is older than the required %s", v, minVersion)
	}

	return nil
}
