package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hassan/exprlang/internal/config"
)

const (
	exitOK      = 0
	exitFailure = 1
)

// exitError attaches a process exit code to an error.
type exitError struct {
	error
	code int
}

func (e exitError) Unwrap() error { return e.error }

func (e exitError) ExitCode() int { return e.code }

// withExitCode attaches code to err unless it already carries one.
func withExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	var ee exitError
	if errors.As(err, &ee) {
		return err
	}
	return exitError{error: err, code: code}
}

// rootCommand keeps all fields needed for the root exprc command and its
// subcommands.
type rootCommand struct {
	gs  *globalState
	cmd *cobra.Command

	filePath   string
	configPath string

	// conf is consolidated in persistentPreRunE, before any subcommand runs.
	conf   config.Config
	stdout io.Writer
}

func newRootCommand(gs *globalState) *rootCommand {
	c := &rootCommand{gs: gs, stdout: gs.stdout}
	c.cmd = &cobra.Command{
		Use:               "exprc",
		Short:             "lex, parse and check arithmetic expressions",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	c.cmd.SetOut(gs.stdout)
	c.cmd.SetErr(gs.stderr)

	c.cmd.PersistentFlags().AddFlagSet(c.rootCmdPersistentFlagSet())
	if err := c.cmd.MarkPersistentFlagRequired("file-path"); err != nil {
		panic(err)
	}

	c.cmd.AddCommand(
		getLexCmd(c),
		getParseCmd(c),
		getCheckCmd(c),
	)
	return c
}

func (c *rootCommand) rootCmdPersistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.StringVarP(&c.filePath, "file-path", "f", "", "expression source file")
	flags.StringVarP(&c.configPath, "config", "c", "", "TOML config file (env "+config.EnvConfigPath+")")
	flags.String(config.FlagLogLevel, "info", "log level: panic, fatal, error, warn, info, debug or trace")
	flags.Bool(config.FlagNoColor, false, "disable colored output")
	flags.Bool(config.FlagStrict, false, "treat the first lexical error as a fatal syntax error")
	flags.String(config.FlagFormat, config.FormatText, "diagnostics format: text, yaml or json")
	return flags
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	if !cmd.Flags().Changed("config") {
		if path, ok := c.gs.lookupEnv(config.EnvConfigPath); ok {
			c.configPath = path
		}
	}

	conf, err := config.Consolidate(c.gs.fs, c.configPath, c.gs.lookupEnv, cmd.Flags())
	if err != nil {
		return err
	}
	c.conf = conf

	c.gs.logger.SetLevel(conf.Level())
	if conf.NoColor.Bool {
		c.stdout = colorable.NewNonColorable(c.gs.stdout)
		if f, ok := c.gs.logger.Formatter.(*logrus.TextFormatter); ok {
			f.DisableColors = true
		}
	}
	c.gs.logger.WithFields(logrus.Fields{
		"config": c.configPath,
		"format": conf.Format.String,
		"strict": conf.Strict.Bool,
	}).Debug("configuration loaded")
	return nil
}

// readSource reads the file named by --file-path.
func (c *rootCommand) readSource() (string, error) {
	data, err := afero.ReadFile(c.gs.fs, c.filePath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", c.filePath, err)
	}
	c.gs.logger.WithField("bytes", len(data)).Debugf("read %s", c.filePath)
	return string(data), nil
}

// colorEnabled reports whether diagnostics written to stdout should be
// colored.
func (c *rootCommand) colorEnabled() bool {
	return c.gs.stdoutTTY && !c.conf.NoColor.Bool
}

// execute runs the command line and returns the process exit code. Errors
// are logged to stderr.
func execute(gs *globalState, args []string) int {
	c := newRootCommand(gs)
	c.cmd.SetArgs(args)

	err := c.cmd.Execute()
	if err == nil {
		return exitOK
	}

	code := exitFailure
	var ee exitError
	if errors.As(err, &ee) {
		code = ee.ExitCode()
	}
	gs.logger.Error(err)
	return code
}
