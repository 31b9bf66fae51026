package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hassan/exprlang/internal/config"
	"github.com/hassan/exprlang/internal/diagnostic"
	"github.com/hassan/exprlang/internal/lexer"
	"github.com/hassan/exprlang/internal/parser"
)

func getLexCmd(c *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "lex",
		Short: "print the token sequence of the input",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			source, err := c.readSource()
			if err != nil {
				return err
			}
			_, err = io.WriteString(c.stdout, lexer.DumpResults(lexer.Collect(source)))
			return err
		},
	}
}

func getParseCmd(c *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "print the syntax tree of the input, followed by any errors",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			source, err := c.readSource()
			if err != nil {
				return err
			}
			expr, errs := parser.ParseWithOptions(source, c.parserOptions())
			_, err = io.WriteString(c.stdout, expr.Dump()+errs.Dump())
			return err
		},
	}
}

func getCheckCmd(c *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "report diagnostics for the input; exits 1 when there are errors",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			source, err := c.readSource()
			if err != nil {
				return err
			}
			_, errs := parser.ParseWithOptions(source, c.parserOptions())
			records := diagnostic.GetFile(c.filePath, errs, source)

			if err := c.writeDiagnostics(source, records); err != nil {
				return err
			}
			if len(records) > 0 {
				return withExitCode(fmt.Errorf("%s: %d error(s)", c.filePath, len(records)), exitFailure)
			}
			return nil
		},
	}
}

func (c *rootCommand) parserOptions() parser.Options {
	return parser.Options{
		Strict: c.conf.Strict.Bool,
		Logger: c.gs.logger,
	}
}

func (c *rootCommand) writeDiagnostics(source string, records []diagnostic.Record) error {
	switch c.conf.Format.String {
	case config.FormatYAML:
		return diagnostic.EncodeYAML(c.stdout, records)
	case config.FormatJSON:
		return diagnostic.EncodeJSON(c.stdout, records)
	default:
		if len(records) == 0 {
			_, err := fmt.Fprintf(c.stdout, "%s: ok\n", c.filePath)
			return err
		}
		r := diagnostic.NewRenderer(c.filePath, source)
		if c.colorEnabled() {
			r.EnableColor()
		}
		return r.Render(c.stdout, records)
	}
}
