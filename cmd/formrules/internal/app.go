// Package internal contains the commands of the formrules CLI.
package internal

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	_ "goyave.dev/formrules/database/dialect/bigquery"
	_ "goyave.dev/formrules/database/dialect/clickhouse"
	_ "goyave.dev/formrules/database/dialect/mssql"
	_ "goyave.dev/formrules/database/dialect/mysql"
	_ "goyave.dev/formrules/database/dialect/postgres"
	_ "goyave.dev/formrules/database/dialect/sqlite"
)

// Run executes the CLI with the given arguments and streams, extracted from
// `main()` for testability.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

type rootOptions struct {
	configPath string
	langDir    string
	language   string
	debug      bool
}

// NewRootCmd create the root command and its sub-commands.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "formrules",
		Short: "Validate submissions against declarative forms",
		Long: `formrules loads a form declaration (JSON, YAML or TOML) and validates
submitted values against it: required fields, lengths, types, lists,
match-with, conditional rules and dynamic positions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "JSON config file (default: built-in defaults)")
	flags.StringVar(&opts.langDir, "lang-dir", "", "directory containing language sub-directories")
	flags.StringVar(&opts.language, "lang", "", `language of the messages, "Accept-Language" format accepted (default: "app.defaultLanguage")`)
	flags.BoolVarP(&opts.debug, "debug", "d", false, "log debug information to stderr")

	cmd.AddCommand(newValidateCmd(opts), newDescribeCmd(opts))
	return cmd
}
