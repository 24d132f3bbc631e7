package internal

import (
	"github.com/spf13/cobra"
	"goyave.dev/formrules/declare"
	"goyave.dev/formrules/util/errors"
)

type describeOptions struct {
	formPath string
	format   string
}

func newDescribeCmd(root *rootOptions) *cobra.Command {
	opts := &describeOptions{}
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the normalized descriptor of a form declaration",
		Long: `Build a form declaration, reporting declaration errors (unknown fields,
operators, sanitizers or hooks), and print its normalized descriptor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := loadEnv(cmd, root)
			if err != nil {
				return err
			}
			defer env.close()

			form, err := env.buildForm(opts.formPath)
			if err != nil {
				return err
			}

			out, err := declare.Encode(declare.Describe(form), declare.Format(opts.format))
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return errors.New(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.formPath, "form", "f", "", "form declaration file (.json, .yaml, .yml, .toml)")
	cmd.Flags().StringVar(&opts.format, "format", string(declare.FormatJSON), "output format (json, yaml, toml)")
	_ = cmd.MarkFlagRequired("form")
	return cmd
}
