package internal

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"goyave.dev/formrules/lang"
	"goyave.dev/formrules/util/errors"
	"goyave.dev/formrules/validation"
)

// ErrInvalidSubmission returned by the "validate" command when the submission
// doesn't pass validation. The report is still written.
var ErrInvalidSubmission = errors.New("invalid submission")

type validateOptions struct {
	formPath string
	dataPath string
}

type report struct {
	Values   map[string]any    `json:"values"`
	Messages map[string]string `json:"messages"`
	Errors   validation.Errors `json:"errors"`
	Message  string            `json:"message,omitempty"`
	Valid    bool              `json:"valid"`
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON submission against a form declaration",
		Long: `Validate a JSON object against a form declaration and print a JSON report
containing the valid values and the errors. Dynamic fields use their positional
names ("address_1"), list inputs use the "[]" suffix ("tags[]") and JSON arrays.

Exits with status 2 if the submission is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.formPath, "form", "f", "", "form declaration file (.json, .yaml, .yml, .toml)")
	cmd.Flags().StringVar(&opts.dataPath, "data", "-", `JSON submission file, "-" reads stdin`)
	_ = cmd.MarkFlagRequired("form")
	return cmd
}

func runValidate(cmd *cobra.Command, root *rootOptions, opts *validateOptions) error {
	env, err := loadEnv(cmd, root)
	if err != nil {
		return err
	}
	defer env.close()

	form, err := env.buildForm(opts.formPath)
	if err != nil {
		return err
	}

	source, err := readSubmission(cmd.InOrStdin(), opts.dataPath, env.language)
	if err != nil {
		return err
	}
	form.SetSource(source)

	valid := form.Validate()
	r := report{
		Valid:    valid,
		Values:   form.Values(),
		Errors:   form.Errors(),
		Messages: form.Errors().Messages(form),
	}
	if !valid {
		r.Message = env.language.Get("invalid-form")
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.New(err)
	}
	if !valid {
		return ErrInvalidSubmission
	}
	return nil
}

func readSubmission(stdin io.Reader, path string, language *lang.Language) (validation.Values, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.New(err)
	}

	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Errorf("%s: %w", language.Get("malformed-submission"), err)
	}
	return validation.ValuesFromMap(raw)
}
