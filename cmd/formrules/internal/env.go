package internal

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"goyave.dev/formrules/config"
	"goyave.dev/formrules/database"
	"goyave.dev/formrules/declare"
	"goyave.dev/formrules/lang"
	"goyave.dev/formrules/slog"
	"goyave.dev/formrules/util/errors"
	"goyave.dev/formrules/validation"
)

// env the resources shared by the commands, loaded from the root flags.
type env struct {
	config   *config.Config
	language *lang.Language
	logger   *slog.Logger
	closers  []io.Closer
}

func loadEnv(cmd *cobra.Command, opts *rootOptions) (*env, error) {
	cfg := config.LoadDefault()
	if opts.configPath != "" {
		c, err := config.LoadFrom(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	debug := opts.debug || cfg.GetBool("app.debug")
	logger := slog.Discard()
	if debug {
		logger = slog.New(slog.NewHandler(true, cmd.ErrOrStderr()))
	}

	languages := lang.New()
	if opts.langDir != "" {
		if err := languages.LoadDirectory(os.DirFS(opts.langDir), "."); err != nil {
			return nil, err
		}
	}
	if def := cfg.GetString("app.defaultLanguage"); languages.IsAvailable(def) {
		languages.Default = def
	}

	return &env{
		config:   cfg,
		language: languages.DetectLanguage(opts.language),
		logger:   logger,
	}, nil
}

// buildForm loads the declaration at the given path and builds it. The database
// checks are available to the declaration unless "database.connection" is "none".
func (e *env) buildForm(path string) (*validation.Form, error) {
	doc, err := declare.Load(path)
	if err != nil {
		return nil, err
	}

	var hooks map[string]validation.ExternalFunc
	if e.config.GetString("database.connection") != "none" {
		db, err := database.New(e.config, e.logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.New(err)
		}
		e.closers = append(e.closers, sqlDB)
		hooks = database.Hooks(db, e.config, e.logger)
	}

	return declare.Build(doc, hooks, &validation.Options{
		Config:   e.config,
		Language: e.language,
		Logger:   e.logger,
	})
}

func (e *env) close() {
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			e.logger.Error(errors.New(err))
		}
	}
}
