// Package cli provides the cobra command tree: the interactive TUI at the
// root and headless commands for listing, searching and rendering prompts.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dpshade/prompt-overflow/internal/clipboard"
	"github.com/dpshade/prompt-overflow/internal/config"
	apperrors "github.com/dpshade/prompt-overflow/internal/errors"
	"github.com/dpshade/prompt-overflow/internal/logging"
	"github.com/dpshade/prompt-overflow/internal/service"
	"github.com/dpshade/prompt-overflow/internal/validation"
)

// CLI holds the state shared by every command
type CLI struct {
	version    string
	configFile string
	verbose    bool

	cfg        *config.Config
	service    *service.Service
	validator  *validation.Validator
	errHandler *apperrors.CLIErrorHandler
	clip       clipboard.Writer
	cleanups   []func() error
}

// Option customizes a CLI
type Option func(*CLI)

// WithService skips configuration loading and uses svc and cfg directly
func WithService(svc *service.Service, cfg *config.Config) Option {
	return func(c *CLI) {
		c.service = svc
		c.cfg = cfg
	}
}

// WithClipboard replaces the system clipboard
func WithClipboard(w clipboard.Writer) Option {
	return func(c *CLI) {
		c.clip = w
	}
}

// NewCLI creates a new CLI instance
func NewCLI(version string, opts ...Option) *CLI {
	c := &CLI{
		version:    version,
		validator:  validation.NewValidator(),
		errHandler: apperrors.NewCLIErrorHandler(false),
		clip:       clipboard.SystemWriter{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs the command tree and returns the process exit code
func Execute(version string) int {
	c := NewCLI(version)
	defer func() {
		if err := c.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}()

	if err := c.RootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// RootCommand builds the command tree
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "prompt-overflow",
		Short: "Browse, search and copy a curated prompt collection",
		Long: `prompt-overflow - a terminal browser for a curated prompt collection.

Run without a command to open the interactive browser. Prompts are read from
markdown files under ~/.prompt-overflow/prompts by default; set source to
remote, sqlite or seed in config.yaml or PROMPT_OVERFLOW_SOURCE to change it.

Examples:
  prompt-overflow                                  # Start interactive mode
  prompt-overflow init                             # Write the starter collection
  prompt-overflow list --format table              # List prompts in a table
  prompt-overflow search review --category Development
  prompt-overflow render 3 --var platform=Mastodon # Fill placeholders
  prompt-overflow copy 3 --var platform=Mastodon   # ...and copy the result`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// version needs neither configuration nor a repository
			if cmd.Name() == "version" {
				return nil
			}
			return c.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default <dir>/config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "show error causes and mirror warnings to stderr")

	root.AddCommand(
		c.listCommand(),
		c.searchCommand(),
		c.categoriesCommand(),
		c.suggestCommand(),
		c.showCommand(),
		c.fieldsCommand(),
		c.renderCommand(),
		c.copyCommand(),
		c.initCommand(),
		c.versionCommand(),
	)
	return root
}

// setup loads configuration, starts logging and opens the repository
func (c *CLI) setup() error {
	c.errHandler.Verbose = c.verbose
	if c.service != nil {
		return nil
	}

	cfg, err := config.Load(c.configFile)
	if err != nil {
		return c.errHandler.HandleError(err)
	}
	c.cfg = cfg

	closeLog, err := logging.Initialize(logging.Options{
		File:   cfg.Log.File,
		Level:  cfg.Log.Level,
		Stderr: c.verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.cleanups = append(c.cleanups, closeLog)

	repo, closeRepo, err := service.OpenRepository(cfg)
	if err != nil {
		return c.errHandler.HandleError(apperrors.Wrap(err, apperrors.ErrCodeConfig, "Failed to open prompt source"))
	}
	c.cleanups = append(c.cleanups, closeRepo)

	c.service = service.NewService(repo)
	logging.Logger.Debugw("cli initialized", "source", repo.Name(), "dir", cfg.Dir)
	return nil
}

// Close releases the repository and flushes the log, newest first
func (c *CLI) Close() error {
	var firstErr error
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		if err := c.cleanups[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.cleanups = nil
	return firstErr
}

// load fetches the collection for one command
func (c *CLI) load(ctx context.Context) error {
	if err := c.service.Load(ctx); err != nil {
		return c.errHandler.HandleError(err)
	}
	return nil
}

// validate checks command parameters against a named schema and returns
// them converted to their schema types
func (c *CLI) validate(schema string, data map[string]interface{}) (map[string]interface{}, error) {
	result := c.validator.Validate(schema, data)
	if !result.Valid {
		return nil, c.errHandler.HandleError(result.ToAppError())
	}
	return result.GetValidatedData(), nil
}

func (c *CLI) suggestionLimit() int {
	if c.cfg == nil {
		return config.DefaultSuggestionLimit
	}
	return c.cfg.SuggestionLimit
}
