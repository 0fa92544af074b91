package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpshade/prompt-overflow/internal/clipboard"
	apperrors "github.com/dpshade/prompt-overflow/internal/errors"
	"github.com/dpshade/prompt-overflow/internal/logging"
	"github.com/dpshade/prompt-overflow/internal/models"
	"github.com/dpshade/prompt-overflow/internal/renderer"
	"github.com/dpshade/prompt-overflow/internal/storage"
	"github.com/dpshade/prompt-overflow/internal/validation"
)

func (c *CLI) listCommand() *cobra.Command {
	var category, format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List prompts, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.validate("list_prompts", map[string]interface{}{
				"category": category,
				"format":   format,
			}); err != nil {
				return err
			}
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			prompts := c.service.ListPrompts()
			if category != "" {
				prompts = c.service.FilterPrompts("", category)
			}
			return formatOutput(cmd.OutOrStdout(), prompts, format)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only prompts in this category")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, table, json, ids")
	return cmd
}

func (c *CLI) searchCommand() *cobra.Command {
	var category, format string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find prompts whose title, description or tags contain the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if _, err := c.validate("search_prompts", map[string]interface{}{
				"query":    query,
				"category": category,
				"format":   format,
			}); err != nil {
				return err
			}
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			return formatOutput(cmd.OutOrStdout(), c.service.FilterPrompts(query, category), format)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only prompts in this category")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, table, json, ids")
	return cmd
}

func (c *CLI) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			for _, category := range c.service.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), category)
			}
			return nil
		},
	}
}

func (c *CLI) suggestCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <query>",
		Short: "Show autocomplete suggestions for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if !cmd.Flags().Changed("limit") {
				limit = c.suggestionLimit()
			}
			params, err := c.validate("suggest", map[string]interface{}{
				"query": query,
				"limit": limit,
			})
			if err != nil {
				return err
			}
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			for _, suggestion := range c.service.Suggest(params["query"].(string), params["limit"].(int)) {
				fmt.Fprintln(cmd.OutOrStdout(), suggestion)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum suggestions, 0 for all (default from config)")
	return cmd
}

// getPrompt validates id, loads the collection and looks the prompt up
func (c *CLI) getPrompt(cmd *cobra.Command, id string) (*models.Prompt, error) {
	if _, err := c.validate("get_prompt", map[string]interface{}{"id": id}); err != nil {
		return nil, err
	}
	if err := c.load(cmd.Context()); err != nil {
		return nil, err
	}
	prompt, err := c.service.GetPrompt(id)
	if err != nil {
		return nil, c.errHandler.HandleError(err)
	}
	return prompt, nil
}

func (c *CLI) showCommand() *cobra.Command {
	var format string
	var render bool

	cmd := &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"get"},
		Short:   "Show one prompt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := c.getPrompt(cmd, args[0])
			if err != nil {
				return err
			}
			if render {
				out, err := renderMarkdown(prompt.Body, 80)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			return formatSinglePrompt(cmd.OutOrStdout(), prompt, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json")
	cmd.Flags().BoolVar(&render, "render", false, "render the body as markdown")
	return cmd
}

func (c *CLI) fieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <id>",
		Short: "List the placeholder fields of a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := c.getPrompt(cmd, args[0])
			if err != nil {
				return err
			}
			fields := renderer.ExtractFields(prompt.Body)
			for _, field := range fields {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", field, renderer.DisplayLabel(field))
			}
			for _, group := range renderer.CaseCollisions(fields) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: fields differ only by case: %s\n", strings.Join(group, ", "))
			}
			return nil
		},
	}
}

// renderOptions are shared by render and copy
type renderOptions struct {
	vars []string
	json bool
}

func (o *renderOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&o.vars, "var", nil, "placeholder value as label=value (repeatable)")
	cmd.Flags().BoolVar(&o.json, "json", false, "render as a JSON message array")
}

// renderPrompt fills a prompt's placeholders from --var assignments
func (c *CLI) renderPrompt(cmd *cobra.Command, id string, opts renderOptions) (string, error) {
	if _, err := c.validate("render_prompt", map[string]interface{}{
		"id":   id,
		"vars": opts.vars,
	}); err != nil {
		return "", err
	}
	if err := c.load(cmd.Context()); err != nil {
		return "", err
	}
	prompt, err := c.service.GetPrompt(id)
	if err != nil {
		return "", c.errHandler.HandleError(err)
	}

	r := renderer.NewRenderer(prompt)
	known := make(map[string]bool)
	for _, field := range r.Fields() {
		known[field] = true
	}

	values := make(map[string]string, len(opts.vars))
	for _, assignment := range opts.vars {
		label, value, _ := validation.ParseAssignment(assignment)
		if !known[label] {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: prompt %s has no field %q\n", id, label)
		}
		values[label] = value
	}

	if opts.json {
		return r.RenderJSON(values)
	}
	return r.RenderText(values)
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Print a prompt with its placeholders filled in",
		Long: `Print a prompt with its placeholders filled in.

Placeholders without a value render as [label].

Example:
  prompt-overflow render 3 --var platform=Mastodon --var "[Your brand]=Acme"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := c.renderPrompt(cmd, args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), content)
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}

func (c *CLI) copyCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a prompt, with placeholders filled in, to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := c.renderPrompt(cmd, args[0], opts)
			if err != nil {
				return err
			}

			statusMsg, err := clipboard.CopyWithFallback(c.clip, content)
			if err != nil {
				// A missing clipboard is reported but does not fail the command
				logging.Logger.Warnw("clipboard write failed", "id", args[0], "error", err)
				fmt.Fprintf(cmd.OutOrStdout(), "Warning: %v\n", err)
				fmt.Fprintln(cmd.OutOrStdout(), "Content not copied to clipboard.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), statusMsg)
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}

func (c *CLI) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the starter prompt collection to the configured source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := storage.SeedPrompts()
			if err != nil {
				return c.errHandler.HandleError(apperrors.InternalError("failed to read the starter collection").WithDetails(err.Error()))
			}

			switch repo := c.service.Repository().(type) {
			case *storage.FileStore:
				if err := repo.InitLibrary(); err != nil {
					return c.errHandler.HandleError(apperrors.StorageError("init library", err))
				}
				written, err := repo.WriteSeed(seed)
				if err != nil {
					return c.errHandler.HandleError(apperrors.StorageError("write starter prompts", err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized prompt library at %s (%d prompts written)\n", repo.PromptsDir(), written)

			case *storage.SQLStore:
				if err := repo.EnsureSchema(cmd.Context()); err != nil {
					return c.errHandler.HandleError(apperrors.StorageError("create prompts table", err))
				}
				inserted, err := repo.InsertPrompts(cmd.Context(), seed)
				if err != nil {
					return c.errHandler.HandleError(apperrors.StorageError("insert starter prompts", err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized prompts table (%d prompts inserted)\n", inserted)

			default:
				return c.errHandler.HandleError(apperrors.ConfigError(
					fmt.Sprintf("init is not supported for %s", repo.Name())).
					WithDetails("use the file or sqlite source"))
			}
			return nil
		},
	}
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "prompt-overflow version %s\n", c.version)
		},
	}
}
