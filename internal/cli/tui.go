package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dpshade/prompt-overflow/internal/config"
	"github.com/dpshade/prompt-overflow/internal/logging"
	"github.com/dpshade/prompt-overflow/internal/ui"
)

func (c *CLI) copyFeedback() time.Duration {
	if c.cfg == nil {
		return config.DefaultCopyFeedback
	}
	return c.cfg.CopyFeedback
}

// runTUI starts the interactive browser and, for the file source, the library watcher
func (c *CLI) runTUI(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model, err := ui.NewModel(ctx, c.service, ui.Options{
		SuggestionLimit: c.suggestionLimit(),
		CopyFeedback:    c.copyFeedback(),
		Clipboard:       c.clip,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize TUI: %w", err)
	}

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if c.cfg == nil || c.cfg.Watch {
		stop, err := c.service.WatchLibrary(ctx, func(err error) {
			p.Send(ui.ReloadMsg{Err: err})
		})
		if err != nil {
			// A library that was never initialized has nothing to watch yet
			logging.Logger.Warnw("library watch disabled", "error", err)
		} else if stop != nil {
			defer func() {
				if err := stop(); err != nil {
					logging.Logger.Warnw("failed to stop library watcher", "error", err)
				}
			}()
		}
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI exited with error: %w", err)
	}
	return nil
}
