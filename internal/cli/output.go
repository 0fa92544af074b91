package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/dpshade/prompt-overflow/internal/models"
)

// formatOutput writes a prompt list in the requested format
func formatOutput(w io.Writer, prompts []models.Prompt, format string) error {
	switch format {
	case "json":
		if prompts == nil {
			prompts = []models.Prompt{}
		}
		return json.NewEncoder(w).Encode(prompts)
	case "ids":
		for _, p := range prompts {
			fmt.Fprintln(w, p.ID)
		}
	case "table":
		fmt.Fprintf(w, "%-8s %-32s %-15s %s\n", "ID", "Title", "Category", "Created")
		fmt.Fprintln(w, strings.Repeat("-", 70))
		for _, p := range prompts {
			title := p.Title()
			if len([]rune(title)) > 32 {
				title = string([]rune(title)[:29]) + "..."
			}
			created := ""
			if !p.CreatedAt.IsZero() {
				created = p.CreatedAt.Format("2006-01-02")
			}
			fmt.Fprintf(w, "%-8s %-32s %-15s %s\n", p.ID, title, p.Category, created)
		}
	default:
		for _, p := range prompts {
			fmt.Fprintf(w, "%s - %s\n", p.ID, p.Title())
			if p.Category != "" {
				fmt.Fprintf(w, "  Category: %s\n", p.Category)
			}
			if p.Summary != "" {
				fmt.Fprintf(w, "  %s\n", p.Summary)
			}
			if len(p.Tags) > 0 {
				fmt.Fprintf(w, "  Tags: %s\n", strings.Join(p.Tags, ", "))
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

// formatSinglePrompt writes one prompt with its body
func formatSinglePrompt(w io.Writer, prompt *models.Prompt, format string) error {
	switch format {
	case "json":
		return json.NewEncoder(w).Encode(prompt)
	default:
		fmt.Fprintf(w, "ID: %s\n", prompt.ID)
		fmt.Fprintf(w, "Title: %s\n", prompt.Title())
		if prompt.Category != "" {
			fmt.Fprintf(w, "Category: %s\n", prompt.Category)
		}
		if prompt.Summary != "" {
			fmt.Fprintf(w, "Description: %s\n", prompt.Summary)
		}
		if len(prompt.Tags) > 0 {
			fmt.Fprintf(w, "Tags: %s\n", strings.Join(prompt.Tags, ", "))
		}
		if !prompt.CreatedAt.IsZero() {
			fmt.Fprintf(w, "Created: %s\n", prompt.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(w, "\nContent:\n%s\n", prompt.Body)
	}
	return nil
}

// renderMarkdown formats a prompt body for the terminal
func renderMarkdown(body string, wordWrap int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render(body)
}
