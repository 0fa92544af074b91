package models

import (
	"strings"
	"time"
)

// Prompt represents a reusable prompt with its browsing metadata.
// The body may contain <input>label</input> placeholder markers.
type Prompt struct {
	// Frontmatter fields
	ID        string    `yaml:"id" json:"id"`
	Name      string    `yaml:"title" json:"title"`
	Summary   string    `yaml:"description" json:"description"`
	Category  string    `yaml:"category" json:"category"`
	Tags      []string  `yaml:"tags" json:"tags"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`

	// Content fields
	Body     string `yaml:"-" json:"prompt"` // The markdown content after frontmatter
	FilePath string `yaml:"-" json:"-"`      // Path to the file, file source only
}

// Implement list.Item interface for bubbles list component

// FilterValue returns the value used for filtering in lists
func (p Prompt) FilterValue() string {
	return cleanString(p.Name)
}

// Title satisfies the list.Item interface
func (p Prompt) Title() string {
	if p.Name != "" {
		return cleanString(p.Name)
	}
	return cleanString(p.ID)
}

// Description satisfies the list.Item interface
func (p Prompt) Description() string {
	var parts []string

	if p.Category != "" {
		parts = append(parts, cleanString(p.Category))
	}

	if p.Summary != "" {
		summary := cleanString(p.Summary)
		maxSummaryLength := 60
		if len([]rune(summary)) > maxSummaryLength {
			summary = string([]rune(summary)[:maxSummaryLength-3]) + "..."
		}
		parts = append(parts, summary)
	}

	if len(p.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(p.Tags, ", "))
	}

	result := strings.Join(parts, " • ")

	// Leave space for list indicator and margins
	maxTotalLength := 100
	if len([]rune(result)) > maxTotalLength {
		result = string([]rune(result)[:maxTotalLength-3]) + "..."
	}

	return cleanString(result)
}

// cleanString removes characters that break single-line rendering
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(' ')
		} else if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
