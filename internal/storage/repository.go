// Package storage fetches the prompt collection from its configured source.
//
// Every source implements Repository and returns prompts newest first. The
// collection is read-only: the core never writes back, and the only writers
// here are the library bootstrap helpers used by the init command.
package storage

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dpshade/prompt-overflow/internal/models"
)

// Repository is a read-only source of prompts
type Repository interface {
	// FetchPrompts returns the whole collection ordered by created_at, newest first
	FetchPrompts(ctx context.Context) ([]models.Prompt, error)
	// Name describes the source in logs and error messages
	Name() string
}

// sortNewestFirst orders prompts by CreatedAt descending, keeping input order for ties
func sortNewestFirst(prompts []models.Prompt) {
	sort.SliceStable(prompts, func(i, j int) bool {
		return prompts[i].CreatedAt.After(prompts[j].CreatedAt)
	})
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp accepts the formats PostgREST and SQLite emit. Unparseable
// values yield the zero time, which sorts last.
func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
