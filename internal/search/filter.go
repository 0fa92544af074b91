// Package search implements the text/category filter and the autocomplete
// suggestion pool used by the library view and the CLI.
package search

import (
	"sort"
	"strings"

	"github.com/dpshade/prompt-overflow/internal/models"
)

// Filter returns the prompts matching both the text query and the category.
//
// A prompt matches the text query when query is empty or when it occurs,
// case-insensitively, in the title, the description or any tag. It matches the
// category when category is empty or equal to the prompt category. The query is
// not trimmed, so whitespace is a valid substring. Input order is preserved.
func Filter(prompts []models.Prompt, query, category string) []models.Prompt {
	needle := strings.ToLower(query)

	result := make([]models.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if category != "" && p.Category != category {
			continue
		}
		if needle != "" && !matchesText(p, needle) {
			continue
		}
		result = append(result, p)
	}
	return result
}

func matchesText(p models.Prompt, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Summary), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// DistinctCategories returns the categories present in prompts, deduplicated and
// sorted ascending.
func DistinctCategories(prompts []models.Prompt) []string {
	seen := make(map[string]bool, len(prompts))
	categories := make([]string, 0)
	for _, p := range prompts {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}
