package search

import (
	"strings"

	"github.com/dpshade/prompt-overflow/internal/models"
)

// BuildSuggestions collects titles, tags and categories into a pool of search
// terms. Duplicates are dropped, keeping the first occurrence.
func BuildSuggestions(prompts []models.Prompt) []string {
	pool := make([]string, 0, len(prompts)*3)
	seen := make(map[string]int)

	add := func(term string) {
		if term == "" {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = len(pool)
		pool = append(pool, term)
	}

	for _, p := range prompts {
		add(p.Name)
	}
	for _, p := range prompts {
		for _, tag := range p.Tags {
			add(tag)
		}
	}
	for _, category := range DistinctCategories(prompts) {
		add(category)
	}

	return pool
}

// MatchSuggestions returns the pool entries containing query, case-insensitively,
// in pool order and at most limit of them. An empty query yields no suggestions.
// A non-positive limit disables truncation.
func MatchSuggestions(pool []string, query string, limit int) []string {
	if query == "" {
		return nil
	}

	needle := strings.ToLower(query)
	var matches []string
	for _, term := range pool {
		if !strings.Contains(strings.ToLower(term), needle) {
			continue
		}
		matches = append(matches, term)
		if limit > 0 && len(matches) == limit {
			break
		}
	}
	return matches
}
