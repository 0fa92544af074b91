package storage

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dpshade/prompt-overflow/internal/models"
)

//go:embed seed.yaml
var seedData []byte

// seedPrompt adds the body key the frontmatter format leaves out
type seedPrompt struct {
	models.Prompt `yaml:",inline"`
	Body          string `yaml:"prompt"`
}

// SeedStore serves the built-in starter collection
type SeedStore struct{}

// NewSeedStore creates a seed store
func NewSeedStore() *SeedStore {
	return &SeedStore{}
}

// Name implements Repository
func (s *SeedStore) Name() string {
	return "built-in seed collection"
}

// FetchPrompts implements Repository
func (s *SeedStore) FetchPrompts(ctx context.Context) ([]models.Prompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return SeedPrompts()
}

// SeedPrompts parses the embedded collection, newest first
func SeedPrompts() ([]models.Prompt, error) {
	var entries []seedPrompt
	if err := yaml.Unmarshal(seedData, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse seed collection: %w", err)
	}

	prompts := make([]models.Prompt, 0, len(entries))
	for _, e := range entries {
		p := e.Prompt
		p.Body = e.Body
		prompts = append(prompts, p)
	}
	sortNewestFirst(prompts)
	return prompts, nil
}
