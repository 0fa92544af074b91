// Package service owns the loaded prompt collection and the values derived
// from it: distinct categories and the autocomplete suggestion pool.
//
// The collection is replaced wholesale on every load. Readers get snapshots
// and never observe a partially replaced collection.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/dpshade/prompt-overflow/internal/errors"
	"github.com/dpshade/prompt-overflow/internal/logging"
	"github.com/dpshade/prompt-overflow/internal/models"
	"github.com/dpshade/prompt-overflow/internal/search"
	"github.com/dpshade/prompt-overflow/internal/storage"
	"github.com/dpshade/prompt-overflow/internal/validation"
)

// LoadState tracks the collection fetch
type LoadState int

const (
	LoadPending LoadState = iota
	LoadReady
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadPending:
		return "pending"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// maxDidYouMean caps the alternatives offered for an unknown id
const maxDidYouMean = 3

// Service provides business logic over the prompt collection
type Service struct {
	repo storage.Repository

	mu          sync.RWMutex
	state       LoadState
	loadErr     error
	prompts     []models.Prompt
	categories  []string
	suggestions []string
	loadedAt    time.Time
}

// NewService creates a service reading from repo. Nothing is fetched until Load.
func NewService(repo storage.Repository) *Service {
	return &Service{
		repo:  repo,
		state: LoadPending,
	}
}

// Repository returns the underlying prompt source
func (s *Service) Repository() storage.Repository {
	return s.repo
}

// Load fetches the collection and replaces the current one. A fetch that
// fails after a successful load keeps the previous collection.
func (s *Service) Load(ctx context.Context) error {
	start := time.Now()
	prompts, err := s.repo.FetchPrompts(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		appErr := errors.FetchError(s.repo.Name(), err)
		s.mu.Lock()
		if s.state != LoadReady {
			s.state = LoadFailed
		}
		s.loadErr = appErr
		s.mu.Unlock()
		logging.Logger.Errorw("prompt fetch failed",
			"source", s.repo.Name(),
			"error", err)
		return appErr
	}

	s.Replace(prompts)
	logging.Logger.Infow("prompts loaded",
		"source", s.repo.Name(),
		"count", len(prompts),
		"duration", time.Since(start))
	return nil
}

// Replace installs a new collection and recomputes derived values
func (s *Service) Replace(prompts []models.Prompt) {
	result := validation.ValidateCollection(prompts)
	for _, w := range result.Warnings {
		logging.Logger.Debugw("prompt collection warning", "field", w.Field, "message", w.Message, "id", w.Value)
	}
	if !result.Valid {
		logging.Logger.Warnw("prompt collection has invalid records", "error", result.ToAppError().Error())
		var dropped []string
		prompts, dropped = validation.UniqueByID(prompts)
		logging.Logger.Warnw("dropped prompts with missing or duplicate ids", "ids", dropped)
	}

	categories := search.DistinctCategories(prompts)
	suggestions := search.BuildSuggestions(prompts)

	s.mu.Lock()
	s.prompts = prompts
	s.categories = categories
	s.suggestions = suggestions
	s.state = LoadReady
	s.loadErr = nil
	s.loadedAt = time.Now()
	s.mu.Unlock()
}

// State reports the load state and the last fetch error
func (s *Service) State() (LoadState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.loadErr
}

// LoadedAt is when the current collection was installed
func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// ListPrompts returns the collection in source order
func (s *Service) ListPrompts() []models.Prompt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// Categories returns the distinct categories, sorted
func (s *Service) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.categories...)
}

// SuggestionPool returns the autocomplete pool built from the current collection
func (s *Service) SuggestionPool() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.suggestions...)
}

// FilterPrompts applies the text and category filters
func (s *Service) FilterPrompts(query, category string) []models.Prompt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return search.Filter(s.prompts, query, category)
}

// Suggest returns at most limit pool entries containing query
func (s *Service) Suggest(query string, limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return search.MatchSuggestions(s.suggestions, query, limit)
}

// GetPrompt returns the prompt with the given id. Unknown ids produce a
// NOT_FOUND error whose details list the closest ids.
func (s *Service) GetPrompt(id string) (*models.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != LoadReady {
		if s.loadErr != nil {
			return nil, s.loadErr
		}
		return nil, errors.InternalError("prompts are not loaded yet")
	}

	for i := range s.prompts {
		if s.prompts[i].ID == id {
			p := s.prompts[i]
			return &p, nil
		}
	}

	appErr := errors.NotFoundError(fmt.Sprintf("prompt '%s'", id)).WithContext("id", id)
	if hints := s.didYouMean(id); len(hints) > 0 {
		appErr.WithDetails("did you mean: " + strings.Join(hints, ", "))
	}
	return nil, appErr
}

// promptSource adapts the collection for fuzzy matching on "id title"
type promptSource []models.Prompt

func (p promptSource) String(i int) string {
	return p[i].ID + " " + p[i].Name
}

func (p promptSource) Len() int {
	return len(p)
}

func (s *Service) didYouMean(id string) []string {
	if id == "" {
		return nil
	}
	matches := fuzzy.FindFrom(id, promptSource(s.prompts))

	var hints []string
	for _, match := range matches {
		p := s.prompts[match.Index]
		hint := p.ID
		if p.Name != "" && p.Name != p.ID {
			hint = fmt.Sprintf("%s (%s)", p.ID, p.Name)
		}
		hints = append(hints, hint)
		if len(hints) == maxDidYouMean {
			break
		}
	}
	return hints
}
