package ui

import "github.com/dpshade/prompt-overflow/internal/search"

// SuggestState is the autocomplete dropdown state
type SuggestState int

const (
	SuggestIdle SuggestState = iota
	SuggestFocusedNoMatches
	SuggestFocusedWithMatches
)

func (s SuggestState) String() string {
	switch s {
	case SuggestIdle:
		return "idle"
	case SuggestFocusedNoMatches:
		return "focused-no-matches"
	case SuggestFocusedWithMatches:
		return "focused-with-matches"
	default:
		return "unknown"
	}
}

// Controller tracks focus, matches and the active suggestion for one search
// box. It holds no terminal state, so every transition can be driven directly.
type Controller struct {
	pool    []string
	limit   int
	query   string
	state   SuggestState
	matches []string
	active  int
}

// NewController creates an idle controller over pool. A non-positive limit
// shows every match.
func NewController(pool []string, limit int) *Controller {
	return &Controller{
		pool:  pool,
		limit: limit,
		state: SuggestIdle,
	}
}

// State returns the current state
func (c *Controller) State() SuggestState {
	return c.state
}

// Query returns the query the matches were computed for
func (c *Controller) Query() string {
	return c.query
}

// Matches returns the visible suggestions, empty unless focused with matches
func (c *Controller) Matches() []string {
	if c.state != SuggestFocusedWithMatches {
		return nil
	}
	return c.matches
}

// Active returns the highlighted suggestion index
func (c *Controller) Active() (int, bool) {
	if c.state != SuggestFocusedWithMatches {
		return 0, false
	}
	return c.active, true
}

func (c *Controller) recompute() {
	c.matches = search.MatchSuggestions(c.pool, c.query, c.limit)
	c.active = 0
	if len(c.matches) > 0 {
		c.state = SuggestFocusedWithMatches
	} else {
		c.state = SuggestFocusedNoMatches
	}
}

// Focus enters a focused state. Focusing an already focused box changes nothing.
func (c *Controller) Focus() {
	if c.state != SuggestIdle {
		return
	}
	c.recompute()
}

// SetQuery records a query change, which also focuses the box
func (c *Controller) SetQuery(query string) {
	c.query = query
	c.recompute()
}

// SetPool swaps the suggestion pool. A focused box recomputes its matches.
func (c *Controller) SetPool(pool []string) {
	c.pool = pool
	if c.state != SuggestIdle {
		c.recompute()
	}
}

// Next moves the highlight down, wrapping to the top
func (c *Controller) Next() {
	if c.state != SuggestFocusedWithMatches {
		return
	}
	c.active = (c.active + 1) % len(c.matches)
}

// Prev moves the highlight up, wrapping to the bottom
func (c *Controller) Prev() {
	if c.state != SuggestFocusedWithMatches {
		return
	}
	c.active = (c.active - 1 + len(c.matches)) % len(c.matches)
}

// Commit accepts the highlighted suggestion as the new query
func (c *Controller) Commit() (string, bool) {
	if c.state != SuggestFocusedWithMatches {
		return "", false
	}
	return c.accept(c.matches[c.active]), true
}

// Pick accepts suggestion i, as chosen with the pointer
func (c *Controller) Pick(i int) (string, bool) {
	if c.state != SuggestFocusedWithMatches || i < 0 || i >= len(c.matches) {
		return "", false
	}
	return c.accept(c.matches[i]), true
}

func (c *Controller) accept(value string) string {
	c.query = value
	c.state = SuggestIdle
	c.active = 0
	return value
}

// Dismiss returns to idle, dropping the highlight
func (c *Controller) Dismiss() {
	c.state = SuggestIdle
	c.active = 0
}
