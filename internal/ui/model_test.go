package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/prompt-overflow/internal/models"
	"github.com/dpshade/prompt-overflow/internal/service"
)

type stubRepository struct {
	prompts []models.Prompt
	err     error
}

func (r *stubRepository) FetchPrompts(ctx context.Context) ([]models.Prompt, error) {
	return r.prompts, r.err
}

func (r *stubRepository) Name() string { return "stub" }

type recordingClipboard struct {
	texts []string
	err   error
}

func (c *recordingClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

func libraryPrompts() []models.Prompt {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	return []models.Prompt{
		{ID: "a", Name: "Code Review", Category: "Development", Tags: []string{"code", "review"}, Body: "Review this code", CreatedAt: day(3)},
		{ID: "b", Name: "Blog Outline", Category: "Writing", Tags: []string{"blog"}, Body: "Outline a post about <input>topic</input>", CreatedAt: day(2)},
		{ID: "c", Name: "Cold Email", Category: "Marketing", Tags: []string{"email", "sales"}, Body: "Write an email", CreatedAt: day(1)},
	}
}

func newTestModel(t *testing.T, ctx context.Context, repo *stubRepository, clip *recordingClipboard) Model {
	t.Helper()
	t.Setenv("GLAMOUR_STYLE", "dark")

	m, err := NewModel(ctx, service.NewService(repo), Options{
		SuggestionLimit: 8,
		CopyFeedback:    time.Millisecond,
		Clipboard:       clip,
	})
	require.NoError(t, err)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func loadedModel(t *testing.T, clip *recordingClipboard) Model {
	t.Helper()
	m := newTestModel(t, context.Background(), &stubRepository{prompts: libraryPrompts()}, clip)
	return send(t, m, m.Init()())
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+u":
			msg = tea.KeyMsg{Type: tea.KeyCtrlU}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = send(t, m, msg)
	}
	return m
}

func filteredIDs(m Model) []string {
	var ids []string
	for _, p := range m.filtered {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestModel_LoadShowsCollection(t *testing.T) {
	m := newTestModel(t, context.Background(), &stubRepository{prompts: libraryPrompts()}, &recordingClipboard{})
	assert.Contains(t, m.View(), "Loading prompts...")

	m = send(t, m, m.Init()())

	view := m.View()
	assert.Contains(t, view, "Prompt Overflow")
	assert.Contains(t, view, "3 prompts found")
	assert.Contains(t, view, "All Categories")
	assert.Contains(t, view, "Code Review")
	assert.Equal(t, []string{"Development", "Marketing", "Writing"}, m.categories)
}

func TestModel_DropsStaleAndCancelledLoads(t *testing.T) {
	m := newTestModel(t, context.Background(), &stubRepository{prompts: libraryPrompts()}, &recordingClipboard{})
	m = send(t, m, loadCompleteMsg{seq: m.loadSeq + 1})
	assert.Equal(t, service.LoadPending, m.loadState)

	ctx, cancel := context.WithCancel(context.Background())
	m = newTestModel(t, ctx, &stubRepository{prompts: libraryPrompts()}, &recordingClipboard{})
	cancel()
	m = send(t, m, m.Init()())
	assert.Equal(t, service.LoadPending, m.loadState)
}

func TestModel_LoadFailureShowsMessage(t *testing.T) {
	m := newTestModel(t, context.Background(), &stubRepository{err: errors.New("boom")}, &recordingClipboard{})

	m = send(t, m, m.Init()())

	assert.Equal(t, service.LoadFailed, m.loadState)
	view := m.View()
	assert.Contains(t, view, "Failed to fetch prompts from stub")
	assert.NotContains(t, view, "prompts found")
}

func TestModel_SearchAndCategoryFilters(t *testing.T) {
	m := loadedModel(t, &recordingClipboard{})

	m = press(t, m, "/", "e", "m")
	assert.Equal(t, []string{"c"}, filteredIDs(m))
	assert.Contains(t, m.View(), "1 prompt found")

	m = press(t, m, "ctrl+u")
	assert.Equal(t, []string{"a", "b", "c"}, filteredIDs(m))

	m = press(t, m, "esc", "tab")
	assert.Equal(t, "Development", m.category)
	assert.Equal(t, []string{"a"}, filteredIDs(m))

	m = press(t, m, "shift+tab", "shift+tab")
	assert.Equal(t, "Writing", m.category)
	assert.Equal(t, []string{"b"}, filteredIDs(m))
}

func TestModel_EmptyStates(t *testing.T) {
	m := loadedModel(t, &recordingClipboard{})
	m = press(t, m, "/", "z", "z", "z")
	assert.Contains(t, m.View(), "No prompts found")

	empty := newTestModel(t, context.Background(), &stubRepository{}, &recordingClipboard{})
	empty = send(t, empty, empty.Init()())
	assert.Contains(t, empty.View(), "No prompts available")
	assert.Contains(t, empty.View(), "0 prompts found")
}

func TestModel_CopyFlipsIndicatorUntilReset(t *testing.T) {
	clip := &recordingClipboard{}
	m := loadedModel(t, clip)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(Model)
	require.NotNil(t, cmd)
	m = send(t, m, cmd())

	assert.Equal(t, []string{"Review this code"}, clip.texts)
	seq, copied := m.copied["a"]
	require.True(t, copied)
	assert.Contains(t, m.View(), "Copied!")

	m = send(t, m, copyResetMsg{id: "a", seq: seq - 1})
	assert.Contains(t, m.copied, "a", "an older reset leaves a newer copy lit")

	m = send(t, m, copyResetMsg{id: "a", seq: seq})
	assert.NotContains(t, m.copied, "a")
	assert.NotContains(t, m.View(), "✓ Copied!")
}

func TestModel_CopyFailureLeavesIndicatorOff(t *testing.T) {
	clip := &recordingClipboard{err: errors.New("no display")}
	m := loadedModel(t, clip)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = send(t, next.(Model), cmd())

	assert.Empty(t, m.copied)
	assert.Contains(t, m.View(), "Failed to copy to clipboard")
}

func TestModel_TemplateFormCopiesRenderedBody(t *testing.T) {
	clip := &recordingClipboard{}
	m := loadedModel(t, clip)

	m = press(t, m, "down", "c")
	require.Equal(t, ViewTemplateForm, m.viewMode)
	assert.Contains(t, m.View(), "Copy with Inputs")

	m = press(t, m, "G", "o")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, ViewLibrary, m.viewMode)

	m = send(t, m, cmd())
	assert.Equal(t, []string{"Outline a post about Go"}, clip.texts)
	assert.Contains(t, m.copied, "b")

	// Reopening starts from empty values
	form := m.templateForm
	m = press(t, m, "c")
	require.Equal(t, ViewTemplateForm, m.viewMode)
	assert.Same(t, form, m.templateForm)
	assert.Equal(t, map[string]string{"topic": ""}, m.templateForm.Values())
	m = press(t, m, "esc")
	assert.Equal(t, ViewLibrary, m.viewMode)
}

func TestModel_DetailView(t *testing.T) {
	m := loadedModel(t, &recordingClipboard{})

	m = press(t, m, "enter")
	require.Equal(t, ViewPromptDetail, m.viewMode)
	view := m.View()
	assert.Contains(t, view, "Code Review")
	assert.Contains(t, view, "ID: a")
	assert.Contains(t, view, "Development")

	m = press(t, m, "esc")
	assert.Equal(t, ViewLibrary, m.viewMode)
	assert.Nil(t, m.selectedPrompt)
}

func TestModel_MousePickBeforeBlur(t *testing.T) {
	m := loadedModel(t, &recordingClipboard{})
	m = press(t, m, "/", "c", "o")
	require.Equal(t, []string{"Code Review", "Cold Email", "code"}, m.search.Controller().Matches())

	top := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.search.renderInput())
	m = send(t, m, tea.MouseMsg{X: 4, Y: top + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	assert.Equal(t, "Cold Email", m.search.Value())
	assert.Equal(t, []string{"c"}, filteredIDs(m))
	assert.Equal(t, SuggestIdle, m.search.Controller().State())

	// A press outside the box blurs it
	m = send(t, m, tea.MouseMsg{X: 4, Y: top + 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.False(t, m.search.Focused())
}

func TestModel_ReloadRecomputesPoolAndCategories(t *testing.T) {
	repo := &stubRepository{prompts: libraryPrompts()}
	m := newTestModel(t, context.Background(), repo, &recordingClipboard{})
	m = send(t, m, m.Init()())
	m = press(t, m, "tab")
	require.Equal(t, "Development", m.category)

	m.service.Replace(libraryPrompts()[1:])
	m = send(t, m, ReloadMsg{})
	assert.Equal(t, "Library reloaded at "+m.service.LoadedAt().Format("15:04:05"), m.statusMsg)

	assert.Equal(t, []string{"Marketing", "Writing"}, m.categories)
	assert.Equal(t, "", m.category, "a vanished category falls back to all")
	assert.Equal(t, []string{"b", "c"}, filteredIDs(m))
	assert.NotContains(t, m.service.SuggestionPool(), "Code Review")

	m = send(t, m, ReloadMsg{Err: errors.New("disk gone")})
	assert.Equal(t, []string{"b", "c"}, filteredIDs(m))
}

func TestModel_CategoryBarSkipsUncategorized(t *testing.T) {
	prompts := append(libraryPrompts(), models.Prompt{ID: "d", Name: "Loose Note", Body: "note"})
	m := newTestModel(t, context.Background(), &stubRepository{prompts: prompts}, &recordingClipboard{})
	m = send(t, m, m.Init()())

	assert.Equal(t, []string{"Development", "Marketing", "Writing"}, m.categories)
	assert.Equal(t, []string{"a", "b", "c", "d"}, filteredIDs(m))

	var seen []string
	for range m.categories {
		m = press(t, m, "tab")
		seen = append(seen, m.category)
	}
	assert.Equal(t, []string{"Development", "Marketing", "Writing"}, seen)

	m = press(t, m, "tab")
	assert.Equal(t, "", m.category)
	assert.Equal(t, []string{"a", "b", "c", "d"}, filteredIDs(m))
}
