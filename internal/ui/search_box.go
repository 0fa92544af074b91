package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SearchBox is the query input with its autocomplete dropdown
type SearchBox struct {
	input   textinput.Model
	ctrl    *Controller
	focused bool
	width   int
}

// NewSearchBox creates an unfocused search box suggesting from pool
func NewSearchBox(pool []string, limit int) *SearchBox {
	input := textinput.New()
	input.Placeholder = "Search prompts, tags, categories..."
	input.Prompt = "🔍 "
	input.CharLimit = 200
	input.Width = 50

	// Tab cycles categories, so suggestions are accepted through the dropdown only
	customKeyMap := textinput.DefaultKeyMap
	customKeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("ctrl+space"))
	customKeyMap.NextSuggestion = key.NewBinding(key.WithDisabled())
	customKeyMap.PrevSuggestion = key.NewBinding(key.WithDisabled())
	input.KeyMap = customKeyMap

	return &SearchBox{
		input: input,
		ctrl:  NewController(pool, limit),
	}
}

// Value returns the current query text
func (b *SearchBox) Value() string {
	return b.input.Value()
}

// Focused reports whether the box takes key input
func (b *SearchBox) Focused() bool {
	return b.focused
}

// Controller exposes the dropdown state
func (b *SearchBox) Controller() *Controller {
	return b.ctrl
}

// Focus gives the box key input and opens the dropdown for the current query
func (b *SearchBox) Focus() tea.Cmd {
	b.focused = true
	if b.ctrl.Query() != b.input.Value() {
		b.ctrl.SetQuery(b.input.Value())
	} else {
		b.ctrl.Focus()
	}
	return b.input.Focus()
}

// Blur closes the dropdown and releases key input
func (b *SearchBox) Blur() {
	b.focused = false
	b.ctrl.Dismiss()
	b.input.Blur()
}

// SetPool replaces the suggestion pool after the collection changes
func (b *SearchBox) SetPool(pool []string) {
	b.ctrl.SetPool(pool)
}

func (b *SearchBox) SetWidth(width int) {
	b.width = width
	if width > 10 {
		b.input.Width = width - 6
	}
}

// Clear empties the query, keeping focus where it is
func (b *SearchBox) Clear() bool {
	if b.input.Value() == "" {
		return false
	}
	b.input.SetValue("")
	if b.focused {
		b.ctrl.SetQuery("")
	}
	return true
}

// PickAt accepts dropdown row i. It reports whether the query changed.
func (b *SearchBox) PickAt(i int) bool {
	value, ok := b.ctrl.Pick(i)
	if !ok {
		return false
	}
	return b.setValue(value)
}

func (b *SearchBox) setValue(value string) bool {
	changed := value != b.input.Value()
	b.input.SetValue(value)
	b.input.CursorEnd()
	return changed
}

// Update handles a key while focused. The bool reports whether the query text changed.
func (b *SearchBox) Update(msg tea.KeyMsg) (tea.Cmd, bool) {
	if !b.focused {
		return nil, false
	}

	switch msg.String() {
	case "down":
		b.ctrl.Next()
		return nil, false
	case "up":
		b.ctrl.Prev()
		return nil, false
	case "enter":
		if value, ok := b.ctrl.Commit(); ok {
			return nil, b.setValue(value)
		}
		b.Blur()
		return nil, false
	case "esc":
		b.Blur()
		return nil, false
	case "ctrl+u":
		return nil, b.Clear()
	}

	before := b.input.Value()
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	if after := b.input.Value(); after != before {
		b.ctrl.SetQuery(after)
		return cmd, true
	}
	return cmd, false
}

// Forward passes non-key messages, such as cursor blinks, to the input
func (b *SearchBox) Forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return cmd
}

func (b *SearchBox) renderInput() string {
	style := StyleSearchBox
	if b.focused {
		style = StyleSearchBoxFocused
	}
	if b.width > 0 {
		style = style.Width(b.width)
	}
	return style.Render(b.input.View())
}

// SuggestionAt maps a row, relative to the top of View, to a dropdown index
func (b *SearchBox) SuggestionAt(row int) (int, bool) {
	idx := row - lipgloss.Height(b.renderInput())
	if idx < 0 || idx >= len(b.ctrl.Matches()) {
		return 0, false
	}
	return idx, true
}

// View renders the input and, when open, the dropdown under it
func (b *SearchBox) View() string {
	lines := []string{b.renderInput()}

	active, open := b.ctrl.Active()
	if open {
		for i, match := range b.ctrl.Matches() {
			lines = append(lines, CreateOption(match, i == active))
		}
	}

	return strings.Join(lines, "\n")
}
