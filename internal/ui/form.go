package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/prompt-overflow/internal/models"
	"github.com/dpshade/prompt-overflow/internal/renderer"
)

// TemplateForm collects one value per placeholder label of a prompt
type TemplateForm struct {
	prompt     models.Prompt
	fields     []string
	inputs     []textinput.Model
	collisions [][]string
	focused    int // len(inputs) is the submit button
	submitted  bool
	width      int
}

// NewTemplateForm creates an empty form for prompt's placeholder fields
func NewTemplateForm(prompt models.Prompt) *TemplateForm {
	fields := renderer.ExtractFields(prompt.Body)
	inputs := make([]textinput.Model, len(fields))

	for i, field := range fields {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = fmt.Sprintf("Enter %s", field)
		inputs[i].CharLimit = 500
		inputs[i].Width = 50
	}

	f := &TemplateForm{
		prompt:     prompt,
		fields:     fields,
		inputs:     inputs,
		collisions: renderer.CaseCollisions(fields),
	}
	f.updateFocus()
	return f
}

// Prompt returns the prompt being filled in
func (f *TemplateForm) Prompt() models.Prompt {
	return f.prompt
}

// Fields returns the raw placeholder labels in form order
func (f *TemplateForm) Fields() []string {
	return f.fields
}

// Values returns the entered text keyed by raw label
func (f *TemplateForm) Values() map[string]string {
	values := make(map[string]string, len(f.fields))
	for i, field := range f.fields {
		values[field] = f.inputs[i].Value()
	}
	return values
}

// SetValue fills the input for label, if the prompt has one
func (f *TemplateForm) SetValue(label, value string) bool {
	for i, field := range f.fields {
		if field == label {
			f.inputs[i].SetValue(value)
			return true
		}
	}
	return false
}

// Rendered substitutes the current values into the prompt body
func (f *TemplateForm) Rendered() string {
	return renderer.Render(f.prompt.Body, f.Values())
}

// Update handles form navigation and text entry
func (f *TemplateForm) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "tab", "down":
		f.nextField()
		return nil
	case "shift+tab", "up":
		f.prevField()
		return nil
	case "ctrl+s":
		f.submitted = true
		return nil
	case "enter":
		// Enter on the last input or the button submits
		if f.focused >= len(f.inputs)-1 {
			f.submitted = true
			return nil
		}
		f.nextField()
		return nil
	}

	if f.focused < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
		return cmd
	}
	return nil
}

func (f *TemplateForm) nextField() {
	f.focused = (f.focused + 1) % (len(f.inputs) + 1)
	f.updateFocus()
}

func (f *TemplateForm) prevField() {
	f.focused = (f.focused + len(f.inputs)) % (len(f.inputs) + 1)
	f.updateFocus()
}

func (f *TemplateForm) updateFocus() {
	for i := range f.inputs {
		if i == f.focused {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// IsSubmitted reports whether the user asked to copy the filled prompt
func (f *TemplateForm) IsSubmitted() bool {
	return f.submitted
}

// Reset clears every value and returns focus to the first field
func (f *TemplateForm) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.focused = 0
	f.submitted = false
	f.updateFocus()
}

func (f *TemplateForm) Resize(width int) {
	f.width = width
	for i := range f.inputs {
		if width > 20 {
			f.inputs[i].Width = width - 16
		}
	}
}

// View renders the labelled inputs, collision warnings and the copy button
func (f *TemplateForm) View() string {
	var content []string

	content = append(content, StyleTitle.Render(f.prompt.Title()))
	content = append(content, "")

	for i, field := range f.fields {
		label := renderer.DisplayLabel(field)
		if label == "" {
			label = field
		}
		if i == f.focused {
			content = append(content, StyleFormLabelFocused.Render("▶ "+label+":"))
		} else {
			content = append(content, StyleFormLabel.Render("  "+label+":"))
		}
		content = append(content, "  "+f.inputs[i].View())
		content = append(content, "")
	}

	for _, group := range f.collisions {
		content = append(content, CreateStatus(
			fmt.Sprintf("Fields differ only by case: %s", strings.Join(group, ", ")), "warning"))
	}
	if len(f.collisions) > 0 {
		content = append(content, "")
	}

	button := "Copy with Inputs"
	if f.focused == len(f.inputs) {
		content = append(content, StyleButtonPrimary.Render("▶ "+button))
	} else {
		content = append(content, StyleUnselected.Render("  "+button))
	}

	content = append(content, "")
	content = append(content, StyleTextDim.Render("tab next • shift+tab back • enter/ctrl+s copy • esc cancel"))

	body := lipgloss.JoinVertical(lipgloss.Left, content...)
	if f.width > 0 {
		return StyleModal.Width(f.width - 4).Render(body)
	}
	return StyleModal.Render(body)
}
