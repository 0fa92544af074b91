// Package renderer turns prompt bodies with <input>label</input> placeholders
// into copy-ready text.
package renderer

import (
	"encoding/json"
	"fmt"

	"github.com/dpshade/prompt-overflow/internal/models"
)

// Renderer handles prompt rendering
type Renderer struct {
	prompt *models.Prompt
}

// NewRenderer creates a new renderer instance
func NewRenderer(prompt *models.Prompt) *Renderer {
	return &Renderer{prompt: prompt}
}

// Fields returns the placeholder labels of the prompt body
func (r *Renderer) Fields() []string {
	return ExtractFields(r.prompt.Body)
}

// RenderText renders the prompt as plain text. Without placeholders the body
// is returned unchanged.
func (r *Renderer) RenderText(values map[string]string) (string, error) {
	if r.prompt == nil {
		return "", fmt.Errorf("no prompt to render")
	}
	return Render(r.prompt.Body, values), nil
}

// RenderJSON renders the prompt as a JSON message array for LLM APIs
func (r *Renderer) RenderJSON(values map[string]string) (string, error) {
	text, err := r.RenderText(values)
	if err != nil {
		return "", err
	}

	messages := []Message{
		{
			Role:    "user",
			Content: text,
		},
	}

	jsonBytes, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}

	return string(jsonBytes), nil
}

// Message represents a chat message for LLM APIs
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
