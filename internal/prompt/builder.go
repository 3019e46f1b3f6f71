package prompt

import (
	"strings"

	"github.com/sozhaa-tech/chatbot-api/internal/model"
	"github.com/sozhaa-tech/chatbot-api/internal/snippet"
)

const preamble = "You are Sozhaa Tech AI Assistant. Use only the company's information provided below " +
	"(sozhaa.tech). Answer only about the company, services, pages and contact information. " +
	"If asked outside scope, reply politely that you only provide Sozhaa Tech info. " +
	"Keep replies concise."

// Builder assembles the model prompt from seed snippets and the rolling
// conversation. The system portion is identical for every request, which
// lets the generation layer cache it.
type Builder struct {
	system string
	window int
}

// NewBuilder precomputes the system prompt from the snippet set. window
// bounds how many trailing history turns are included per request.
func NewBuilder(set *snippet.Set, window int) *Builder {
	if window <= 0 {
		window = 3
	}

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\nCompany context:\n")
	for i, s := range set.Snippets {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.Title)
		b.WriteString(" (")
		b.WriteString(s.URL)
		b.WriteString("):\n")
		b.WriteString(s.Text)
	}
	b.WriteString("\n\n")

	return &Builder{system: b.String(), window: window}
}

// System returns the static system prompt.
func (p *Builder) System() string {
	return p.system
}

// Conversation renders the bounded trailing history plus the new user
// message, ending with the assistant cue. Deterministic for identical
// inputs; an empty history yields just the new turn.
func (p *Builder) Conversation(history []model.HistoryTurn, userMessage string) string {
	if len(history) > p.window {
		history = history[len(history)-p.window:]
	}

	var b strings.Builder
	b.WriteString("Conversation:\n")
	for _, h := range history {
		if h.Role == string(model.RoleUser) {
			b.WriteString("User: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(h.Message)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(userMessage)
	b.WriteString("\nAssistant:")

	return b.String()
}
