package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the text completion capability: messages in, free text out.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

var ErrMissingVariable = errors.New("missing template variable")

var placeholderRegex = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// PromptTemplate is a system + user prompt pair with {name} placeholders.
type PromptTemplate struct {
	System string
	User   string
}

// Build fills every placeholder from vars and returns the chat messages.
func (t PromptTemplate) Build(vars map[string]string) ([]Message, error) {
	system, err := fill(t.System, vars)
	if err != nil {
		return nil, fmt.Errorf("system prompt: %w", err)
	}
	user, err := fill(t.User, vars)
	if err != nil {
		return nil, fmt.Errorf("user prompt: %w", err)
	}
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}, nil
}

func fill(text string, vars map[string]string) (string, error) {
	var missing []string
	out := placeholderRegex.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingVariable, strings.Join(missing, ", "))
	}
	return out, nil
}
