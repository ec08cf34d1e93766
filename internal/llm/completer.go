package llm

import (
	"context"
	"errors"

	"github.com/santoshk66/maizic-chatbot/internal/models"
)

// ErrQuotaExceeded marks the provider's rate/quota rejection so the handler
// can surface a quota-specific apology instead of the generic one.
var ErrQuotaExceeded = errors.New("completion quota exceeded")

// ErrNotConfigured is returned when no API credential was provided at
// startup.
var ErrNotConfigured = errors.New("completion API credential not configured")

// Completer produces the assistant's next reply from the bounded
// conversation history (system turn first).
type Completer interface {
	Complete(ctx context.Context, turns []models.Turn) (string, error)
}

// Disabled stands in for the OpenAI client when no API credential is set.
// The server still starts, / and /debug stay live, and every chat falls
// through to the standard apology path.
type Disabled struct{}

func (Disabled) Complete(ctx context.Context, turns []models.Turn) (string, error) {
	return "", ErrNotConfigured
}
