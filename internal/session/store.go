package session

import (
	"context"
	"errors"
	"time"

	"github.com/santoshk66/maizic-chatbot/internal/models"
)

// MaxTurns caps the stored history per session: the system turn plus the
// most recent nine exchanges. Older non-system turns are discarded.
const MaxTurns = 10

// DefaultTimeout is how long a session may stay idle before it is evicted.
const DefaultTimeout = time.Hour

var ErrNotFound = errors.New("session not found")

// Store holds per-session conversation state. Implementations must keep the
// system turn at index 0 and enforce the MaxTurns cap on every append.
type Store interface {
	// GetOrCreate returns the session for id, initializing a new one holding
	// only the system turn when the id is unseen.
	GetOrCreate(ctx context.Context, id string) (*models.Session, error)

	// AppendAndTrim appends turns to the session's history, trims to MaxTurns
	// (system turn plus the last nine), and refreshes the last-active time.
	AppendAndTrim(ctx context.Context, id string, turns ...models.Turn) error

	// Clear removes the session outright; the next GetOrCreate starts fresh.
	Clear(ctx context.Context, id string) error

	// Sweep evicts sessions idle longer than the store's timeout. Called
	// lazily on each inbound request; the session set is small enough that a
	// full scan is fine.
	Sweep(ctx context.Context, now time.Time) error

	// Count reports the number of live sessions.
	Count(ctx context.Context) (int, error)

	Close() error
}

// trim enforces the history cap: keep the system turn at index 0 plus the
// most recent MaxTurns-1 others.
func trim(turns []models.Turn) []models.Turn {
	if len(turns) <= MaxTurns {
		return turns
	}
	trimmed := make([]models.Turn, 0, MaxTurns)
	trimmed = append(trimmed, turns[0])
	trimmed = append(trimmed, turns[len(turns)-(MaxTurns-1):]...)
	return trimmed
}
