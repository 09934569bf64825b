package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type State string

const (
	StateLoggedOut State = "logged_out"
	StateLoggedIn  State = "logged_in"
)

// MarkerValue is what a successful login writes to the marker slot.
const MarkerValue = "true"

type Session struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	StartedAt time.Time `json:"started_at"`
}

// MarkerStore persists the "logged in" marker so a restart does not force a
// new login. Get returns ("", nil) when no marker is stored.
type MarkerStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, value string) error
	Clear(ctx context.Context) error
}
