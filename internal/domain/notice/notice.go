package notice

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notice is the user-visible outcome of a background asset sync.
type Notice struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Operation string    `json:"operation"`
	Provider  string    `json:"provider"`
	Bucket    string    `json:"bucket"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

func New(kind Kind, operation, bucket, path, message string) Notice {
	return Notice{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   message,
		Operation: operation,
		Bucket:    bucket,
		Path:      path,
		CreatedAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, n Notice) error
}

// PublisherFunc adapts a plain function to Publisher.
type PublisherFunc func(ctx context.Context, n Notice) error

func (f PublisherFunc) Publish(ctx context.Context, n Notice) error {
	return f(ctx, n)
}

// Repository is the durable sync log written by the worker.
type Repository interface {
	Append(ctx context.Context, n Notice) error
	List(ctx context.Context, limit, offset int) ([]Notice, error)
}
