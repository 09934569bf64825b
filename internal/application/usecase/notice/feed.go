package notice

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// Feed keeps the most recent notices in memory, newest first on read.
type Feed struct {
	mu    sync.RWMutex
	ring  []notice.Notice
	next  int
	full  bool
	index map[string]int
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = 50
	}
	return &Feed{ring: make([]notice.Notice, capacity), index: make(map[string]int, capacity)}
}

func (f *Feed) Publish(_ context.Context, n notice.Notice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		delete(f.index, f.ring[f.next].ID.String())
	}
	f.ring[f.next] = n
	f.index[n.ID.String()] = f.next
	f.next = (f.next + 1) % len(f.ring)
	if f.next == 0 {
		f.full = true
	}
	return nil
}

// Recent returns up to limit notices, newest first. limit <= 0 means all.
func (f *Feed) Recent(limit int) []notice.Notice {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := f.next
	if f.full {
		n = len(f.ring)
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]notice.Notice, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.ring)) % len(f.ring)
		out = append(out, f.ring[idx])
	}
	return out
}

func (f *Feed) Get(id string) (notice.Notice, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i, ok := f.index[id]
	if !ok {
		return notice.Notice{}, false
	}
	return f.ring[i], true
}

// FanOut delivers each notice to every publisher. A failing publisher is
// logged and does not stop the others.
type FanOut struct {
	publishers []notice.Publisher
	logger     logger.Logger
}

func NewFanOut(log logger.Logger, publishers ...notice.Publisher) *FanOut {
	return &FanOut{publishers: publishers, logger: log}
}

func (f *FanOut) Publish(ctx context.Context, n notice.Notice) error {
	var errs []error
	for _, p := range f.publishers {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, n); err != nil {
			f.logger.Warn("Failed to publish notice", zap.String("notice_id", n.ID.String()), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
