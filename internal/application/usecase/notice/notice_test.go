package notice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

func TestFeed_KeepsNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := NewFeed(3)
	assert.Empty(t, f.Recent(0))

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		n := notice.New(notice.KindInfo, "op", "b", fmt.Sprintf("p%d", i), "m")
		ids = append(ids, n.ID)
		require.NoError(t, f.Publish(ctx, n))
	}

	got := f.Recent(0)
	require.Len(t, got, 3)
	assert.Equal(t, "p4", got[0].Path)
	assert.Equal(t, "p3", got[1].Path)
	assert.Equal(t, "p2", got[2].Path)

	assert.Len(t, f.Recent(2), 2)

	_, ok := f.Get(ids[0].String())
	assert.False(t, ok, "evicted notices are gone")
	n, ok := f.Get(ids[4].String())
	assert.True(t, ok)
	assert.Equal(t, "p4", n.Path)
}

type recordingPublisher struct {
	mu   sync.Mutex
	seen []notice.Notice
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, n notice.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
	return r.err
}

func TestFanOut_DeliversToAll(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("kafka down")}
	ok := &recordingPublisher{}
	fan := NewFanOut(logger.NewNopLogger(), failing, nil, ok)

	err := fan.Publish(context.Background(), notice.New(notice.KindSuccess, "op", "b", "p", "m"))
	assert.Error(t, err)
	assert.Len(t, failing.seen, 1)
	assert.Len(t, ok.seen, 1)
}

type memRepo struct {
	entries []notice.Notice
}

func (m *memRepo) Append(_ context.Context, n notice.Notice) error {
	m.entries = append(m.entries, n)
	return nil
}

func (m *memRepo) List(_ context.Context, limit, offset int) ([]notice.Notice, error) {
	if offset >= len(m.entries) {
		return []notice.Notice{}, nil
	}
	end := min(offset+limit, len(m.entries))
	return m.entries[offset:end], nil
}

func TestRecordSync(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	uc := NewRecordSyncUseCase(repo, logger.NewNopLogger())

	require.NoError(t, uc.Execute(ctx, notice.New(notice.KindSuccess, "resume", "portfolio-cv", "cv.pdf", "ok")))
	require.NoError(t, uc.Execute(ctx, notice.Notice{}))
	assert.Len(t, repo.entries, 1)

	list, err := NewListSyncLogUseCase(repo).Execute(ctx, ListSyncLogInput{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = NewListSyncLogUseCase(nil).Execute(ctx, ListSyncLogInput{})
	assert.ErrorIs(t, err, apperror.ErrNotConfigured)
}
