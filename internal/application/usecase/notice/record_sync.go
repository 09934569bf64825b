package notice

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// RecordSyncUseCase runs in the worker and appends consumed asset events to
// the durable sync log.
type RecordSyncUseCase struct {
	repo   notice.Repository
	logger logger.Logger
}

func NewRecordSyncUseCase(repo notice.Repository, log logger.Logger) *RecordSyncUseCase {
	return &RecordSyncUseCase{repo: repo, logger: log}
}

func (uc *RecordSyncUseCase) Execute(ctx context.Context, n notice.Notice) error {
	l := uc.logger.With(zap.String("notice_id", n.ID.String()), zap.String("kind", string(n.Kind)))
	if n.ID == uuid.Nil {
		l.Warn("Asset event without notice id, skipping")
		return nil
	}
	if err := uc.repo.Append(ctx, n); err != nil {
		return apperror.NewInternal("failed to append sync log", err)
	}
	l.Info("Recorded asset sync", zap.String("bucket", n.Bucket), zap.String("path", n.Path))
	return nil
}

type ListSyncLogInput struct {
	Limit  int
	Offset int
}

type ListSyncLogUseCase struct {
	repo notice.Repository
}

func NewListSyncLogUseCase(repo notice.Repository) *ListSyncLogUseCase {
	return &ListSyncLogUseCase{repo: repo}
}

func (uc *ListSyncLogUseCase) Execute(ctx context.Context, input ListSyncLogInput) ([]notice.Notice, error) {
	if uc.repo == nil {
		return nil, apperror.NewNotConfigured("sync log requires a database")
	}
	if input.Limit <= 0 || input.Limit > 100 {
		input.Limit = 20
	}
	if input.Offset < 0 {
		input.Offset = 0
	}
	return uc.repo.List(ctx, input.Limit, input.Offset)
}
