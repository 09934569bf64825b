package persistence

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type postgresSyncLogRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresSyncLogRepo(db *pgxpool.Pool, logger logger.Logger) notice.Repository {
	return &postgresSyncLogRepo{db: db, logger: logger}
}

var syncLogColumns = []string{"id", "kind", "operation", "provider", "bucket", "path", "message", "created_at"}

// Append is idempotent on the notice id, the worker may see an event twice.
func (r *postgresSyncLogRepo) Append(ctx context.Context, n notice.Notice) error {
	query, args, err := psql.Insert("asset_sync_log").
		Columns(syncLogColumns...).
		Values(n.ID, n.Kind, n.Operation, n.Provider, n.Bucket, n.Path, n.Message, n.CreatedAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build sync log insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return apperror.NewInternal("failed to insert sync log entry", err)
	}
	return nil
}

func (r *postgresSyncLogRepo) List(ctx context.Context, limit, offset int) ([]notice.Notice, error) {
	query, args, err := psql.Select(syncLogColumns...).
		From("asset_sync_log").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build sync log query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query sync log", err)
	}
	return scanNotices(rows)
}

func scanNotices(rows pgx.Rows) ([]notice.Notice, error) {
	defer rows.Close()
	out := make([]notice.Notice, 0)
	for rows.Next() {
		var n notice.Notice
		if err := rows.Scan(&n.ID, &n.Kind, &n.Operation, &n.Provider, &n.Bucket, &n.Path, &n.Message, &n.CreatedAt); err != nil {
			return nil, apperror.NewInternal("failed to scan sync log row", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating sync log rows", err)
	}
	return out, nil
}
