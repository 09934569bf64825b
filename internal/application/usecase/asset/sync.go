package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const (
	msgNotConfigured = "Storage not configured. Changes apply to this session only."
	msgSigning       = "Invalid storage configuration. Please check your API keys."
	msgFailed        = "Cloud upload failed. Changes saved to session memory only."
	msgShuttingDown  = "Server is shutting down. Changes saved to session memory only."
)

var tracer = otel.Tracer("asset_usecase")

// Syncer pushes ingested files to object storage off the request path. Each
// call is independent: there is no per-path ordering, the last upload to
// finish wins remotely.
type Syncer struct {
	gateway   service.StorageGateway
	publisher notice.Publisher
	timeout   time.Duration
	logger    logger.Logger

	// mu guards closed and orders wg.Add before the drain in Wait and Close.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewSyncer(gateway service.StorageGateway, publisher notice.Publisher, timeout time.Duration, log logger.Logger) *Syncer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Syncer{
		gateway:   gateway,
		publisher: publisher,
		timeout:   timeout,
		logger:    log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

type SyncRequest struct {
	Operation   string
	Bucket      string
	Path        string
	Data        []byte
	ContentType string
}

// SyncInBackground never blocks on the network. The returned channel yields
// exactly one notice and is then closed.
func (s *Syncer) SyncInBackground(req SyncRequest) <-chan notice.Notice {
	out := make(chan notice.Notice, 1)
	local := func(msg string) <-chan notice.Notice {
		n := notice.New(notice.KindInfo, req.Operation, req.Bucket, req.Path, msg)
		n.Provider = s.gateway.Provider()
		s.publish(n)
		out <- n
		close(out)
		return out
	}

	if !s.gateway.IsReady() {
		return local(msgNotConfigured)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return local(msgShuttingDown)
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer close(out)

		n := s.upload(req)
		s.publish(n)
		out <- n
	}()
	return out
}

func (s *Syncer) upload(req SyncRequest) (n notice.Notice) {
	l := s.logger.With(zap.String("bucket", req.Bucket), zap.String("path", req.Path), zap.String("operation", req.Operation))

	defer func() {
		if r := recover(); r != nil {
			l.Error("Asset sync panicked", fmt.Errorf("%v", r))
			n = notice.New(notice.KindError, req.Operation, req.Bucket, req.Path, msgFailed)
			n.Provider = s.gateway.Provider()
		}
	}()

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "SyncAsset")
	defer span.End()
	span.SetAttributes(
		attribute.String("bucket", req.Bucket),
		attribute.String("path", req.Path),
		attribute.Int("size", len(req.Data)),
	)

	err := s.gateway.Upload(ctx, service.UploadRequest{
		Bucket:      req.Bucket,
		Path:        req.Path,
		Body:        bytes.NewReader(req.Data),
		Size:        int64(len(req.Data)),
		ContentType: req.ContentType,
	})
	n = noticeFor(req, err)
	n.Provider = s.gateway.Provider()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(n.Kind))
		l.Warn("Asset sync failed", zap.Error(err))
	} else {
		l.Info("Asset synced to storage")
	}
	return n
}

func noticeFor(req SyncRequest, err error) notice.Notice {
	if err == nil {
		return notice.New(notice.KindSuccess, req.Operation, req.Bucket, req.Path,
			fmt.Sprintf("Successfully synced to cloud: %s/%s", req.Bucket, req.Path))
	}
	ue, ok := service.AsUploadError(err)
	switch {
	case ok && ue.Kind == service.UploadNotConfigured:
		return notice.New(notice.KindInfo, req.Operation, req.Bucket, req.Path, msgNotConfigured)
	case ok && ue.Kind == service.UploadSigning:
		return notice.New(notice.KindError, req.Operation, req.Bucket, req.Path, msgSigning)
	case errors.Is(err, context.DeadlineExceeded):
		return notice.New(notice.KindError, req.Operation, req.Bucket, req.Path, msgFailed+" Upload timed out.")
	}
	cause := err
	if ok && ue.Err != nil {
		cause = ue.Err
	}
	return notice.New(notice.KindError, req.Operation, req.Bucket, req.Path, msgFailed+" "+cause.Error())
}

func (s *Syncer) publish(n notice.Notice) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Warn("Failed to publish sync notice", zap.String("notice_id", n.ID.String()), zap.Error(err))
	}
}

// Wait blocks until every in-flight sync finished. When ctx ends first the
// remaining uploads are cancelled and ctx.Err is returned once they return.
// New syncs requested after Wait or Close has started stay local.
func (s *Syncer) Wait(ctx context.Context) error {
	s.stop()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}

// Close cancels in-flight uploads and waits for them.
func (s *Syncer) Close() {
	s.stop()
	s.cancel()
	s.wg.Wait()
}

func (s *Syncer) stop() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
