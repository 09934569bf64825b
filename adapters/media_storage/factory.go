package media_storage

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
	"github.com/khoahotran/portfolio-cms/pkg/metrics"
)

// NewStorageGateway picks the provider named by storage.provider. Unknown
// names fall back to the bucket API.
func NewStorageGateway(cfg config.Config, log logger.Logger) service.StorageGateway {
	switch strings.ToLower(cfg.Storage.Provider) {
	case providerCloudinary:
		return NewCloudinaryAdapter(cfg, log)
	case "", providerBucket, "supabase":
	default:
		log.Warn("Unknown storage provider, use bucket API", zap.String("provider", cfg.Storage.Provider))
	}
	return NewBucketAdapter(BucketOptions{
		Endpoint:     cfg.Storage.Endpoint,
		Key:          cfg.Storage.Key,
		CacheControl: cfg.Storage.CacheControl,
		Timeout:      cfg.Storage.UploadTimeout,
	}, log)
}

type observedGateway struct {
	service.StorageGateway
	recorder *metrics.Recorder
}

// Observe wraps a gateway so every upload is timed and classified.
func Observe(g service.StorageGateway, recorder *metrics.Recorder) service.StorageGateway {
	if recorder == nil {
		return g
	}
	return &observedGateway{StorageGateway: g, recorder: recorder}
}

func (o *observedGateway) Upload(ctx context.Context, req service.UploadRequest) error {
	start := time.Now()
	err := o.StorageGateway.Upload(ctx, req)
	kind := ""
	if err != nil {
		kind = string(service.UploadFailed)
		if ue, ok := service.AsUploadError(err); ok {
			kind = string(ue.Kind)
		}
	}
	o.recorder.RecordUpload(o.Provider(), req.Bucket, time.Since(start), req.Size, kind)
	return err
}
