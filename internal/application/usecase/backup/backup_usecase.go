package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const folder = "backups"

type ProfileSource interface {
	Get() portfolio.Profile
}

type BackupOutput struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
	URL    string `json:"url"`
	Size   int    `json:"size"`
}

// BackupUseCase writes the live profile as a timestamped JSON object into
// the documents bucket.
type BackupUseCase struct {
	source  ProfileSource
	gateway service.StorageGateway
	bucket  string
	now     func() time.Time
	logger  logger.Logger
}

func NewBackupUseCase(source ProfileSource, gateway service.StorageGateway, bucket string, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		source:  source,
		gateway: gateway,
		bucket:  bucket,
		now:     time.Now,
		logger:  log,
	}
}

func (uc *BackupUseCase) Execute(ctx context.Context) (*BackupOutput, error) {
	if uc.gateway == nil || !uc.gateway.IsReady() {
		return nil, apperror.NewNotConfigured("backup requires a configured storage gateway")
	}
	uc.logger.Info("Starting profile backup...")

	data, err := json.MarshalIndent(uc.source.Get(), "", "  ")
	if err != nil {
		return nil, apperror.NewInternal("failed to encode profile", err)
	}

	timestamp := uc.now().UTC().Format("2006-01-02_15-04-05")
	path := fmt.Sprintf("%s/profile-%s.json", folder, timestamp)

	err = uc.gateway.Upload(ctx, service.UploadRequest{
		Bucket:      uc.bucket,
		Path:        path,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: "application/json",
	})
	if err != nil {
		uc.logger.Error("Failed to upload profile backup", err)
		return nil, apperror.NewAppError(apperror.ErrUpload, "Backup upload failed", path, err)
	}

	out := &BackupOutput{
		Bucket: uc.bucket,
		Path:   path,
		URL:    uc.gateway.PublicURL(uc.bucket, path),
		Size:   len(data),
	}
	uc.logger.Info("Profile backup completed and uploaded successfully",
		zap.String("bucket", out.Bucket),
		zap.String("path", out.Path),
	)
	return out, nil
}
