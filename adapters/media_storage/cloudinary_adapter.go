package media_storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const providerCloudinary = "cloudinary"

// cloudinaryAdapter maps bucket/path onto Cloudinary folder/public id.
type cloudinaryAdapter struct {
	cld    *cloudinary.Cloudinary
	logger logger.Logger
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) service.StorageGateway {
	c := cfg.Cloudinary
	if isPlaceholder(c.CloudName) || isPlaceholder(c.ApiKey) || isPlaceholder(c.ApiSecret) {
		log.Warn("Cloudinary credentials missing or placeholder, running in local-only mode")
		return &cloudinaryAdapter{logger: log}
	}

	cld, err := cloudinary.NewFromParams(c.CloudName, c.ApiKey, c.ApiSecret)
	if err != nil {
		log.Error("Cannot init cloudinary, running in local-only mode", err)
		return &cloudinaryAdapter{logger: log}
	}

	log.Info("Connect Cloudinary successfully.", zap.String("cloud_name", c.CloudName))
	return &cloudinaryAdapter{cld: cld, logger: log}
}

func (a *cloudinaryAdapter) Provider() string { return providerCloudinary }

func (a *cloudinaryAdapter) IsReady() bool { return a.cld != nil }

func publicID(bucket, p string) string {
	return bucket + "/" + strings.TrimSuffix(p, path.Ext(p))
}

func (a *cloudinaryAdapter) PublicURL(bucket, p string) string {
	if a.cld == nil {
		return ""
	}
	var (
		asset interface{ String() (string, error) }
		err   error
	)
	if isRawAsset(p) {
		asset, err = a.cld.File(bucket + "/" + p)
	} else {
		asset, err = a.cld.Image(publicID(bucket, p))
	}
	if err != nil {
		a.logger.Warn("Failed to build cloudinary asset", zap.String("path", p), zap.Error(err))
		return ""
	}
	u, err := asset.String()
	if err != nil {
		a.logger.Warn("Failed to build cloudinary URL", zap.String("path", p), zap.Error(err))
		return ""
	}
	return u
}

func (a *cloudinaryAdapter) Upload(ctx context.Context, req service.UploadRequest) error {
	if a.cld == nil {
		return service.NewNotConfiguredError(req.Bucket, req.Path)
	}

	params := uploader.UploadParams{
		Folder:       req.Bucket,
		PublicID:     strings.TrimSuffix(req.Path, path.Ext(req.Path)),
		Overwrite:    api.Bool(true),
		Invalidate:   api.Bool(true),
		ResourceType: "auto",
	}
	if isRawAsset(req.Path) {
		params.PublicID = req.Path
		params.ResourceType = "raw"
	}

	result, err := a.cld.Upload.Upload(ctx, req.Body, params)
	if err != nil {
		return service.ClassifyUploadError(req.Bucket, req.Path, 0, fmt.Errorf("failed to upload cloudinary: %w", err))
	}
	if result != nil && result.Error.Message != "" {
		return service.ClassifyUploadError(req.Bucket, req.Path, 0, errors.New(result.Error.Message))
	}
	return nil
}

// PDFs and other documents are stored as raw resources so the extension is
// part of the public id.
func isRawAsset(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".avif":
		return false
	}
	return true
}
