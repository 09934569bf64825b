package media_storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const providerBucket = "bucket"

// bucketAdapter talks to a Supabase-compatible storage REST API.
type bucketAdapter struct {
	endpoint     string
	key          string
	ready        bool
	cacheControl string
	client       *http.Client
	logger       logger.Logger
}

type BucketOptions struct {
	Endpoint     string
	Key          string
	CacheControl string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

func NewBucketAdapter(opts BucketOptions, log logger.Logger) service.StorageGateway {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	cacheControl := opts.CacheControl
	if cacheControl == "" {
		cacheControl = "3600"
	}

	a := &bucketAdapter{
		endpoint:     strings.TrimRight(opts.Endpoint, "/"),
		key:          strings.TrimSpace(opts.Key),
		cacheControl: cacheControl,
		client:       client,
		logger:       log,
	}
	a.ready = a.endpoint != "" && LooksLikeKey(a.key)
	if !a.ready {
		log.Warn("Storage key missing or malformed, running in local-only mode",
			zap.String("provider", providerBucket),
			zap.Bool("endpoint_set", a.endpoint != ""),
		)
	}
	return a
}

func (a *bucketAdapter) Provider() string { return providerBucket }

func (a *bucketAdapter) IsReady() bool { return a.ready }

func (a *bucketAdapter) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", a.endpoint, url.PathEscape(bucket), escapePath(path))
}

func (a *bucketAdapter) objectURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", a.endpoint, url.PathEscape(bucket), escapePath(path))
}

type storageErrorBody struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func (a *bucketAdapter) Upload(ctx context.Context, req service.UploadRequest) error {
	if !a.ready {
		return service.NewNotConfiguredError(req.Bucket, req.Path)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.objectURL(req.Bucket, req.Path), req.Body)
	if err != nil {
		return service.ClassifyUploadError(req.Bucket, req.Path, 0, fmt.Errorf("build request: %w", err))
	}
	if req.Size > 0 {
		httpReq.ContentLength = req.Size
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.key)
	httpReq.Header.Set("apikey", a.key)
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Cache-Control", "max-age="+a.cacheControl)
	httpReq.Header.Set("x-upsert", "true")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return service.ClassifyUploadError(req.Bucket, req.Path, 0, fmt.Errorf("failed to upload storage: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var body storageErrorBody
	status := resp.StatusCode
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			msg = body.Message
		}
		// the API wraps auth failures in a 400 and reports the real code in the body
		if code, err := strconv.Atoi(body.StatusCode); err == nil {
			status = code
		}
	}
	if msg == "" {
		msg = resp.Status
	}
	a.logger.Debug("Storage upload rejected", zap.Int("status", resp.StatusCode), zap.String("message", msg))
	return service.ClassifyUploadError(req.Bucket, req.Path, status, errors.New(msg))
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
