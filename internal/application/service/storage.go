package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

type UploadRequest struct {
	Bucket      string
	Path        string
	Body        io.Reader
	Size        int64
	ContentType string
}

// StorageGateway is the remote object store holding profile assets.
type StorageGateway interface {
	// IsReady is a pre-flight check on the configured credential shape. It
	// does not contact the remote service.
	IsReady() bool
	PublicURL(bucket, path string) string
	// Upload overwrites any object already stored at bucket/path.
	Upload(ctx context.Context, req UploadRequest) error
	Provider() string
}

type UploadErrorKind string

const (
	UploadNotConfigured UploadErrorKind = "not_configured"
	UploadSigning       UploadErrorKind = "signing"
	UploadFailed        UploadErrorKind = "failed"
)

type UploadError struct {
	Kind   UploadErrorKind
	Bucket string
	Path   string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload %s/%s (%s): %v", e.Bucket, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("upload %s/%s (%s)", e.Bucket, e.Path, e.Kind)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func (e *UploadError) Is(target error) bool {
	switch target {
	case apperror.ErrUpload:
		return true
	case apperror.ErrNotConfigured:
		return e.Kind == UploadNotConfigured
	}
	return false
}

func NewNotConfiguredError(bucket, path string) *UploadError {
	return &UploadError{Kind: UploadNotConfigured, Bucket: bucket, Path: path}
}

// ClassifyUploadError decides whether a remote failure looks like a
// credential or signing problem. statusCode is 0 for transport errors.
func ClassifyUploadError(bucket, path string, statusCode int, err error) *UploadError {
	kind := UploadFailed
	if statusCode == 401 || statusCode == 403 || looksLikeSigningFailure(err) {
		kind = UploadSigning
	}
	return &UploadError{Kind: kind, Bucket: bucket, Path: path, Err: err}
}

var signingMarkers = []string{"jws", "jwt", "invalid signature", "signature verification", "invalid api_key", "invalid api key", "unknown api_key"}

func looksLikeSigningFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range signingMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func AsUploadError(err error) (*UploadError, bool) {
	var ue *UploadError
	ok := errors.As(err, &ue)
	return ue, ok
}
