package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

const BlobRoutePrefix = "/api/blobs/"

// Payload is a fully read upload with its sniffed content type.
type Payload struct {
	Data        []byte
	ContentType string
	Extension   string
}

func (p Payload) IsImage() bool {
	return strings.HasPrefix(p.ContentType, "image/")
}

func (p Payload) IsPDF() bool {
	return strings.HasPrefix(p.ContentType, "application/pdf")
}

// Blob is a transient file served from process memory.
type Blob struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

type TransientRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type IngestOptions struct {
	// PublicBaseURL prefixes blob URLs. Empty yields host-relative URLs.
	PublicBaseURL     string
	MaxBytes          int64
	TransientTTL      time.Duration
	TransientCapacity int
}

// Ingestor turns uploaded files into locally usable references: inline data
// URLs for images, short-lived blob URLs for everything else.
type Ingestor struct {
	baseURL  string
	maxBytes int64
	blobs    *expirable.LRU[string, Blob]
}

func NewIngestor(opts IngestOptions) *Ingestor {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 10 << 20
	}
	if opts.TransientCapacity <= 0 {
		opts.TransientCapacity = 64
	}
	if opts.TransientTTL <= 0 {
		opts.TransientTTL = time.Hour
	}
	return &Ingestor{
		baseURL:  strings.TrimRight(opts.PublicBaseURL, "/"),
		maxBytes: opts.MaxBytes,
		blobs:    expirable.NewLRU[string, Blob](opts.TransientCapacity, nil, opts.TransientTTL),
	}
}

// Read consumes r up to the configured limit and sniffs its type.
func (i *Ingestor) Read(ctx context.Context, r io.Reader) (Payload, error) {
	if r == nil {
		return Payload{}, apperror.NewInvalidInput("no file provided", nil)
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(readerWithContext(ctx, r), i.maxBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return Payload{}, ctx.Err()
		}
		return Payload{}, apperror.NewInvalidInput("failed to read file", err)
	}
	if n == 0 {
		return Payload{}, apperror.NewInvalidInput("file is empty", nil)
	}
	if n > i.maxBytes {
		return Payload{}, apperror.NewInvalidInput(fmt.Sprintf("file exceeds %d bytes", i.maxBytes), nil)
	}

	data := buf.Bytes()
	mt := mimetype.Detect(data)
	return Payload{Data: data, ContentType: mt.String(), Extension: mt.Extension()}, nil
}

// IngestImage reads an image and returns it as a base64 data URL.
func (i *Ingestor) IngestImage(ctx context.Context, r io.Reader) (string, error) {
	p, err := i.Read(ctx, r)
	if err != nil {
		return "", err
	}
	if !p.IsImage() {
		return "", apperror.NewInvalidInput(fmt.Sprintf("expected an image, got %s", p.ContentType), nil)
	}
	return DataURL(p), nil
}

func DataURL(p Payload) string {
	return "data:" + p.ContentType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// IngestTransientFile reads r and registers it as a blob reachable until it
// expires, is evicted, or is revoked.
func (i *Ingestor) IngestTransientFile(ctx context.Context, r io.Reader, filename string) (TransientRef, error) {
	p, err := i.Read(ctx, r)
	if err != nil {
		return TransientRef{}, err
	}
	return i.Register(p, filename), nil
}

func (i *Ingestor) Register(p Payload, filename string) TransientRef {
	id := uuid.NewString()
	i.blobs.Add(id, Blob{
		ID:          id,
		Filename:    filename,
		ContentType: p.ContentType,
		Data:        p.Data,
		CreatedAt:   time.Now().UTC(),
	})
	return TransientRef{ID: id, URL: i.baseURL + BlobRoutePrefix + id}
}

func (i *Ingestor) Open(id string) (Blob, bool) {
	return i.blobs.Get(id)
}

func (i *Ingestor) Revoke(id string) bool {
	return i.blobs.Remove(id)
}

// RevokeURL drops the blob behind a URL previously returned by Register.
// Other URLs are ignored.
func (i *Ingestor) RevokeURL(url string) {
	if !strings.HasPrefix(url, i.baseURL+BlobRoutePrefix) {
		return
	}
	i.blobs.Remove(strings.TrimPrefix(url, i.baseURL+BlobRoutePrefix))
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
