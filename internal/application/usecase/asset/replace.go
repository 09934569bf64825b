package asset

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/application/usecase/content"
	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

const (
	OpProfileImage = "profile-image"
	OpResume       = "resume"
	OpProjectImage = "project-image"
	OpDocumentFile = "document-file"
)

type ReplaceInput struct {
	File     io.Reader
	Filename string
}

// ReplaceOutput reports the local change, which is already applied, and the
// pending remote sync.
type ReplaceOutput struct {
	Profile    portfolio.Profile
	PreviewURL string
	Bucket     string
	Path       string
	Advisory   error
	Sync       <-chan notice.Notice
}

// Deps is shared by every replace use case.
type Deps struct {
	Ingestor *Ingestor
	Store    *content.Store
	Syncer   *Syncer
	Buckets  service.Buckets
}

type ReplaceProfileImageUseCase struct{ d Deps }

func NewReplaceProfileImageUseCase(d Deps) *ReplaceProfileImageUseCase {
	return &ReplaceProfileImageUseCase{d: d}
}

func (uc *ReplaceProfileImageUseCase) Execute(ctx context.Context, input ReplaceInput) (*ReplaceOutput, error) {
	ctx, span := tracer.Start(ctx, "ReplaceProfileImage")
	defer span.End()

	p, err := readImage(ctx, uc.d.Ingestor, input.File)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	preview := DataURL(p)
	res, err := uc.d.Store.Update(ctx, portfolio.Patch{ProfileImage: portfolio.Ptr(preview)})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return uc.d.sync(OpProfileImage, uc.d.Buckets.Images, service.ProfileImagePath, p, preview, res), nil
}

type ReplaceResumeUseCase struct{ d Deps }

func NewReplaceResumeUseCase(d Deps) *ReplaceResumeUseCase {
	return &ReplaceResumeUseCase{d: d}
}

func (uc *ReplaceResumeUseCase) Execute(ctx context.Context, input ReplaceInput) (*ReplaceOutput, error) {
	ctx, span := tracer.Start(ctx, "ReplaceResume")
	defer span.End()

	p, err := uc.d.Ingestor.Read(ctx, input.File)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !p.IsPDF() {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("resume must be a PDF, got %s", p.ContentType), nil)
	}

	previous := uc.d.Store.Get().ResumeURL
	ref := uc.d.Ingestor.Register(p, input.Filename)
	res, err := uc.d.Store.Update(ctx, portfolio.Patch{ResumeURL: portfolio.Ptr(ref.URL)})
	if err != nil {
		uc.d.Ingestor.RevokeURL(ref.URL)
		span.RecordError(err)
		return nil, err
	}
	uc.d.Ingestor.RevokeURL(previous)

	return uc.d.sync(OpResume, uc.d.Buckets.CV, service.ResumePath, p, ref.URL, res), nil
}

type ReplaceProjectImageInput struct {
	ProjectID uuid.UUID
	ReplaceInput
}

type ReplaceProjectImageUseCase struct{ d Deps }

func NewReplaceProjectImageUseCase(d Deps) *ReplaceProjectImageUseCase {
	return &ReplaceProjectImageUseCase{d: d}
}

func (uc *ReplaceProjectImageUseCase) Execute(ctx context.Context, input ReplaceProjectImageInput) (*ReplaceOutput, error) {
	ctx, span := tracer.Start(ctx, "ReplaceProjectImage")
	defer span.End()
	span.SetAttributes(attribute.String("project_id", input.ProjectID.String()))

	if _, ok := uc.d.Store.ProjectPosition(input.ProjectID); !ok {
		return nil, apperror.NewNotFound("project", input.ProjectID.String())
	}
	p, err := readImage(ctx, uc.d.Ingestor, input.File)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	preview := DataURL(p)

	// the object path follows the position at the time of the edit
	index, res, err := uc.d.Store.SetProjectImage(ctx, input.ProjectID, preview)
	if err != nil {
		return nil, err
	}
	return uc.d.sync(OpProjectImage, uc.d.Buckets.Images, service.ProjectImagePath(index), p, preview, res), nil
}

type ReplaceDocumentFileInput struct {
	DocumentID string
	ReplaceInput
}

type ReplaceDocumentFileUseCase struct{ d Deps }

func NewReplaceDocumentFileUseCase(d Deps) *ReplaceDocumentFileUseCase {
	return &ReplaceDocumentFileUseCase{d: d}
}

func (uc *ReplaceDocumentFileUseCase) Execute(ctx context.Context, input ReplaceDocumentFileInput) (*ReplaceOutput, error) {
	ctx, span := tracer.Start(ctx, "ReplaceDocumentFile")
	defer span.End()
	span.SetAttributes(attribute.String("document_id", input.DocumentID))

	if !uc.d.Store.HasDocument(input.DocumentID) {
		return nil, apperror.NewNotFound("document", input.DocumentID)
	}
	p, err := uc.d.Ingestor.Read(ctx, input.File)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	filename := input.Filename
	if filename == "" {
		filename = "file" + p.Extension
	}
	ref := uc.d.Ingestor.Register(p, filename)

	var previous string
	for _, doc := range uc.d.Store.Get().Documents {
		if doc.ID == input.DocumentID {
			previous = doc.URL
		}
	}
	_, res, err := uc.d.Store.UpdateDocument(ctx, input.DocumentID, portfolio.DocumentPatch{URL: portfolio.Ptr(ref.URL)})
	if err != nil {
		uc.d.Ingestor.Revoke(ref.ID)
		return nil, err
	}
	uc.d.Ingestor.RevokeURL(previous)

	return uc.d.sync(OpDocumentFile, uc.d.Buckets.Documents, service.DocumentPath(input.DocumentID, filename), p, ref.URL, res), nil
}

func readImage(ctx context.Context, ing *Ingestor, r io.Reader) (Payload, error) {
	p, err := ing.Read(ctx, r)
	if err != nil {
		return Payload{}, err
	}
	if !p.IsImage() {
		return Payload{}, apperror.NewInvalidInput(fmt.Sprintf("expected an image, got %s", p.ContentType), nil)
	}
	return p, nil
}

func (d Deps) sync(op, bucket, path string, p Payload, preview string, res content.Result) *ReplaceOutput {
	ch := d.Syncer.SyncInBackground(SyncRequest{
		Operation:   op,
		Bucket:      bucket,
		Path:        path,
		Data:        p.Data,
		ContentType: p.ContentType,
	})
	return &ReplaceOutput{
		Profile:    res.Profile,
		PreviewURL: preview,
		Bucket:     bucket,
		Path:       path,
		Advisory:   res.Advisory,
		Sync:       ch,
	}
}
