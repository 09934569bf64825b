package http

import (
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	assetUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/asset"
	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type MediaHandler struct {
	ingestor              *assetUC.Ingestor
	replaceProfileImageUC *assetUC.ReplaceProfileImageUseCase
	replaceResumeUC       *assetUC.ReplaceResumeUseCase
	replaceProjectImageUC *assetUC.ReplaceProjectImageUseCase
	replaceDocumentFileUC *assetUC.ReplaceDocumentFileUseCase
	logger                logger.Logger
}

func NewMediaHandler(
	ingestor *assetUC.Ingestor,
	profileImageUC *assetUC.ReplaceProfileImageUseCase,
	resumeUC *assetUC.ReplaceResumeUseCase,
	projectImageUC *assetUC.ReplaceProjectImageUseCase,
	documentFileUC *assetUC.ReplaceDocumentFileUseCase,
	log logger.Logger,
) *MediaHandler {
	return &MediaHandler{
		ingestor:              ingestor,
		replaceProfileImageUC: profileImageUC,
		replaceResumeUC:       resumeUC,
		replaceProjectImageUC: projectImageUC,
		replaceDocumentFileUC: documentFileUC,
		logger:                log,
	}
}

func openFormFile(c *gin.Context) (multipart.File, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return nil, "", false
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return nil, "", false
	}
	return file, fileHeader.Filename, true
}

func (h *MediaHandler) UploadProfileImage(c *gin.Context) {
	file, name, ok := openFormFile(c)
	if !ok {
		return
	}
	defer file.Close()

	out, err := h.replaceProfileImageUC.Execute(c.Request.Context(), assetUC.ReplaceInput{File: file, Filename: name})
	if err != nil {
		c.Error(err)
		return
	}
	h.respond(c, out)
}

func (h *MediaHandler) UploadResume(c *gin.Context) {
	file, name, ok := openFormFile(c)
	if !ok {
		return
	}
	defer file.Close()

	out, err := h.replaceResumeUC.Execute(c.Request.Context(), assetUC.ReplaceInput{File: file, Filename: name})
	if err != nil {
		c.Error(err)
		return
	}
	h.respond(c, out)
}

func (h *MediaHandler) UploadProjectImage(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid project ID", err))
		return
	}
	file, name, ok := openFormFile(c)
	if !ok {
		return
	}
	defer file.Close()

	out, err := h.replaceProjectImageUC.Execute(c.Request.Context(), assetUC.ReplaceProjectImageInput{
		ProjectID:    projectID,
		ReplaceInput: assetUC.ReplaceInput{File: file, Filename: name},
	})
	if err != nil {
		c.Error(err)
		return
	}
	h.respond(c, out)
}

func (h *MediaHandler) UploadDocumentFile(c *gin.Context) {
	file, name, ok := openFormFile(c)
	if !ok {
		return
	}
	defer file.Close()

	out, err := h.replaceDocumentFileUC.Execute(c.Request.Context(), assetUC.ReplaceDocumentFileInput{
		DocumentID:   c.Param("id"),
		ReplaceInput: assetUC.ReplaceInput{File: file, Filename: name},
	})
	if err != nil {
		c.Error(err)
		return
	}
	h.respond(c, out)
}

// respond answers 202 while the sync is still running. With ?wait=true the
// handler holds the request until the sync notice arrives.
func (h *MediaHandler) respond(c *gin.Context, out *assetUC.ReplaceOutput) {
	var (
		n   notice.Notice
		got bool
	)
	wait := c.Query("wait") == "true"
	if wait {
		select {
		case n, got = <-out.Sync:
		case <-c.Request.Context().Done():
		}
	} else {
		select {
		case n, got = <-out.Sync:
		default:
		}
	}

	resp := AssetResponse{
		PreviewURL:       out.PreviewURL,
		Bucket:           out.Bucket,
		Path:             out.Path,
		Status:           "pending",
		MutationResponse: MutationResponse{Profile: out.Profile, Warning: advisoryMessage(out.Advisory)},
	}
	status := http.StatusAccepted
	if got {
		dto := ToNoticeDTO(n)
		resp.Notice = &dto
		resp.Status = string(n.Kind)
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// ServeBlob streams a transient file registered during ingestion.
func (h *MediaHandler) ServeBlob(c *gin.Context) {
	blob, ok := h.ingestor.Open(c.Param("id"))
	if !ok {
		c.Error(apperror.NewNotFound("blob", c.Param("id")))
		return
	}
	if blob.Filename != "" {
		c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": blob.Filename}))
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}
