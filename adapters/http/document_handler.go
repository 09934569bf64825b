package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-cms/internal/application/usecase/content"
	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type DocumentHandler struct {
	store  *content.Store
	logger logger.Logger
}

func NewDocumentHandler(store *content.Store, log logger.Logger) *DocumentHandler {
	return &DocumentHandler{store: store, logger: log}
}

// CreateDocument appends a blank document for the owner to fill in.
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	doc, res := h.store.AddDocument(c.Request.Context())
	c.JSON(http.StatusCreated, DocumentResponse{Document: doc, MutationResponse: ToMutationResponse(res)})
}

func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	var patch portfolio.DocumentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	doc, res, err := h.store.UpdateDocument(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, DocumentResponse{Document: doc, MutationResponse: ToMutationResponse(res)})
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	res, err := h.store.RemoveDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToMutationResponse(res))
}
