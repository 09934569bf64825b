package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-cms/internal/application/usecase/content"
	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type ProfileHandler struct {
	store  *content.Store
	logger logger.Logger
}

func NewProfileHandler(store *content.Store, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{store: store, logger: log}
}

func (h *ProfileHandler) GetPortfolio(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Get())
}

func (h *ProfileHandler) ListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Get().Projects)
}

func (h *ProfileHandler) ListDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Get().Documents)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var patch portfolio.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	if patch.IsEmpty() {
		c.Error(apperror.NewInvalidInput("no fields to update", nil))
		return
	}
	if patch.Name != nil && *patch.Name == "" {
		c.Error(apperror.NewInvalidInput("name cannot be empty", portfolio.ErrEmptyName))
		return
	}

	res, err := h.store.Update(c.Request.Context(), patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToMutationResponse(res))
}

func (h *ProfileHandler) RefreshFromStorage(c *gin.Context) {
	res, err := h.store.RefreshFromStorage(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToMutationResponse(res))
}

func (h *ProfileHandler) Reset(c *gin.Context) {
	res := h.store.Reset(c.Request.Context())
	h.logger.Info("Profile reset to seed")
	c.JSON(http.StatusOK, ToMutationResponse(res))
}

func advisoryMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
