package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-cms/internal/application/usecase/content"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type ProjectHandler struct {
	store  *content.Store
	logger logger.Logger
}

func NewProjectHandler(store *content.Store, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{store: store, logger: log}
}

func bindProject(c *gin.Context) (ProjectRequest, bool) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return req, false
	}
	return req, true
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req, ok := bindProject(c)
	if !ok {
		return
	}
	p, err := req.ToDomain()
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid project ID", err))
		return
	}

	created, res := h.store.AddProject(c.Request.Context(), p)
	c.JSON(http.StatusCreated, ProjectResponse{Project: created, MutationResponse: ToMutationResponse(res)})
}

// UpdateProjectAt replaces the project at a list position.
func (h *ProjectHandler) UpdateProjectAt(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("index must be an integer", err))
		return
	}
	req, ok := bindProject(c)
	if !ok {
		return
	}
	p, err := req.ToDomain()
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid project ID", err))
		return
	}

	res, err := h.store.UpdateProjectAt(c.Request.Context(), index, p)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ProjectResponse{Project: res.Profile.Projects[index], MutationResponse: ToMutationResponse(res)})
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid project ID", err))
		return
	}
	req, ok := bindProject(c)
	if !ok {
		return
	}
	p, err := req.ToDomain()
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid project ID", err))
		return
	}

	res, err := h.store.UpdateProject(c.Request.Context(), projectID, p)
	if err != nil {
		c.Error(err)
		return
	}
	i := res.Profile.ProjectIndex(projectID)
	c.JSON(http.StatusOK, ProjectResponse{Project: res.Profile.Projects[i], MutationResponse: ToMutationResponse(res)})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid project ID", err))
		return
	}

	res, err := h.store.RemoveProject(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToMutationResponse(res))
}
