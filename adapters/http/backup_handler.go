package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	backupUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/backup"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type BackupHandler struct {
	backupUseCase *backupUC.BackupUseCase
	logger        logger.Logger
}

func NewBackupHandler(uc *backupUC.BackupUseCase, log logger.Logger) *BackupHandler {
	return &BackupHandler{backupUseCase: uc, logger: log}
}

func (h *BackupHandler) Backup(c *gin.Context) {
	out, err := h.backupUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, out)
}
