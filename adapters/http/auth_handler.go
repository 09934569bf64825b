package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type AuthHandler struct {
	guard  *authUC.Guard
	logger logger.Logger
}

func NewAuthHandler(guard *authUC.Guard, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		guard:  guard,
		logger: log,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("username and password are required", err))
		return
	}

	output, err := h.guard.Login(c.Request.Context(), authUC.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.logger.Info("Admin logged in", zap.String("session_id", output.Session.ID.String()))
	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: output.AccessToken,
		SessionID:   output.Session.ID,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.guard.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Session(c *gin.Context) {
	resp := SessionResponse{
		Authenticated: h.guard.IsAuthenticated(),
		State:         string(h.guard.State()),
	}
	if s, ok := h.guard.Session(); ok {
		resp.Username = s.Username
	}
	c.JSON(http.StatusOK, resp)
}
