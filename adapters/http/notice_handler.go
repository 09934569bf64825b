package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	noticeUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/notice"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type NoticeHandler struct {
	feed        *noticeUC.Feed
	listSyncLog *noticeUC.ListSyncLogUseCase
	gateway     service.StorageGateway
	buckets     service.Buckets
	logger      logger.Logger
}

func NewNoticeHandler(
	feed *noticeUC.Feed,
	listSyncLog *noticeUC.ListSyncLogUseCase,
	gateway service.StorageGateway,
	buckets service.Buckets,
	log logger.Logger,
) *NoticeHandler {
	return &NoticeHandler{
		feed:        feed,
		listSyncLog: listSyncLog,
		gateway:     gateway,
		buckets:     buckets,
		logger:      log,
	}
}

func (h *NoticeHandler) ListNotices(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	c.JSON(http.StatusOK, ToNoticeDTOs(h.feed.Recent(limit)))
}

func (h *NoticeHandler) GetNotice(c *gin.Context) {
	n, ok := h.feed.Get(c.Param("id"))
	if !ok {
		c.Error(apperror.NewNotFound("notice", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, ToNoticeDTO(n))
}

func (h *NoticeHandler) ListSyncLog(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}

	entries, err := h.listSyncLog.Execute(c.Request.Context(), noticeUC.ListSyncLogInput{Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToNoticeDTOs(entries))
}

func (h *NoticeHandler) StorageStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StorageStatusResponse{
		Provider: h.gateway.Provider(),
		Ready:    h.gateway.IsReady(),
		Buckets: map[string]string{
			"images":    h.buckets.Images,
			"cv":        h.buckets.CV,
			"documents": h.buckets.Documents,
		},
	})
}
