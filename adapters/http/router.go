package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type Handlers struct {
	Auth     *AuthHandler
	Profile  *ProfileHandler
	Project  *ProjectHandler
	Document *DocumentHandler
	Media    *MediaHandler
	Notice   *NoticeHandler
	RSS      *RSSHandler
	Backup   *BackupHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	// Gatherer backs /metrics; the route is skipped when nil.
	Gatherer prometheus.Gatherer
}

func NewRouter(h Handlers, guard *authUC.Guard, opts RouterOptions, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(ErrorMiddleware(log))

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		public := api.Group("/")
		{
			public.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
			public.GET("/portfolio", h.Profile.GetPortfolio)
			public.GET("/portfolio/projects", h.Profile.ListProjects)
			public.GET("/portfolio/documents", h.Profile.ListDocuments)
			public.GET("/portfolio/feed.rss", h.RSS.GenerateRSS)
			public.GET("/blobs/:id", h.Media.ServeBlob)
		}

		admin := api.Group("/admin")
		{
			adminAuth := admin.Group("/auth")
			adminAuth.POST("/login", h.Auth.Login)
			adminAuth.POST("/logout", h.Auth.Logout)
			admin.GET("/session", h.Auth.Session)

			adminPrivate := admin.Group("/")
			adminPrivate.Use(RequireSession(guard, log))
			{
				adminPrivate.PATCH("/profile", h.Profile.UpdateProfile)

				projects := adminPrivate.Group("/projects")
				{
					projects.POST("", h.Project.CreateProject)
					projects.PUT("/index/:index", h.Project.UpdateProjectAt)
					projects.PUT("/:id", h.Project.UpdateProject)
					projects.DELETE("/:id", h.Project.DeleteProject)
				}

				documents := adminPrivate.Group("/documents")
				{
					documents.POST("", h.Document.CreateDocument)
					documents.PATCH("/:id", h.Document.UpdateDocument)
					documents.DELETE("/:id", h.Document.DeleteDocument)
				}

				assets := adminPrivate.Group("/assets")
				{
					assets.POST("/profile-image", h.Media.UploadProfileImage)
					assets.POST("/resume", h.Media.UploadResume)
					assets.POST("/projects/:id/image", h.Media.UploadProjectImage)
					assets.POST("/documents/:id/file", h.Media.UploadDocumentFile)
				}

				adminPrivate.POST("/storage/refresh", h.Profile.RefreshFromStorage)
				adminPrivate.GET("/storage/status", h.Notice.StorageStatus)
				adminPrivate.POST("/content/reset", h.Profile.Reset)
				adminPrivate.POST("/content/backup", h.Backup.Backup)
				adminPrivate.GET("/notices", h.Notice.ListNotices)
				adminPrivate.GET("/notices/:id", h.Notice.GetNotice)
				adminPrivate.GET("/sync-log", h.Notice.ListSyncLog)
			}
		}
	}

	return router
}
