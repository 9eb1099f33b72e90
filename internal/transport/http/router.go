package httptransport

import (
	"log/slog"
	"time"

	"github.com/ErlanBelekov/bookshelf/internal/guard"
	"github.com/ErlanBelekov/bookshelf/internal/session"
	"github.com/ErlanBelekov/bookshelf/internal/transport/http/handler"
	"github.com/ErlanBelekov/bookshelf/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	sloggin "github.com/samber/slog-gin"
)

type Options struct {
	Renderer       render.HTMLRender
	Sessions       *session.Manager
	SecureCookies  bool
	SessionMaxAge  time.Duration
	MaxUploadBytes int64
}

func NewRouter(logger *slog.Logger, opts Options) *gin.Engine {
	r := gin.New()
	r.HTMLRender = opts.Renderer
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security(opts.SecureCookies))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Session(opts.Sessions, opts.SecureCookies, opts.SessionMaxAge))

	authHandler := handler.NewAuthHandler(logger)
	bookHandler := handler.NewBookHandler(logger)
	uploadHandler := handler.NewUploadHandler(opts.MaxUploadBytes, logger)

	public := r.Group("", middleware.Guard(guard.PublicOnly))
	public.GET("/", authHandler.LoginPage)
	public.GET("/login", authHandler.LoginPage)
	public.POST("/login", authHandler.Login)
	public.GET("/register", authHandler.RegisterPage)
	public.POST("/register", authHandler.Register)

	protected := r.Group("", middleware.Guard(guard.Protected))
	protected.GET("/dashboard", authHandler.Dashboard)
	protected.POST("/logout", authHandler.Logout)

	books := protected.Group("/books")
	books.GET("", bookHandler.List)
	books.POST("", bookHandler.Create)
	books.POST("/errors/clear", bookHandler.ClearError)
	books.POST("/:id", bookHandler.Update)
	books.GET("/:id/delete", bookHandler.ConfirmDelete)
	books.POST("/:id/delete", bookHandler.Delete)

	protected.GET("/upload", uploadHandler.Page)
	protected.POST("/upload", uploadHandler.Upload)

	r.NoRoute(handler.NotFound)

	return r
}
