package http

import (
	"context"
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/Rohit2924/news-sub000/internal/config"
	"github.com/Rohit2924/news-sub000/internal/gateway"
	"github.com/Rohit2924/news-sub000/internal/http/handler"
	"github.com/Rohit2924/news-sub000/internal/http/middleware"
	"github.com/Rohit2924/news-sub000/internal/repository/postgres"
	"github.com/Rohit2924/news-sub000/internal/storage/s3"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "1M"
)

type ServerDependencies struct {
	Config       *config.Config
	Gateway      *gateway.Gateway
	Codec        *gateway.Codec
	UserRepo     *postgres.UserRepository
	ArticleRepo  *postgres.ArticleRepository
	CategoryRepo *postgres.CategoryRepository
	CommentRepo  *postgres.CommentRepository
	Images       *s3.Client
	Logger       zerolog.Logger
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID first so every log line and audit event carries it,
	// then the gateway: no handler runs before the security pipeline.
	e.Use(middleware.RequestID())
	e.Use(deps.Gateway.Middleware())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	authHandler := handler.NewAuthHandler(deps.UserRepo, deps.Codec, deps.Config.Cookie, deps.Config.JWT)
	userHandler := handler.NewUserHandler(deps.UserRepo)
	commentHandler := handler.NewCommentHandler(deps.CommentRepo)

	var articleHandler *handler.ArticleHandler
	if deps.Images != nil {
		articleHandler = handler.NewArticleHandler(deps.ArticleRepo, deps.CategoryRepo, deps.Images)
	} else {
		articleHandler = handler.NewArticleHandler(deps.ArticleRepo, deps.CategoryRepo, nil)
	}

	e.GET("/health", healthCheck)

	api := e.Group("/api")

	// Public auth flow. The gateway rate-limits login submissions and
	// bounces already-authenticated users away from login/register.
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Public content surface.
	api.GET("/news", articleHandler.ListPublished)
	api.GET("/news/:slug", articleHandler.GetBySlug)
	api.GET("/news/:article_id/comments", commentHandler.ListByArticle)
	api.GET("/categories", articleHandler.ListCategories)

	// User surface; the gateway guarantees a verified USER+ identity.
	api.GET("/user/profile", userHandler.Profile)
	api.PUT("/user/profile", userHandler.UpdateProfile)
	api.POST("/comments", commentHandler.Create)
	api.DELETE("/comments/:id", commentHandler.Delete)

	// Editor desk; EDITOR+ enforced at the edge.
	api.GET("/editor/articles", articleHandler.Drafts)
	api.POST("/editor/articles", articleHandler.Create)
	api.PUT("/editor/articles/:id", articleHandler.Update)
	api.POST("/editor/articles/:id/publish", articleHandler.Publish)
	api.POST("/editor/articles/:id/unpublish", articleHandler.Unpublish)
	api.DELETE("/editor/articles/:id", articleHandler.Delete)
	api.POST("/editor/categories", articleHandler.CreateCategory)
	api.POST("/editor/images/upload-url", articleHandler.ImageUploadURL)

	// Admin back office; ADMIN enforced at the edge.
	api.GET("/admin/users", userHandler.ListUsers)
	api.PUT("/admin/users/:id/role", userHandler.UpdateRole)

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
