package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookhive/api/docs"
	"github.com/bookhive/api/internal/api/handler"
	"github.com/bookhive/api/internal/api/middleware"
	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

// Services are the use cases the HTTP layer is wired to.
type Services struct {
	Auth          ports.AuthService
	Accounts      ports.AccountService
	Catalog       ports.CatalogService
	Library       ports.LibraryService
	Blog          ports.BlogService
	Social        ports.SocialService
	Notifications ports.NotificationService

	// HealthChecks are pinged by the readiness probe, keyed by dependency name.
	HealthChecks map[string]handler.DependencyCheck
}

type Options struct {
	Paging handler.Paging
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// HTTP metrics go to a per-router registry so building several routers
	// (tests) never collides on the default one.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "bookhive",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Platform ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(svc.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Dependencies ---
	accounts := handler.NewAccountHandler(svc.Auth, svc.Accounts, opts.Paging)
	catalog := handler.NewCatalogHandler(svc.Catalog, opts.Paging)
	library := handler.NewLibraryHandler(svc.Library, svc.Catalog, opts.Paging)
	blog := handler.NewBlogHandler(svc.Blog, opts.Paging)
	social := handler.NewSocialHandler(svc.Social, opts.Paging)
	notifications := handler.NewNotificationHandler(svc.Notifications, opts.Paging)

	authed := middleware.RequireAuth()
	staff := []echo.MiddlewareFunc{authed, middleware.RequireStaff()}

	api := e.Group("/api")
	api.Use(middleware.Auth(svc.Auth))

	// --- Accounts ---
	api.POST("/accounts/register", accounts.Register)
	api.POST("/accounts/login", accounts.Login)
	api.POST("/accounts/logout", accounts.Logout, authed)
	api.GET("/accounts/profile", accounts.Profile, authed)
	api.PUT("/accounts/profile", accounts.UpdateProfile, authed)
	api.PATCH("/accounts/profile", accounts.UpdateProfile, authed)
	api.POST("/accounts/follow/:user_id", accounts.Follow, authed)
	api.DELETE("/accounts/follow/:user_id", accounts.Unfollow, authed)
	api.POST("/accounts/unfollow/:user_id", accounts.Unfollow, authed)
	api.GET("/accounts/:user_id/followers", accounts.Followers)
	api.GET("/accounts/:user_id/following", accounts.Following)
	api.PUT("/accounts/:user_id/role", accounts.SetRole, staff...)
	api.PUT("/accounts/:user_id/permissions", accounts.SetPermissions, staff...)

	// --- Catalog: books (IsAuthenticatedOrReadOnly) ---
	api.GET("/books", catalog.ListBooks)
	api.GET("/books/:id", catalog.GetBook)
	api.POST("/books", catalog.CreateBook, authed)
	api.POST("/books/create", catalog.CreateBook, authed)
	api.PUT("/books/:id", catalog.UpdateBook, authed)
	api.PATCH("/books/:id", catalog.UpdateBook, authed)
	api.PUT("/books/:id/update", catalog.UpdateBook, authed)
	api.PATCH("/books/:id/update", catalog.UpdateBook, authed)
	api.DELETE("/books/:id", catalog.DeleteBook, authed)
	api.DELETE("/books/:id/delete", catalog.DeleteBook, authed)

	// --- Catalog: authors (IsAdminOrReadOnly) ---
	api.GET("/authors", catalog.ListAuthors)
	api.GET("/authors/:id", catalog.GetAuthor)
	api.POST("/authors", catalog.CreateAuthor, staff...)
	api.PUT("/authors/:id", catalog.UpdateAuthor, staff...)
	api.PATCH("/authors/:id", catalog.UpdateAuthor, staff...)
	api.DELETE("/authors/:id", catalog.DeleteAuthor, staff...)

	// --- Library ---
	api.GET("/library/books", library.ListBooks)
	api.GET("/library/books/by-author", library.BooksByAuthor)
	api.POST("/library/books", catalog.CreateBook, authed, middleware.RequirePermission(domain.PermAddBook))
	api.PUT("/library/books/:id", catalog.UpdateBook, authed, middleware.RequirePermission(domain.PermChangeBook))
	api.DELETE("/library/books/:id", catalog.DeleteBook, authed, middleware.RequirePermission(domain.PermDeleteBook))
	api.GET("/library/libraries", library.ListLibraries)
	api.POST("/library/libraries", library.CreateLibrary, staff...)
	api.GET("/library/libraries/:id", library.GetLibrary)
	api.POST("/library/libraries/:id/books", library.AddBooks, staff...)
	api.DELETE("/library/libraries/:id/books/:book_id", library.RemoveBook, staff...)
	api.GET("/library/libraries/:id/librarian", library.GetLibrarian)
	api.PUT("/library/libraries/:id/librarian", library.AssignLibrarian, staff...)
	for _, role := range []string{domain.RoleAdmin, domain.RoleLibrarian, domain.RoleMember} {
		api.GET("/library/"+role, library.RoleView(role), authed, middleware.RequireRole(role))
	}

	// --- Blog ---
	api.GET("/posts", blog.ListPosts)
	api.POST("/posts", blog.CreatePost, authed)
	api.GET("/posts/:id", blog.GetPost)
	api.PUT("/posts/:id", blog.UpdatePost, authed)
	api.PATCH("/posts/:id", blog.UpdatePost, authed)
	api.DELETE("/posts/:id", blog.DeletePost, authed)
	api.GET("/posts/:id/comments", blog.ListPostComments)
	api.POST("/posts/:id/comments", blog.AddComment, authed)
	api.POST("/posts/:id/add_comment", blog.AddComment, authed)
	api.GET("/comments", blog.ListComments)
	api.GET("/comments/:id", blog.GetComment)
	api.PUT("/comments/:id", blog.UpdateComment, authed)
	api.PATCH("/comments/:id", blog.UpdateComment, authed)
	api.DELETE("/comments/:id", blog.DeleteComment, authed)
	api.GET("/tags", blog.Tags)
	api.GET("/tags/:slug/posts", blog.PostsByTag)
	api.GET("/search", blog.Search)

	// --- Social ---
	api.GET("/feed", social.Feed, authed)
	api.POST("/posts/:id/like", social.Like, authed)
	api.DELETE("/posts/:id/like", social.Unlike, authed)
	api.POST("/posts/:id/unlike", social.Unlike, authed)

	// --- Notifications ---
	api.GET("/notifications", notifications.List, authed)
	api.GET("/notifications/unread_count", notifications.UnreadCount, authed)
	api.POST("/notifications/mark_all_as_read", notifications.MarkAllAsRead, authed)
	api.POST("/notifications/:id/mark_as_read", notifications.MarkAsRead, authed)

	return e
}

// requestLogger feeds echo's request log values into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
