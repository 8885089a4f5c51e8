package router

import (
	"errors"
	"log"
	"net/http"

	"wanderlog/internal/handlers"
	"wanderlog/internal/middleware"
	"wanderlog/internal/models"
	"wanderlog/internal/repositories"
	"wanderlog/pkg/config"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestID())
	log.Println("Global middleware configured.")
}

// NewHTTPErrorHandler maps typed application errors to JSON responses in one
// place so handlers never derive status codes themselves. Unclassified
// errors answer with a generic message; the detail is exposed only outside
// production.
func NewHTTPErrorHandler(isProduction bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"

		var appErr *models.AppError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status
			message = appErr.Message
			if appErr.Err != nil {
				log.Printf("%s: %v", appErr.Message, appErr.Err)
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		default:
			log.Printf("unhandled error: %v", err)
			if !isProduction {
				message = err.Error()
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, echo.Map{"success": false, "message": message})
		}
		if writeErr != nil {
			log.Printf("failed to write error response: %v", writeErr)
		}
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config) {
	if err := db.Postgres.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(userRepo)
	postHandler := handlers.NewPostHandler(postRepo, commentRepo, userRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo)

	Register(e, cfg, authHandler, userHandler, postHandler, commentHandler)
}

// Register wires the handlers into the route table. Split from SetupRoutes so
// tests can mount handlers backed by in-memory repositories.
func Register(e *echo.Echo, cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	postHandler *handlers.PostHandler,
	commentHandler *handlers.CommentHandler,
) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.IsProduction())

	api := e.Group("/api")
	api.GET("/health", handlers.HealthCheck)

	// Unprotected routes
	users := api.Group("/users")
	authHandler.RegisterAuthRoutes(users)
	postHandler.RegisterPublicRoutes(api)
	commentHandler.RegisterPublicRoutes(api)

	// Protected routes (require JWT authentication)
	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)
	protectedUsers := api.Group("/users", auth)
	userHandler.RegisterProfileRoutes(protectedUsers)
	protected := api.Group("", auth)
	postHandler.RegisterProtectedRoutes(protected)
	commentHandler.RegisterProtectedRoutes(protected)

	log.Println("All routes configured.")
}
