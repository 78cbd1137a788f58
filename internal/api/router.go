package api

import (
	"strconv"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/postboard/blog-api/docs"
	"github.com/postboard/blog-api/internal/api/graph"
	"github.com/postboard/blog-api/internal/api/handler"
	"github.com/postboard/blog-api/internal/api/middleware"
	"github.com/postboard/blog-api/internal/core/ports"
)

// ImageStore is the storage the upload and readiness handlers need.
type ImageStore interface {
	ports.ImageStore
	handler.WritableChecker
	Dir() string
}

// Deps holds everything the router wires into handlers.
type Deps struct {
	DB             *mongo.Database
	Schema         *graphql.Schema
	Tokens         ports.TokenVerifier
	Images         ImageStore
	Discarder      ports.ImageDiscarder
	MaxUploadBytes int64
	Log            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Pre(middleware.CORS())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("blog"))
	e.Use(middleware.Identify(d.Tokens, d.Log))

	// --- GraphQL ---
	gql := graph.NewHandler(d.Schema, d.Log)
	e.Any("/graphql", gql.Serve)

	// --- Images ---
	imageHandler := handler.NewImageHandler(d.Images, d.Discarder, d.Log)
	e.PUT("/post-image", imageHandler.Upload,
		middleware.RequireIdentity(),
		echomiddleware.BodyLimit(strconv.FormatInt(d.MaxUploadBytes, 10)+"B"),
	)
	e.Static("/images", d.Images.Dir())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.DB, d.Images)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
