package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/identitykit/identity-api/docs"
	"github.com/identitykit/identity-api/internal/api/auth"
	"github.com/identitykit/identity-api/internal/api/handler"
	"github.com/identitykit/identity-api/internal/api/metrics"
	"github.com/identitykit/identity-api/internal/api/middleware"
	"github.com/identitykit/identity-api/internal/core/ports"
	"github.com/identitykit/identity-api/internal/core/service"
	mongodb "github.com/identitykit/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/identitykit/identity-api/internal/infrastructure/db/redis"
)

// Dependencies carries the process-level collaborators the router wires the
// request stack from. Everything here is constructed once in main.
type Dependencies struct {
	DB     *mongo.Database
	Client *mongo.Client
	Redis  *redis.Client
	Codec  ports.TokenCodec
	Audit  ports.AuditRecorder
	Cookie auth.CookieConfig

	LoginRateLimit  int           // max attempts per window per IP; 0 disables
	RateLimitWindow time.Duration

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(deps.DB)
	uow := mongodb.NewUnitOfWork(deps.Client)
	userService := service.NewUserService(userRepo, uow, deps.Log).
		WithHashObserver(func(d time.Duration) {
			metrics.PasswordHashDuration.Observe(d.Seconds())
		})

	backend := auth.NewBackend(deps.Codec, auth.NewBearerTransport(), auth.NewCookieTransport(deps.Cookie), deps.Log)
	manager := auth.NewManager(backend, userService, deps.Audit, deps.Log)

	authHandler := handler.NewAuthHandler(manager)
	authMiddleware := middleware.Auth(manager)

	// --- Auth routes ---
	var throttled []echo.MiddlewareFunc
	if deps.LoginRateLimit > 0 {
		limiter := redisdb.NewRateLimiter(deps.Redis, deps.LoginRateLimit, deps.RateLimitWindow)
		throttled = append(throttled, middleware.RateLimit(limiter, deps.Log))
	}

	e.POST("/login", authHandler.Login, throttled...)
	e.POST("/register", authHandler.Register, throttled...)
	e.POST("/logout", authHandler.Logout, authMiddleware)
	e.POST("/refresh", authHandler.Refresh)
	e.GET("/user/me", authHandler.Me, authMiddleware)
	e.GET("/users/:id", authHandler.GetUser, authMiddleware, middleware.Superuser())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
