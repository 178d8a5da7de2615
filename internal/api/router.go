package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/stay-booking-backend/internal/account"
	"github.com/nekogravitycat/stay-booking-backend/internal/auth"
	"github.com/nekogravitycat/stay-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/stay-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/stay-booking-backend/internal/media"
	mediaHttp "github.com/nekogravitycat/stay-booking-backend/internal/media/http"
	"github.com/nekogravitycat/stay-booking-backend/internal/ops"
	"github.com/nekogravitycat/stay-booking-backend/internal/registry"
	registryHttp "github.com/nekogravitycat/stay-booking-backend/internal/registry/http"
)

// Config holds everything the router needs.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	Logger         *slog.Logger
	AccountService account.Service
	Registry       registry.Service
	BookingService booking.Service
	MediaService   media.Service
	Dispatcher     *ops.Dispatcher
	JWTManager     *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: one structured line per request, tagged with a request id.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg.IsProduction, cfg.ProdOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "registry": cfg.Registry.Address()})
	})

	// authMiddleware rejects requests without a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// optionalAuth identifies the caller when a token is present.
	optionalAuth := auth.OptionalAuth(cfg.JWTManager)

	authHandler := NewAuthHandler(cfg.AccountService, cfg.JWTManager)
	callHandler := NewCallHandler(cfg.Dispatcher)
	registryHandler := registryHttp.NewHandler(cfg.Registry, cfg.Logger)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.Logger)
	mediaHandler := mediaHttp.NewHandler(cfg.MediaService, cfg.Logger)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/me", authMiddleware, authHandler.Me)
		v1.POST("/call", optionalAuth, callHandler.Call)

		registryHttp.RegisterRoutes(v1, registryHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, optionalAuth)
		mediaHttp.RegisterRoutes(v1, mediaHandler, authMiddleware)
	}

	return r
}

// allowedOrigins returns the configured origins in production and local dev servers otherwise.
func allowedOrigins(isProduction bool, prodOrigins string) []string {
	if !isProduction {
		return []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8081"}
	}
	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
