package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nekogravitycat/stay-booking-backend/internal/account"
	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/api"
	"github.com/nekogravitycat/stay-booking-backend/internal/auth"
	"github.com/nekogravitycat/stay-booking-backend/internal/booking"
	"github.com/nekogravitycat/stay-booking-backend/internal/calendar"
	"github.com/nekogravitycat/stay-booking-backend/internal/events"
	"github.com/nekogravitycat/stay-booking-backend/internal/media"
	"github.com/nekogravitycat/stay-booking-backend/internal/metrics"
	"github.com/nekogravitycat/stay-booking-backend/internal/ops"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/storage"
	"github.com/nekogravitycat/stay-booking-backend/internal/registry"
)

const jwtIssuer = "stay-booking-backend"

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	// DBPool selects the Postgres repositories. When nil everything is kept in memory.
	DBPool     *pgxpool.Pool
	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	RegistryAddress string
	RegistryOwner   string
	CreationFee     amount.Amount
	Policy          registry.CreationPolicy
	Calendar        calendar.Calendar

	UploadDir      string
	UploadMaxBytes int64

	Publisher events.Publisher
	// Registerer receives the application metrics. Defaults to a fresh registry.
	Registerer prometheus.Registerer
	Logger     *slog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Registry   registry.Service
	Bookings   booking.Service
	Dispatcher *ops.Dispatcher
	Metrics    *metrics.Metrics
}

type repositories struct {
	accounts account.Repository
	registry registry.Repository
	bookings booking.Repository
	images   media.Repository
}

func newRepositories(pool *pgxpool.Pool) repositories {
	if pool == nil {
		return repositories{
			accounts: account.NewMemoryRepository(),
			registry: registry.NewMemoryRepository(),
			bookings: booking.NewMemoryRepository(),
			images:   media.NewMemoryRepository(),
		}
	}
	return repositories{
		accounts: account.NewPgxRepository(pool),
		registry: registry.NewPgxRepository(pool),
		bookings: booking.NewPgxRepository(pool),
		images:   media.NewPgxRepository(pool),
	}
}

// NewContainer initializes all modules and returns the container.
// It opens the configured registry, creating it on first start.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.NopPublisher{}
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.NewRegistry()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL, jwtIssuer)
	stats := metrics.New(cfg.Registerer)
	repos := newRepositories(cfg.DBPool)

	// Account Module
	accountService := account.NewService(repos.accounts, passwordHasher, cfg.Logger)

	// Registry Module
	reg, err := registry.Bootstrap(ctx, repos.registry, cfg.RegistryOwner, registry.Config{
		Address:     cfg.RegistryAddress,
		CreationFee: cfg.CreationFee,
		Policy:      cfg.Policy,
		Publisher:   cfg.Publisher,
		Metrics:     stats,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open registry %s: %w", cfg.RegistryAddress, err)
	}

	// Booking Module
	bookingService := booking.NewService(reg, repos.bookings, cfg.Calendar, booking.Deps{
		Publisher: cfg.Publisher,
		Metrics:   stats,
		Logger:    cfg.Logger,
	})

	// Media Module
	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	mediaService := media.NewService(repos.images, store, cfg.UploadMaxBytes, cfg.Logger)

	dispatcher := ops.NewDispatcher(reg, bookingService, cfg.Logger)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Logger:         cfg.Logger,
		AccountService: accountService,
		Registry:       reg,
		BookingService: bookingService,
		MediaService:   mediaService,
		Dispatcher:     dispatcher,
		JWTManager:     jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Registry:   reg,
		Bookings:   bookingService,
		Dispatcher: dispatcher,
		Metrics:    stats,
	}, nil
}
