package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nekogravitycat/stay-booking-backend/internal/account"
	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/events"
	"github.com/nekogravitycat/stay-booking-backend/internal/metrics"
)

var tracer = otel.Tracer("github.com/nekogravitycat/stay-booking-backend/internal/registry")

// DefaultCreationFee is the deposit required to mint a resource: 10 NEAR.
var DefaultCreationFee = amount.NEAR.Mul(10)

// Service is the resource factory: it issues uniquely named resources and tracks them.
type Service interface {
	Address() string
	CreationFee() amount.Amount
	GetOwner(ctx context.Context) (string, error)
	CheckNameAvailable(ctx context.Context, name string) (bool, error)
	CreateResource(ctx context.Context, caller string, deposit amount.Amount, req CreateRequest) (*Handle, error)
	ListResources(ctx context.Context) ([]Handle, error)
	Get(ctx context.Context, name string) (*Record, error)
}

// Config holds the collaborators and settings of a registry.
type Config struct {
	Address     string
	CreationFee amount.Amount
	Policy      CreationPolicy
	Publisher   events.Publisher
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

type service struct {
	repo  Repository
	meta  Meta
	cfg   Config
	log   *slog.Logger
	stats *metrics.Metrics
}

// ResourceCreated is the payload of the resource.created event.
type ResourceCreated struct {
	Name     string        `json:"name"`
	Address  string        `json:"address"`
	Owner    string        `json:"owner"`
	Price    amount.Amount `json:"price"`
	Registry string        `json:"registry"`
}

// New creates the registry at cfg.Address owned by owner. It succeeds once per address;
// later calls fail with ErrAlreadyInitialized.
func New(ctx context.Context, repo Repository, owner string, cfg Config) (Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if !account.ValidID(owner) {
		return nil, ErrInvalidOwner
	}

	meta := &Meta{Address: cfg.Address, Owner: owner}
	if err := repo.Init(ctx, meta); err != nil {
		return nil, err
	}
	cfg.Logger.InfoContext(ctx, "registry created", "registry", meta.Address, "owner", meta.Owner)
	return newService(repo, *meta, cfg), nil
}

// Open attaches to a registry previously created with New.
func Open(ctx context.Context, repo Repository, cfg Config) (Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	meta, err := repo.GetMeta(ctx, cfg.Address)
	if err != nil {
		return nil, err
	}
	return newService(repo, *meta, cfg), nil
}

// Bootstrap opens the registry at cfg.Address, creating it for owner on first start.
// The stored owner always wins over the configured one.
func Bootstrap(ctx context.Context, repo Repository, owner string, cfg Config) (Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	svc, err := Open(ctx, repo, cfg)
	if err == nil {
		if stored, _ := svc.GetOwner(ctx); stored != owner {
			cfg.Logger.WarnContext(ctx, "configured registry owner ignored; owner is immutable",
				"registry", cfg.Address, "stored_owner", stored, "configured_owner", owner)
		}
		return svc, nil
	}
	if !errors.Is(err, ErrNotInitialized) {
		return nil, err
	}

	svc, err = New(ctx, repo, owner, cfg)
	if errors.Is(err, ErrAlreadyInitialized) {
		// Another instance won the race to create it.
		return Open(ctx, repo, cfg)
	}
	return svc, err
}

func (c *Config) validate() error {
	if !account.ValidID(c.Address) {
		return ErrInvalidAddress
	}
	if c.Policy == nil {
		c.Policy = OpenPolicy{}
	}
	if c.Publisher == nil {
		c.Publisher = events.NopPublisher{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Metrics == nil {
		return fmt.Errorf("registry %s: metrics are required", c.Address)
	}
	return nil
}

func newService(repo Repository, meta Meta, cfg Config) *service {
	return &service{
		repo:  repo,
		meta:  meta,
		cfg:   cfg,
		log:   cfg.Logger.With("registry", meta.Address),
		stats: cfg.Metrics,
	}
}

func (s *service) Address() string {
	return s.meta.Address
}

func (s *service) CreationFee() amount.Amount {
	return s.cfg.CreationFee
}

func (s *service) GetOwner(_ context.Context) (string, error) {
	return s.meta.Owner, nil
}

func (s *service) CheckNameAvailable(ctx context.Context, name string) (bool, error) {
	if !ValidName(name) {
		return false, nil
	}
	exists, err := s.repo.Exists(ctx, s.meta.Address, name)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *service) CreateResource(ctx context.Context, caller string, deposit amount.Amount, req CreateRequest) (_ *Handle, err error) {
	ctx, span := tracer.Start(ctx, "registry.CreateResource")
	defer span.End()
	defer s.stats.Observe("create_resource", time.Now())
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.stats.IncrementCreateRejected(rejectionReason(err))
		}
	}()

	// Names are matched exactly, as CheckNameAvailable does.
	name := req.Name
	span.SetAttributes(attribute.String("resource.name", name), attribute.String("caller", caller))

	if !s.cfg.Policy.CanCreate(caller, s.meta.Owner) {
		return nil, ErrUnauthorized
	}
	if !ValidName(name) {
		return nil, ErrInvalidName
	}

	// Fast path; the store still arbitrates concurrent creators below.
	exists, err := s.repo.Exists(ctx, s.meta.Address, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrNameUnavailable
	}

	if req.Price.IsZero() {
		return nil, ErrInvalidPrice
	}
	if req.Rooms != nil && (*req.Rooms == 0 || *req.Rooms > math.MaxInt64) {
		return nil, ErrInvalidRooms
	}
	location := strings.TrimSpace(req.Location)
	if !validLocation(location) {
		return nil, ErrInvalidLocation
	}
	if deposit.Less(s.cfg.CreationFee) {
		return nil, ErrInsufficientPayment
	}

	var rooms *uint64
	if req.Rooms != nil {
		n := *req.Rooms
		rooms = &n
	}

	var image *string
	if req.Image != nil && strings.TrimSpace(*req.Image) != "" {
		img := strings.TrimSpace(*req.Image)
		image = &img
	}

	rec := &Record{
		RegistryAddress: s.meta.Address,
		Name:            name,
		Address:         DeriveAddress(name, s.meta.Address),
		Owner:           caller,
		Price:           req.Price,
		Rooms:           rooms,
		Location:        location,
		Features:        cleanFeatures(req.Features),
		Image:           image,
		Deposit:         deposit,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.stats.IncrementResourcesCreated()
	s.log.InfoContext(ctx, "resource created", "resource", rec.Address, "owner", rec.Owner, "price", rec.Price.String())

	evt := ResourceCreated{
		Name:     rec.Name,
		Address:  rec.Address,
		Owner:    rec.Owner,
		Price:    rec.Price,
		Registry: rec.RegistryAddress,
	}
	if pubErr := s.cfg.Publisher.PublishJSON(ctx, events.KeyResourceCreated, evt); pubErr != nil {
		s.log.WarnContext(ctx, "failed to publish event", "key", events.KeyResourceCreated, "error", pubErr)
	}

	h := rec.Handle()
	return &h, nil
}

func (s *service) ListResources(ctx context.Context) ([]Handle, error) {
	return s.repo.List(ctx, s.meta.Address)
}

func (s *service) Get(ctx context.Context, name string) (*Record, error) {
	if !ValidName(name) {
		return nil, ErrResourceNotFound
	}
	return s.repo.GetByName(ctx, s.meta.Address, name)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNameUnavailable):
		return "name_unavailable"
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrInvalidRooms),
		errors.Is(err, ErrInvalidLocation):
		return "invalid_input"
	case errors.Is(err, ErrInsufficientPayment):
		return "insufficient_payment"
	default:
		return "internal"
	}
}
