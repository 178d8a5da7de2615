package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/auth"
)

// Service defines business logic related to accounts.
type Service interface {
	Register(ctx context.Context, id, password string) (*Account, error)
	Login(ctx context.Context, id, password string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	logger *slog.Logger

	minPasswordLength int
}

// NewService creates a new account Service.
func NewService(repo Repository, hasher auth.PasswordHasher, logger *slog.Logger) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		logger:            logger,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, id, password string) (*Account, error) {
	cleanID := normalizeID(id)
	if !ValidID(cleanID) {
		return nil, ErrInvalidID
	}
	if len(password) < s.minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a := &Account{ID: cleanID, PasswordHash: hash}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account registered", "account", a.ID)
	return a, nil
}

func (s *service) Login(ctx context.Context, id, password string) (*Account, error) {
	cleanID := normalizeID(id)
	if cleanID == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	a, err := s.repo.GetByID(ctx, cleanID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	if err := s.hasher.Compare(a.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.ErrorContext(ctx, "stored password hash is unreadable", "account", a.ID, "error", err)
		}
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed timestamp update does not fail the login.
	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, a.ID, now); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login", "account", a.ID, "error", err)
	} else {
		a.LastLoginAt = &now
	}

	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
