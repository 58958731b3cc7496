package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"password-study/internal/domain"
	"password-study/internal/repository"
	"password-study/internal/scheme"
	"password-study/internal/sequence"
)

// ExperimentService registers subjects and provisions their credentials.
type ExperimentService interface {
	CreateUser(ctx context.Context) (*domain.User, error)
	ProvisionCredentials(ctx context.Context, user *domain.User) ([]domain.PasswordRecord, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type ExperimentConfig struct {
	Schemes   *scheme.Registry
	Domains   *sequence.Sequence
	Assigner  Assigner
	Users     repository.UserRepository
	Passwords repository.PasswordRepository
	Logger    *logrus.Logger
}

type experimentService struct {
	cfg ExperimentConfig
}

func NewExperimentService(cfg ExperimentConfig) ExperimentService {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &experimentService{cfg: cfg}
}

// CreateUser assigns a scheme, stores the user and provisions one credential
// per domain. A provisioning failure leaves the user row in place and returns
// ErrPartialProvisioning; callers retry with a fresh user.
func (s *experimentService) CreateUser(ctx context.Context) (*domain.User, error) {
	schemeID, err := s.cfg.Assigner.Assign(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign scheme: %w", err)
	}
	if _, err := s.cfg.Schemes.Get(schemeID); err != nil {
		return nil, err
	}

	user := &domain.User{Scheme: schemeID}
	if _, err := s.cfg.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if _, err := s.ProvisionCredentials(ctx, user); err != nil {
		return nil, err
	}

	s.cfg.Logger.WithFields(logrus.Fields{
		"user":   user.ID,
		"scheme": user.Scheme,
	}).Info("user created")
	return user, nil
}

func (s *experimentService) ProvisionCredentials(ctx context.Context, user *domain.User) ([]domain.PasswordRecord, error) {
	domains := s.cfg.Domains.Domains()
	records := make([]domain.PasswordRecord, 0, len(domains))
	for _, d := range domains {
		cred, err := s.cfg.Schemes.Generate(user.Scheme)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.PasswordRecord{
			UserID:     user.ID,
			Domain:     d,
			Scheme:     user.Scheme,
			Credential: cred,
		})
	}

	if err := s.cfg.Passwords.AddPasswords(ctx, records); err != nil {
		return nil, fmt.Errorf("%w: user %d: %w", ErrPartialProvisioning, user.ID, err)
	}
	return records, nil
}

func (s *experimentService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.cfg.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return user, nil
}
