package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/inventory-system/internal/core/domain"
	"github.com/99minutos/inventory-system/internal/core/ports"
	"github.com/99minutos/inventory-system/internal/pkg/metrics"
)

// AuthService implements registration, login and bearer-token identity resolution.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	cache  ports.SessionCache // optional
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	cache ports.SessionCache,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		cache:  cache,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user and stores a freshly issued token on it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := domain.NormalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" || in.Role == "" {
		return nil, domain.NewValidationError("All fields are mandatory")
	}
	if !domain.ValidEmail(email) {
		return nil, domain.NewValidationError("Please fill a valid email address")
	}
	role := domain.Role(in.Role)
	if !role.Valid() {
		return nil, domain.NewValidationError("role must be one of: admin manager staff")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.discard(ctx, user.ID)
		return nil, fmt.Errorf("issue token: %w", err)
	}
	user.Token = token
	user.UpdatedAt = s.now()
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		s.discard(ctx, user.ID)
		return nil, err
	}

	metrics.UsersRegisteredTotal.WithLabelValues(string(saved.Role)).Inc()
	s.logger.Info().Str("user_id", saved.ID).Str("role", string(saved.Role)).Msg("user registered")
	return saved, nil
}

// discard removes a user whose registration could not be completed so the
// email can be registered again.
func (s *AuthService) discard(ctx context.Context, id string) {
	if err := s.repo.Delete(context.WithoutCancel(ctx), id); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("failed to remove incomplete registration")
	}
}

// Login checks credentials and returns the user with its stored token. A new
// token is issued only when the stored one no longer verifies.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.tokens.Verify(user.Token); err != nil {
		user, err = s.reissue(ctx, user)
		if err != nil {
			return nil, err
		}
	}

	metrics.LoginsTotal.WithLabelValues("accepted").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, nil
}

func (s *AuthService) reissue(ctx context.Context, user *domain.User) (*domain.User, error) {
	old := user.Token
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	user.Token = token
	user.UpdatedAt = s.now()
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	if old != "" {
		s.forget(ctx, old)
	}
	s.logger.Info().Str("user_id", saved.ID).Msg("session token reissued")
	return saved, nil
}

// CurrentUser reloads the user behind an already resolved identity.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindByID(ctx, userID)
}

// ResolveToken finds the user whose stored token equals token exactly and then
// verifies the token cryptographically. An unknown token yields
// domain.ErrUserNotFound; a known but expired or tampered one yields
// domain.ErrInvalidToken.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.lookupToken(ctx, token)
	if err != nil {
		return nil, err
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if userID != user.ID {
		s.logger.Warn().Str("user_id", user.ID).Msg("stored token subject mismatch")
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func (s *AuthService) lookupToken(ctx context.Context, token string) (*domain.User, error) {
	if s.cache != nil {
		userID, err := s.cache.Get(ctx, token)
		if err != nil {
			s.logger.Warn().Err(err).Msg("session cache lookup failed, falling back to store")
		} else if userID != "" {
			user, err := s.repo.FindByID(ctx, userID)
			if err == nil && user.Token == token {
				metrics.SessionCacheTotal.WithLabelValues("hit").Inc()
				return user, nil
			}
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			// Entry no longer matches storage.
			s.forget(ctx, token)
		}
		metrics.SessionCacheTotal.WithLabelValues("miss").Inc()
	}

	user, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, token, user.ID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to cache session")
		}
	}
	return user, nil
}

func (s *AuthService) forget(ctx context.Context, token string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, token); err != nil {
		s.logger.Warn().Err(err).Msg("failed to evict cached session")
	}
}
