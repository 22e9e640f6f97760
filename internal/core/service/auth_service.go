package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

const (
	maxSignupAttempts   = 3
	maxUsernameAttempts = 1000
	generatedPassLen    = 12
)

// dummyHash is compared against when a username is unknown so that both
// failure paths of Login run one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("unknown-user-placeholder"), bcrypt.DefaultCost)
	return h
})

// AuthService implements registration, self-signup and login.
type AuthService struct {
	repo   ports.IdentityRepository
	tokens *TokenService
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(repo ports.IdentityRepository, tokens *TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, logger: logger, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidIdentity)
	}

	if err := s.ensureUnique(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	identity := &domain.Identity{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          role,
		IsApproved:    domain.ApprovedAtCreation(role),
		PharmacyName:  strings.TrimSpace(in.PharmacyName),
		LicenseNumber: strings.TrimSpace(in.LicenseNumber),
		Address:       strings.TrimSpace(in.Address),
		Phone:         strings.TrimSpace(in.Phone),
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.Create(ctx, identity); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().
		Str("identity_id", identity.ID).
		Str("role", string(identity.Role)).
		Bool("approved", identity.IsApproved).
		Msg("identity registered")

	return identity, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string, mode ports.LoginMode) (*ports.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if mode == ports.LoginStrict && !identity.IsApproved {
		return nil, domain.ErrNotApproved
	}

	token, expiresAt, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("identity_id", identity.ID).
		Stringer("mode", mode).
		Msg("session issued")

	return &ports.Session{Token: token, ExpiresAt: expiresAt, Identity: identity}, nil
}

// SignupPharmacy creates an unapproved pharmacy whose username is derived
// from its display name.
func (s *AuthService) SignupPharmacy(ctx context.Context, in ports.PharmacySignupInput) (*ports.SignupResult, error) {
	name := strings.TrimSpace(in.Name)
	base := domain.NormalizeUsername(name)
	email := normalizeEmail(in.Email)
	if base == "" || email == "" {
		return nil, fmt.Errorf("%w: pharmacy name and email are required", domain.ErrInvalidIdentity)
	}

	if taken, err := s.repo.EmailExists(ctx, email); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	} else if taken {
		return nil, domain.ErrDuplicateIdentity
	}

	password := in.Password
	var generated string
	if password == "" {
		p, err := generatePassword()
		if err != nil {
			return nil, err
		}
		password, generated = p, p
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	for attempt := 0; attempt < maxSignupAttempts; attempt++ {
		username, err := s.freeUsername(ctx, base)
		if err != nil {
			return nil, err
		}

		identity := &domain.Identity{
			ID:            uuid.NewString(),
			Username:      username,
			Email:         email,
			PasswordHash:  string(hash),
			Role:          domain.RolePharmacy,
			IsApproved:    false,
			PharmacyName:  name,
			LicenseNumber: strings.TrimSpace(in.License),
			Address:       strings.TrimSpace(in.Location),
			Phone:         strings.TrimSpace(in.Phone),
			CreatedAt:     s.now().UTC(),
		}

		err = s.repo.Create(ctx, identity)
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			// Lost a race on the username or the email; only the former is retryable.
			if taken, lookupErr := s.repo.EmailExists(ctx, email); lookupErr == nil && taken {
				return nil, domain.ErrDuplicateIdentity
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("signup: %w", err)
		}

		s.logger.Info().
			Str("identity_id", identity.ID).
			Str("username", identity.Username).
			Msg("pharmacy signup pending approval")

		return &ports.SignupResult{Identity: identity, GeneratedPassword: generated}, nil
	}

	return nil, domain.ErrDuplicateIdentity
}

func (s *AuthService) ensureUnique(ctx context.Context, username, email string) error {
	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return domain.ErrDuplicateIdentity
	}

	taken, err = s.repo.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return domain.ErrDuplicateIdentity
	}
	return nil
}

// freeUsername returns base, base_1, base_2, ... whichever is unused first.
func (s *AuthService) freeUsername(ctx context.Context, base string) (string, error) {
	for n := 0; n < maxUsernameAttempts; n++ {
		candidate := domain.DisambiguatedUsername(base, n)
		taken, err := s.repo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no free username for %q", domain.ErrDuplicateIdentity, base)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generatePassword() (string, error) {
	b := make([]byte, generatedPassLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
