package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/wolfman30/hospital-platform/internal/identity"
	"github.com/wolfman30/hospital-platform/pkg/logging"
)

// Service owns registration, login, and profile lookup.
type Service struct {
	repo     Repository
	tokens   *TokenIssuer
	sessions *SessionRegistry
	logger   *logging.Logger
}

// NewService constructs an auth service. The session registry is optional.
func NewService(repo Repository, tokens *TokenIssuer, sessions *SessionRegistry, logger *logging.Logger) *Service {
	if repo == nil {
		panic("auth: repository required")
	}
	if tokens == nil {
		panic("auth: token issuer required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, tokens: tokens, sessions: sessions, logger: logger}
}

// Register creates a patient profile and signs them in.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &Profile{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         identity.RolePatient,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID, created.Role)
	if err != nil {
		return nil, err
	}

	s.startSession(created)
	s.logger.Info("user registered", "user_id", created.ID, "role", created.Role)
	return &SessionResponse{Token: token, Profile: created}, nil
}

// Login verifies credentials and issues a session token. Credential
// failures are indistinguishable from unknown emails.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*SessionResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	p, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(p.ID, p.Role)
	if err != nil {
		return nil, err
	}

	s.startSession(p)
	s.logger.Info("user logged in", "user_id", p.ID, "role", p.Role)
	return &SessionResponse{Token: token, Profile: p}, nil
}

// ProfileFor returns the profile behind a verified token, preferring the
// session registry over a store round-trip.
func (s *Service) ProfileFor(ctx context.Context, userID string) (*Profile, error) {
	if s.sessions != nil {
		if p, ok := s.sessions.Get(userID); ok {
			return p, nil
		}
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) startSession(p *Profile) {
	if s.sessions != nil {
		s.sessions.Start(p)
	}
}

// FriendlyAuthError translates raw credential errors into the message shown
// to users; everything else passes through unchanged.
func FriendlyAuthError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if strings.Contains(strings.ToLower(msg), "invalid login credentials") {
		return "Incorrect email or password."
	}
	return msg
}
