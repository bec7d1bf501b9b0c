package service

import (
	"context"

	"github.com/spec-kit/park-booking/internal/auth"
	"github.com/spec-kit/park-booking/internal/domain"
)

// AuthService issues session tokens around the booking service's credential checks.
type AuthService struct {
	bookings *BookingService
	tokenMgr *auth.TokenManager
	admin    string
}

// NewAuthService builds the service.
func NewAuthService(bookings *BookingService, tokens *auth.TokenManager) *AuthService {
	return &AuthService{bookings: bookings, tokenMgr: tokens, admin: bookings.admin.Username}
}

// RegisterUser creates a new visitor account and signs them in.
func (s *AuthService) RegisterUser(ctx context.Context, input RegistrationInput) (*domain.User, domain.Token, error) {
	user, err := s.bookings.Register(ctx, input)
	if err != nil {
		return nil, domain.Token{}, err
	}
	token, err := s.tokenMgr.GenerateToken(user.Username, domain.SubjectTypeUser)
	if err != nil {
		return nil, domain.Token{}, err
	}
	return user, token, nil
}

// LoginUser authenticates a visitor.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (*domain.User, domain.Token, error) {
	user, err := s.bookings.Authenticate(ctx, username, password)
	if err != nil {
		return nil, domain.Token{}, err
	}
	token, err := s.tokenMgr.GenerateToken(user.Username, domain.SubjectTypeUser)
	if err != nil {
		return nil, domain.Token{}, err
	}
	return user, token, nil
}

// LoginAdmin authenticates the administrator.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (domain.Token, error) {
	if err := s.bookings.AuthenticateAdmin(ctx, username, password); err != nil {
		return domain.Token{}, err
	}
	return s.tokenMgr.GenerateToken(s.admin, domain.SubjectTypeAdmin)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
