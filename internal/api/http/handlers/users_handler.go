package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/park-booking/internal/api/dto"
	"github.com/spec-kit/park-booking/internal/auth"
	"github.com/spec-kit/park-booking/internal/domain"
	"github.com/spec-kit/park-booking/internal/service"
	apperrors "github.com/spec-kit/park-booking/pkg/util"
)

// UsersHandler exposes auth and account endpoints for visitors.
type UsersHandler struct {
	auth     *service.AuthService
	bookings *service.BookingService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, bookings *service.BookingService) *UsersHandler {
	return &UsersHandler{auth: authService, bookings: bookings}
}

// Register handles POST /auth/users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, err := h.auth.RegisterUser(c.UserContext(), service.RegistrationInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt},
		},
	})
}

// Login handles POST /auth/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	user, token, err := h.auth.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt},
		},
	})
}

// Me handles GET /me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, err := userPrincipal(c)
	if err != nil {
		return err
	}
	current, err := h.bookings.Account(c.UserContext(), user.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(current)})
}

// UpdateMe handles PATCH /me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	user, err := userPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.bookings.UpdateDetails(c.UserContext(), user.Username, service.DetailsInput{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(updated)})
}

// Purchases handles GET /me/purchases.
func (h *UsersHandler) Purchases(c *fiber.Ctx) error {
	user, err := userPrincipal(c)
	if err != nil {
		return err
	}
	history, err := h.bookings.History(c.UserContext(), user.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": history})
}

func userPrincipal(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	return principal.User, nil
}

func userResponse(user *domain.User) dto.UserResponse {
	history := user.PurchaseHistory
	if history == nil {
		history = []string{}
	}
	return dto.UserResponse{
		Username:        user.Username,
		Email:           user.Email,
		PhoneNumber:     user.PhoneNumber,
		DateOfBirth:     user.DateOfBirth,
		PurchaseHistory: history,
	}
}
