package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/park-booking/internal/api/dto"
	"github.com/spec-kit/park-booking/internal/observability"
	"github.com/spec-kit/park-booking/internal/service"
	apperrors "github.com/spec-kit/park-booking/pkg/util"
)

// AdminHandler exposes the administrator console.
type AdminHandler struct {
	auth     *service.AuthService
	bookings *service.BookingService
	metrics  *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, bookings *service.BookingService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{auth: authService, bookings: bookings, metrics: metrics}
}

// Login handles POST /auth/admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, err := h.auth.LoginAdmin(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"auth": dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt},
		},
	})
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.bookings.Usernames(c.UserContext())})
}

// DeleteUser DELETE /admin/users/:username.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.bookings.DeleteUser(c.UserContext(), c.Params("username")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetPrice PUT /admin/tickets/price.
func (h *AdminHandler) SetPrice(c *fiber.Ctx) error {
	var req dto.SetPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || req.Price == nil {
		return apperrors.NewValidationError("name and price required", nil)
	}

	ticket, err := h.bookings.SetPrice(c.UserContext(), strings.TrimSpace(req.Name), *req.Price)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"name": ticket.Name, "price": ticket.Price}})
}

// SalesReport GET /admin/tickets/sales.
func (h *AdminHandler) SalesReport(c *fiber.Ctx) error {
	report := h.bookings.SalesReport(c.UserContext())
	resp := dto.SalesReportResponse{
		Lines:     make([]dto.SalesLineResponse, 0, len(report.Lines)),
		TotalSold: report.TotalSold,
	}
	for i, line := range report.Lines {
		resp.Lines = append(resp.Lines, dto.SalesLineResponse{
			Index:     i,
			Name:      line.Name,
			Price:     line.Price,
			SoldCount: line.SoldCount,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Metrics GET /admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
