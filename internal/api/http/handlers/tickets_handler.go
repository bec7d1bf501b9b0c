package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/park-booking/internal/api/dto"
	"github.com/spec-kit/park-booking/internal/domain"
	"github.com/spec-kit/park-booking/internal/service"
	apperrors "github.com/spec-kit/park-booking/pkg/util"
)

// TicketsHandler serves the catalog and takes bookings.
type TicketsHandler struct {
	bookings *service.BookingService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(bookings *service.BookingService) *TicketsHandler {
	return &TicketsHandler{bookings: bookings}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets := h.bookings.Tickets(c.UserContext())
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(i, tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:index.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	index, err := dto.ParseIndex(c.Params("index"))
	if err != nil {
		return apperrors.NewValidationError("index must be an integer", map[string]any{"field": "index"})
	}
	ticket, err := h.bookings.Ticket(c.UserContext(), index)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(index, ticket)})
}

// Purchase POST /purchases.
func (h *TicketsHandler) Purchase(c *fiber.Ctx) error {
	user, err := userPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketIndex == nil {
		return apperrors.NewValidationError("ticket_index required", map[string]any{"field": "ticket_index"})
	}

	purchase, err := h.bookings.Purchase(c.UserContext(), service.PurchaseInput{
		Username:      user.Username,
		TicketIndex:   *req.TicketIndex,
		Quantity:      string(req.Quantity),
		VisitDate:     req.VisitDate,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": purchaseResponse(purchase)})
}

func ticketResponse(index int, ticket domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		Index:        index,
		Name:         ticket.Name,
		Description:  ticket.Description,
		Price:        ticket.Price,
		Validity:     ticket.Validity,
		DiscountNote: ticket.DiscountNote,
		Terms:        ticket.Terms,
	}
}

func purchaseResponse(p *domain.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:            p.ID,
		TicketIndex:   p.TicketIndex,
		TicketName:    p.TicketName,
		Quantity:      p.Quantity,
		UnitPrice:     p.UnitPrice,
		TotalPrice:    p.TotalPrice,
		DiscountRate:  p.DiscountRate,
		FinalPrice:    p.FinalPrice,
		VisitDate:     p.VisitDate,
		PaymentMethod: p.PaymentMethod,
		Record:        p.Record,
		PurchasedAt:   p.PurchasedAt,
	}
}
