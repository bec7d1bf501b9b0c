package events

import (
	"time"

	"github.com/spec-kit/park-booking/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered     EventType = "user_registered"
	EventUserUpdated        EventType = "user_updated"
	EventUserDeleted        EventType = "user_deleted"
	EventTicketPurchased    EventType = "ticket_purchased"
	EventTicketPriceChanged EventType = "ticket_price_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type     domain.SubjectType `json:"type"`
	Username string             `json:"username,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
}

// UserUpdatedPayload lists the fields that were supplied.
type UserUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// TicketPurchasedPayload payload.
type TicketPurchasedPayload struct {
	PurchaseID    string  `json:"purchase_id"`
	TicketName    string  `json:"ticket_name"`
	Quantity      int     `json:"quantity"`
	FinalPrice    float64 `json:"final_price"`
	VisitDate     string  `json:"visit_date"`
	PaymentMethod string  `json:"payment_method"`
}

// TicketPriceChangedPayload payload.
type TicketPriceChangedPayload struct {
	OldPrice float64 `json:"old_price"`
	NewPrice float64 `json:"new_price"`
}
