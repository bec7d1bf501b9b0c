package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// TicketResponse is one catalog entry with its position.
type TicketResponse struct {
	Index        int     `json:"index"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Validity     string  `json:"validity"`
	DiscountNote string  `json:"discount_note"`
	Terms        string  `json:"terms"`
}

// Quantity is a group size exactly as the client sent it. Both 15 and "15" decode to
// "15"; validation happens in the domain so that "abc" and 2.5 are rejected there.
type Quantity string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("quantity must be a number or a string")
	}
	*q = Quantity(n.String())
	return nil
}

// PurchaseRequest payload for POST /purchases.
type PurchaseRequest struct {
	TicketIndex   *int     `json:"ticket_index"`
	Quantity      Quantity `json:"quantity"`
	VisitDate     string   `json:"visit_date"`
	PaymentMethod string   `json:"payment_method"`
}

// PurchaseResponse describes a completed booking.
type PurchaseResponse struct {
	ID            string    `json:"id"`
	TicketIndex   int       `json:"ticket_index"`
	TicketName    string    `json:"ticket_name"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	TotalPrice    float64   `json:"total_price"`
	DiscountRate  float64   `json:"discount_rate"`
	FinalPrice    float64   `json:"final_price"`
	VisitDate     string    `json:"visit_date,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Record        string    `json:"record"`
	PurchasedAt   time.Time `json:"purchased_at"`
}

// ParseIndex reads a zero-based catalog index from a path parameter.
func ParseIndex(raw string) (int, error) {
	return strconv.Atoi(raw)
}
