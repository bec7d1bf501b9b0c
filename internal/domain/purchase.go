package domain

import "time"

// Purchase is the receipt returned to the caller after a successful booking.
type Purchase struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	TicketIndex   int       `json:"ticket_index"`
	TicketName    string    `json:"ticket_name"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	TotalPrice    float64   `json:"total_price"`
	DiscountRate  float64   `json:"discount_rate"`
	FinalPrice    float64   `json:"final_price"`
	VisitDate     string    `json:"visit_date"`
	PaymentMethod string    `json:"payment_method"`
	Record        string    `json:"record"`
	PurchasedAt   time.Time `json:"purchased_at"`
}
