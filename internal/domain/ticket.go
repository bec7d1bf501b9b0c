package domain

// Names of the default catalog entries. The pricing table is keyed on them.
const (
	TicketSingleDayPass     = "Single Day Pass"
	TicketTwoDayPass        = "Two-Day Pass"
	TicketAnnualMembership  = "Annual Membership"
	TicketChild             = "Child Ticket"
	TicketGroup             = "Group Ticket (10+)"
	TicketVIPExperiencePass = "VIP Experience Pass"
)

// Ticket is a catalog entry. Only Price and SoldCount change after seeding.
type Ticket struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Validity     string  `json:"validity"`
	DiscountNote string  `json:"discount_note"`
	Terms        string  `json:"terms"`
	SoldCount    int     `json:"sold_count"`
}

// DefaultCatalog returns a fresh copy of the six tickets the park sells.
func DefaultCatalog() []Ticket {
	return []Ticket{
		{
			Name:         TicketSingleDayPass,
			Description:  "Access to the park for one day",
			Price:        275,
			Validity:     "1 day",
			DiscountNote: "None",
			Terms:        "Valid only on selected date",
		},
		{
			Name:         TicketTwoDayPass,
			Description:  "Access to the park for two consecutive days",
			Price:        480,
			Validity:     "2 days",
			DiscountNote: "10% discount for online purchase",
			Terms:        "Cannot be split over multiple trips",
		},
		{
			Name:         TicketAnnualMembership,
			Description:  "Unlimited access for one year",
			Price:        1840,
			Validity:     "1 year",
			DiscountNote: "15% discount on renewal",
			Terms:        "Must be used by the same person",
		},
		{
			Name:         TicketChild,
			Description:  "Discounted ticket for children (ages 3-12)",
			Price:        185,
			Validity:     "1 day",
			DiscountNote: "None",
			Terms:        "Valid only on selected date, must be accompanied by an adult",
		},
		{
			Name:         TicketGroup,
			Description:  "Special rate for groups of 10 or more",
			Price:        220,
			Validity:     "1 day",
			DiscountNote: "20% off for groups of 20 or more",
			Terms:        "Must be booked in advance",
		},
		{
			Name:         TicketVIPExperiencePass,
			Description:  "Includes expedited access and reserved seating for shows",
			Price:        550,
			Validity:     "1 day",
			DiscountNote: "None",
			Terms:        "Limited availability, must be purchased in advance",
		},
	}
}

// SalesLine is one row of the administrator's sold-tickets report.
type SalesLine struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	SoldCount int     `json:"sold_count"`
}

// SalesReport summarises sold counts across the catalog.
type SalesReport struct {
	Lines     []SalesLine `json:"lines"`
	TotalSold int         `json:"total_sold"`
}
