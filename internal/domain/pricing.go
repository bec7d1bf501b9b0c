package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// groupDiscountThreshold is the largest group size that still pays full price.
const groupDiscountThreshold = 10

// MaxGroupSize is the largest group a single purchase may admit.
const MaxGroupSize = 10000

// PricingRule decides the discount for one ticket type.
type PricingRule struct {
	// PerPerson rules charge the unit price once per group member and require a group size.
	PerPerson bool
	Discount  func(quantity int) float64
}

func flatRate(rate float64) PricingRule {
	return PricingRule{Discount: func(int) float64 { return rate }}
}

var pricingRules = map[string]PricingRule{
	TicketSingleDayPass:    flatRate(0),
	TicketTwoDayPass:       flatRate(0.10),
	TicketAnnualMembership: flatRate(0.15),
	TicketChild:            flatRate(0),
	TicketGroup: {
		PerPerson: true,
		Discount: func(quantity int) float64 {
			if quantity > groupDiscountThreshold {
				return 0.20
			}
			return 0
		},
	},
	TicketVIPExperiencePass: flatRate(0),
}

// RuleFor returns the pricing rule for a ticket name. Unknown names sell as a single
// unit with no discount.
func RuleFor(name string) PricingRule {
	if rule, ok := pricingRules[name]; ok {
		return rule
	}
	return flatRate(0)
}

// ParseGroupSize accepts a decimal integer between one and MaxGroupSize.
func ParseGroupSize(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > MaxGroupSize {
		return 0, ErrInvalidQuantity
	}
	return n, nil
}

// Quote is the priced outcome of buying a ticket, before anything is recorded.
type Quote struct {
	TicketName   string
	UnitPrice    float64
	Quantity     int
	PerPerson    bool
	TotalPrice   float64
	DiscountRate float64
	FinalPrice   float64
}

// QuoteTicket prices a purchase of t. rawQuantity is only consulted for per-person tickets.
func QuoteTicket(t Ticket, rawQuantity string) (Quote, error) {
	rule := RuleFor(t.Name)
	quantity := 1
	if rule.PerPerson {
		n, err := ParseGroupSize(rawQuantity)
		if err != nil {
			return Quote{}, err
		}
		quantity = n
	}

	total := t.Price * float64(quantity)
	rate := rule.Discount(quantity)
	return Quote{
		TicketName:   t.Name,
		UnitPrice:    t.Price,
		Quantity:     quantity,
		PerPerson:    rule.PerPerson,
		TotalPrice:   total,
		DiscountRate: rate,
		FinalPrice:   RoundCents(total * (1 - rate)),
	}, nil
}

// DiscountPercent is the whole-number percentage shown in purchase records.
func (q Quote) DiscountPercent() int {
	return int(math.Round(q.DiscountRate * 100))
}

// Record renders the purchase history line for q.
func (q Quote) Record() string {
	name := q.TicketName
	if q.PerPerson {
		name = fmt.Sprintf("%s (%d people)", q.TicketName, q.Quantity)
	}
	return fmt.Sprintf("%s - $%.2f USD (Discount Applied: %d%%)", name, q.FinalPrice, q.DiscountPercent())
}

// RoundCents rounds an amount to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
