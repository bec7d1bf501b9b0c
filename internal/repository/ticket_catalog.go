package repository

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/park-booking/internal/domain"
	"github.com/spec-kit/park-booking/internal/persistence"
)

// TicketCatalog owns the ordered ticket list. Entries are never added or removed once
// loaded; only price and sold count change.
type TicketCatalog struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
	blobs   persistence.BlobStore
	key     string
}

// NewTicketCatalog loads the catalog stored under key, seeding the defaults when there
// is none.
func NewTicketCatalog(ctx context.Context, blobs persistence.BlobStore, key string, logger *zap.Logger) (*TicketCatalog, error) {
	var tickets []domain.Ticket
	found, err := loadSnapshot(ctx, blobs, key, &tickets)
	if err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}

	c := &TicketCatalog{blobs: blobs, key: key}
	switch {
	case !found:
		tickets = c.SeedDefaults()
		logger.Info("catalog seeded", zap.String("backend", blobs.Name()), zap.Int("count", len(tickets)))
	case len(tickets) == 0:
		tickets = c.SeedDefaults()
		logger.Warn("stored catalog is empty, reseeding defaults",
			zap.String("backend", blobs.Name()),
			zap.String("key", key),
			zap.Int("count", len(tickets)))
	default:
		logger.Info("catalog loaded", zap.String("backend", blobs.Name()), zap.Int("count", len(tickets)))
	}
	c.tickets = tickets
	return c, nil
}

// SeedDefaults returns the six tickets a fresh installation sells.
func (c *TicketCatalog) SeedDefaults() []domain.Ticket {
	return domain.DefaultCatalog()
}

// List returns a copy of every ticket in catalog order.
func (c *TicketCatalog) List() []domain.Ticket {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Ticket(nil), c.tickets...)
}

// Len returns the catalog size.
func (c *TicketCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tickets)
}

// Get returns the ticket at index.
func (c *TicketCatalog) Get(index int) (domain.Ticket, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if index < 0 || index >= len(c.tickets) {
		return domain.Ticket{}, domain.ErrTicketIndexOutOfRange
	}
	return c.tickets[index], nil
}

// FindByName returns the ticket with the exact name.
func (c *TicketCatalog) FindByName(name string) (domain.Ticket, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(name); i >= 0 {
		return c.tickets[i], nil
	}
	return domain.Ticket{}, domain.ErrTicketNotFound
}

// SetPrice changes the price of the named ticket. Prices must be positive.
func (c *TicketCatalog) SetPrice(ctx context.Context, name string, price float64) error {
	if price <= 0 {
		return domain.ErrInvalidPrice
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(name)
	if i < 0 {
		return domain.ErrTicketNotFound
	}

	prev := c.tickets[i].Price
	c.tickets[i].Price = price
	if err := c.persist(ctx); err != nil {
		c.tickets[i].Price = prev
		return err
	}
	return nil
}

// CheckSale reports whether RecordSale(index, quantity) would be accepted, without
// changing anything.
func (c *TicketCatalog) CheckSale(index, quantity int) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.checkSale(index, quantity)
}

// RecordSale adds quantity to the sold count of the ticket at index. Sold counts never
// decrease and never wrap.
func (c *TicketCatalog) RecordSale(ctx context.Context, index, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkSale(index, quantity); err != nil {
		return err
	}

	c.tickets[index].SoldCount += quantity
	if err := c.persist(ctx); err != nil {
		c.tickets[index].SoldCount -= quantity
		return err
	}
	return nil
}

// checkSale must be called with mu held.
func (c *TicketCatalog) checkSale(index, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if index < 0 || index >= len(c.tickets) {
		return domain.ErrTicketIndexOutOfRange
	}
	if quantity > math.MaxInt-c.tickets[index].SoldCount {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// SalesReport summarises sold counts per ticket.
func (c *TicketCatalog) SalesReport() domain.SalesReport {
	c.mu.RLock()
	defer c.mu.RUnlock()

	report := domain.SalesReport{Lines: make([]domain.SalesLine, 0, len(c.tickets))}
	for _, t := range c.tickets {
		report.Lines = append(report.Lines, domain.SalesLine{Name: t.Name, Price: t.Price, SoldCount: t.SoldCount})
		if t.SoldCount > math.MaxInt-report.TotalSold {
			report.TotalSold = math.MaxInt
		} else {
			report.TotalSold += t.SoldCount
		}
	}
	return report
}

func (c *TicketCatalog) indexOf(name string) int {
	for i := range c.tickets {
		if c.tickets[i].Name == name {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (c *TicketCatalog) persist(ctx context.Context) error {
	if err := saveSnapshot(ctx, c.blobs, c.key, c.tickets); err != nil {
		return fmt.Errorf("save tickets: %w", err)
	}
	return nil
}
