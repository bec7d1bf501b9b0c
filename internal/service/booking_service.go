package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/park-booking/internal/domain"
	"github.com/spec-kit/park-booking/internal/events"
	"github.com/spec-kit/park-booking/internal/repository"
)

// AdminCredentials identify the single park administrator.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

// BookingService is the façade the presentation layer talks to. It owns no state of its
// own beyond the two stores it is given.
type BookingService struct {
	users      *repository.UserStore
	catalog    *repository.TicketCatalog
	hasher     repository.PasswordHasher
	admin      AdminCredentials
	dispatcher events.Dispatcher
	now        func() time.Time
}

// BookingDependencies bundles the collaborators of BookingService.
type BookingDependencies struct {
	Users      *repository.UserStore
	Catalog    *repository.TicketCatalog
	Hasher     repository.PasswordHasher
	Admin      AdminCredentials
	Dispatcher events.Dispatcher
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	return &BookingService{
		users:      deps.Users,
		catalog:    deps.Catalog,
		hasher:     deps.Hasher,
		admin:      deps.Admin,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Register validates the form and creates the account.
func (s *BookingService) Register(ctx context.Context, input RegistrationInput) (*domain.User, error) {
	in := input.Normalize()
	if err := ValidateRegistration(in); err != nil {
		return nil, err
	}

	user, err := s.users.Register(ctx, repository.RegisterParams{
		Username:    in.Username,
		Password:    in.Password,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		DateOfBirth: in.DateOfBirth,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventUserRegistered,
		Subject: user.Username,
		Actor:   userActor(user.Username),
		Payload: events.UserRegisteredPayload{Email: user.Email},
	})
	return user, nil
}

// Authenticate logs a visitor in.
func (s *BookingService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return s.users.Authenticate(ctx, strings.TrimSpace(username), strings.TrimSpace(password))
}

// AuthenticateAdmin checks the administrator credentials.
func (s *BookingService) AuthenticateAdmin(_ context.Context, username, password string) error {
	if s.admin.Username == "" || s.admin.PasswordHash == "" || s.hasher == nil {
		return domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(username) != s.admin.Username {
		return domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(s.admin.PasswordHash, strings.TrimSpace(password)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// Account returns the visitor's current details.
func (s *BookingService) Account(ctx context.Context, username string) (*domain.User, error) {
	return s.users.Get(ctx, username)
}

// DetailsInput holds optional replacements for account details.
type DetailsInput struct {
	Email       *string
	PhoneNumber *string
	DateOfBirth *string
}

// UpdateDetails overwrites the supplied fields after checking their format. Blank fields
// count as not supplied.
func (s *BookingService) UpdateDetails(ctx context.Context, username string, input DetailsInput) (*domain.User, error) {
	update := repository.DetailsUpdate{
		Email:       trimmed(input.Email),
		PhoneNumber: trimmed(input.PhoneNumber),
		DateOfBirth: trimmed(input.DateOfBirth),
	}

	var fields []string
	if update.Email != nil {
		if err := ValidateEmail(*update.Email); err != nil {
			return nil, err
		}
		fields = append(fields, "email")
	}
	if update.PhoneNumber != nil {
		if err := ValidatePhone(*update.PhoneNumber); err != nil {
			return nil, err
		}
		fields = append(fields, "phone_number")
	}
	if update.DateOfBirth != nil {
		if err := ValidateDateOfBirth(*update.DateOfBirth); err != nil {
			return nil, err
		}
		fields = append(fields, "date_of_birth")
	}

	user, err := s.users.UpdateDetails(ctx, username, update)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventUserUpdated,
		Subject: username,
		Actor:   userActor(username),
		Payload: events.UserUpdatedPayload{Fields: fields},
	})
	return user, nil
}

// History returns the visitor's purchase records, oldest first.
func (s *BookingService) History(ctx context.Context, username string) ([]string, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.PurchaseHistory, nil
}

// Tickets lists the catalog in order.
func (s *BookingService) Tickets(_ context.Context) []domain.Ticket {
	return s.catalog.List()
}

// Ticket returns the catalog entry at index.
func (s *BookingService) Ticket(_ context.Context, index int) (domain.Ticket, error) {
	return s.catalog.Get(index)
}

// PurchaseInput describes one booking. Quantity is the group size as the visitor typed
// it; only the group ticket reads it, every other ticket is a single admission.
type PurchaseInput struct {
	Username      string
	TicketIndex   int
	Quantity      string
	VisitDate     string
	PaymentMethod string
}

// Purchase prices the ticket, appends the record to the visitor's history and counts the
// sale. Nothing is written unless the ticket, the visitor, the visit date, the payment
// method and the quantity are all valid.
func (s *BookingService) Purchase(ctx context.Context, input PurchaseInput) (*domain.Purchase, error) {
	ticket, err := s.catalog.Get(input.TicketIndex)
	if err != nil {
		return nil, err
	}
	if !s.users.Exists(ctx, input.Username) {
		return nil, domain.ErrUserNotFound
	}
	visitDate := strings.TrimSpace(input.VisitDate)
	if err := ValidateRequired("visit_date", visitDate); err != nil {
		return nil, err
	}
	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if err := ValidateRequired("payment_method", paymentMethod); err != nil {
		return nil, err
	}

	quote, err := domain.QuoteTicket(ticket, input.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.CheckSale(input.TicketIndex, quote.Quantity); err != nil {
		return nil, err
	}

	record := quote.Record()
	if err := s.users.AppendPurchase(ctx, input.Username, record); err != nil {
		return nil, err
	}
	if err := s.catalog.RecordSale(ctx, input.TicketIndex, quote.Quantity); err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		ID:            uuid.NewString(),
		Username:      input.Username,
		TicketIndex:   input.TicketIndex,
		TicketName:    quote.TicketName,
		Quantity:      quote.Quantity,
		UnitPrice:     quote.UnitPrice,
		TotalPrice:    quote.TotalPrice,
		DiscountRate:  quote.DiscountRate,
		FinalPrice:    quote.FinalPrice,
		VisitDate:     visitDate,
		PaymentMethod: paymentMethod,
		Record:        record,
		PurchasedAt:   s.now(),
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketPurchased,
		Subject: input.Username,
		Actor:   userActor(input.Username),
		Payload: events.TicketPurchasedPayload{
			PurchaseID:    purchase.ID,
			TicketName:    purchase.TicketName,
			Quantity:      purchase.Quantity,
			FinalPrice:    purchase.FinalPrice,
			VisitDate:     purchase.VisitDate,
			PaymentMethod: purchase.PaymentMethod,
		},
	})
	return purchase, nil
}

// SetPrice changes a ticket price on behalf of the administrator.
func (s *BookingService) SetPrice(ctx context.Context, name string, price float64) (domain.Ticket, error) {
	before, _ := s.catalog.FindByName(name)
	if err := s.catalog.SetPrice(ctx, name, price); err != nil {
		return domain.Ticket{}, err
	}
	after, err := s.catalog.FindByName(name)
	if err != nil {
		return domain.Ticket{}, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketPriceChanged,
		Subject: name,
		Actor:   adminActor(s.admin.Username),
		Payload: events.TicketPriceChangedPayload{OldPrice: before.Price, NewPrice: after.Price},
	})
	return after, nil
}

// DeleteUser removes a visitor account on behalf of the administrator.
func (s *BookingService) DeleteUser(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventUserDeleted,
		Subject: username,
		Actor:   adminActor(s.admin.Username),
	})
	return nil
}

// Usernames lists every registered visitor.
func (s *BookingService) Usernames(ctx context.Context) []string {
	return s.users.Usernames(ctx)
}

// SalesReport totals sold tickets per catalog entry.
func (s *BookingService) SalesReport(_ context.Context) domain.SalesReport {
	return s.catalog.SalesReport()
}

func (s *BookingService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func userActor(username string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeUser, Username: username}
}

func adminActor(username string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeAdmin, Username: username}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
