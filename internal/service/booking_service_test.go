package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/park-booking/internal/auth"
	"github.com/spec-kit/park-booking/internal/domain"
	"github.com/spec-kit/park-booking/internal/events"
	"github.com/spec-kit/park-booking/internal/persistence"
	"github.com/spec-kit/park-booking/internal/repository"
)

const (
	twoDayIndex = 1
	childIndex  = 3
	groupIndex  = 4
)

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	svc        *BookingService
	users      *repository.UserStore
	catalog    *repository.TicketCatalog
	blobs      persistence.BlobStore
	dispatcher *recordingDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithBlobs(t, persistence.NewFileBlobStore(t.TempDir()))
}

func newFixtureWithBlobs(t *testing.T, blobs persistence.BlobStore) *fixture {
	t.Helper()
	ctx := context.Background()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	users, err := repository.NewUserStore(ctx, blobs, "users.json", hasher, zap.NewNop())
	require.NoError(t, err)
	catalog, err := repository.NewTicketCatalog(ctx, blobs, "tickets.json", zap.NewNop())
	require.NoError(t, err)

	adminHash, err := hasher.Hash("park-admin")
	require.NoError(t, err)

	dispatcher := &recordingDispatcher{}
	svc := NewBookingService(BookingDependencies{
		Users:      users,
		Catalog:    catalog,
		Hasher:     hasher,
		Admin:      AdminCredentials{Username: "admin", PasswordHash: adminHash},
		Dispatcher: dispatcher,
	})
	return &fixture{svc: svc, users: users, catalog: catalog, blobs: blobs, dispatcher: dispatcher}
}

func aliceBuys(index int, quantity string) PurchaseInput {
	return PurchaseInput{
		Username:      "alice",
		TicketIndex:   index,
		Quantity:      quantity,
		VisitDate:     "2026-11-01",
		PaymentMethod: "Credit Card",
	}
}

func (f *fixture) registerAlice(t *testing.T) *domain.User {
	t.Helper()
	user, err := f.svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	return user
}

func TestBookingService_Register(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := validRegistration()
	in.Username = "  alice  "
	user, err := f.svc.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, []events.EventType{events.EventUserRegistered}, f.dispatcher.types())

	t.Run("second registration is rejected and first kept", func(t *testing.T) {
		dup := validRegistration()
		dup.Email = "other@example.com"
		dup.Password = "different"

		_, err := f.svc.Register(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)

		account, err := f.svc.Account(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", account.Email)
	})

	t.Run("invalid form never reaches the store", func(t *testing.T) {
		bad := validRegistration()
		bad.Username = "bob"
		bad.PhoneNumber = "call me"

		_, err := f.svc.Register(ctx, bad)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "phone_number", ve.Field)
		assert.Equal(t, 1, f.users.Len())
	})
}

func TestBookingService_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.registerAlice(t)

	user, err := f.svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	for _, creds := range [][2]string{{"alice", "wrong"}, {"bob", "s3cret"}, {"Alice", "s3cret"}} {
		_, err := f.svc.Authenticate(ctx, creds[0], creds[1])
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "%v", creds)
	}
}

func TestBookingService_AuthenticateAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.NoError(t, f.svc.AuthenticateAdmin(ctx, "admin", "park-admin"))
	assert.ErrorIs(t, f.svc.AuthenticateAdmin(ctx, "admin", "nope"), domain.ErrInvalidCredentials)
	assert.ErrorIs(t, f.svc.AuthenticateAdmin(ctx, "root", "park-admin"), domain.ErrInvalidCredentials)

	unset := NewBookingService(BookingDependencies{Users: f.users, Catalog: f.catalog})
	assert.ErrorIs(t, unset.AuthenticateAdmin(ctx, "", ""), domain.ErrInvalidCredentials)
}

func TestBookingService_Purchase(t *testing.T) {
	ctx := context.Background()

	t.Run("two day pass is ten percent off", func(t *testing.T) {
		f := newFixture(t)
		f.registerAlice(t)

		purchase, err := f.svc.Purchase(ctx, PurchaseInput{
			Username:      "alice",
			TicketIndex:   twoDayIndex,
			VisitDate:     "2026-11-01",
			PaymentMethod: "Credit Card",
		})
		require.NoError(t, err)
		assert.Equal(t, 432.0, purchase.FinalPrice)
		assert.Equal(t, 1, purchase.Quantity)
		assert.Equal(t, "Two-Day Pass - $432.00 USD (Discount Applied: 10%)", purchase.Record)
		assert.NotEmpty(t, purchase.ID)
		assert.Equal(t, "2026-11-01", purchase.VisitDate)
		assert.Contains(t, f.dispatcher.types(), events.EventTicketPurchased)
	})

	t.Run("group of fifteen", func(t *testing.T) {
		f := newFixture(t)
		f.registerAlice(t)

		purchase, err := f.svc.Purchase(ctx, aliceBuys(groupIndex, "15"))
		require.NoError(t, err)
		assert.Equal(t, 3300.0, purchase.TotalPrice)
		assert.Equal(t, 0.20, purchase.DiscountRate)
		assert.Equal(t, 2640.0, purchase.FinalPrice)

		ticket, err := f.svc.Ticket(ctx, groupIndex)
		require.NoError(t, err)
		assert.Equal(t, 15, ticket.SoldCount)
	})

	t.Run("group of five", func(t *testing.T) {
		f := newFixture(t)
		f.registerAlice(t)

		purchase, err := f.svc.Purchase(ctx, aliceBuys(groupIndex, "5"))
		require.NoError(t, err)
		assert.Equal(t, 0.0, purchase.DiscountRate)
		assert.Equal(t, 1100.0, purchase.FinalPrice)
	})

	t.Run("invalid group size mutates nothing", func(t *testing.T) {
		f := newFixture(t)
		f.registerAlice(t)

		for _, quantity := range []string{"0", "abc", "", "-2", "1.5"} {
			_, err := f.svc.Purchase(ctx, aliceBuys(groupIndex, quantity))
			assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "quantity %q", quantity)
		}

		history, err := f.svc.History(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, history)
		ticket, err := f.svc.Ticket(ctx, groupIndex)
		require.NoError(t, err)
		assert.Zero(t, ticket.SoldCount)
		assert.NotContains(t, f.dispatcher.types(), events.EventTicketPurchased)
	})

	t.Run("visit date and payment method are required", func(t *testing.T) {
		f := newFixture(t)
		f.registerAlice(t)

		noDate := aliceBuys(childIndex, "")
		noDate.VisitDate = "  "
		_, err := f.svc.Purchase(ctx, noDate)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "visit_date", ve.Field)
		assert.ErrorIs(t, err, domain.ErrFieldRequired)

		noPayment := aliceBuys(childIndex, "")
		noPayment.PaymentMethod = ""
		_, err = f.svc.Purchase(ctx, noPayment)
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "payment_method", ve.Field)

		history, err := f.svc.History(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, history)
		ticket, err := f.svc.Ticket(ctx, childIndex)
		require.NoError(t, err)
		assert.Zero(t, ticket.SoldCount)
	})

	t.Run("oversized group never reaches the books", func(t *testing.T) {
		f := newFixture(t)
		f.registerAlice(t)

		_, err := f.svc.Purchase(ctx, aliceBuys(groupIndex, "15"))
		require.NoError(t, err)

		_, err = f.svc.Purchase(ctx, aliceBuys(groupIndex, "9223372036854775807"))
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

		history, err := f.svc.History(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, history, 1)
		ticket, err := f.svc.Ticket(ctx, groupIndex)
		require.NoError(t, err)
		assert.Equal(t, 15, ticket.SoldCount)
		assert.Equal(t, 15, f.svc.SalesReport(ctx).TotalSold)
	})

	t.Run("unknown ticket index", func(t *testing.T) {
		f := newFixture(t)
		f.registerAlice(t)

		_, err := f.svc.Purchase(ctx, PurchaseInput{Username: "alice", TicketIndex: 6})
		assert.ErrorIs(t, err, domain.ErrTicketIndexOutOfRange)
		_, err = f.svc.Purchase(ctx, PurchaseInput{Username: "alice", TicketIndex: -1})
		assert.ErrorIs(t, err, domain.ErrTicketIndexOutOfRange)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Purchase(ctx, PurchaseInput{Username: "ghost", TicketIndex: childIndex})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		ticket, err := f.svc.Ticket(ctx, childIndex)
		require.NoError(t, err)
		assert.Zero(t, ticket.SoldCount)
	})
}

func TestBookingService_PurchaseAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.registerAlice(t)

	steps := []struct {
		index    int
		quantity string
		sold     int
	}{
		{childIndex, "", 1},
		{groupIndex, "12", 12},
		{childIndex, "7", 1},
	}

	for i, step := range steps {
		before, err := f.svc.Ticket(ctx, step.index)
		require.NoError(t, err)

		purchase, err := f.svc.Purchase(ctx, aliceBuys(step.index, step.quantity))
		require.NoError(t, err)

		after, err := f.svc.Ticket(ctx, step.index)
		require.NoError(t, err)
		assert.Equal(t, before.SoldCount+step.sold, after.SoldCount)

		history, err := f.svc.History(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, history, i+1)
		assert.Equal(t, purchase.Record, history[i])
	}
}

func TestBookingService_UpdateDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.registerAlice(t)

	email := "alice@park.example"
	user, err := f.svc.UpdateDetails(ctx, "alice", DetailsInput{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, user.Email)
	assert.Equal(t, "+15551234567", user.PhoneNumber)
	assert.Equal(t, "1990-04-12", user.DateOfBirth)

	blank := "   "
	user, err = f.svc.UpdateDetails(ctx, "alice", DetailsInput{PhoneNumber: &blank})
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", user.PhoneNumber)

	badDOB := "yesterday"
	_, err = f.svc.UpdateDetails(ctx, "alice", DetailsInput{DateOfBirth: &badDOB})
	assert.ErrorIs(t, err, domain.ErrInvalidDateOfBirth)

	_, err = f.svc.UpdateDetails(ctx, "ghost", DetailsInput{Email: &email})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestBookingService_AdminOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.registerAlice(t)

	t.Run("set price", func(t *testing.T) {
		ticket, err := f.svc.SetPrice(ctx, domain.TicketTwoDayPass, 500)
		require.NoError(t, err)
		assert.Equal(t, 500.0, ticket.Price)

		purchase, err := f.svc.Purchase(ctx, aliceBuys(twoDayIndex, ""))
		require.NoError(t, err)
		assert.Equal(t, 450.0, purchase.FinalPrice)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := f.svc.SetPrice(ctx, domain.TicketTwoDayPass, -5)
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)

		ticket, err := f.svc.Ticket(ctx, twoDayIndex)
		require.NoError(t, err)
		assert.Equal(t, 500.0, ticket.Price)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		_, err := f.svc.SetPrice(ctx, "Night Safari", 10)
		assert.ErrorIs(t, err, domain.ErrTicketNotFound)
	})

	t.Run("sales report", func(t *testing.T) {
		report := f.svc.SalesReport(ctx)
		assert.Equal(t, 1, report.TotalSold)
	})

	t.Run("delete user", func(t *testing.T) {
		assert.Equal(t, []string{"alice"}, f.svc.Usernames(ctx))
		require.NoError(t, f.svc.DeleteUser(ctx, "alice"))
		assert.Empty(t, f.svc.Usernames(ctx))
		assert.ErrorIs(t, f.svc.DeleteUser(ctx, "alice"), domain.ErrUserNotFound)

		_, err := f.svc.History(ctx, "alice")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	assert.Contains(t, f.dispatcher.types(), events.EventTicketPriceChanged)
	assert.Contains(t, f.dispatcher.types(), events.EventUserDeleted)
}

func TestBookingService_StatePersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	blobs := persistence.NewFileBlobStore(t.TempDir())
	f := newFixtureWithBlobs(t, blobs)
	f.registerAlice(t)

	_, err := f.svc.Purchase(ctx, aliceBuys(groupIndex, "11"))
	require.NoError(t, err)
	_, err = f.svc.SetPrice(ctx, domain.TicketChild, 190)
	require.NoError(t, err)

	restarted := newFixtureWithBlobs(t, blobs)
	assert.Equal(t, f.svc.Tickets(ctx), restarted.svc.Tickets(ctx))

	before, err := f.svc.Account(ctx, "alice")
	require.NoError(t, err)
	after, err := restarted.svc.Account(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = restarted.svc.Authenticate(ctx, "alice", "s3cret")
	assert.NoError(t, err)
}
