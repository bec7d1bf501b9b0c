package repository

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/park-booking/internal/domain"
	"github.com/spec-kit/park-booking/internal/persistence"
)

const ticketsKey = "tickets.json"

func newTestCatalog(t *testing.T, blobs persistence.BlobStore) *TicketCatalog {
	t.Helper()
	catalog, err := NewTicketCatalog(context.Background(), blobs, ticketsKey, zap.NewNop())
	require.NoError(t, err)
	return catalog
}

func TestTicketCatalog_SeedsDefaults(t *testing.T) {
	catalog := newTestCatalog(t, persistence.NewFileBlobStore(t.TempDir()))

	require.Equal(t, 6, catalog.Len())
	assert.Equal(t, domain.DefaultCatalog(), catalog.List())
	assert.Equal(t, domain.DefaultCatalog(), catalog.SeedDefaults())
}

func TestTicketCatalog_Get(t *testing.T) {
	catalog := newTestCatalog(t, persistence.NewFileBlobStore(t.TempDir()))

	ticket, err := catalog.Get(1)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketTwoDayPass, ticket.Name)

	for _, index := range []int{-1, 6, 100} {
		_, err := catalog.Get(index)
		assert.ErrorIs(t, err, domain.ErrTicketIndexOutOfRange, "index %d", index)
	}
}

func TestTicketCatalog_FindByName(t *testing.T) {
	catalog := newTestCatalog(t, persistence.NewFileBlobStore(t.TempDir()))

	ticket, err := catalog.FindByName(domain.TicketGroup)
	require.NoError(t, err)
	assert.Equal(t, 220.0, ticket.Price)

	_, err = catalog.FindByName("group ticket (10+)")
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

func TestTicketCatalog_SetPrice(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t, persistence.NewFileBlobStore(t.TempDir()))

	require.NoError(t, catalog.SetPrice(ctx, domain.TicketChild, 199.5))
	ticket, err := catalog.FindByName(domain.TicketChild)
	require.NoError(t, err)
	assert.Equal(t, 199.5, ticket.Price)

	for _, price := range []float64{-5, 0} {
		assert.ErrorIs(t, catalog.SetPrice(ctx, domain.TicketChild, price), domain.ErrInvalidPrice)
	}
	ticket, err = catalog.FindByName(domain.TicketChild)
	require.NoError(t, err)
	assert.Equal(t, 199.5, ticket.Price)

	assert.ErrorIs(t, catalog.SetPrice(ctx, "Night Safari", 10), domain.ErrTicketNotFound)
}

func TestTicketCatalog_RecordSale(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t, persistence.NewFileBlobStore(t.TempDir()))

	require.NoError(t, catalog.RecordSale(ctx, 4, 15))
	require.NoError(t, catalog.RecordSale(ctx, 4, 1))
	ticket, err := catalog.Get(4)
	require.NoError(t, err)
	assert.Equal(t, 16, ticket.SoldCount)

	assert.ErrorIs(t, catalog.RecordSale(ctx, 4, 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, catalog.RecordSale(ctx, 4, -2), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, catalog.RecordSale(ctx, 9, 1), domain.ErrTicketIndexOutOfRange)

	ticket, err = catalog.Get(4)
	require.NoError(t, err)
	assert.Equal(t, 16, ticket.SoldCount)
}

func TestTicketCatalog_RecordSaleNeverWraps(t *testing.T) {
	ctx := context.Background()
	blobs := persistence.NewFileBlobStore(t.TempDir())
	catalog := newTestCatalog(t, blobs)
	require.NoError(t, catalog.RecordSale(ctx, 4, 15))

	assert.ErrorIs(t, catalog.CheckSale(4, math.MaxInt), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, catalog.RecordSale(ctx, 4, math.MaxInt), domain.ErrInvalidQuantity)
	assert.NoError(t, catalog.CheckSale(4, math.MaxInt-15))

	ticket, err := catalog.Get(4)
	require.NoError(t, err)
	assert.Equal(t, 15, ticket.SoldCount)
	assert.Equal(t, 15, newTestCatalog(t, blobs).SalesReport().TotalSold)
}

func TestTicketCatalog_SalesReportSaturates(t *testing.T) {
	ctx := context.Background()
	blobs := persistence.NewFileBlobStore(t.TempDir())
	tickets := domain.DefaultCatalog()
	tickets[0].SoldCount = math.MaxInt - 1
	tickets[4].SoldCount = 5
	data, err := json.Marshal(tickets)
	require.NoError(t, err)
	require.NoError(t, blobs.Save(ctx, ticketsKey, data))

	report := newTestCatalog(t, blobs).SalesReport()
	assert.Equal(t, math.MaxInt, report.TotalSold)
}

func TestTicketCatalog_EmptySnapshotReseeds(t *testing.T) {
	for _, stored := range []string{"[]", "null"} {
		t.Run(stored, func(t *testing.T) {
			blobs := persistence.NewFileBlobStore(t.TempDir())
			require.NoError(t, blobs.Save(context.Background(), ticketsKey, []byte(stored)))

			catalog := newTestCatalog(t, blobs)
			assert.Equal(t, domain.DefaultCatalog(), catalog.List())
		})
	}
}

func TestTicketCatalog_SalesReport(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t, persistence.NewFileBlobStore(t.TempDir()))
	require.NoError(t, catalog.RecordSale(ctx, 0, 1))
	require.NoError(t, catalog.RecordSale(ctx, 4, 12))

	report := catalog.SalesReport()
	require.Len(t, report.Lines, 6)
	assert.Equal(t, 13, report.TotalSold)
	assert.Equal(t, domain.SalesLine{Name: domain.TicketGroup, Price: 220, SoldCount: 12}, report.Lines[4])
}

func TestTicketCatalog_RoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := persistence.NewFileBlobStore(t.TempDir())
	catalog := newTestCatalog(t, blobs)

	require.NoError(t, catalog.SetPrice(ctx, domain.TicketVIPExperiencePass, 612.25))
	require.NoError(t, catalog.RecordSale(ctx, 2, 3))

	reloaded := newTestCatalog(t, blobs)
	assert.Equal(t, catalog.List(), reloaded.List())
}

func TestTicketCatalog_FailedSaveRollsBack(t *testing.T) {
	ctx := context.Background()
	blobs := &flakyBlobStore{BlobStore: persistence.NewFileBlobStore(t.TempDir())}
	catalog := newTestCatalog(t, blobs)
	blobs.setFailing(true)

	assert.ErrorIs(t, catalog.SetPrice(ctx, domain.TicketSingleDayPass, 300), errSaveFailed)
	assert.ErrorIs(t, catalog.RecordSale(ctx, 0, 2), errSaveFailed)

	ticket, err := catalog.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 275.0, ticket.Price)
	assert.Zero(t, ticket.SoldCount)
}

func TestTicketCatalog_ListIsACopy(t *testing.T) {
	catalog := newTestCatalog(t, persistence.NewFileBlobStore(t.TempDir()))
	list := catalog.List()
	list[0].Price = 1

	ticket, err := catalog.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 275.0, ticket.Price)
}
