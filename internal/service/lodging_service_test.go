package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-lodging/internal/model"
)

func hotelsFixture() *fakeHotels {
	return &fakeHotels{
		hotels: []model.Hotel{{ID: 1, Name: "Driven Resort"}, {ID: 2, Name: "Driven Palace"}},
		rooms: map[uint64][]model.Room{
			1: {{ID: 10, HotelID: 1, Name: "101", Capacity: 2}, {ID: 11, HotelID: 1, Name: "102", Capacity: 3}},
		},
	}
}

func TestListHotels(t *testing.T) {
	ctx := context.Background()

	t.Run("returns all hotels without rooms", func(t *testing.T) {
		svc := NewLodgingService(stubEligibility{}, hotelsFixture())
		got, err := svc.ListHotels(ctx, 1)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, h := range got {
			assert.Empty(t, h.Rooms)
		}
	})

	t.Run("empty catalog is not an error", func(t *testing.T) {
		svc := NewLodgingService(stubEligibility{}, &fakeHotels{hotels: []model.Hotel{}})
		got, err := svc.ListHotels(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("lookup failure is distinct from empty", func(t *testing.T) {
		svc := NewLodgingService(stubEligibility{}, &fakeHotels{err: errDB})
		_, err := svc.ListHotels(ctx, 1)
		assert.ErrorIs(t, err, errDB)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("eligibility gate applies", func(t *testing.T) {
		enr, tickets := eligibleFixture(model.TicketReserved, true)
		svc := NewLodgingService(NewEvaluator(enr, tickets), hotelsFixture())
		_, err := svc.ListHotels(ctx, 1)
		assert.ErrorIs(t, err, ErrPaymentRequired)
	})
}

func TestGetHotelWithRooms(t *testing.T) {
	ctx := context.Background()
	svc := NewLodgingService(stubEligibility{}, hotelsFixture())

	got, err := svc.GetHotelWithRooms(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Driven Resort", got.Name)
	assert.Len(t, got.Rooms, 2)

	_, err = svc.GetHotelWithRooms(ctx, 1, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	gated := NewLodgingService(stubEligibility{err: fail(ErrForbidden, "enrollment required")}, hotelsFixture())
	_, err = gated.GetHotelWithRooms(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLodgingAuthorizeRunsTheGate(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, NewLodgingService(stubEligibility{}, hotelsFixture()).Authorize(ctx, 1))

	enr, tickets := eligibleFixture(model.TicketReserved, true)
	err := NewLodgingService(NewEvaluator(enr, tickets), hotelsFixture()).Authorize(ctx, 1)
	assert.ErrorIs(t, err, ErrPaymentRequired)
}
