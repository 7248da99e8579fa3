package service

import (
	"context"
	"errors"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// LodgingService exposes the hotel catalog to eligible users.
type LodgingService struct {
	elig   EligibilityChecker
	hotels HotelStore
}

func NewLodgingService(elig EligibilityChecker, hotels HotelStore) *LodgingService {
	return &LodgingService{elig: elig, hotels: hotels}
}

// Authorize runs the lodging eligibility gate alone.  Handlers call it
// before rejecting malformed input so an ineligible caller always sees
// the gate's error.
func (s *LodgingService) Authorize(ctx context.Context, userID uint64) error {
	_, err := s.elig.Evaluate(ctx, userID)
	return err
}

// ListHotels returns every hotel without rooms.  An empty catalog is an
// empty slice, not an error.
func (s *LodgingService) ListHotels(ctx context.Context, userID uint64) ([]model.Hotel, error) {
	if _, err := s.elig.Evaluate(ctx, userID); err != nil {
		return nil, err
	}
	hotels, err := s.hotels.ListHotels(ctx)
	if err != nil {
		return nil, wrap("list hotels", err)
	}
	return hotels, nil
}

// GetHotelWithRooms returns one hotel with its rooms and their current
// occupancy.
func (s *LodgingService) GetHotelWithRooms(ctx context.Context, userID, hotelID uint64) (*model.Hotel, error) {
	if _, err := s.elig.Evaluate(ctx, userID); err != nil {
		return nil, err
	}
	h, err := s.hotels.GetWithRooms(ctx, hotelID)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return nil, fail(ErrNotFound, "hotel not found")
		}
		return nil, wrap("load hotel", err)
	}
	return h, nil
}
