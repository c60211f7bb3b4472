package service

import (
	"context"

	"busbook/internal/domain"
	"busbook/internal/repository"
)

// BookingService reads confirmed bookings.
type BookingService struct {
	bookingRepo repository.BookingRepository
}

// NewBookingService creates a new BookingService.
func NewBookingService(bookingRepo repository.BookingRepository) *BookingService {
	return &BookingService{bookingRepo: bookingRepo}
}

// GetBooking retrieves a booking by reference.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	return s.bookingRepo.GetByID(ctx, id)
}

// GetAllBookings retrieves the most recent bookings.
func (s *BookingService) GetAllBookings(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookingRepo.GetAll(ctx)
}
