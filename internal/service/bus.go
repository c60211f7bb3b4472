package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"busbook/internal/domain"
	"busbook/internal/repository"
)

// MaxCoachSeats bounds the seat count of one coach.
const MaxCoachSeats = 60

// BusService handles coach administration.
type BusService struct {
	busRepo repository.BusRepository
}

// NewBusService creates a new BusService.
func NewBusService(busRepo repository.BusRepository) *BusService {
	return &BusService{busRepo: busRepo}
}

// BusInput holds the admin-editable fields of a coach.
type BusInput struct {
	Name       string
	Number     string
	CoachType  string
	TotalSeats int
	Amenities  []string
}

func (in BusInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidBus)
	case strings.TrimSpace(in.Number) == "":
		return fmt.Errorf("%w: registration number is required", ErrInvalidBus)
	case strings.TrimSpace(in.CoachType) == "":
		return fmt.Errorf("%w: coach type is required", ErrInvalidBus)
	case in.TotalSeats < 1 || in.TotalSeats > MaxCoachSeats:
		return fmt.Errorf("%w: total seats must be between 1 and %d", ErrInvalidBus, MaxCoachSeats)
	}
	return nil
}

func (in BusInput) apply(c *domain.Coach) {
	c.Name = strings.TrimSpace(in.Name)
	c.Number = strings.ToUpper(strings.TrimSpace(in.Number))
	c.CoachType = strings.TrimSpace(in.CoachType)
	c.TotalSeats = in.TotalSeats
	c.Amenities = in.Amenities
	if c.Amenities == nil {
		c.Amenities = []string{}
	}
}

// GetBus retrieves a coach by ID.
func (s *BusService) GetBus(ctx context.Context, id string) (*domain.Coach, error) {
	if id == "" {
		return nil, ErrInvalidBus
	}
	return s.busRepo.GetByID(ctx, id)
}

// GetAllBuses retrieves every coach.
func (s *BusService) GetAllBuses(ctx context.Context) ([]*domain.Coach, error) {
	return s.busRepo.GetAll(ctx)
}

// CreateBus registers a coach.
func (s *BusService) CreateBus(ctx context.Context, in BusInput) (*domain.Coach, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	coach := &domain.Coach{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
	in.apply(coach)

	if err := s.busRepo.Create(ctx, coach); err != nil {
		return nil, err
	}
	return coach, nil
}

// UpdateBus edits a coach. Existing trips keep their seat layout.
func (s *BusService) UpdateBus(ctx context.Context, id string, in BusInput) (*domain.Coach, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	coach, err := s.busRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(coach)

	if err := s.busRepo.Update(ctx, coach); err != nil {
		return nil, err
	}
	return coach, nil
}

// DeleteBus removes a coach.
func (s *BusService) DeleteBus(ctx context.Context, id string) error {
	return s.busRepo.Delete(ctx, id)
}
