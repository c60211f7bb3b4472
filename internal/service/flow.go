package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"busbook/internal/domain"
	"busbook/internal/format"
	"busbook/internal/pricing"
	"busbook/internal/redis"
	"busbook/internal/repository"
)

// MaxSeats is the largest selection one booking may hold.
const MaxSeats = 6

// BookingFlowService drives a traveler's session through
// search, bus, pickup/drop, seats, passengers, payment and confirmation.
type BookingFlowService struct {
	sessions    redis.SessionStoreInterface
	tripRepo    repository.TripRepository
	profileRepo repository.ProfileRepository
	seats       *SeatService
	promos      *PromoService
	confirmer   BookingConfirmer
	catalog     LocationCatalog
	validate    *validator.Validate
	now         func() time.Time
}

// NewBookingFlowService creates a new BookingFlowService.
func NewBookingFlowService(
	sessions redis.SessionStoreInterface,
	tripRepo repository.TripRepository,
	profileRepo repository.ProfileRepository,
	seats *SeatService,
	promos *PromoService,
	confirmer BookingConfirmer,
	catalog LocationCatalog,
) *BookingFlowService {
	return &BookingFlowService{
		sessions:    sessions,
		tripRepo:    tripRepo,
		profileRepo: profileRepo,
		seats:       seats,
		promos:      promos,
		confirmer:   confirmer,
		catalog:     catalog,
		validate:    newPassengerValidator(),
		now:         time.Now,
	}
}

func newPassengerValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Start opens a new session at the home stage.
func (s *BookingFlowService) Start(ctx context.Context, userID string) (*domain.Session, error) {
	sess := domain.NewSession(uuid.New().String())
	sess.UserID = userID

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session. A non-empty stage navigates to it, falling back to
// home when its prerequisites are missing.
func (s *BookingFlowService) Get(ctx context.Context, sessionID, stage string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if stage == "" {
		return sess, nil
	}

	target, ok := domain.ParseStage(stage)
	if !ok {
		target = domain.StageHome
	}

	resolved := sess.Resolve(target)
	if resolved != sess.Stage {
		sess.Stage = resolved
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// mutate loads a session, applies fn and saves the result. A missing
// prerequisite sends the session home; other errors leave it untouched.
func (s *BookingFlowService) mutate(ctx context.Context, sessionID string, fn func(sess *domain.Session) error) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := fn(sess); err != nil {
		if errors.Is(err, ErrStagePrerequisite) {
			sess.Stage = domain.StageHome
			if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
				return nil, saveErr
			}
			return sess, err
		}
		return nil, err
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func requireStage(sess *domain.Session, stage domain.Stage) error {
	if !sess.Ready(stage) {
		return fmt.Errorf("%w: %s", ErrStagePrerequisite, stage)
	}
	return nil
}

// requireOpen rejects changes to a session whose booking is already paid.
func requireOpen(sess *domain.Session) error {
	if sess.Booking != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyConfirmed, sess.Booking.ID)
	}
	return nil
}

// Search finds scheduled buses for a route on a calendar date.
func (s *BookingFlowService) Search(ctx context.Context, sessionID, from, to, date string) (*domain.Session, error) {
	params, err := parseSearch(from, to, date)
	if err != nil {
		return nil, err
	}

	trips, err := s.tripRepo.SearchByRoute(ctx, params.From, params.To)
	if err != nil {
		return nil, err
	}

	buses := make([]domain.Bus, 0, len(trips))
	for i := range trips {
		d := trips[i]
		if !format.SameDay(d.Trip.DepartureTime, params.Date) {
			continue
		}
		seats, err := s.seats.forTrip(ctx, &d.Trip)
		if err != nil {
			return nil, err
		}
		buses = append(buses, BusFromTrip(d, seats, s.catalog))
	}

	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		sess.Reset()
		sess.Search = &params
		sess.Results = buses
		sess.Stage = domain.StageResults
		if len(buses) == 0 {
			sess.Notice = fmt.Sprintf("No buses found for %s → %s on %s", params.From, params.To, format.Date(params.Date))
		}
		return nil
	})
}

func parseSearch(from, to, date string) (domain.SearchParams, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)

	if from == "" || to == "" {
		return domain.SearchParams{}, fmt.Errorf("%w: origin and destination are required", ErrInvalidSearch)
	}
	if strings.EqualFold(from, to) {
		return domain.SearchParams{}, fmt.Errorf("%w: origin and destination must differ", ErrInvalidSearch)
	}
	if strings.TrimSpace(date) == "" {
		return domain.SearchParams{}, fmt.Errorf("%w: travel date is required", ErrInvalidSearch)
	}

	d, err := format.ParseDate(date)
	if err != nil {
		return domain.SearchParams{}, fmt.Errorf("%w: %v", ErrInvalidSearch, err)
	}

	return domain.SearchParams{From: from, To: to, Date: d}, nil
}

// SelectBus picks one of the search results and clears downstream choices.
func (s *BookingFlowService) SelectBus(ctx context.Context, sessionID, tripID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireStage(sess, domain.StageResults); err != nil {
			return err
		}

		var selected *domain.Bus
		for i := range sess.Results {
			if sess.Results[i].TripID == tripID {
				bus := sess.Results[i]
				selected = &bus
				break
			}
		}
		if selected == nil {
			return ErrBusNotInResults
		}

		sess.SelectedBus = selected
		sess.Pickup = nil
		sess.Drop = nil
		sess.SelectedSeats = nil
		sess.Passenger = nil
		sess.Passengers = nil
		sess.Promo = nil
		sess.Booking = nil
		sess.Notice = ""
		sess.Stage = domain.StagePickupDrop
		return nil
	})
}

// SelectPickupDrop stores the boarding and alighting points.
func (s *BookingFlowService) SelectPickupDrop(ctx context.Context, sessionID, pickupID, dropID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireOpen(sess); err != nil {
			return err
		}
		if err := requireStage(sess, domain.StagePickupDrop); err != nil {
			return err
		}

		pickup, ok := sess.SelectedBus.FindPickup(pickupID)
		if !ok {
			return fmt.Errorf("%w: unknown pickup point %q", ErrInvalidPickupDrop, pickupID)
		}
		drop, ok := sess.SelectedBus.FindDrop(dropID)
		if !ok {
			return fmt.Errorf("%w: unknown drop point %q", ErrInvalidPickupDrop, dropID)
		}

		sess.Pickup = &pickup
		sess.Drop = &drop
		sess.Stage = domain.StageSeats
		return nil
	})
}

// ToggleSeat adds or removes a seat from the selection. Seats are
// re-read before being added so a stale map cannot select a taken seat.
func (s *BookingFlowService) ToggleSeat(ctx context.Context, sessionID, seatID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireOpen(sess); err != nil {
			return err
		}
		if err := requireStage(sess, domain.StageSeats); err != nil {
			return err
		}

		if sess.HasSeat(seatID) {
			kept := sess.SelectedSeats[:0]
			for _, seat := range sess.SelectedSeats {
				if seat.ID != seatID {
					kept = append(kept, seat)
				}
			}
			sess.SelectedSeats = kept
			return s.seatsChanged(ctx, sess)
		}

		seat, err := s.seats.Seat(ctx, sess.SelectedBus.TripID, seatID)
		if err != nil {
			return err
		}
		if !seat.Bookable() {
			return fmt.Errorf("%w: seat %s is %s", ErrSeatUnavailable, seat.Number, seat.Status)
		}
		if len(sess.SelectedSeats) >= MaxSeats {
			return fmt.Errorf("%w: at most %d seats per booking", ErrSeatLimitReached, MaxSeats)
		}

		sess.SelectedSeats = append(sess.SelectedSeats, seat)
		return s.seatsChanged(ctx, sess)
	})
}

// seatsChanged drops the passengers entered for the previous selection,
// returns the flow to seat selection and re-prices any applied promo.
// A promo the new selection no longer qualifies for is removed.
func (s *BookingFlowService) seatsChanged(ctx context.Context, sess *domain.Session) error {
	sess.Passenger = nil
	sess.Passengers = nil
	sess.Stage = domain.StageSeats

	if sess.Promo == nil {
		return nil
	}

	applied, err := s.promos.Apply(ctx, sess.Promo.Code, pricing.Subtotal(sess.SelectedSeats))
	if err != nil {
		if !errors.Is(err, ErrPromoNotFound) && !pricing.IsRejection(err) {
			return err
		}
		sess.Notice = fmt.Sprintf("Promo %s removed: %v", sess.Promo.Code, err)
		sess.Promo = nil
		return nil
	}

	sess.Promo = applied
	return nil
}

// ConfirmSeats moves on to passenger details.
func (s *BookingFlowService) ConfirmSeats(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireOpen(sess); err != nil {
			return err
		}
		if err := requireStage(sess, domain.StageSeats); err != nil {
			return err
		}
		if len(sess.SelectedSeats) == 0 {
			return ErrNoSeatsSelected
		}
		if err := requireStage(sess, domain.StagePassengers); err != nil {
			return err
		}

		sess.Stage = domain.StagePassengers
		return nil
	})
}

// SubmitPassengers stores one passenger per selected seat, in seat order.
// A single seat keeps its traveler in Passenger alone.
func (s *BookingFlowService) SubmitPassengers(ctx context.Context, sessionID string, passengers []domain.Passenger) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireOpen(sess); err != nil {
			return err
		}
		if err := requireStage(sess, domain.StagePassengers); err != nil {
			return err
		}

		if len(passengers) != len(sess.SelectedSeats) {
			return fmt.Errorf("%w: %d passenger(s) for %d seat(s)",
				ErrPassengerCountMismatch, len(passengers), len(sess.SelectedSeats))
		}

		for i := range passengers {
			passengers[i].Name = strings.TrimSpace(passengers[i].Name)
			passengers[i].Email = strings.TrimSpace(passengers[i].Email)
			if err := s.validatePassenger(passengers[i]); err != nil {
				return fmt.Errorf("passenger %d: %w", i+1, err)
			}
		}

		lead := passengers[0]
		sess.Passenger = &lead
		if len(passengers) == 1 {
			sess.Passengers = nil
		} else {
			sess.Passengers = passengers
		}
		sess.Stage = domain.StagePayment
		return nil
	})
}

func (s *BookingFlowService) validatePassenger(p domain.Passenger) error {
	err := s.validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed %q", ErrInvalidPassenger, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidPassenger, err)
}

// ApplyPromo attaches a promo code to the booking.
func (s *BookingFlowService) ApplyPromo(ctx context.Context, sessionID, code string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireOpen(sess); err != nil {
			return err
		}
		if err := requireStage(sess, domain.StagePassengers); err != nil {
			return err
		}

		applied, err := s.promos.Apply(ctx, code, pricing.Subtotal(sess.SelectedSeats))
		if err != nil {
			return err
		}

		sess.Promo = applied
		return nil
	})
}

// RemovePromo detaches any promo code.
func (s *BookingFlowService) RemovePromo(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireOpen(sess); err != nil {
			return err
		}
		sess.Promo = nil
		return nil
	})
}

// Quote returns the current price breakdown of a session.
func (s *BookingFlowService) Quote(ctx context.Context, sessionID string) (*pricing.Quote, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(sess, domain.StagePassengers); err != nil {
		return nil, err
	}

	var promo *domain.PromoCode
	if sess.Promo != nil {
		promo, err = s.promos.Lookup(ctx, sess.Promo.Code)
		if err != nil && !errors.Is(err, ErrPromoNotFound) {
			return nil, err
		}
		if promo == nil {
			q := pricing.Compute(sess.SelectedSeats, nil, s.now())
			q.PromoCode = sess.Promo.Code
			q.PromoError = ErrPromoNotFound.Error()
			return &q, nil
		}
	}

	q := pricing.Compute(sess.SelectedSeats, promo, s.now())
	return &q, nil
}

// CompletePayment prices the booking, re-validating any promo, pays for
// it and records the confirmed booking in the session.
func (s *BookingFlowService) CompletePayment(ctx context.Context, sessionID string, method domain.PaymentMethod, token string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// A repeated submit returns the booking already paid for.
	if sess.Booking != nil {
		log.Printf("[BOOKING] session %s already confirmed as %s", sess.ID, sess.Booking.ID)
		return sess, nil
	}

	if err := requireStage(sess, domain.StagePayment); err != nil {
		sess.Stage = domain.StageHome
		if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
			return nil, saveErr
		}
		return sess, err
	}

	passengers := sess.Passengers
	if len(passengers) == 0 {
		passengers = []domain.Passenger{*sess.Passenger}
	}
	if len(passengers) != len(sess.SelectedSeats) {
		return nil, fmt.Errorf("%w: %d passenger(s) for %d seat(s)",
			ErrPassengerCountMismatch, len(passengers), len(sess.SelectedSeats))
	}

	if method == "" {
		method = domain.PaymentMethodCard
	}
	if !validPaymentMethod(method) {
		return nil, ErrInvalidPaymentMethod
	}

	now := s.now()

	var promo *domain.PromoCode
	if sess.Promo != nil {
		promo, err = s.promos.Lookup(ctx, sess.Promo.Code)
		if err != nil {
			return nil, err
		}
		if err := pricing.ValidatePromo(promo, pricing.Subtotal(sess.SelectedSeats), now); err != nil {
			return nil, err
		}
	}
	quote := pricing.Compute(sess.SelectedSeats, promo, now)

	bus := *sess.SelectedBus
	bus.Seats = nil

	booking := &domain.Booking{
		ID:            format.BookingReference(),
		Bus:           bus,
		SelectedSeats: append([]domain.Seat(nil), sess.SelectedSeats...),
		Passenger:     *sess.Passenger,
		Passengers:    sess.Passengers,
		Subtotal:      quote.Subtotal,
		Tax:           quote.Tax,
		Discount:      quote.Discount,
		PromoCode:     quote.PromoCode,
		TotalAmount:   quote.Total,
		BookingDate:   now,
		JourneyDate:   sess.Search.Date,
		Route:         domain.Route{From: sess.Search.From, To: sess.Search.To},
		PickupPoint:   *sess.Pickup,
		DropPoint:     *sess.Drop,
		UserID:        sess.UserID,
		Status:        domain.BookingStatusConfirmed,
	}

	confirmed, err := s.confirmer.Confirm(ctx, ConfirmRequest{
		Booking: booking,
		Method:  method,
		Token:   token,
	})
	if err != nil {
		return nil, err
	}

	sess.Booking = confirmed
	sess.Stage = domain.StageConfirmation
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// NewBooking discards every selection and returns the session to home.
func (s *BookingFlowService) NewBooking(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		sess.Reset()
		return nil
	})
}

// PrefillPassenger returns the first-passenger details stored on a profile.
func (s *BookingFlowService) PrefillPassenger(ctx context.Context, userID string) (*domain.Passenger, error) {
	if userID == "" {
		return nil, ErrInvalidToken
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.Passenger{
		Name:   profile.Name,
		Age:    profile.Age,
		Gender: profile.Gender,
		Mobile: profile.Mobile,
		Email:  profile.Email,
	}, nil
}
