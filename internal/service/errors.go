package service

import "errors"

var (
	// ErrStagePrerequisite is returned when a flow operation is invoked
	// before the selections it depends on exist. The session is sent home.
	ErrStagePrerequisite = errors.New("booking stage prerequisites missing")

	// ErrInvalidSearch is returned when origin, destination or date is missing or invalid.
	ErrInvalidSearch = errors.New("invalid search")

	// ErrBusNotInResults is returned when selecting a trip that is not in the current results.
	ErrBusNotInResults = errors.New("bus not in search results")

	// ErrInvalidPickupDrop is returned when a pickup or drop point does not belong to the bus.
	ErrInvalidPickupDrop = errors.New("invalid pickup or drop point")

	// ErrAlreadyConfirmed is returned when changing a session whose booking is paid.
	ErrAlreadyConfirmed = errors.New("booking already confirmed")

	// ErrSeatUnavailable is returned when a seat is booked, blocked or locked by another checkout.
	ErrSeatUnavailable = errors.New("seat is not available")

	// ErrSeatLimitReached is returned when adding more than MaxSeats seats.
	ErrSeatLimitReached = errors.New("seat limit reached")

	// ErrSeatNotFound is returned when a seat does not belong to the trip.
	ErrSeatNotFound = errors.New("seat not found")

	// ErrNoSeatsSelected is returned when confirming an empty selection.
	ErrNoSeatsSelected = errors.New("no seats selected")

	// ErrPassengerCountMismatch is returned when the passenger count differs from the seat count.
	ErrPassengerCountMismatch = errors.New("passenger count does not match seat count")

	// ErrInvalidPassenger is returned when passenger details fail validation.
	ErrInvalidPassenger = errors.New("invalid passenger details")

	// ErrPromoNotFound is returned for an unknown promo code.
	ErrPromoNotFound = errors.New("promo code not found")

	// ErrInvalidPromo is returned when an admin promo definition is invalid.
	ErrInvalidPromo = errors.New("invalid promo code")

	// ErrPaymentFailed is returned when the payment provider declines or fails a charge.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrInvalidPaymentAmount is returned when payment amount is invalid.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")

	// ErrInvalidPaymentMethod is returned when payment method is invalid.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidPaymentID is returned when payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrInvalidDateRange is returned when a duplication range ends before it starts or is too long.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidBus is returned when an admin bus definition is invalid.
	ErrInvalidBus = errors.New("invalid bus")

	// ErrInvalidTrip is returned when an admin trip definition is invalid.
	ErrInvalidTrip = errors.New("invalid trip")

	// ErrTripCancelled is returned when modifying a cancelled trip.
	ErrTripCancelled = errors.New("trip is cancelled")

	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a bearer token cannot be verified.
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden is returned when the caller may not access a resource.
	ErrForbidden = errors.New("forbidden")
)
