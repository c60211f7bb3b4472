package domain

import "time"

// Stage is a step of the booking flow.
type Stage string

const (
	StageHome         Stage = "home"
	StageResults      Stage = "results"
	StagePickupDrop   Stage = "pickup_drop"
	StageSeats        Stage = "seats"
	StagePassengers   Stage = "passengers"
	StagePayment      Stage = "payment"
	StageConfirmation Stage = "confirmation"
)

// ParseStage returns the stage with the given name.
func ParseStage(s string) (Stage, bool) {
	switch st := Stage(s); st {
	case StageHome, StageResults, StagePickupDrop, StageSeats,
		StagePassengers, StagePayment, StageConfirmation:
		return st, true
	}
	return "", false
}

// Session is the in-progress booking of one traveler.
type Session struct {
	ID            string        `json:"id"`
	Stage         Stage         `json:"stage"`
	Search        *SearchParams `json:"search,omitempty"`
	Results       []Bus         `json:"results,omitempty"`
	SelectedBus   *Bus          `json:"selected_bus,omitempty"`
	Pickup        *Location     `json:"pickup,omitempty"`
	Drop          *Location     `json:"drop,omitempty"`
	SelectedSeats []Seat        `json:"selected_seats,omitempty"`
	Passenger     *Passenger    `json:"passenger,omitempty"`
	Passengers    []Passenger   `json:"passengers,omitempty"`
	Promo         *AppliedPromo `json:"promo,omitempty"`
	Booking       *Booking      `json:"booking,omitempty"`
	Notice        string        `json:"notice,omitempty"`
	UserID        string        `json:"user_id,omitempty"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewSession returns an empty session at the home stage.
func NewSession(id string) *Session {
	return &Session{ID: id, Stage: StageHome, UpdatedAt: time.Now()}
}

// Reset discards every selection while keeping the session identity.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, Stage: StageHome, UserID: s.UserID, UpdatedAt: time.Now()}
}

// Ready reports whether every prerequisite of the stage is present.
func (s *Session) Ready(stage Stage) bool {
	switch stage {
	case StageHome:
		return true
	case StageResults:
		return s.Search != nil
	case StagePickupDrop, StageSeats:
		return s.Search != nil && s.SelectedBus != nil
	case StagePassengers:
		return s.Ready(StageSeats) && s.Pickup != nil && s.Drop != nil && len(s.SelectedSeats) > 0
	case StagePayment:
		return s.Ready(StagePassengers) && s.Passenger != nil
	case StageConfirmation:
		return s.Booking != nil
	}
	return false
}

// Resolve returns stage when it can be rendered and StageHome otherwise.
func (s *Session) Resolve(stage Stage) Stage {
	if s.Ready(stage) {
		return stage
	}
	return StageHome
}

// HasSeat reports whether the seat is in the current selection.
func (s *Session) HasSeat(seatID string) bool {
	for _, seat := range s.SelectedSeats {
		if seat.ID == seatID {
			return true
		}
	}
	return false
}
