package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"busbook/internal/domain"
	"busbook/internal/format"
	"busbook/internal/middleware"
	"busbook/internal/pricing"
	"busbook/internal/service"
)

// SessionHandler handles HTTP requests for the booking flow.
type SessionHandler struct {
	flowService *service.BookingFlowService
	catalog     service.LocationCatalog
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(flowService *service.BookingFlowService, catalog service.LocationCatalog) *SessionHandler {
	return &SessionHandler{
		flowService: flowService,
		catalog:     catalog,
	}
}

// SearchRequest is the HTTP request body for a bus search.
type SearchRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"` // YYYY-MM-DD
}

// SelectBusRequest is the HTTP request body for choosing a bus.
type SelectBusRequest struct {
	TripID string `json:"trip_id"`
}

// PickupDropRequest is the HTTP request body for choosing boarding points.
type PickupDropRequest struct {
	PickupID string `json:"pickup_id"`
	DropID   string `json:"drop_id"`
}

// ToggleSeatRequest is the HTTP request body for toggling a seat.
type ToggleSeatRequest struct {
	SeatID string `json:"seat_id"`
}

// PassengersRequest is the HTTP request body for passenger details,
// one entry per selected seat in seat order.
type PassengersRequest struct {
	Passengers []domain.Passenger `json:"passengers"`
}

// PromoRequest is the HTTP request body for applying a promo code.
type PromoRequest struct {
	Code string `json:"code"`
}

// PaymentRequest is the HTTP request body for paying for a booking.
type PaymentRequest struct {
	Method string `json:"method"` // CARD, UPI, NETBANKING, WALLET
	Token  string `json:"token,omitempty"`
}

// SessionResponse is the HTTP response for booking flow operations.
type SessionResponse struct {
	ID            string               `json:"id"`
	Stage         domain.Stage         `json:"stage"`
	Search        *SearchView          `json:"search,omitempty"`
	Results       []domain.Bus         `json:"results,omitempty"`
	SelectedBus   *domain.Bus          `json:"selected_bus,omitempty"`
	Pickup        *domain.Location     `json:"pickup,omitempty"`
	Drop          *domain.Location     `json:"drop,omitempty"`
	SelectedSeats []domain.Seat        `json:"selected_seats"`
	Passenger     *domain.Passenger    `json:"passenger,omitempty"`
	Passengers    []domain.Passenger   `json:"passengers,omitempty"`
	Promo         *domain.AppliedPromo `json:"promo,omitempty"`
	Booking       *domain.Booking      `json:"booking,omitempty"`
	Notice        string               `json:"notice,omitempty"`
}

// SearchView is the search criteria echoed back to the client.
type SearchView struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Date        string `json:"date"`
	DisplayDate string `json:"display_date"`
}

// SessionErrorResponse is returned when the flow sends the session home.
type SessionErrorResponse struct {
	ErrorResponse
	Session SessionResponse `json:"session"`
}

// QuoteResponse is the HTTP response for a price breakdown.
type QuoteResponse struct {
	pricing.Quote
	Display QuoteDisplay `json:"display"`
}

// QuoteDisplay holds formatted amounts.
type QuoteDisplay struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

func toSessionResponse(s *domain.Session) SessionResponse {
	resp := SessionResponse{
		ID:            s.ID,
		Stage:         s.Stage,
		Results:       s.Results,
		SelectedBus:   s.SelectedBus,
		Pickup:        s.Pickup,
		Drop:          s.Drop,
		SelectedSeats: s.SelectedSeats,
		Passenger:     s.Passenger,
		Passengers:    s.Passengers,
		Promo:         s.Promo,
		Booking:       s.Booking,
		Notice:        s.Notice,
	}
	if resp.SelectedSeats == nil {
		resp.SelectedSeats = []domain.Seat{}
	}
	if s.Search != nil {
		resp.Search = &SearchView{
			From:        s.Search.From,
			To:          s.Search.To,
			Date:        format.ISODate(s.Search.Date),
			DisplayDate: format.Date(s.Search.Date),
		}
	}
	return resp
}

// respondSession writes the session or, for a flow error, the error
// together with the session it left behind.
func respondSession(c *gin.Context, sess *domain.Session, err error) {
	if err != nil {
		if sess != nil && errors.Is(err, service.ErrStagePrerequisite) {
			c.JSON(http.StatusConflict, SessionErrorResponse{
				ErrorResponse: ErrorResponse{Error: err.Error(), Redirect: string(domain.StageHome)},
				Session:       toSessionResponse(sess),
			})
			return
		}
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toSessionResponse(sess))
}

// StartSession handles POST /v1/sessions
func (h *SessionHandler) StartSession(c *gin.Context) {
	sess, err := h.flowService.Start(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toSessionResponse(sess))
}

// GetSession handles GET /v1/sessions/:sid?stage=
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.flowService.Get(c.Request.Context(), c.Param("sid"), c.Query("stage"))
	respondSession(c, sess, err)
}

// Search handles POST /v1/sessions/:sid/search
func (h *SessionHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	sess, err := h.flowService.Search(c.Request.Context(), c.Param("sid"), req.From, req.To, req.Date)
	respondSession(c, sess, err)
}

// SelectBus handles POST /v1/sessions/:sid/bus
func (h *SessionHandler) SelectBus(c *gin.Context) {
	var req SelectBusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TripID == "" {
		badRequest(c, "trip_id is required")
		return
	}

	sess, err := h.flowService.SelectBus(c.Request.Context(), c.Param("sid"), req.TripID)
	respondSession(c, sess, err)
}

// SelectPickupDrop handles POST /v1/sessions/:sid/pickup-drop
func (h *SessionHandler) SelectPickupDrop(c *gin.Context) {
	var req PickupDropRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PickupID == "" || req.DropID == "" {
		badRequest(c, "pickup_id and drop_id are required")
		return
	}

	sess, err := h.flowService.SelectPickupDrop(c.Request.Context(), c.Param("sid"), req.PickupID, req.DropID)
	respondSession(c, sess, err)
}

// ToggleSeat handles POST /v1/sessions/:sid/seats/toggle
func (h *SessionHandler) ToggleSeat(c *gin.Context) {
	var req ToggleSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SeatID == "" {
		badRequest(c, "seat_id is required")
		return
	}

	sess, err := h.flowService.ToggleSeat(c.Request.Context(), c.Param("sid"), req.SeatID)
	respondSession(c, sess, err)
}

// ConfirmSeats handles POST /v1/sessions/:sid/seats/confirm
func (h *SessionHandler) ConfirmSeats(c *gin.Context) {
	sess, err := h.flowService.ConfirmSeats(c.Request.Context(), c.Param("sid"))
	respondSession(c, sess, err)
}

// SubmitPassengers handles POST /v1/sessions/:sid/passengers
func (h *SessionHandler) SubmitPassengers(c *gin.Context) {
	var req PassengersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	sess, err := h.flowService.SubmitPassengers(c.Request.Context(), c.Param("sid"), req.Passengers)
	respondSession(c, sess, err)
}

// ApplyPromo handles POST /v1/sessions/:sid/promo
func (h *SessionHandler) ApplyPromo(c *gin.Context) {
	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		badRequest(c, "code is required")
		return
	}

	sess, err := h.flowService.ApplyPromo(c.Request.Context(), c.Param("sid"), req.Code)
	respondSession(c, sess, err)
}

// RemovePromo handles DELETE /v1/sessions/:sid/promo
func (h *SessionHandler) RemovePromo(c *gin.Context) {
	sess, err := h.flowService.RemovePromo(c.Request.Context(), c.Param("sid"))
	respondSession(c, sess, err)
}

// Quote handles GET /v1/sessions/:sid/quote
func (h *SessionHandler) Quote(c *gin.Context) {
	q, err := h.flowService.Quote(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, QuoteResponse{
		Quote: *q,
		Display: QuoteDisplay{
			Subtotal: format.Currency(q.Subtotal),
			Tax:      format.Currency(q.Tax),
			Discount: format.Currency(q.Discount),
			Total:    format.Currency(q.Total),
		},
	})
}

// Pay handles POST /v1/sessions/:sid/payment
func (h *SessionHandler) Pay(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	sess, err := h.flowService.CompletePayment(c.Request.Context(), c.Param("sid"), domain.PaymentMethod(req.Method), req.Token)
	respondSession(c, sess, err)
}

// Reset handles POST /v1/sessions/:sid/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	sess, err := h.flowService.NewBooking(c.Request.Context(), c.Param("sid"))
	respondSession(c, sess, err)
}

// Locations handles GET /v1/locations?city=
func (h *SessionHandler) Locations(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		badRequest(c, "city is required")
		return
	}

	respondJSON(c, http.StatusOK, h.catalog.Points(city))
}

// PrefillPassenger handles GET /v1/me/passenger
func (h *SessionHandler) PrefillPassenger(c *gin.Context) {
	passenger, err := h.flowService.PrefillPassenger(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, passenger)
}
