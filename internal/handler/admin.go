package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"busbook/internal/domain"
	"busbook/internal/format"
	"busbook/internal/service"
)

// AdminHandler handles HTTP requests for the back-office.
type AdminHandler struct {
	busService     *service.BusService
	tripService    *service.TripService
	promoService   *service.PromoService
	bookingService *service.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	busService *service.BusService,
	tripService *service.TripService,
	promoService *service.PromoService,
	bookingService *service.BookingService,
) *AdminHandler {
	return &AdminHandler{
		busService:     busService,
		tripService:    tripService,
		promoService:   promoService,
		bookingService: bookingService,
	}
}

// BusRequest is the HTTP request body for creating or updating a bus.
type BusRequest struct {
	Name       string   `json:"name"`
	Number     string   `json:"number"`
	CoachType  string   `json:"coach_type"`
	TotalSeats int      `json:"total_seats"`
	Amenities  []string `json:"amenities"`
}

// BusResponse is the HTTP response for a bus.
type BusResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Number     string    `json:"number"`
	CoachType  string    `json:"coach_type"`
	TotalSeats int       `json:"total_seats"`
	Amenities  []string  `json:"amenities"`
	CreatedAt  time.Time `json:"created_at"`
}

func toBusResponse(c *domain.Coach) BusResponse {
	return BusResponse{
		ID:         c.ID,
		Name:       c.Name,
		Number:     c.Number,
		CoachType:  c.CoachType,
		TotalSeats: c.TotalSeats,
		Amenities:  c.Amenities,
		CreatedAt:  c.CreatedAt,
	}
}

func (r BusRequest) input() service.BusInput {
	return service.BusInput{
		Name:       r.Name,
		Number:     r.Number,
		CoachType:  r.CoachType,
		TotalSeats: r.TotalSeats,
		Amenities:  r.Amenities,
	}
}

// ListBuses handles GET /v1/admin/buses
func (h *AdminHandler) ListBuses(c *gin.Context) {
	buses, err := h.busService.GetAllBuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]BusResponse, len(buses))
	for i, b := range buses {
		resp[i] = toBusResponse(b)
	}
	respondJSON(c, http.StatusOK, resp)
}

// GetBus handles GET /v1/admin/buses/:id
func (h *AdminHandler) GetBus(c *gin.Context) {
	bus, err := h.busService.GetBus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBusResponse(bus))
}

// CreateBus handles POST /v1/admin/buses
func (h *AdminHandler) CreateBus(c *gin.Context) {
	var req BusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	bus, err := h.busService.CreateBus(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBusResponse(bus))
}

// UpdateBus handles PUT /v1/admin/buses/:id
func (h *AdminHandler) UpdateBus(c *gin.Context) {
	var req BusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	bus, err := h.busService.UpdateBus(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBusResponse(bus))
}

// DeleteBus handles DELETE /v1/admin/buses/:id
func (h *AdminHandler) DeleteBus(c *gin.Context) {
	if err := h.busService.DeleteBus(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// TripRequest is the HTTP request body for creating or updating a trip.
type TripRequest struct {
	BusID         string    `json:"bus_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	BasePrice     int64     `json:"base_price"`
}

// TripResponse is the HTTP response for a trip.
type TripResponse struct {
	ID            string    `json:"id"`
	BusID         string    `json:"bus_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Duration      string    `json:"duration"`
	BasePrice     int64     `json:"base_price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// DuplicateTripRequest is the HTTP request body for duplicating a trip.
type DuplicateTripRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// DuplicateTripResponse is the HTTP response for a duplication run.
type DuplicateTripResponse struct {
	Created []TripResponse             `json:"created"`
	Failed  []service.DuplicateFailure `json:"failed"`
}

func toTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:            t.ID,
		BusID:         t.BusID,
		From:          t.From,
		To:            t.To,
		DepartureTime: t.DepartureTime,
		ArrivalTime:   t.ArrivalTime,
		Duration:      format.Duration(t.ArrivalTime.Sub(t.DepartureTime)),
		BasePrice:     t.BasePrice,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
	}
}

func (r TripRequest) input() service.TripInput {
	return service.TripInput{
		BusID:         r.BusID,
		From:          r.From,
		To:            r.To,
		DepartureTime: r.DepartureTime,
		ArrivalTime:   r.ArrivalTime,
		BasePrice:     r.BasePrice,
	}
}

// ListTrips handles GET /v1/admin/trips
func (h *AdminHandler) ListTrips(c *gin.Context) {
	trips, err := h.tripService.GetAllTrips(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]TripResponse, len(trips))
	for i, t := range trips {
		resp[i] = toTripResponse(t)
	}
	respondJSON(c, http.StatusOK, resp)
}

// GetTrip handles GET /v1/admin/trips/:id
func (h *AdminHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// CreateTrip handles POST /v1/admin/trips
func (h *AdminHandler) CreateTrip(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// UpdateTrip handles PUT /v1/admin/trips/:id
func (h *AdminHandler) UpdateTrip(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	trip, err := h.tripService.UpdateTrip(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// CancelTrip handles POST /v1/admin/trips/:id/cancel
func (h *AdminHandler) CancelTrip(c *gin.Context) {
	trip, err := h.tripService.CancelTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// DuplicateTrip handles POST /v1/admin/trips/:id/duplicate
func (h *AdminHandler) DuplicateTrip(c *gin.Context) {
	var req DuplicateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	start, err := format.ParseDate(req.StartDate)
	if err != nil {
		badRequest(c, "start_date: "+err.Error())
		return
	}
	end, err := format.ParseDate(req.EndDate)
	if err != nil {
		badRequest(c, "end_date: "+err.Error())
		return
	}

	result, err := h.tripService.DuplicateTrip(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := DuplicateTripResponse{
		Created: make([]TripResponse, len(result.Created)),
		Failed:  result.Failed,
	}
	for i, t := range result.Created {
		resp.Created[i] = toTripResponse(t)
	}

	code := http.StatusCreated
	if len(result.Failed) > 0 {
		code = http.StatusMultiStatus
	}
	respondJSON(c, code, resp)
}

// PromoCodeRequest is the HTTP request body for creating or updating a promo code.
type PromoCodeRequest struct {
	Code             string    `json:"code"`
	DiscountType     string    `json:"discount_type"` // flat, percentage
	DiscountValue    float64   `json:"discount_value"`
	MinBookingAmount int64     `json:"min_booking_amount"`
	MaxDiscount      *int64    `json:"max_discount"`
	ValidFrom        time.Time `json:"valid_from"`
	ValidUntil       time.Time `json:"valid_until"`
	UsageLimit       *int      `json:"usage_limit"`
	IsActive         *bool     `json:"is_active"`
}

// PromoCodeResponse is the HTTP response for a promo code.
type PromoCodeResponse struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	DiscountType     string    `json:"discount_type"`
	DiscountValue    float64   `json:"discount_value"`
	MinBookingAmount int64     `json:"min_booking_amount"`
	MaxDiscount      *int64    `json:"max_discount"`
	ValidFrom        time.Time `json:"valid_from"`
	ValidUntil       time.Time `json:"valid_until"`
	UsageLimit       *int      `json:"usage_limit"`
	UsedCount        int       `json:"used_count"`
	IsActive         bool      `json:"is_active"`
}

func toPromoResponse(p *domain.PromoCode) PromoCodeResponse {
	return PromoCodeResponse{
		ID:               p.ID,
		Code:             p.Code,
		DiscountType:     string(p.DiscountType),
		DiscountValue:    p.DiscountValue,
		MinBookingAmount: p.MinBookingAmount,
		MaxDiscount:      p.MaxDiscount,
		ValidFrom:        p.ValidFrom,
		ValidUntil:       p.ValidUntil,
		UsageLimit:       p.UsageLimit,
		UsedCount:        p.UsedCount,
		IsActive:         p.IsActive,
	}
}

func (r PromoCodeRequest) input() service.PromoInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.PromoInput{
		Code:             r.Code,
		DiscountType:     domain.DiscountType(r.DiscountType),
		DiscountValue:    r.DiscountValue,
		MinBookingAmount: r.MinBookingAmount,
		MaxDiscount:      r.MaxDiscount,
		ValidFrom:        r.ValidFrom,
		ValidUntil:       r.ValidUntil,
		UsageLimit:       r.UsageLimit,
		IsActive:         active,
	}
}

// ListPromos handles GET /v1/admin/promos
func (h *AdminHandler) ListPromos(c *gin.Context) {
	promos, err := h.promoService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]PromoCodeResponse, len(promos))
	for i, p := range promos {
		resp[i] = toPromoResponse(p)
	}
	respondJSON(c, http.StatusOK, resp)
}

// CreatePromo handles POST /v1/admin/promos
func (h *AdminHandler) CreatePromo(c *gin.Context) {
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	promo, err := h.promoService.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPromoResponse(promo))
}

// UpdatePromo handles PUT /v1/admin/promos/:id
func (h *AdminHandler) UpdatePromo(c *gin.Context) {
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	promo, err := h.promoService.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPromoResponse(promo))
}

// DeletePromo handles DELETE /v1/admin/promos/:id
func (h *AdminHandler) DeletePromo(c *gin.Context) {
	if err := h.promoService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListBookings handles GET /v1/admin/bookings
func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookingService.GetAllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	respondJSON(c, http.StatusOK, bookings)
}

// GetBooking handles GET /v1/admin/bookings/:id
func (h *AdminHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, booking)
}
