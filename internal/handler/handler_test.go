package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"busbook/internal/domain"
	"busbook/internal/pricing"
	"busbook/internal/repository"
	"busbook/internal/service"
	"busbook/internal/tests"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ──── 1. ERROR MAPPING ────

func TestMapErrorToHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{service.ErrPromoNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: date is required", service.ErrInvalidSearch), http.StatusBadRequest},
		{pricing.ErrPromoBelowMinimum, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrStagePrerequisite, http.StatusConflict},
		{service.ErrSeatUnavailable, http.StatusConflict},
		{service.ErrAlreadyConfirmed, http.StatusConflict},
		{repository.ErrInUse, http.StatusConflict},
		{service.ErrPaymentFailed, http.StatusPaymentRequired},
		{fmt.Errorf("dial tcp: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range cases {
		if got := mapErrorToHTTPStatus(tt.err); got != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.want, got)
		}
	}
}

// ──── 2. BOOKING FLOW ────

func newFlowRouter(f *tests.FlowFixture) *gin.Engine {
	h := NewSessionHandler(f.Flow, service.DefaultLocations)
	r := gin.New()
	r.GET("/v1/locations", h.Locations)
	s := r.Group("/v1/sessions")
	s.POST("", h.StartSession)
	s.GET("/:sid", h.GetSession)
	s.POST("/:sid/search", h.Search)
	s.POST("/:sid/bus", h.SelectBus)
	s.POST("/:sid/seats/toggle", h.ToggleSeat)
	s.GET("/:sid/quote", h.Quote)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionHandler_SearchAndSelect(t *testing.T) {
	t.Parallel()

	r := newFlowRouter(tests.NewFlowFixture())

	w := doJSON(t, r, http.MethodPost, "/v1/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var sess SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sess.ID == "" || sess.Stage != domain.StageHome {
		t.Fatalf("unexpected session %+v", sess)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/sessions/"+sess.ID+"/search", SearchRequest{
		From: "Bengaluru", To: "Hyderabad", Date: "2026-03-01",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sess.Stage != domain.StageResults || len(sess.Results) != 1 {
		t.Fatalf("expected one result, got %+v", sess)
	}
	if sess.Search == nil || sess.Search.Date != "2026-03-01" {
		t.Errorf("expected echoed search date, got %+v", sess.Search)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/sessions/"+sess.ID+"/bus", SelectBusRequest{TripID: tests.TripID})
	if w.Code != http.StatusOK {
		t.Fatalf("select bus: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/v1/sessions/"+sess.ID+"/bus", SelectBusRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing trip_id, got %d", w.Code)
	}
}

func TestSessionHandler_StageRedirect(t *testing.T) {
	t.Parallel()

	r := newFlowRouter(tests.NewFlowFixture())

	w := doJSON(t, r, http.MethodPost, "/v1/sessions", nil)
	var sess SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/sessions/"+sess.ID+"/seats/toggle", ToggleSeatRequest{SeatID: "seat-1"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	var resp SessionErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Redirect != "home" || resp.Session.Stage != domain.StageHome {
		t.Errorf("expected redirect home, got %+v", resp)
	}

	w = doJSON(t, r, http.MethodGet, "/v1/sessions/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/v1/locations", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without city, got %d", w.Code)
	}
}

// ──── 3. SEAT MAP ────

func TestSeatHandler_SnapshotAndStream(t *testing.T) {
	t.Parallel()
	f := tests.NewFlowFixture()
	watcher := service.NewSeatWatcher(f.SeatService, time.Hour, tests.NewRecordingPublisher())
	h := NewSeatHandler(f.SeatService, watcher)

	r := gin.New()
	r.GET("/v1/trips/:id/seats", h.GetSeats)
	r.POST("/v1/trips/:id/seats/refresh", h.RefreshSeats)
	r.GET("/v1/trips/:id/seats/stream", h.StreamSeats)

	w := doJSON(t, r, http.MethodGet, "/v1/trips/"+tests.TripID+"/seats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var snapshot SeatMapResponse
	if err := json.Unmarshal(w.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snapshot.Seats) != 10 || snapshot.Available != 9 {
		t.Errorf("expected 10 seats with 9 available, got %d/%d", len(snapshot.Seats), snapshot.Available)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/trips/"+tests.TripID+"/seats/refresh", nil)
	if w.Code != http.StatusOK {
		t.Errorf("refresh: expected 200, got %d", w.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/trips/"+tests.TripID+"/seats/stream", nil).WithContext(ctx)
	stream := httptest.NewRecorder()
	r.ServeHTTP(stream, req)

	if ct := stream.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("expected event stream, got %q", ct)
	}
	if !strings.Contains(stream.Body.String(), "event:seats") {
		t.Errorf("expected a seats event, got %q", stream.Body.String())
	}
}

func TestSeatHandler_StreamUnknownTripAnswersJSON(t *testing.T) {
	t.Parallel()

	f := tests.NewFlowFixture()
	h := NewSeatHandler(f.SeatService, service.NewSeatWatcher(f.SeatService, time.Hour, nil))

	r := gin.New()
	r.GET("/v1/trips/:id/seats/stream", h.StreamSeats)

	w := doJSON(t, r, http.MethodGet, "/v1/trips/trip-missing/seats/stream", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected a JSON error, got content type %q", ct)
	}
}

// ──── 4. TICKETS ────

func TestBookingHandler_Ticket(t *testing.T) {
	t.Parallel()
	repo := tests.NewMockBookingRepository()
	if err := repo.Create(context.Background(), &domain.Booking{
		ID:            "BKPDF001",
		Bus:           domain.Bus{TripID: tests.TripID, Name: "Orange Travels"},
		SelectedSeats: []domain.Seat{{ID: "seat-1", Number: "1", Price: 1000}},
		Passenger:     tests.ValidPassenger("Asha"),
		TotalAmount:   1050,
		JourneyDate:   tests.JourneyDate,
		Route:         domain.Route{From: "Bengaluru", To: "Hyderabad"},
		Status:        domain.BookingStatusConfirmed,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := NewBookingHandler(service.NewTicketService(service.NewBookingService(repo)))
	r := gin.New()
	r.GET("/v1/bookings/:id/ticket", h.GetTicket)

	w := doJSON(t, r, http.MethodGet, "/v1/bookings/BKPDF001/ticket", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "ETICKET_BKPDF001.pdf") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}

	w = doJSON(t, r, http.MethodGet, "/v1/bookings/BKNONE/ticket", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ──── 5. ADMIN ────

func TestAdminHandler_Buses(t *testing.T) {
	t.Parallel()
	repo := tests.NewMockBusRepository()
	h := NewAdminHandler(service.NewBusService(repo), nil, nil, nil)

	r := gin.New()
	r.POST("/v1/admin/buses", h.CreateBus)
	r.DELETE("/v1/admin/buses/:id", h.DeleteBus)
	r.POST("/v1/admin/trips/:id/duplicate", h.DuplicateTrip)

	w := doJSON(t, r, http.MethodPost, "/v1/admin/buses", BusRequest{
		Name: "Night Rider", Number: "ap09 xy 1111", CoachType: "AC Sleeper", TotalSeats: 30,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var bus BusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &bus); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/admin/buses", BusRequest{Name: "Night Rider"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for incomplete bus, got %d", w.Code)
	}

	repo.DeleteError = repository.ErrInUse
	w = doJSON(t, r, http.MethodDelete, "/v1/admin/buses/"+bus.ID, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for referenced bus, got %d", w.Code)
	}

	repo.DeleteError = nil
	w = doJSON(t, r, http.MethodDelete, "/v1/admin/buses/"+bus.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/admin/trips/trip-1/duplicate", DuplicateTripRequest{
		StartDate: "2026-13-01", EndDate: "2026-12-31",
	})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "start_date") {
		t.Errorf("expected 400 naming start_date, got %d: %s", w.Code, w.Body.String())
	}
}
