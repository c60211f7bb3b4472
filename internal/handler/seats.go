package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"busbook/internal/domain"
	"busbook/internal/service"
)

// SeatHandler handles HTTP requests for trip seat maps.
type SeatHandler struct {
	seatService *service.SeatService
	watcher     *service.SeatWatcher
}

// NewSeatHandler creates a new SeatHandler.
func NewSeatHandler(seatService *service.SeatService, watcher *service.SeatWatcher) *SeatHandler {
	return &SeatHandler{
		seatService: seatService,
		watcher:     watcher,
	}
}

// SeatMapResponse is a seat map snapshot.
type SeatMapResponse struct {
	TripID    string        `json:"trip_id"`
	Seats     []domain.Seat `json:"seats"`
	Available int           `json:"available"`
	FetchedAt time.Time     `json:"fetched_at"`
}

func toSeatMap(tripID string, seats []domain.Seat) SeatMapResponse {
	available := 0
	for _, s := range seats {
		if s.Bookable() {
			available++
		}
	}
	if seats == nil {
		seats = []domain.Seat{}
	}
	return SeatMapResponse{
		TripID:    tripID,
		Seats:     seats,
		Available: available,
		FetchedAt: time.Now().UTC(),
	}
}

// GetSeats handles GET /v1/trips/:id/seats
func (h *SeatHandler) GetSeats(c *gin.Context) {
	tripID := c.Param("id")
	fresh := c.Query("fresh") == "true"

	seats, err := h.seatService.Seats(c.Request.Context(), tripID, fresh)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSeatMap(tripID, seats))
}

// RefreshSeats handles POST /v1/trips/:id/seats/refresh
func (h *SeatHandler) RefreshSeats(c *gin.Context) {
	tripID := c.Param("id")

	if err := h.watcher.Refresh(c.Request.Context(), tripID); err != nil {
		respondError(c, err)
		return
	}

	seats, err := h.seatService.Seats(c.Request.Context(), tripID, true)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSeatMap(tripID, seats))
}

// StreamSeats handles GET /v1/trips/:id/seats/stream as Server-Sent Events.
func (h *SeatHandler) StreamSeats(c *gin.Context) {
	tripID := c.Param("id")

	started := false
	err := h.watcher.Watch(c.Request.Context(), tripID, func(seats []domain.Seat) error {
		// Stream headers go out with the first snapshot so an early
		// failure is still answered as JSON.
		if !started {
			c.Header("Content-Type", "text/event-stream")
			c.Header("Cache-Control", "no-cache")
			c.Header("Connection", "keep-alive")
			c.Header("X-Accel-Buffering", "no")
			started = true
		}
		c.SSEvent("seats", toSeatMap(tripID, seats))
		c.Writer.Flush()
		return nil
	})
	if err != nil && !started {
		respondError(c, err)
	}
}
