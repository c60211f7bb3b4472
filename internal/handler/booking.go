package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busbook/internal/domain"
	"busbook/internal/middleware"
	"busbook/internal/service"
)

// BookingHandler handles HTTP requests for confirmed bookings.
type BookingHandler struct {
	ticketService *service.TicketService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(ticketService *service.TicketService) *BookingHandler {
	return &BookingHandler{ticketService: ticketService}
}

// GetTicket handles GET /v1/bookings/:id/ticket
func (h *BookingHandler) GetTicket(c *gin.Context) {
	isAdmin := false
	if claims, ok := middleware.ClaimsFrom(c); ok {
		isAdmin = claims.Role == domain.RoleAdmin
	}

	pdf, filename, err := h.ticketService.Ticket(c.Request.Context(), c.Param("id"), middleware.UserID(c), isAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
