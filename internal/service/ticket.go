package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"busbook/internal/domain"
	"busbook/internal/format"
)

// TicketService renders e-tickets for stored bookings.
type TicketService struct {
	bookings *BookingService
}

// NewTicketService creates a new TicketService.
func NewTicketService(bookings *BookingService) *TicketService {
	return &TicketService{bookings: bookings}
}

// Ticket loads a booking and renders its PDF e-ticket. Only the
// booking's owner may fetch it when the booking belongs to a user.
func (s *TicketService) Ticket(ctx context.Context, bookingID, userID string, isAdmin bool) ([]byte, string, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}

	if booking.UserID != "" && booking.UserID != userID && !isAdmin {
		return nil, "", ErrForbidden
	}

	data, err := RenderTicket(booking)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("ETICKET_%s.pdf", booking.ID), nil
}

// RenderTicket builds the PDF e-ticket of a booking.
func RenderTicket(b *domain.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+b.ID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking Ref : %s", b.ID),
		fmt.Sprintf("Route       : %s -> %s", b.Route.From, b.Route.To),
		fmt.Sprintf("Journey     : %s, departs %s", format.Date(b.JourneyDate), format.Time(b.Bus.DepartureTime)),
		fmt.Sprintf("Bus         : %s (%s, %s)", b.Bus.Name, b.Bus.Number, b.Bus.CoachType),
		fmt.Sprintf("Seats       : %s", seatNumbers(b.SelectedSeats)),
		fmt.Sprintf("Pickup      : %s", b.PickupPoint.Name),
		fmt.Sprintf("Drop        : %s", b.DropPoint.Name),
		fmt.Sprintf("Booked on   : %s", format.Date(b.BookingDate)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, p := range b.AllPassengers() {
		seat := "-"
		if i < len(b.SelectedSeats) {
			seat = b.SelectedSeats[i].Number
		}
		pdf.Cell(0, 6, fmt.Sprintf("%d. %s, %d, %s - seat %s", i+1, p.Name, p.Age, p.Gender, seat))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Fare")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	fare := []string{
		fmt.Sprintf("Subtotal : %s", pdfCurrency(b.Subtotal)),
		fmt.Sprintf("Tax (5%%) : %s", pdfCurrency(b.Tax)),
	}
	if b.Discount > 0 {
		fare = append(fare, fmt.Sprintf("Discount : -%s (%s)", pdfCurrency(b.Discount), b.PromoCode))
	}
	fare = append(fare, fmt.Sprintf("Total    : %s", pdfCurrency(b.TotalAmount)))
	for _, line := range fare {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please carry a valid photo ID and report at the pickup point 15 minutes before departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func seatNumbers(seats []domain.Seat) string {
	nums := make([]string, len(seats))
	for i, s := range seats {
		nums[i] = s.Number
	}
	return strings.Join(nums, ", ")
}

// pdfCurrency spells the rupee sign out; the core PDF fonts lack the glyph.
func pdfCurrency(amount int64) string {
	return strings.Replace(format.Currency(amount), "₹", "Rs. ", 1)
}
