// Package format renders money, dates and times for API responses and tickets.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v3"
)

const (
	isoDateLayout = "2006-01-02"
	dateLayout    = "Mon, 02 Jan 2006"
	timeLayout    = "03:04 PM"
)

// Currency renders a rupee amount with Indian digit grouping, e.g. ₹1,00,000.
func Currency(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "₹" + groupIndian(strconv.FormatInt(amount, 10))
}

// groupIndian groups the last three digits, then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// Date renders a calendar date, e.g. "Sun, 01 Mar 2026".
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// ISODate renders a calendar date as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// Time renders a clock time, e.g. "09:30 PM".
func Time(t time.Time) string {
	return t.Format(timeLayout)
}

// Duration renders a journey duration as "6h 30m".
func Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Minute).Minutes())
	hours, minutes := total/60, total%60

	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}

// ParseDate parses YYYY-MM-DD as a calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(isoDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// SameDay reports whether a and b fall on the same calendar day,
// each read in its own location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// BookingReference returns a short human-friendly booking ID.
func BookingReference() string {
	return "BK" + strings.ToUpper(shortuuid.New()[:8])
}
