package notify

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/court-scheduler/internal/events"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/timezone"
)

// Notice is the customer-facing text for a booking event.
type Notice struct {
	Title   string
	Message string
	Kind    string
}

// CustomerNotice renders what the booking's customer is told about ev.
// Walk-in bookings have no customer account and get nothing.
func CustomerNotice(ev events.Event) (Notice, bool) {
	if ev.CustomerID == nil {
		return Notice{}, false
	}

	slot := describeSlot(ev)

	switch ev.Type {
	case events.BookingCreated:
		return Notice{
			Title:   fmt.Sprintf("Booking #%d received", ev.BookingID),
			Message: fmt.Sprintf("Your booking for %s is waiting for payment. Total: %s.", slot, FormatVND(ev.TotalPrice)),
			Kind:    models.NotificationInfo,
		}, true
	case events.BookingConfirmed:
		return Notice{
			Title:   fmt.Sprintf("Booking #%d confirmed", ev.BookingID),
			Message: fmt.Sprintf("Your booking for %s is confirmed. See you on court!", slot),
			Kind:    models.NotificationSuccess,
		}, true
	case events.BookingRejected:
		return Notice{
			Title:   fmt.Sprintf("Booking #%d rejected", ev.BookingID),
			Message: withReason(fmt.Sprintf("The owner rejected your booking for %s.", slot), ev.Reason),
			Kind:    models.NotificationError,
		}, true
	case events.BookingCancelled:
		return Notice{
			Title:   fmt.Sprintf("Booking #%d cancelled", ev.BookingID),
			Message: withReason(fmt.Sprintf("Your booking for %s was cancelled.", slot), ev.Reason),
			Kind:    models.NotificationWarning,
		}, true
	case events.BookingExpired:
		return Notice{
			Title:   fmt.Sprintf("Booking #%d expired", ev.BookingID),
			Message: fmt.Sprintf("Your booking for %s was released because payment did not arrive in time.", slot),
			Kind:    models.NotificationWarning,
		}, true
	case events.BookingCompleted:
		return Notice{
			Title:   fmt.Sprintf("Booking #%d completed", ev.BookingID),
			Message: fmt.Sprintf("Thanks for playing at %s. You can now leave a review.", ev.ComplexName),
			Kind:    models.NotificationInfo,
		}, true
	}
	return Notice{}, false
}

// OwnerNotice renders the in-app message for the complex owner.
func OwnerNotice(ev events.Event) (Notice, bool) {
	if ev.OwnerID == 0 {
		return Notice{}, false
	}

	slot := describeSlot(ev)

	switch ev.Type {
	case events.BookingCreated:
		who := ev.Customer
		if who == "" {
			who = "A customer"
		}
		return Notice{
			Title:   fmt.Sprintf("New booking #%d", ev.BookingID),
			Message: fmt.Sprintf("%s booked %s (%s).", who, slot, FormatVND(ev.TotalPrice)),
			Kind:    models.NotificationInfo,
		}, true
	case events.BookingExpired:
		return Notice{
			Title:   fmt.Sprintf("Booking #%d expired", ev.BookingID),
			Message: fmt.Sprintf("The unpaid booking for %s was released.", slot),
			Kind:    models.NotificationWarning,
		}, true
	}
	return Notice{}, false
}

func describeSlot(ev events.Event) string {
	loc := timezone.Location(ev.Timezone)
	start := ev.StartTime.In(loc)
	end := ev.EndTime.In(loc)

	return fmt.Sprintf("%s, %s on %s %s-%s",
		ev.CourtName, ev.ComplexName,
		start.Format("02/01/2006"), start.Format("15:04"), end.Format("15:04"),
	)
}

func withReason(msg, reason string) string {
	if reason = strings.TrimSpace(reason); reason != "" {
		return msg + " Reason: " + reason
	}
	return msg
}

// FormatVND renders 150000 as "150,000đ".
func FormatVND(v float64) string {
	digits := strconv.FormatInt(int64(math.Round(v)), 10)

	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString("đ")
	return b.String()
}
