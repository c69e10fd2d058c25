package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/timezone"
)

const (
	maxTransferInfo = 25
	notAvailable    = "N/A"
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Settings drive the transfer description and QR image.
type Settings struct {
	DescriptionPrefix string
	QRBaseURL         string
	PendingHold       time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ======================================================
// OUTPUT
// ======================================================

type Info struct {
	BankCode      string  `json:"bank_code"`
	AccountNumber string  `json:"account_number"`
	AccountName   string  `json:"account_name"`
	Amount        int64   `json:"amount"`
	Description   string  `json:"description"`
	QRURL         *string `json:"qr_url"`
}

type BookingSummary struct {
	ID                 uint      `json:"id"`
	CourtID            uint      `json:"courtId"`
	CourtName          string    `json:"courtName"`
	ComplexName        string    `json:"complexName"`
	StartTime          time.Time `json:"startTime"`
	EndTime            time.Time `json:"endTime"`
	TotalPrice         float64   `json:"totalPrice"`
	Status             string    `json:"status"`
	ComplexPhoneNumber string    `json:"complexPhoneNumber"`
	ComplexAddress     string    `json:"complexAddress"`
	ComplexCity        string    `json:"complexCity"`
}

type Details struct {
	Booking     BookingSummary `json:"booking"`
	PaymentInfo Info           `json:"paymentInfo"`
}

// ======================================================
// USE CASE
// ======================================================

// GetPaymentInfo derives the settlement details for a booking from its
// complex's bank info. The result depends only on stored data.
type GetPaymentInfo struct {
	repo     domain.Repository
	settings Settings
}

func NewGetPaymentInfo(repo domain.Repository, settings Settings) *GetPaymentInfo {
	return &GetPaymentInfo{repo: repo, settings: settings}
}

func (uc *GetPaymentInfo) Execute(ctx context.Context, actor domain.Actor, bookingID uint) (*Details, error) {
	b, err := loadVisible(ctx, uc.repo, actor, bookingID)
	if err != nil {
		return nil, err
	}

	cx := b.Court.Complex
	loc := b.StartTime.Location()
	if cx != nil {
		loc = timezone.Location(cx.Timezone)
	}

	out := &Details{
		Booking: BookingSummary{
			ID:         b.ID,
			CourtID:    b.CourtID,
			CourtName:  b.Court.Name,
			StartTime:  b.StartTime.In(loc),
			EndTime:    b.EndTime.In(loc),
			TotalPrice: b.TotalPrice,
			Status:     b.Status,
		},
		PaymentInfo: BuildInfo(uc.settings, cx, b),
	}
	if cx != nil {
		out.Booking.ComplexName = cx.Name
		out.Booking.ComplexPhoneNumber = cx.PhoneNumber
		out.Booking.ComplexAddress = cx.Address
		out.Booking.ComplexCity = cx.City
	}
	return out, nil
}

// BuildInfo falls back to "N/A" bank fields and no QR when the complex has
// no bank account configured.
func BuildInfo(s Settings, cx *models.Complex, b *models.Booking) Info {
	info := Info{
		BankCode:      notAvailable,
		AccountNumber: notAvailable,
		AccountName:   notAvailable,
		Amount:        AmountDue(b),
		Description:   Description(s.DescriptionPrefix, b),
	}

	if cx == nil {
		return info
	}
	if cx.BankCode != "" {
		info.BankCode = cx.BankCode
	}
	if cx.AccountNumber != "" {
		info.AccountNumber = cx.AccountNumber
	}
	if cx.AccountName != "" {
		info.AccountName = cx.AccountName
	}

	if cx.HasBankInfo() && s.QRBaseURL != "" {
		qr := QRURL(s.QRBaseURL, cx, info.Amount, info.Description)
		info.QRURL = &qr
	}
	return info
}

// AmountDue is the whole-unit amount a customer is asked to transfer.
// Prices stored with a fraction are rounded up so paying the shown amount
// always covers the booking.
func AmountDue(b *models.Booking) int64 {
	return int64(math.Ceil(b.TotalPrice))
}

// Description embeds the booking id so transfers can be matched by hand.
func Description(prefix string, b *models.Booking) string {
	return strings.TrimSpace(fmt.Sprintf("%s %d %s", prefix, b.ID, b.CustomerName()))
}

func QRURL(base string, cx *models.Complex, amount int64, description string) string {
	q := fmt.Sprintf(
		"%s/%s-%s-compact2.jpg?amount=%d&addInfo=%s",
		strings.TrimRight(base, "/"),
		url.PathEscape(cx.BankCode),
		url.PathEscape(cx.AccountNumber),
		amount,
		url.QueryEscape(cleanTransferText(description)),
	)
	if cx.AccountName != "" {
		q += "&accountName=" + url.QueryEscape(cleanTransferText(cx.AccountName))
	}
	return q
}

// cleanTransferText keeps ASCII letters, digits and single spaces, cut to
// what banking apps accept in the transfer note.
func cleanTransferText(s string) string {
	s = nonAlnum.ReplaceAllString(s, "")
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	if len(s) > maxTransferInfo {
		s = strings.TrimSpace(s[:maxTransferInfo])
	}
	return s
}

// ======================================================
// Helpers
// ======================================================

func loadVisible(ctx context.Context, repo domain.Repository, actor domain.Actor, id uint) (*models.Booking, error) {
	b, err := repo.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("booking")
		}
		return nil, err
	}
	if !actor.CanView(b) {
		return nil, httperr.ErrForbidden("booking_not_accessible")
	}
	if b.Court == nil {
		return nil, httperr.ErrNotFound("court")
	}
	return b, nil
}
