package payment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
)

type StatusView struct {
	BookingID uint       `json:"bookingId"`
	Status    string     `json:"status"`
	IsPaid    bool       `json:"isPaid"`
	Reason    string     `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	// Expired reports a hold past its window that the sweeper has not
	// cancelled yet.
	Expired bool `json:"expired"`
}

// GetPaymentStatus reflects the stored booking status. It never writes, so
// clients may poll it as often as they like.
type GetPaymentStatus struct {
	repo     domain.Repository
	settings Settings
}

func NewGetPaymentStatus(repo domain.Repository, settings Settings) *GetPaymentStatus {
	return &GetPaymentStatus{repo: repo, settings: settings}
}

func (uc *GetPaymentStatus) Execute(ctx context.Context, actor domain.Actor, bookingID uint) (*StatusView, error) {
	b, err := loadVisible(ctx, uc.repo, actor, bookingID)
	if err != nil {
		return nil, err
	}

	st := domain.Status(b.Status)
	view := &StatusView{
		BookingID: b.ID,
		Status:    b.Status,
		IsPaid:    st == domain.StatusConfirmed || st == domain.StatusCompleted,
		Reason:    b.Reason,
		ExpiresAt: domain.HoldExpiresAt(b, uc.settings.PendingHold),
	}
	view.Expired = domain.IsStaleHold(b, uc.settings.PendingHold, uc.settings.now())
	return view, nil
}
