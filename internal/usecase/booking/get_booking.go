package booking

import (
	"context"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// GetBooking loads a booking the actor is allowed to see.
type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Booking, error) {
	b, err := loadBooking(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanView(b) {
		return nil, httperr.ErrForbidden("booking_not_accessible")
	}
	return b, nil
}
