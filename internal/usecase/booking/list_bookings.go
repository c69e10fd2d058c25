package booking

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

var sortColumns = map[string]string{
	"createdAt":  "created_at",
	"startTime":  "start_time",
	"totalPrice": "total_price",
	"status":     "status",
}

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type Scope int

const (
	// ScopeCustomer lists the actor's own bookings.
	ScopeCustomer Scope = iota
	// ScopeOwner lists bookings in the actor's complexes.
	ScopeOwner
)

type ListBookingsInput struct {
	Actor domain.Actor
	Scope Scope

	ComplexID uint
	Status    string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type BookingPage struct {
	Items      []models.Booking
	Pagination httpresp.Pagination
}

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) Execute(ctx context.Context, in ListBookingsInput) (*BookingPage, error) {
	f := domain.ListFilter{
		ComplexID: in.ComplexID,
		Search:    strings.TrimSpace(in.Search),
		Page:      in.Page,
		Limit:     in.Limit,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	switch in.Scope {
	case ScopeOwner:
		id := in.Actor.UserID
		f.OwnerID = &id
	default:
		id := in.Actor.UserID
		f.CustomerID = &id
	}

	if in.Status != "" {
		for _, s := range strings.Split(in.Status, ",") {
			st, ok := domain.ParseStatus(strings.TrimSpace(s))
			if !ok {
				return nil, httperr.ErrValidation("invalid_status", "Unknown booking status.")
			}
			f.Statuses = append(f.Statuses, string(st))
		}
	}

	if in.SortBy != "" {
		col, ok := sortColumns[in.SortBy]
		if !ok {
			return nil, httperr.ErrValidation("invalid_sort_by", "sortBy must be createdAt, startTime, totalPrice or status.")
		}
		f.SortBy = col
	}

	switch strings.ToLower(in.SortOrder) {
	case "":
	case "asc":
		f.SortOrder = "asc"
	case "desc":
		f.SortOrder = "desc"
	default:
		return nil, httperr.ErrValidation("invalid_sort_order", "sortOrder must be asc or desc.")
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}

	items, total, err := uc.repo.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}

	return &BookingPage{
		Items:      items,
		Pagination: httpresp.NewPagination(f.Page, f.Limit, total),
	}, nil
}
