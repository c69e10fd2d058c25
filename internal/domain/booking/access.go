package booking

import "github.com/BruksfildServices01/court-scheduler/internal/models"

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID uint
	Role   string
}

// SystemActor drives automatic transitions (expiry, payment confirmation).
var SystemActor = Actor{Role: "System"}

func (a Actor) IsSystem() bool {
	return a.Role == SystemActor.Role
}

func (a Actor) OwnsComplex(cx *models.Complex) bool {
	return cx != nil && a.Role == models.RoleOwner && cx.OwnerID == a.UserID
}

// CanView allows admins, the booking's customer and the complex owner.
// b.Court.Complex must be loaded.
func (a Actor) CanView(b *models.Booking) bool {
	if a.Role == models.RoleAdmin {
		return true
	}
	if b.CustomerID != nil && *b.CustomerID == a.UserID {
		return true
	}
	return b.Court != nil && a.OwnsComplex(b.Court.Complex)
}

// UserIDPtr is nil for the system actor, for audit rows.
func (a Actor) UserIDPtr() *uint {
	if a.IsSystem() || a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
