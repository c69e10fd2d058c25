package booking

import (
	"sync"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/infra/repository/memory"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

const tz = "Asia/Ho_Chi_Minh"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	repo     *memory.Repository
	clock    *testClock
	policy   Policy
	owner    models.User
	other    models.User
	customer models.User
	cx       models.Complex
	court    models.Court
}

func location(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	return loc
}

// newFixture seeds one complex open 06:00-22:00 with one court priced
// 100000/hour on Mondays. The clock starts Sunday 2026-10-18 12:00 local.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc := location(t)

	repo := memory.New()
	f := &fixture{
		repo:  repo,
		clock: &testClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, loc)},
	}
	f.policy = Policy{
		MinDuration: 30 * time.Minute,
		PendingHold: 15 * time.Minute,
		Now:         f.clock.Now,
	}

	f.owner = repo.AddUser(models.User{FullName: "Owner", Email: "owner@example.com", Role: models.RoleOwner})
	f.other = repo.AddUser(models.User{FullName: "Other Owner", Email: "other@example.com", Role: models.RoleOwner})
	f.customer = repo.AddUser(models.User{FullName: "Nguyen Van A", Email: "a@example.com", Role: models.RoleCustomer})

	f.cx = repo.AddComplex(models.Complex{
		OwnerID:       f.owner.ID,
		Name:          "Hanoi Sports Hub",
		OpenTime:      "06:00",
		CloseTime:     "22:00",
		Timezone:      tz,
		Status:        models.StatusActive,
		BankCode:      "VCB",
		AccountNumber: "0123456789",
		AccountName:   "NGUYEN VAN OWNER",
	})
	f.court = repo.AddCourt(models.Court{ComplexID: f.cx.ID, Name: "Court 1", Status: models.StatusActive})
	repo.AddPricingRule(models.PricingRule{
		CourtID: f.court.ID, DayOfWeek: "Monday", StartTime: "06:00", EndTime: "22:00", Price: 100000,
	})
	return f
}

// monday formats a wall-clock time on Monday 2026-10-19.
func monday(hm string) string {
	return "2026-10-19T" + hm
}

func (f *fixture) at(t *testing.T, day int, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, location(t))
}

func (f *fixture) customerActor() domain.Actor {
	return domain.Actor{UserID: f.customer.ID, Role: models.RoleCustomer}
}

func (f *fixture) ownerActor() domain.Actor {
	return domain.Actor{UserID: f.owner.ID, Role: models.RoleOwner}
}

func (f *fixture) otherOwnerActor() domain.Actor {
	return domain.Actor{UserID: f.other.ID, Role: models.RoleOwner}
}

func (f *fixture) checker() *CheckAvailability {
	return NewCheckAvailability(f.repo, f.policy)
}

func (f *fixture) creator() *CreateBooking {
	return NewCreateBooking(f.repo, nil, nil, f.policy)
}

func (f *fixture) lifecycle() *UpdateBookingStatus {
	return NewUpdateBookingStatus(f.repo, nil, nil, f.policy)
}

func (f *fixture) sweeper() *ExpirePendingBookings {
	return NewExpirePendingBookings(f.repo, nil, nil, f.policy)
}

func (f *fixture) book(t *testing.T, start, end string) *models.Booking {
	t.Helper()
	b, err := f.creator().Execute(t.Context(), CreateBookingInput{
		Actor:     f.customerActor(),
		CourtID:   f.court.ID,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		t.Fatalf("create booking %s-%s: %v", start, end, err)
	}
	return b
}
