package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

func newMockRepo(t *testing.T) (*BookingGormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return NewBookingGormRepository(db), mock
}

func TestTransitionStatus(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"applied", 1, true},
		{"lost the race", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			now := time.Now()
			b := &models.Booking{ID: 7, Status: "Confirmed", StatusChangedAt: &now}

			ok, err := repo.TransitionStatus(context.Background(), b, domain.StatusPending)
			if err != nil {
				t.Fatalf("transition: %v", err)
			}
			if ok != tt.want {
				t.Fatalf("applied = %v, want %v", ok, tt.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestRecordPayment(t *testing.T) {
	tests := []struct {
		name string
		rows *sqlmock.Rows
		want bool
	}{
		{"first delivery", sqlmock.NewRows([]string{"id"}).AddRow(1), true},
		{"duplicate", sqlmock.NewRows([]string{"id"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectBegin()
			mock.ExpectQuery(`INSERT INTO "payment_records" .* ON CONFLICT \("provider_payment_id"\) DO NOTHING`).
				WillReturnRows(tt.rows)
			mock.ExpectCommit()

			ok, err := repo.RecordPayment(context.Background(), &models.PaymentRecord{
				ProviderPaymentID: "9001",
				BookingID:         7,
				Amount:            100000,
				Status:            "approved",
			})
			if err != nil {
				t.Fatalf("record: %v", err)
			}
			if ok != tt.want {
				t.Fatalf("recorded = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestWithinCourtLock_LocksCourtRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "courts" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectRollback()

	boom := errors.New("boom")
	called := false

	err := repo.WithinCourtLock(context.Background(), 3, func(tx domain.Repository) error {
		called = true
		if tx == nil {
			t.Fatal("nil tx repository")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if !called {
		t.Fatal("fn not called")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestWithinCourtLock_UnknownCourt(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "courts" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.WithinCourtLock(context.Background(), 99, func(domain.Repository) error {
		t.Fatal("fn must not run without the lock")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want record not found", err)
	}
}

func TestListActiveOverlapping_SkipsStaleHolds(t *testing.T) {
	repo, mock := newMockRepo(t)

	start := time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	cutoff := start.Add(-24 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE .*court_id = \$1 AND status IN \(\$2,\$3\).*NOT \(status = \$6 AND booking_type = \$7 AND created_at < \$8\).*ORDER BY start_time ASC`).
		WithArgs(3, "Pending", "Confirmed", end, start, "Pending", models.BookingTypeOnline, cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id", "court_id", "status"}).AddRow(11, 3, "Confirmed"))

	out, err := repo.ListActiveOverlapping(context.Background(), 3, start, end, cutoff)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].ID != 11 {
		t.Fatalf("out = %+v", out)
	}
}
