package booking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/domain/pricing"
	"github.com/BruksfildServices01/court-scheduler/internal/obs"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CheckAvailabilityInput struct {
	CourtID   uint
	StartTime string
	EndTime   string
}

type AvailabilityResult struct {
	CourtID   uint      `json:"courtId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	Available      bool     `json:"available"`
	EstimatedPrice *float64 `json:"estimatedPrice,omitempty"`
	DurationHours  float64  `json:"durationHours"`
	ConflictCode   string   `json:"conflictCode,omitempty"`
	ConflictReason string   `json:"conflictReason,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

// CheckAvailability produces a non-binding quote. It never writes.
type CheckAvailability struct {
	repo   domain.Repository
	policy Policy
}

func NewCheckAvailability(repo domain.Repository, policy Policy) *CheckAvailability {
	return &CheckAvailability{repo: repo, policy: policy}
}

func (uc *CheckAvailability) Execute(
	ctx context.Context,
	in CheckAvailabilityInput,
) (*AvailabilityResult, error) {

	ctx, span := obs.Tracer().Start(ctx, "booking.CheckAvailability")
	defer span.End()
	span.SetAttributes(attribute.Int64("court.id", int64(in.CourtID)))

	court, err := loadBookableCourt(ctx, uc.repo, in.CourtID)
	if err != nil {
		return nil, err
	}

	start, end, err := parseRange(court.Complex, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	res := &AvailabilityResult{
		CourtID:       court.ID,
		StartTime:     start,
		EndTime:       end,
		DurationHours: end.Sub(start).Hours(),
	}

	verdict, err := uc.policy.assess(ctx, uc.repo, court, start, end, uc.policy.now())
	if err != nil {
		return nil, err
	}
	if !verdict.ok() {
		res.ConflictCode = verdict.Code
		res.ConflictReason = verdict.Reason
		return res, nil
	}

	rules, err := uc.repo.ListPricingRules(ctx, court.ID)
	if err != nil {
		return nil, err
	}

	// A missing rule is an error, never a zero price.
	quote, err := pricing.QuotePrice(rules, start, end)
	if err != nil {
		return nil, err
	}

	res.Available = true
	res.EstimatedPrice = &quote.Price
	return res, nil
}
