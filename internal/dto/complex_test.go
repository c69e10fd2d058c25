package dto

import (
	"testing"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

func sampleComplex() *models.Complex {
	return &models.Complex{
		ID:        3,
		Name:      "Riverside",
		Amenities: datatypes.JSONSlice[string]{"parking"},
		Courts: []models.Court{
			{ID: 1, PricingRules: []models.PricingRule{{Price: 100000}, {Price: 180000}}},
			{ID: 2, PricingRules: []models.PricingRule{{Price: 90000}}},
		},
		Images: []models.ComplexImage{
			{ID: 1, URL: "a.jpg"},
			{ID: 2, URL: "b.jpg", IsMain: true},
		},
		Reviews: []models.Review{
			{ID: 9, Rating: 5, Customer: &models.User{FullName: "Lan", Email: "lan@example.com"}},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleComplex())

	if s.CourtCount != 2 {
		t.Fatalf("court count = %d, want 2", s.CourtCount)
	}
	if s.MinPrice != 90000 || s.MaxPrice != 180000 {
		t.Fatalf("price range = %v..%v, want 90000..180000", s.MinPrice, s.MaxPrice)
	}
	if s.MainImage != "b.jpg" {
		t.Fatalf("main image = %q, want b.jpg", s.MainImage)
	}
}

func TestSummarize_FirstImageWithoutMain(t *testing.T) {
	cx := sampleComplex()
	cx.Images[1].IsMain = false

	if got := Summarize(cx).MainImage; got != "a.jpg" {
		t.Fatalf("main image = %q, want a.jpg", got)
	}
}

func TestDetail_ReviewsNameOnly(t *testing.T) {
	d := Detail(sampleComplex())

	if len(d.Reviews) != 1 || d.Reviews[0].CustomerName != "Lan" {
		t.Fatalf("reviews = %+v", d.Reviews)
	}
	if len(d.Courts) != 2 || len(d.Courts[1].PricingRules) != 1 {
		t.Fatalf("courts = %+v", d.Courts)
	}
}
