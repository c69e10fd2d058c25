package dto

import (
	"time"

	"github.com/BruksfildServices01/court-scheduler/internal/domain/pricing"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// ComplexSummary is a public search result.
type ComplexSummary struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	SportType    string   `json:"sportType"`
	OpenTime     string   `json:"openTime"`
	CloseTime    string   `json:"closeTime"`
	Amenities    []string `json:"amenities"`
	Rating       float64  `json:"rating"`
	TotalReviews int      `json:"totalReviews"`
	MainImage    string   `json:"mainImage,omitempty"`
	CourtCount   int      `json:"courtCount"`
	MinPrice     float64  `json:"minPrice"`
	MaxPrice     float64  `json:"maxPrice"`
}

type PublicCourt struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	PricingRules []models.PricingRule `json:"pricingRules"`
}

type PublicReview struct {
	ID           uint      `json:"id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CustomerName string    `json:"customerName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ComplexDetail is the public complex page. Bank details stay private
// until a booking exists.
type ComplexDetail struct {
	ComplexSummary
	PhoneNumber string                `json:"phoneNumber"`
	Description string                `json:"description"`
	Timezone    string                `json:"timezone"`
	Courts      []PublicCourt         `json:"courts"`
	Images      []models.ComplexImage `json:"images"`
	Reviews     []PublicReview        `json:"reviews"`
}

// Summarize expects active courts with their pricing rules and the images
// to be loaded.
func Summarize(cx *models.Complex) ComplexSummary {
	out := ComplexSummary{
		ID:           cx.ID,
		Name:         cx.Name,
		Address:      cx.Address,
		City:         cx.City,
		SportType:    cx.SportType,
		OpenTime:     cx.OpenTime,
		CloseTime:    cx.CloseTime,
		Amenities:    []string(cx.Amenities),
		Rating:       cx.Rating,
		TotalReviews: cx.TotalReviews,
		CourtCount:   len(cx.Courts),
	}
	if out.Amenities == nil {
		out.Amenities = []string{}
	}

	var rules []models.PricingRule
	for _, court := range cx.Courts {
		rules = append(rules, court.PricingRules...)
	}
	out.MinPrice, out.MaxPrice = pricing.PriceRange(rules)

	for i, img := range cx.Images {
		if img.IsMain || i == 0 {
			out.MainImage = img.URL
		}
		if img.IsMain {
			break
		}
	}
	return out
}

func Detail(cx *models.Complex) ComplexDetail {
	out := ComplexDetail{
		ComplexSummary: Summarize(cx),
		PhoneNumber:    cx.PhoneNumber,
		Description:    cx.Description,
		Timezone:       cx.Timezone,
		Courts:         make([]PublicCourt, 0, len(cx.Courts)),
		Images:         cx.Images,
		Reviews:        make([]PublicReview, 0, len(cx.Reviews)),
	}
	if out.Images == nil {
		out.Images = []models.ComplexImage{}
	}

	for _, court := range cx.Courts {
		rules := court.PricingRules
		if rules == nil {
			rules = []models.PricingRule{}
		}
		out.Courts = append(out.Courts, PublicCourt{
			ID:           court.ID,
			Name:         court.Name,
			Description:  court.Description,
			PricingRules: rules,
		})
	}

	for _, r := range cx.Reviews {
		name := ""
		if r.Customer != nil {
			name = r.Customer.FullName
		}
		out.Reviews = append(out.Reviews, PublicReview{
			ID:           r.ID,
			Rating:       r.Rating,
			Comment:      r.Comment,
			CustomerName: name,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out
}
