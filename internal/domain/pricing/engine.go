package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// DayAll matches every weekday.
const DayAll = "All"

type Quote struct {
	RuleID uint    `json:"ruleId"`
	Rate   float64 `json:"rate"`
	Hours  float64 `json:"hours"`
	Price  float64 `json:"price"`
}

type candidate struct {
	rule     models.PricingRule
	explicit bool
	width    int
}

// QuotePrice resolves the single rule that covers [start, end) on the
// weekday of start and prices the range by the hour. start and end must be
// in the complex's location.
//
// Precedence: an explicit weekday beats "All", then the narrowest window
// wins. Two rules still tied, or no covering rule, is a NoRuleError; a
// booking is never split across rules.
func QuotePrice(rules []models.PricingRule, start, end time.Time) (Quote, error) {
	weekday := start.Weekday().String()
	from := booking.MinuteOfDay(start, start)
	to := booking.MinuteOfDay(start, end)

	noRule := httperr.NoRuleError{
		Weekday: weekday,
		From:    start.Format("15:04"),
		To:      end.Format("15:04"),
	}

	var best *candidate
	tied := false

	for _, r := range rules {
		explicit, ok := matchDay(r.DayOfWeek, start.Weekday())
		if !ok {
			continue
		}

		rs, err := booking.ParseClock(r.StartTime)
		if err != nil {
			continue
		}
		re, err := booking.ParseClock(r.EndTime)
		if err != nil || rs >= re {
			continue
		}

		if from < rs || to > re {
			continue
		}

		c := candidate{rule: r, explicit: explicit, width: re - rs}
		switch {
		case best == nil || beats(c, *best):
			best = &c
			tied = false
		case !beats(*best, c):
			tied = true
		}
	}

	if best == nil {
		return Quote{}, noRule
	}
	if tied {
		noRule.Ambiguous = true
		return Quote{}, noRule
	}

	hours := end.Sub(start).Hours()
	return Quote{
		RuleID: best.rule.ID,
		Rate:   best.rule.Price,
		Hours:  hours,
		Price:  roundMoney(best.rule.Price * hours),
	}, nil
}

func beats(a, b candidate) bool {
	if a.explicit != b.explicit {
		return a.explicit
	}
	return a.width < b.width
}

// matchDay reports whether day applies to wd and whether it names wd explicitly.
func matchDay(day string, wd time.Weekday) (explicit bool, ok bool) {
	if strings.EqualFold(day, DayAll) {
		return false, true
	}
	return true, strings.EqualFold(day, wd.String())
}

// roundMoney rounds to whole dong; VND has no minor unit.
func roundMoney(v float64) float64 {
	return math.Round(v)
}
