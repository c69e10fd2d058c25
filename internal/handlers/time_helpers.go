package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/timezone"
)

// idParam reads a positive numeric path param, writing a 400 otherwise.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

// --------------------------------------------------
// Complex-local dates
// --------------------------------------------------

func locationOf(cx *models.Complex) *time.Location {
	if cx == nil {
		return timezone.Location("")
	}
	return timezone.Location(cx.Timezone)
}

// dayRange turns optional from/to dates (YYYY-MM-DD, inclusive) into a
// half-open [from, to+1d) range in loc. Unparseable values are ignored.
func dayRange(fromStr, toStr string, loc *time.Location) (from, to *time.Time) {
	if fromStr != "" {
		if d, err := timezone.ParseDate(fromStr, loc); err == nil {
			from = &d
		}
	}
	if toStr != "" {
		if d, err := timezone.ParseDate(toStr, loc); err == nil {
			next := d.AddDate(0, 0, 1)
			to = &next
		}
	}
	return from, to
}

func todayIn(cx *models.Complex) string {
	return time.Now().In(locationOf(cx)).Format("2006-01-02")
}
