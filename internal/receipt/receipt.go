package receipt

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/timezone"
)

// Build renders a one page PDF receipt for b. b.Court.Complex must be
// loaded. The file name is returned alongside the bytes.
func Build(b *models.Booking, issuedAt time.Time) ([]byte, string, error) {
	if b.Court == nil || b.Court.Complex == nil {
		return nil, "", fmt.Errorf("receipt: booking %d has no court loaded", b.ID)
	}
	cx := b.Court.Complex
	loc := timezone.Location(cx.Timezone)
	start := b.StartTime.In(loc)
	end := b.EndTime.In(loc)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Booking #%d", b.ID), false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	line := func(label, value string) {
		pdf.Cell(45, 7, label)
		pdf.Cell(0, 7, tr(value))
		pdf.Ln(7)
	}

	line("Receipt no:", fmt.Sprintf("BK-%06d", b.ID))
	line("Issued at:", issuedAt.In(loc).Format("02/01/2006 15:04"))
	line("Status:", b.Status)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Venue")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	line("Complex:", cx.Name)
	line("Court:", b.Court.Name)
	line("Address:", joinNonEmpty(cx.Address, cx.City))
	line("Phone:", orDash(cx.PhoneNumber))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Booking")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	line("Customer:", orDash(b.CustomerName()))
	line("Phone:", orDash(b.CustomerPhone()))
	line("Date:", start.Format("02/01/2006"))
	line("Time:", start.Format("15:04")+" - "+end.Format("15:04"))
	line("Duration:", strconv.FormatFloat(end.Sub(start).Hours(), 'f', -1, 64)+" h")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Total: "+FormatVND(b.TotalPrice))
	pdf.Ln(12)

	if b.Reason != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, tr("Note: "+b.Reason), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), fmt.Sprintf("booking_%d.pdf", b.ID), nil
}

// FormatVND groups thousands with dots, e.g. 150.000 VND.
func FormatVND(v float64) string {
	s := strconv.FormatInt(int64(v), 10)
	neg := false
	if s[0] == '-' {
		neg, s = true, s[1:]
	}

	var out []byte
	for i := 0; i < len(s); i++ {
		out = append(out, s[i])
		if pos := len(s) - i - 1; pos > 0 && pos%3 == 0 {
			out = append(out, '.')
		}
	}
	if neg {
		return "-" + string(out) + " VND"
	}
	return string(out) + " VND"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return orDash(b)
	case b == "":
		return a
	}
	return a + ", " + b
}
