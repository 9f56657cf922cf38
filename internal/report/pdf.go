package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ecotrack/carbon-tracker/internal/model"
	"github.com/ecotrack/carbon-tracker/internal/tips"
)

// Data is everything the monthly report renders. Activities are expected
// newest first; Breakdown sorted descending by emissions.
type Data struct {
	MonthName   string
	GeneratedAt time.Time
	PeriodStart time.Time
	TotalCO2    float64
	Activities  []model.Activity
	Breakdown   []tips.CategoryEmission
	Tips        []tips.Tip
	Offset      OffsetSuggestions
}

const maxListedActivities = 10

// WritePDF renders the monthly report and streams it to w. Content is
// built page by page and written out at the end, so a returned error may
// arrive after bytes have hit the wire; the handler decides whether it can
// still send a plain error response or must terminate the stream.
func WritePDF(w io.Writer, d Data) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 10, "Monthly Carbon Footprint Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, d.MonthName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 6, "Report generated on: "+d.GeneratedAt.Format("2 January 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	section(pdf, "Summary")
	body(pdf, fmt.Sprintf("Total CO2 Emitted: %.2f kg", Round2(d.TotalCO2)))
	body(pdf, fmt.Sprintf("Total Activities Logged: %d", len(d.Activities)))
	body(pdf, fmt.Sprintf("Period: %s - %s",
		d.PeriodStart.Format("02/01/2006"), d.GeneratedAt.Format("02/01/2006")))
	pdf.Ln(4)

	section(pdf, "Activity-wise Breakdown")
	if len(d.Breakdown) == 0 {
		body(pdf, "No activities logged this month.")
	}
	for _, b := range d.Breakdown {
		pct := 0.0
		if d.TotalCO2 > 0 {
			pct = b.TotalCO2 / d.TotalCO2 * 100
		}
		body(pdf, fmt.Sprintf("- %s: %.2f kg CO2 (%d activities, %.1f%%)",
			titleCase(b.Category), b.TotalCO2, b.Count, pct))
	}
	pdf.Ln(4)

	section(pdf, "Recent Activities")
	if len(d.Activities) == 0 {
		body(pdf, "No activities logged this month.")
	}
	listed := d.Activities
	if len(listed) > maxListedActivities {
		listed = listed[:maxListedActivities]
	}
	for i, a := range listed {
		body(pdf, fmt.Sprintf("%d. %s - %.2f kg CO2 (%s)",
			i+1, titleCase(a.Type), a.CarbonFootprint, a.CreatedAt.Format("02/01/2006")))
	}
	if extra := len(d.Activities) - maxListedActivities; extra > 0 {
		pdf.SetFont("Helvetica", "I", 10)
		body(pdf, fmt.Sprintf("... and %d more activities", extra))
	}
	pdf.Ln(4)

	section(pdf, "Offset Suggestions")
	subhead(pdf, "Monthly Offset:")
	body(pdf, fmt.Sprintf("- Plant %d trees (1 tree absorbs ~21kg CO2/year)", d.Offset.MonthlyTrees))
	body(pdf, fmt.Sprintf("- Invest INR %d in renewable energy projects", d.Offset.RenewableCostINR))
	subhead(pdf, "Yearly Projection:")
	body(pdf, fmt.Sprintf("- Projected yearly emissions: %.2f kg CO2", Round2(d.Offset.YearlyCO2)))
	body(pdf, fmt.Sprintf("- Plant %d trees for yearly offset", d.Offset.YearlyTrees))
	subhead(pdf, "Lifestyle Actions:")
	body(pdf, fmt.Sprintf("- Cycle instead of driving for %d days (10km commute each)", d.Offset.CyclingDays))
	body(pdf, fmt.Sprintf("- Go meat-free for %d days", d.Offset.MeatFreeDays))
	pdf.Ln(4)

	section(pdf, "Personalized Tips")
	if len(d.Tips) == 0 {
		body(pdf, "No personalized tips available.")
	}
	for i, tip := range d.Tips {
		body(pdf, fmt.Sprintf("%d. [%s] %s", i+1, titleCase(tip.Category), tip.Message))
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(136, 136, 136)
	pdf.MultiCell(0, 4, "Disclaimer: All values presented in this report are estimates for awareness purposes only. "+
		"Actual carbon footprint may vary based on various factors. Tree absorption rates, renewable energy costs, "+
		"and lifestyle action savings are approximate averages.", "", "J", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 6, "Generated by Carbon Tracker", "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	x, y := pdf.GetX(), pdf.GetY()
	pdf.Line(x, y, 210-18, y)
	pdf.Ln(2)
}

func subhead(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, text, "", 1, "L", false, 0, "")
}

func body(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, text, "", "L", false)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
