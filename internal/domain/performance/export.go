package performance

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WriteProfilePDF renders p as an A4 report.
func WriteProfilePDF(w io.Writer, p Profile) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(p.Employee.Name+" performance profile"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(p.Employee.Name))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("%s, %s", p.Employee.Designation, p.Employee.Department)))
	pdf.Ln(6)
	pdf.Cell(0, 7, tr(p.Employee.Email))
	pdf.Ln(6)
	if p.Employee.DateOfJoining != nil {
		pdf.Cell(0, 7, "Joined: "+p.Employee.DateOfJoining.Format("2006-01-02"))
		pdf.Ln(6)
	}

	section := func(title string) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
	}
	line := func(text string) {
		pdf.MultiCell(0, 6, tr(text), "", "L", false)
	}
	empty := func(text string) {
		pdf.SetFont("Helvetica", "I", 11)
		line(text)
		pdf.SetFont("Helvetica", "", 11)
	}

	section("Key Result Areas")
	if len(p.KRAs) == 0 {
		empty("No KRAs assigned.")
	}
	for _, kra := range p.KRAs {
		line(fmt.Sprintf("%s (%.0f%%): %s", kra.Title, kra.Weightage, kra.Description))
	}

	section("Key Performance Indicators")
	if len(p.KPIs) == 0 {
		empty("No KPIs tracked.")
	}
	for _, kpi := range p.KPIs {
		line(fmt.Sprintf("%s: %g / %g %s (%.0f%%)", kpi.Metric, kpi.Actual, kpi.Target, kpi.Unit, kpi.Attainment()*100))
	}

	section("Annual Appraisal")
	if p.Appraisal == nil {
		empty("No appraisal recorded.")
	} else {
		a := p.Appraisal
		line(fmt.Sprintf("%d: rated %.1f by %s (%s)", a.Year, a.Rating, a.Reviewer, a.Status))
		if a.Comments != "" {
			line(a.Comments)
		}
	}

	section("Goals")
	if len(p.Goals) == 0 {
		empty("No goals set.")
	}
	for _, goal := range p.Goals {
		text := fmt.Sprintf("%s [%s, %.0f%%]", goal.Title, goal.Status, goal.Progress)
		if goal.TargetDate != nil {
			text += " due " + goal.TargetDate.Format("2006-01-02")
		}
		line(text)
	}

	section("360 Feedback")
	if len(p.Feedback) == 0 {
		empty("No feedback received.")
	}
	for _, feedback := range p.Feedback {
		line(fmt.Sprintf("%s (%s), %.1f: %s", feedback.Reviewer, feedback.Relationship, feedback.Rating, feedback.Comments))
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render profile pdf: %w", err)
	}
	return pdf.Output(w)
}
