package caretrail

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Download names for the paginated-document exports.
const TimelinePDFFilename = "caretrail-timeline-report.pdf"

// CourtReportFilename returns the dated download name for the legal
// export, e.g. "caretrail-court-report-2024-01-02.pdf".
func CourtReportFilename(at time.Time) string {
	return fmt.Sprintf("caretrail-court-report-%s.pdf", at.Format("2006-01-02"))
}

// courtReportLimit caps the legal report to the first incidents in
// store order.
const courtReportLimit = 10

// CaseInfo is the caregiver-supplied metadata attached to a court
// report.
type CaseInfo struct {
	ChildName   string `validate:"required"`
	DateOfBirth string
	Diagnosis   string
	Purpose     string
	Notes       string
}

// Summary aggregates an incident sequence for the report header.
type Summary struct {
	Total       int
	Low         int // severity 1-2
	Medium      int // severity 3
	High        int // severity 4-5
	TopCategory string
}

// Summarize computes band counts and the most frequent category. Ties
// go to the category encountered first.
func Summarize(incidents []Incident) Summary {
	s := Summary{Total: len(incidents)}
	counts := make(map[string]int)
	var order []string

	for _, inc := range incidents {
		switch Band(inc.Severity) {
		case BandLow:
			s.Low++
		case BandMedium:
			s.Medium++
		default:
			s.High++
		}
		if counts[inc.Category] == 0 {
			order = append(order, inc.Category)
		}
		counts[inc.Category]++
	}

	best := 0
	for _, cat := range order {
		if counts[cat] > best {
			best = counts[cat]
			s.TopCategory = cat
		}
	}
	return s
}

// WriteTimelinePDF writes the general paginated report over the given
// sequence (typically a filtered view), full set included.
func WriteTimelinePDF(w io.Writer, incidents []Incident) error {
	return renderReport(w, "Incident Timeline Report", incidents, nil)
}

// WriteCourtReportPDF writes the legal-report variant: case metadata
// plus the first incidents in store order, capped.
func WriteCourtReportPDF(w io.Writer, incidents []Incident, info CaseInfo) error {
	if err := validate.Struct(info); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if len(incidents) > courtReportLimit {
		incidents = incidents[:courtReportLimit]
	}
	return renderReport(w, "Incident Documentation for Legal Review", incidents, &info)
}

const (
	pdfLineHeight   = 5.0
	pdfBottomMargin = 20.0
	pdfTextWidth    = 180.0
)

func renderReport(w io.Writer, title string, incidents []Incident, info *CaseInfo) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetAutoPageBreak(true, pdfBottomMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(pdfTextWidth, 8, title, "", "C", false)
	pdf.Ln(4)

	writeMetadataBlock(pdf, len(incidents), info)
	writeSummaryBlock(pdf, incidents)

	for i, inc := range incidents {
		writeIncidentEntry(pdf, i+1, inc)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeMetadataBlock(pdf *fpdf.Fpdf, total int, info *CaseInfo) {
	pdf.SetFont("Helvetica", "", 10)

	if info != nil {
		fields := []struct{ label, value string }{
			{"Child", info.ChildName},
			{"Date of birth", info.DateOfBirth},
			{"Diagnosis", info.Diagnosis},
			{"Purpose", info.Purpose},
			{"Notes", info.Notes},
		}
		for _, f := range fields {
			if f.value == "" {
				continue
			}
			pdf.MultiCell(pdfTextWidth, pdfLineHeight, fmt.Sprintf("%s: %s", f.label, f.value), "", "L", false)
		}
	}

	pdf.MultiCell(pdfTextWidth, pdfLineHeight,
		fmt.Sprintf("Generated: %s", time.Now().Format(exportTimeLayout)), "", "L", false)
	pdf.MultiCell(pdfTextWidth, pdfLineHeight,
		fmt.Sprintf("Total incidents: %d", total), "", "L", false)
	pdf.Ln(3)
}

func writeSummaryBlock(pdf *fpdf.Fpdf, incidents []Incident) {
	s := Summarize(incidents)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.MultiCell(pdfTextWidth, 6, "Summary", "", "L", false)
	pdf.SetFont("Helvetica", "", 10)

	if s.Total == 0 {
		pdf.MultiCell(pdfTextWidth, pdfLineHeight, "No incidents recorded.", "", "L", false)
		pdf.Ln(3)
		return
	}

	pdf.MultiCell(pdfTextWidth, pdfLineHeight,
		fmt.Sprintf("Severity: %d low, %d medium, %d high", s.Low, s.Medium, s.High), "", "L", false)
	pdf.MultiCell(pdfTextWidth, pdfLineHeight,
		fmt.Sprintf("Most frequent category: %s", s.TopCategory), "", "L", false)
	pdf.Ln(3)
}

// writeIncidentEntry renders one incident, starting a new page first if
// the whole entry would overflow the current one.
func writeIncidentEntry(pdf *fpdf.Fpdf, n int, inc Incident) {
	pdf.SetFont("Helvetica", "", 10)
	transcriptLines := pdf.SplitText(inc.Transcript, pdfTextWidth)

	// Heading + three detail lines + transcript + spacing.
	needed := 6 + 3*pdfLineHeight + float64(len(transcriptLines))*pdfLineHeight + 4
	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+needed > pageHeight-pdfBottomMargin {
		pdf.AddPage()
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.MultiCell(pdfTextWidth, 6,
		fmt.Sprintf("%d. %s (severity %d)", n, inc.Category, inc.Severity), "", "L", false)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(pdfTextWidth, pdfLineHeight,
		fmt.Sprintf("Date: %s", inc.Timestamp.Format(exportTimeLayout)), "", "L", false)
	pdf.MultiCell(pdfTextWidth, pdfLineHeight,
		fmt.Sprintf("Location: %s", locationOrNone(inc.Location)), "", "L", false)
	pdf.MultiCell(pdfTextWidth, pdfLineHeight,
		fmt.Sprintf("People involved: %s", peopleOrNone(inc.PeopleInvolved)), "", "L", false)
	pdf.MultiCell(pdfTextWidth, pdfLineHeight, inc.Transcript, "", "L", false)
	pdf.Ln(4)
}

func locationOrNone(location string) string {
	if location == "" {
		return "Not recorded"
	}
	return location
}

func peopleOrNone(people []string) string {
	if len(people) == 0 {
		return "None listed"
	}
	return strings.Join(people, "; ")
}
