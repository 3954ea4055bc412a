package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Brand palette used across the printable report.
var (
	brandBlue   = [3]int{39, 46, 99}
	brandOrange = [3]int{240, 143, 0}
)

// Section is one numbered table block inside a report document.
type Section struct {
	Heading  string
	Headers  []string
	Rows     [][]string
	Accent   bool // orange header band instead of blue
	FontSize float64
}

// ReportDocument describes a multi-section printable report.
type ReportDocument struct {
	Title    string
	Subtitle string
	Sections []Section
}

// PDFExporter renders report documents into PDF bytes.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF with a branded header band and one table per section.
func (e *PDFExporter) Render(doc ReportDocument) ([]byte, error) {
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("pdf requires at least one section")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 15, 14)
	pdf.AddPage()

	pdf.SetFillColor(brandBlue[0], brandBlue[1], brandBlue[2])
	pdf.Rect(0, 0, 210, 20, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(14, 13, doc.Title)

	pdf.SetTextColor(100, 100, 100)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(14, 28, doc.Subtitle)
	pdf.SetY(34)

	for i, section := range doc.Sections {
		e.renderSection(pdf, i+1, section)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) renderSection(pdf *gofpdf.Fpdf, number int, section Section) {
	if pdf.GetY() > 250 {
		pdf.AddPage()
	}

	pdf.Ln(6)
	pdf.SetTextColor(brandOrange[0], brandOrange[1], brandOrange[2])
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("%d. %s", number, section.Heading), "", 1, "L", false, 0, "")

	fontSize := section.FontSize
	if fontSize <= 0 {
		fontSize = 10
	}

	head := brandBlue
	if section.Accent {
		head = brandOrange
	}

	colWidth := 182.0 / float64(len(section.Headers))

	pdf.SetFillColor(head[0], head[1], head[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", fontSize)
	for _, header := range section.Headers {
		pdf.CellFormat(colWidth, 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", fontSize-1)
	for _, row := range section.Rows {
		if pdf.GetY() > 275 {
			pdf.AddPage()
		}
		for i := 0; i < len(section.Headers); i++ {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(colWidth, 6, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// Truncate shortens a value for narrow report columns, the way the
// dashboard shortens course names.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
