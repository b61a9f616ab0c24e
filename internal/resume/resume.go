// Package resume renders the portfolio catalog as a one-document CV and
// draws QR codes that point back at the site.
package resume

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Zachkp/portfolio/internal/content"
)

// Page layout in millimetres on A4 portrait.
const (
	pageWidth   = 210.0
	marginLeft  = 18.0
	marginRight = 18.0
	marginTop   = 18.0
	bodyWidth   = pageWidth - marginLeft - marginRight
	qrSize      = 28.0
	lineHeight  = 5.0
)

// QR encodes url as a PNG of size x size pixels.
func QR(url string, size int) ([]byte, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("qr: empty url")
	}
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}
	return png, nil
}

// Write renders p as a PDF CV. When siteURL is set, a QR code linking to it
// is placed in the header.
func Write(w io.Writer, p *content.Portfolio, siteURL string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(p.Owner.Name+" CV", true)
	pdf.SetAuthor(p.Owner.Name, true)
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	textWidth := bodyWidth
	if siteURL != "" {
		png, err := QR(siteURL, 256)
		if err != nil {
			return err
		}
		pdf.RegisterImageOptionsReader("site-qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions("site-qr", pageWidth-marginRight-qrSize, marginTop, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, siteURL)
		textWidth -= qrSize + 4
	}

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(20, 20, 30)
	pdf.CellFormat(textWidth, 10, tr(p.Owner.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 11)
	pdf.SetTextColor(90, 90, 110)
	pdf.MultiCell(textWidth, lineHeight, tr(p.Owner.Tagline), "", "L", false)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(20, 20, 30)
	pdf.MultiCell(textWidth, lineHeight, tr(p.Owner.About), "", "L", false)
	if y := marginTop + qrSize + 2; siteURL != "" && pdf.GetY() < y {
		pdf.SetY(y)
	}

	heading(pdf, tr, "Education")
	for _, e := range p.Education {
		entry(pdf, tr, e.Title, e.Year, e.Address, e.Description)
	}

	heading(pdf, tr, "Experience")
	for _, e := range p.Work {
		entry(pdf, tr, e.Title, e.Year, e.Company, e.Description)
	}

	heading(pdf, tr, "Projects")
	for _, pr := range p.Projects {
		detail := pr.Subtitle
		if len(pr.Badges) > 0 {
			detail += " | " + strings.Join(pr.Badges, ", ")
		}
		entry(pdf, tr, pr.Title, fmt.Sprintf("Semester %d", pr.Semester), detail, pr.Description)
	}

	if len(p.Certificates) > 0 {
		heading(pdf, tr, "Certificates")
		for _, c := range p.Certificates {
			line := c.Title + " - " + c.Issuer
			if c.Date != "" {
				line += " (" + c.Date + ")"
			}
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(bodyWidth, lineHeight, tr(line), "", "L", false)
		}
	}

	if len(p.TechStack) > 0 {
		heading(pdf, tr, "Tech Stack")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(bodyWidth, lineHeight, tr(strings.Join(p.TechStack, ", ")), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render resume: %w", err)
	}
	return pdf.Output(w)
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(109, 40, 217)
	pdf.CellFormat(bodyWidth, 7, tr(title), "", 1, "L", false, 0, "")

	y := pdf.GetY()
	pdf.SetDrawColor(200, 200, 210)
	pdf.SetLineWidth(0.3)
	pdf.Line(marginLeft, y, pageWidth-marginRight, y)
	pdf.Ln(2)
	pdf.SetTextColor(20, 20, 30)
}

// entry draws a bold title with a right-aligned date, a muted subtitle and
// a wrapped description.
func entry(pdf *fpdf.Fpdf, tr func(string) string, title, when, sub, desc string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(bodyWidth-40, 6, tr(title), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 110)
	pdf.CellFormat(40, 6, tr(when), "", 1, "R", false, 0, "")
	if sub != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(bodyWidth, lineHeight, tr(sub), "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(20, 20, 30)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(bodyWidth, lineHeight, tr(desc), "", "L", false)
	pdf.Ln(1.5)
}
