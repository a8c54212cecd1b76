package report

import (
	"fmt"
	"io"

	"Aeolus/internal/calc/diagram"

	"github.com/phpdave11/gofpdf"
)

const (
	pageMargin = 15.0
	lineH      = 6.0
)

// WritePDF renders the document, then each scene on the following pages.
func WritePDF(w io.Writer, d Document, scenes ...diagram.Scene) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	bodyW := pageW - 2*pageMargin

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(bodyW, 8, tr(d.Title), "", "L", false)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, lineH, fmt.Sprintf("Date: %s", d.Date.Format("2006-01-02")))
	pdf.Ln(lineH)
	if d.Project != "" {
		pdf.Cell(0, lineH, tr("Project: "+d.Project))
		pdf.Ln(lineH)
	}
	if d.Author != "" {
		pdf.Cell(0, lineH, tr("Author: "+d.Author))
		pdf.Ln(lineH)
	}

	for _, s := range d.Sections {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, tr(s.Heading))
		pdf.Ln(9)
		for _, blk := range s.Blocks {
			drawBlock(pdf, tr, blk, bodyW)
		}
	}
	if d.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Notes")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(bodyW, lineH, tr(d.Notes), "", "L", false)
	}

	for _, scene := range scenes {
		pdf.AddPage()
		diagram.DrawPDF(pdf, scene, pageMargin, pageMargin, bodyW)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func drawBlock(pdf *gofpdf.Fpdf, tr func(string) string, blk Block, bodyW float64) {
	switch blk.Kind {
	case Paragraph:
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(bodyW, lineH, tr(blk.Text), "", "L", false)
	case Formula:
		pdf.SetFont("Courier", "", 10)
		pdf.MultiCell(bodyW, lineH, tr(blk.Text), "", "L", false)
	case Params:
		for _, p := range blk.Params {
			pdf.SetFont("Helvetica", "B", 11)
			name := tr(p.Name + ": ")
			pdf.Cell(pdf.GetStringWidth(name)+1, lineH, name)
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, lineH, tr(p.Value), "", "L", false)
		}
	case TableBlock:
		drawTable(pdf, tr, blk.Table, bodyW)
	}
	pdf.Ln(1)
}

// drawTable gives the first column twice the width of the numeric ones.
func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, t *Table, bodyW float64) {
	n := len(t.Header)
	if n == 0 {
		return
	}
	colW := bodyW / float64(n+1)
	width := func(i int) float64 {
		if i == 0 {
			return 2 * colW
		}
		return colW
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(236, 240, 241)
	for i, h := range t.Header {
		pdf.CellFormat(width(i), 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range t.Rows {
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(width(i), 6, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}
