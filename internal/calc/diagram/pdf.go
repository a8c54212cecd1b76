package diagram

import (
	"github.com/phpdave11/gofpdf"
)

func setDraw(pdf *gofpdf.Fpdf, c RGB) { pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }
func setFill(pdf *gofpdf.Fpdf, c RGB) { pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
func setText(pdf *gofpdf.Fpdf, c RGB) { pdf.SetTextColor(int(c.R), int(c.G), int(c.B)) }

// DrawPDF draws the scene into the box starting at (x, y) with width w, in
// the document's unit, and returns the height used. Tall scenes shrink to
// fit above the bottom margin.
func DrawPDF(pdf *gofpdf.Fpdf, s Scene, x, y, w float64) float64 {
	const titleH = 8.0
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	v := newViewport(s, x, y+titleH, w, pageH-bottom-y-titleH)

	pdf.SetFont("Helvetica", "B", 11)
	setText(pdf, RGB{})
	pdf.SetXY(x, y)
	pdf.CellFormat(w, titleH-2, pdf.UnicodeTranslatorFromDescriptor("")(s.Title), "", 0, "C", false, 0, "")

	pdf.SetLineWidth(0.5)
	for _, p := range s.Polygons {
		pts := make([]gofpdf.PointType, len(p.Points))
		for i, pt := range p.Points {
			px, py := v.at(pt)
			pts[i] = gofpdf.PointType{X: px, Y: py}
		}
		setDraw(pdf, p.Stroke)
		setFill(pdf, p.Fill)
		pdf.Polygon(pts, "DF")
	}
	for _, l := range s.Lines {
		x1, y1 := v.at(l.From)
		x2, y2 := v.at(l.To)
		setDraw(pdf, l.Stroke)
		pdf.SetLineWidth(l.Width * 0.25)
		pdf.Line(x1, y1, x2, y2)
	}

	pdf.SetLineWidth(0.4)
	pdf.SetFont("Helvetica", "B", 8)
	for _, a := range s.Arrows {
		x1, y1 := v.at(a.Tail)
		x2, y2 := v.at(a.Head)
		l, r := arrowHead(a)
		lx, ly := v.at(l)
		rx, ry := v.at(r)
		setDraw(pdf, a.Color)
		setFill(pdf, a.Color)
		pdf.Line(x1, y1, x2, y2)
		pdf.Polygon([]gofpdf.PointType{{X: x2, Y: y2}, {X: lx, Y: ly}, {X: rx, Y: ry}}, "F")
		if a.Label != "" {
			tx, ty := v.at(a.LabelAt)
			setText(pdf, a.Color)
			pdf.Text(tx-pdf.GetStringWidth(a.Label)/2, ty+1, a.Label)
		}
	}

	pdf.SetFont("Helvetica", "", 8)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range s.Texts {
		tx, ty := v.at(t.At)
		label := tr(t.Value)
		setText(pdf, t.Color)
		if t.Rotate != 0 {
			pdf.TransformBegin()
			pdf.TransformRotate(t.Rotate, tx, ty)
			pdf.Text(tx-pdf.GetStringWidth(label)/2, ty+1, label)
			pdf.TransformEnd()
			continue
		}
		pdf.Text(tx-pdf.GetStringWidth(label)/2, ty+1, label)
	}
	setText(pdf, RGB{})
	return titleH + v.height()
}
