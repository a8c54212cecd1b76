package diagram

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const svgWidth = 640.0

// viewport maps world coordinates onto a canvas box with y pointing down,
// preserving aspect ratio. A maxH of zero leaves the height unbounded.
type viewport struct {
	min, max Point
	scale    float64
	offX     float64
	offY     float64
}

func newViewport(s Scene, x, y, width, maxH float64) viewport {
	dx, dy := s.Max.X-s.Min.X, s.Max.Y-s.Min.Y
	scale := width / dx
	if maxH > 0 && dy*scale > maxH {
		scale = maxH / dy
		x += (width - dx*scale) / 2
	}
	return viewport{min: s.Min, max: s.Max, scale: scale, offX: x, offY: y}
}

func (v viewport) height() float64 { return (v.max.Y - v.min.Y) * v.scale }

func (v viewport) at(p Point) (float64, float64) {
	return v.offX + (p.X-v.min.X)*v.scale, v.offY + (v.max.Y-p.Y)*v.scale
}

type svgWriter struct {
	w   *bufio.Writer
	err error
}

func (s *svgWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func escape(text string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(text))
	return b.String()
}

// SVG writes the scene as a standalone SVG document.
func (s Scene) SVG(w io.Writer) error {
	v := newViewport(s, 0, 30, svgWidth, 0)
	out := &svgWriter{w: bufio.NewWriter(w)}

	out.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		svgWidth, v.height()+30, svgWidth, v.height()+30)
	out.printf(`<rect width="100%%" height="100%%" fill="#ffffff"/>` + "\n")
	out.printf(`<text x="%.1f" y="20" text-anchor="middle" font-family="Helvetica" font-size="14" font-weight="bold">%s</text>`+"\n",
		svgWidth/2, escape(s.Title))

	for _, p := range s.Polygons {
		pts := make([]string, len(p.Points))
		for i, pt := range p.Points {
			x, y := v.at(pt)
			pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
		}
		out.printf(`<polygon points="%s" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			strings.Join(pts, " "), p.Fill.Hex(), p.Stroke.Hex())
	}
	for _, l := range s.Lines {
		x1, y1 := v.at(l.From)
		x2, y2 := v.at(l.To)
		out.printf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"/>`+"\n",
			x1, y1, x2, y2, l.Stroke.Hex(), l.Width)
	}
	for _, a := range s.Arrows {
		x1, y1 := v.at(a.Tail)
		x2, y2 := v.at(a.Head)
		l, r := arrowHead(a)
		lx, ly := v.at(l)
		rx, ry := v.at(r)
		out.printf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="2"/>`+"\n",
			x1, y1, x2, y2, a.Color.Hex())
		out.printf(`<polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s"/>`+"\n",
			x2, y2, lx, ly, rx, ry, a.Color.Hex())
		if a.Label != "" {
			tx, ty := v.at(a.LabelAt)
			out.printf(`<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica" font-size="12" font-weight="bold" fill="%s">%s</text>`+"\n",
				tx, ty, a.Color.Hex(), escape(a.Label))
		}
	}
	for _, t := range s.Texts {
		x, y := v.at(t.At)
		transform := ""
		if t.Rotate != 0 {
			transform = fmt.Sprintf(` transform="rotate(%.1f %.2f %.2f)"`, -t.Rotate, x, y)
		}
		out.printf(`<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica" font-size="11" fill="%s"%s>%s</text>`+"\n",
			x, y, t.Color.Hex(), transform, escape(t.Value))
	}
	out.printf("</svg>\n")

	if out.err != nil {
		return out.err
	}
	return out.w.Flush()
}
