package report

import (
	"fmt"
	"time"

	"Aeolus/internal/calc/wind"
)

type BlockKind int

const (
	Paragraph BlockKind = iota
	Formula
	Params
	TableBlock
)

type Param struct {
	Name  string
	Value string
}

type Table struct {
	Header []string
	Rows   [][]string
}

// Block is one piece of section content; which fields are set depends on Kind.
type Block struct {
	Kind   BlockKind
	Text   string
	Params []Param
	Table  *Table
}

type Section struct {
	Heading string
	Blocks  []Block
}

// Document is a calculation memorandum independent of its output format.
type Document struct {
	Title    string
	Date     time.Time
	Project  string
	Author   string
	Notes    string
	Sections []Section
}

func text(s string) Block            { return Block{Kind: Paragraph, Text: s} }
func formula(s string) Block         { return Block{Kind: Formula, Text: s} }
func params(p ...Param) Block        { return Block{Kind: Params, Params: p} }
func table(t *Table) Block           { return Block{Kind: TableBlock, Table: t} }
func param(name, value string) Param { return Param{Name: name, Value: value} }

// FormatReport lays out the memorandum of res: design parameters, the
// Eq. 6-15 substitution at mean roof height, Eq. 6-17 and one pressure
// table per wind direction.
func FormatReport(res wind.Result) Document {
	in := res.Input
	u := in.Units
	doc := Document{
		Title: "Wind Load Calculation Memorandum (ASCE 7-05, MWFRS)",
		Date:  clock.Now(),
	}

	doc.Sections = append(doc.Sections, Section{
		Heading: "1. Design parameters",
		Blocks: []Block{params(
			param("Basic wind speed (V)", fmt.Sprintf("%.1f km/h (%.1f %s)", in.SpeedKmh, in.Speed, u.SpeedUnit())),
			param("Exposure category", fmt.Sprintf("%s (alpha = %.1f, zg = %.0f ft)", in.Exposure, res.Terrain.Alpha, res.Terrain.GradientHeightFt)),
			param("Importance factor (I)", fmt.Sprintf("%.2f", in.Importance)),
			param("Dimensions", fmt.Sprintf("L = %.2f m, B = %.2f m, h = %.2f m", in.LengthM, in.WidthM, in.HeightM)),
			param("Roof angle (theta)", fmt.Sprintf("%.1f°", in.RoofAngleDeg)),
			param("Enclosure classification", string(in.Enclosure)),
			param("Pressure coefficient model", string(res.Model)),
		)},
	})

	q := fmt.Sprintf("%.2f %s", res.Qh, u.PressureUnit())
	if u == wind.Imperial {
		q += fmt.Sprintf(" (%.2f kgf/m²)", u.ToKgfM2(res.Qh))
	}
	doc.Sections = append(doc.Sections, Section{
		Heading: "2. Velocity pressure (Eq. 6-15)",
		Blocks: []Block{
			formula(fmt.Sprintf("qz = %g * Kz * Kzt * Kd * V^2 * I", u.Constant())),
			params(
				param("Kh (exposure coefficient at h)", fmt.Sprintf("%.3f", res.Kh)),
				param("Kzt (topographic factor)", fmt.Sprintf("%.2f (flat terrain)", res.Kzt)),
				param("Kd (directionality factor)", fmt.Sprintf("%.2f (buildings)", res.Kd)),
				param("V", fmt.Sprintf("%.1f %s", in.Speed, u.SpeedUnit())),
			),
			text("Substitution:"),
			formula(fmt.Sprintf("qh = %g * (%.3f) * (%.2f) * (%.2f) * (%.1f)^2 * (%.2f)",
				u.Constant(), res.Kh, res.Kzt, res.Kd, in.Speed, in.Importance)),
			formula("qh = " + q),
		},
	})

	doc.Sections = append(doc.Sections, Section{
		Heading: "3. Design pressures (Eq. 6-17)",
		Blocks: []Block{
			formula("p = q * G * Cp - qh * (±GCpi)"),
			params(
				param("Gust factor (G)", fmt.Sprintf("%.2f (rigid structure)", res.G)),
				param("Internal pressure coefficient (GCpi)", fmt.Sprintf("±%.2f", res.GCpi)),
			),
		},
	})

	for i, d := range []wind.Direction{wind.Longitudinal, wind.Transverse} {
		doc.Sections = append(doc.Sections, directionSection(4+i, res, res.Direction(d)))
	}
	return doc
}

func directionSection(n int, res wind.Result, dr wind.DirectionResult) Section {
	u := res.Input.Units
	pu := u.PressureUnit()
	c := dr.Coefficients

	lineLoads := false
	for _, r := range dr.Rows {
		if r.LineLoad != nil {
			lineLoads = true
		}
	}

	t := &Table{Header: []string{
		"Element", "z (m)", "q (" + pu + ")", "Cp", "p +GCpi (" + pu + ")", "p -GCpi (" + pu + ")",
	}}
	if lineLoads {
		t.Header = append(t.Header, "w (kgf/m)")
	}
	for _, r := range dr.Rows {
		neg := "n/a"
		if r.PNeg != nil {
			neg = fmt.Sprintf("%.2f", *r.PNeg)
		}
		row := []string{
			r.Label,
			fmt.Sprintf("%.2f", r.HeightM),
			fmt.Sprintf("%.2f", r.Q),
			fmt.Sprintf("%.2f", r.Cp),
			fmt.Sprintf("%.2f", r.PPos),
			neg,
		}
		if lineLoads {
			w := "n/a"
			if r.LineLoad != nil {
				w = fmt.Sprintf("%.1f", *r.LineLoad)
			}
			row = append(row, w)
		}
		t.Rows = append(t.Rows, row)
	}

	return Section{
		Heading: fmt.Sprintf("%d. %s", n, dr.Direction.Title()),
		Blocks: []Block{
			params(
				param("Along-wind / across-wind (L/B)", fmt.Sprintf("%.2f / %.2f m = %.2f", dr.AlongM, dr.AcrossM, c.LB)),
				param("h/L", fmt.Sprintf("%.3f", c.HL)),
			),
			table(t),
		},
	}
}
