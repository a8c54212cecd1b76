package importer

import (
	"fmt"
	"io"
	"strings"

	"Aeolus/internal/calc/batch"
	"Aeolus/internal/calc/wind"

	"github.com/xuri/excelize/v2"
)

const (
	MaxRows       = 500
	SummarySheet  = "Summary"
	PressureSheet = "Pressures"
)

// Columns in the order WriteResults and templates use them. Header matching
// on import ignores case, surrounding space and column order.
var Columns = []string{"V", "exposure", "I", "h", "L", "B", "theta", "enclosure", "trib_width"}

var required = []string{"v", "exposure", "i", "h", "l", "b"}

func setField(raw *wind.RawInput, column, value string) {
	switch column {
	case "v":
		raw.V = value
	case "exposure":
		raw.Exposure = value
	case "i":
		raw.I = value
	case "h":
		raw.H = value
	case "l":
		raw.L = value
	case "b":
		raw.B = value
	case "theta":
		raw.Theta = value
	case "enclosure":
		raw.Enclosure = value
	case "trib_width":
		raw.TributaryWidth = value
	}
}

func formatErr(reason string) error {
	return &wind.ValidationError{Field: "file", Reason: reason}
}

// ReadInputs reads one input set per non-empty row of the first sheet of
// an xlsx workbook. The first row names the columns.
func ReadInputs(r io.Reader) ([]wind.RawInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, formatErr("not an xlsx workbook")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, formatErr("sheet has no data rows")
	}

	index := make(map[int]string, len(rows[0]))
	seen := make(map[string]bool, len(rows[0]))
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		index[i] = key
		seen[key] = true
	}
	var missing []string
	for _, col := range required {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, formatErr(fmt.Sprintf("missing columns %s", strings.Join(missing, ", ")))
	}

	var out []wind.RawInput
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		if len(out) == MaxRows {
			return nil, formatErr(fmt.Sprintf("more than %d rows", MaxRows))
		}
		var raw wind.RawInput
		for i, cell := range row {
			setField(&raw, index[i], strings.TrimSpace(cell))
		}
		out = append(out, raw)
	}
	if len(out) == 0 {
		return nil, formatErr("sheet has no data rows")
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteResults writes a Summary sheet with one row per item and a
// Pressures sheet with one row per element per direction.
func WriteResults(w io.Writer, items []batch.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(PressureSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summary := append([]any{"row"}, toAny(Columns)...)
	summary = append(summary, "model", "units", "kh", "qh", "gcpi", "error")
	if err := writeHeader(f, SummarySheet, summary, bold); err != nil {
		return err
	}
	if err := writeHeader(f, PressureSheet, []any{
		"row", "direction", "element", "kind", "z_m", "kz", "q", "cp", "p_pos", "p_neg", "line_load_kgf_m",
	}, bold); err != nil {
		return err
	}

	next := 2
	for i, item := range items {
		raw := item.Input
		values := []any{item.Index + 1, raw.V, raw.Exposure, raw.I, raw.H, raw.L, raw.B, raw.Theta, raw.Enclosure, raw.TributaryWidth}
		if res := item.Result; res != nil {
			values = append(values, string(res.Model), string(res.Input.Units), res.Kh, res.Qh, res.GCpi, "")
		} else {
			values = append(values, "", "", "", "", "", item.Error)
		}
		if err := setRow(f, SummarySheet, i+2, values); err != nil {
			return err
		}

		if item.Result == nil {
			continue
		}
		for _, d := range []wind.Direction{wind.Longitudinal, wind.Transverse} {
			for _, r := range item.Result.Direction(d).Rows {
				kind, _ := r.Kind.MarshalText()
				if err := setRow(f, PressureSheet, next, []any{
					item.Index + 1, string(d), r.Label, string(kind), r.HeightM, r.Kz, r.Q, r.Cp, r.PPos,
					optional(r.PNeg), optional(r.LineLoad),
				}); err != nil {
					return err
				}
				next++
			}
		}
	}

	return f.Write(w)
}

func writeHeader(f *excelize.File, sheet string, values []any, style int) error {
	if err := setRow(f, sheet, 1, values); err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", end, style)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
