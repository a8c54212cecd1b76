package wind

import (
	"sort"
	"strings"
)

// Coefficients are the external pressure coefficients of one wind direction,
// kept for report narration.
type Coefficients struct {
	WindwardWall float64 `json:"windward_wall"`
	LeewardWall  float64 `json:"leeward_wall"`
	WindwardRoof float64 `json:"windward_roof"`
	LeewardRoof  float64 `json:"leeward_roof"`
	// LB is along-wind / across-wind, HL is mean roof height / along-wind.
	LB float64 `json:"l_over_b"`
	HL float64 `json:"h_over_l"`
}

// ExternalPressureModel resolves Cp values (Figure 6-6) for one direction.
type ExternalPressureModel interface {
	Name() ModelName
	Coefficients(alongM, acrossM, heightM, thetaDeg float64) Coefficients
	// WindwardHeights lists the elevations (m) at which the windward wall
	// is evaluated, ascending, ending with the mean roof height.
	WindwardHeights(heightM float64) []float64
	// ReportsNegative tells whether rows carry the -GCpi case too.
	ReportsNegative() bool
}

type ModelName string

const (
	ModelSimplified ModelName = "simplified"
	ModelTable      ModelName = "table"
)

func ParseModel(s string) (ExternalPressureModel, error) {
	switch ModelName(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModelTable, "tableinterpolated", "detailed":
		return TableInterpolated{}, nil
	case ModelSimplified:
		return Simplified{}, nil
	}
	return nil, &ValidationError{Field: "model", Value: s, Reason: "must be simplified or table"}
}

// Simplified is the step-function model of the first app revision. Only
// the +GCpi case is reported and the windward wall is taken at h.
type Simplified struct{}

func (Simplified) Name() ModelName       { return ModelSimplified }
func (Simplified) ReportsNegative() bool { return false }

func (Simplified) WindwardHeights(h float64) []float64 { return []float64{h} }

func (Simplified) Coefficients(along, across, h, theta float64) Coefficients {
	return Coefficients{
		WindwardWall: 0.8,
		LeewardWall:  simplifiedLeewardWall(along / across),
		WindwardRoof: simplifiedWindwardRoof(theta),
		LeewardRoof:  -0.7,
		LB:           along / across,
		HL:           h / along,
	}
}

// Branches are closed on the right; 0.05r-0.4 meets -0.3 at r=2 and -0.2 at r=4.
func simplifiedLeewardWall(r float64) float64 {
	switch {
	case r <= 1:
		return -0.5
	case r <= 2:
		return -0.3
	case r >= 4:
		return -0.2
	default:
		return 0.05*r - 0.4
	}
}

func simplifiedWindwardRoof(theta float64) float64 {
	switch {
	case theta < 10:
		return -0.9
	case theta < 20:
		return -0.7
	case theta < 45:
		return 0.3
	default:
		return 0.8
	}
}

// TableInterpolated interpolates roof Cp over the Figure 6-6 grid and bands
// the windward wall at the Table 6-3 elevations.
type TableInterpolated struct{}

func (TableInterpolated) Name() ModelName       { return ModelTable }
func (TableInterpolated) ReportsNegative() bool { return true }

// Table 6-3 elevations, 15 ft to 100 ft.
var bandHeightsM = []float64{4.6, 6.1, 7.6, 9.1, 12.2, 15.2, 18.3, 21.3, 24.4, 27.4, 30.5}

func (TableInterpolated) WindwardHeights(h float64) []float64 {
	out := make([]float64, 0, len(bandHeightsM)+1)
	for _, z := range bandHeightsM {
		if z < h {
			out = append(out, z)
		}
	}
	return append(out, h)
}

// h/L breakpoints; -1 stands for "0.25 or less".
var ratioBreaks = []float64{-1, 0.25, 0.5, 1.0}

var roofAngles = []float64{10, 15, 20, 25, 30, 35, 45}

// Windward roof Cp per angle row, one value per ratio breakpoint.
var windwardRoofCp = [][]float64{
	{-0.7, -0.7, -0.9, -1.3},
	{-0.5, -0.5, -0.7, -1.0},
	{-0.3, -0.3, -0.4, -0.7},
	{-0.2, -0.2, -0.3, -0.5},
	{-0.2, -0.2, -0.2, -0.3},
	{0.0, 0.0, -0.2, -0.2},
	{0.4, 0.4, 0.0, 0.0},
}

// Leeward roof Cp; the 20° row holds for every steeper roof.
var leewardRoofAngles = []float64{10, 15, 20}

var leewardRoofCp = [][]float64{
	{-0.3, -0.3, -0.5, -0.7},
	{-0.5, -0.5, -0.5, -0.6},
	{-0.6, -0.6, -0.6, -0.6},
}

func (TableInterpolated) Coefficients(along, across, h, theta float64) Coefficients {
	lb := along / across
	hl := h / along
	c := Coefficients{
		WindwardWall: 0.8,
		LeewardWall:  leewardWall(lb),
		LB:           lb,
		HL:           hl,
	}
	if theta < 10 {
		c.WindwardRoof = -0.9
		c.LeewardRoof = -0.5
		return c
	}
	c.WindwardRoof = bilinear(roofAngles, windwardRoofCp, theta, hl)
	c.LeewardRoof = bilinear(leewardRoofAngles, leewardRoofCp, theta, hl)
	return c
}

func leewardWall(r float64) float64 {
	return interpolate([]float64{1, 2, 4}, []float64{-0.5, -0.3, -0.2}, r)
}

// bilinear collapses each angle row across the ratio breakpoints, then
// interpolates the resulting column across angle.
func bilinear(angles []float64, rows [][]float64, theta, ratio float64) float64 {
	col := make([]float64, len(rows))
	for i, row := range rows {
		col[i] = interpolate(ratioBreaks, row, ratio)
	}
	return interpolate(angles, col, theta)
}

// interpolate is piecewise linear over ascending xs, clamped at both ends.
func interpolate(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i]
	}
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
