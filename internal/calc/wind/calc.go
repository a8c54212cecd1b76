package wind

import (
	"fmt"
	"strings"
)

type Direction string

const (
	Longitudinal Direction = "long"
	Transverse   Direction = "trans"
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "long", "longitudinal", "l":
		return Longitudinal, nil
	case "trans", "transverse", "b":
		return Transverse, nil
	}
	return "", &ValidationError{Field: "direction", Value: s, Reason: "must be long or trans"}
}

func (d Direction) Title() string {
	if d == Transverse {
		return "Transverse direction (wind // B)"
	}
	return "Longitudinal direction (wind // L)"
}

type ElementKind int

const (
	WindwardWall ElementKind = iota + 1
	LeewardWall
	WindwardRoof
	LeewardRoof
)

func (k ElementKind) String() string {
	switch k {
	case WindwardWall:
		return "Windward wall"
	case LeewardWall:
		return "Leeward wall"
	case WindwardRoof:
		return "Windward roof"
	case LeewardRoof:
		return "Leeward roof"
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

var elementKeys = map[ElementKind]string{
	WindwardWall: "windward_wall",
	LeewardWall:  "leeward_wall",
	WindwardRoof: "windward_roof",
	LeewardRoof:  "leeward_roof",
}

func (k ElementKind) MarshalText() ([]byte, error) {
	if key, ok := elementKeys[k]; ok {
		return []byte(key), nil
	}
	return nil, fmt.Errorf("unknown element kind %d", int(k))
}

func (k *ElementKind) UnmarshalText(b []byte) error {
	for kind, key := range elementKeys {
		if key == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown element kind %q", b)
}

// ElementRow is one structural element (or windward wall band) of a
// direction. Pressures are in the unit system's native unit.
type ElementRow struct {
	Kind    ElementKind `json:"kind"`
	Label   string      `json:"label"`
	HeightM float64     `json:"height_m"`
	Kz      float64     `json:"kz"`
	Q       float64     `json:"q"`
	G       float64     `json:"g"`
	Cp      float64     `json:"cp"`
	PExt    float64     `json:"p_ext"`
	PPos    float64     `json:"p_pos"`
	PNeg    *float64    `json:"p_neg,omitempty"`
	// LineLoad is PPos over the tributary width, kgf/m.
	LineLoad *float64 `json:"line_load_kgf_m,omitempty"`
}

type DirectionResult struct {
	Direction    Direction    `json:"direction"`
	AlongM       float64      `json:"along_m"`
	AcrossM      float64      `json:"across_m"`
	Coefficients Coefficients `json:"coefficients"`
	Rows         []ElementRow `json:"rows"`
}

// Row returns the governing row of kind: for the banded windward wall
// that is the top band, at mean roof height.
func (d DirectionResult) Row(kind ElementKind) (ElementRow, bool) {
	var (
		row   ElementRow
		found bool
	)
	for _, r := range d.Rows {
		if r.Kind == kind {
			row, found = r, true
		}
	}
	return row, found
}

// Governing are the four surface pressures a section diagram draws.
type Governing struct {
	WindwardWall float64 `json:"windward_wall"`
	LeewardWall  float64 `json:"leeward_wall"`
	WindwardRoof float64 `json:"windward_roof"`
	LeewardRoof  float64 `json:"leeward_roof"`
}

// Governing returns the +GCpi pressures of the four surfaces.
func (d DirectionResult) Governing() Governing {
	p := func(k ElementKind) float64 {
		r, _ := d.Row(k)
		return r.PPos
	}
	return Governing{
		WindwardWall: p(WindwardWall),
		LeewardWall:  p(LeewardWall),
		WindwardRoof: p(WindwardRoof),
		LeewardRoof:  p(LeewardRoof),
	}
}

type Result struct {
	Input        Input           `json:"input"`
	Model        ModelName       `json:"model"`
	Terrain      Terrain         `json:"terrain"`
	Kh           float64         `json:"kh"`
	Qh           float64         `json:"qh"`
	Kzt          float64         `json:"kzt"`
	Kd           float64         `json:"kd"`
	G            float64         `json:"g"`
	GCpi         float64         `json:"gcpi"`
	Longitudinal DirectionResult `json:"longitudinal"`
	Transverse   DirectionResult `json:"transverse"`
}

func (r Result) Direction(d Direction) DirectionResult {
	if d == Transverse {
		return r.Transverse
	}
	return r.Longitudinal
}

// Options select the Cp model and unit system. The zero value means the
// table model in imperial units.
type Options struct {
	Model ExternalPressureModel
	Units Units
}

func (o Options) withDefaults() Options {
	if o.Model == nil {
		o.Model = TableInterpolated{}
	}
	if o.Units == "" {
		o.Units = Imperial
	}
	return o
}

// Calculate validates raw and evaluates both wind directions.
func Calculate(raw RawInput, opts Options) (Result, error) {
	opts = opts.withDefaults()
	in, err := Normalize(raw, opts.Units)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(in, opts.Model)
}

// Evaluate runs the engine on an already normalized input.
func Evaluate(in Input, model ExternalPressureModel) (Result, error) {
	terrain, err := TerrainFor(in.Exposure)
	if err != nil {
		return Result{}, err
	}
	gcpi, err := InternalCoefficient(in.Enclosure)
	if err != nil {
		return Result{}, err
	}
	kh, err := Kz(in.Exposure, in.Units, in.HeightM)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Input:   in,
		Model:   model.Name(),
		Terrain: terrain,
		Kh:      kh,
		Qh:      VelocityPressure(in.Units, kh, in.Speed, in.Importance),
		Kzt:     Kzt,
		Kd:      Kd,
		G:       GustRigid,
		GCpi:    gcpi,
	}

	res.Longitudinal, err = res.assemble(model, Longitudinal, in.LengthM, in.WidthM)
	if err != nil {
		return Result{}, err
	}
	res.Transverse, err = res.assemble(model, Transverse, in.WidthM, in.LengthM)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (r Result) assemble(model ExternalPressureModel, dir Direction, along, across float64) (DirectionResult, error) {
	in := r.Input
	c := model.Coefficients(along, across, in.HeightM, in.RoofAngleDeg)
	out := DirectionResult{
		Direction:    dir,
		AlongM:       along,
		AcrossM:      across,
		Coefficients: c,
	}

	heights := model.WindwardHeights(in.HeightM)
	for _, z := range heights {
		kz := r.Kh
		if z != in.HeightM {
			var err error
			if kz, err = Kz(in.Exposure, in.Units, z); err != nil {
				return DirectionResult{}, err
			}
		}
		q := VelocityPressure(in.Units, kz, in.Speed, in.Importance)
		label := WindwardWall.String()
		if len(heights) > 1 {
			label = fmt.Sprintf("%s (z = %.1f m)", label, z)
		}
		out.Rows = append(out.Rows, r.row(model, WindwardWall, label, z, kz, q, c.WindwardWall))
	}
	out.Rows = append(out.Rows,
		r.row(model, LeewardWall, LeewardWall.String(), in.HeightM, r.Kh, r.Qh, c.LeewardWall),
		r.row(model, WindwardRoof, WindwardRoof.String(), in.HeightM, r.Kh, r.Qh, c.WindwardRoof),
		r.row(model, LeewardRoof, LeewardRoof.String(), in.HeightM, r.Kh, r.Qh, c.LeewardRoof),
	)
	return out, nil
}

// row applies Eq. 6-17: p = q*G*Cp - qh*(±GCpi).
func (r Result) row(model ExternalPressureModel, kind ElementKind, label string, z, kz, q, cp float64) ElementRow {
	ext := q * r.G * cp
	row := ElementRow{
		Kind:    kind,
		Label:   label,
		HeightM: z,
		Kz:      kz,
		Q:       q,
		G:       r.G,
		Cp:      cp,
		PExt:    ext,
		PPos:    ext - r.Qh*r.GCpi,
	}
	if model.ReportsNegative() {
		neg := ext + r.Qh*r.GCpi
		row.PNeg = &neg
	} else if r.Input.TributaryWidth > 0 {
		line := r.Input.Units.ToKgfM2(row.PPos) * r.Input.TributaryWidth
		row.LineLoad = &line
	}
	return row
}
