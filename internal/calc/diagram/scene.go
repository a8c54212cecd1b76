package diagram

import (
	"fmt"
	"math"

	"Aeolus/internal/calc/wind"
)

// GeometryError reports a drawing that cannot be built from its dimensions.
// It never affects the calculation that fed the diagram.
type GeometryError struct {
	Field string
	Value float64
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("diagram: %s must be positive and finite (got %g)", e.Field, e.Value)
}

// Point is in world units (meters), y up.
type Point struct{ X, Y float64 }

type RGB struct{ R, G, B uint8 }

func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

var (
	outline  = RGB{0x2c, 0x3e, 0x50}
	fill     = RGB{0xec, 0xf0, 0xf1}
	ground   = RGB{0x27, 0xae, 0x60}
	pressure = RGB{0xc0, 0x39, 0x2b}
	suction  = RGB{0x29, 0x80, 0xb9}
	dimColor = RGB{0x34, 0x49, 0x5e}
)

type Polygon struct {
	Points []Point
	Stroke RGB
	Fill   RGB
}

type Line struct {
	From, To Point
	Stroke   RGB
	Width    float64
}

// Arrow points from Tail to Head. HeadSize is in world units.
type Arrow struct {
	Tail, Head Point
	HeadSize   float64
	Color      RGB
	Label      string
	LabelAt    Point
}

type Text struct {
	At     Point
	Value  string
	Color  RGB
	Rotate float64 // degrees, counterclockwise
}

// Scene is a vector drawing in world coordinates. Min and Max bound the
// visible area.
type Scene struct {
	Title    string
	Min, Max Point
	Polygons []Polygon
	Lines    []Line
	Arrows   []Arrow
	Texts    []Text
}

// Pressures are the governing surface pressures of one direction, kgf/m².
type Pressures struct {
	WindwardWall float64 `json:"windward_wall"`
	LeewardWall  float64 `json:"leeward_wall"`
	WindwardRoof float64 `json:"windward_roof"`
	LeewardRoof  float64 `json:"leeward_roof"`
}

func (p Pressures) maxAbs() float64 {
	return math.Max(math.Max(math.Abs(p.WindwardWall), math.Abs(p.LeewardWall)),
		math.Max(math.Abs(p.WindwardRoof), math.Abs(p.LeewardRoof)))
}

// Section is what a cross-section drawing needs from a result.
type Section struct {
	Direction    wind.Direction
	WallHeight   float64
	Width        float64
	RoofAngleDeg float64
	Pressures    Pressures
}

// ForDirection picks the section of d: the cut runs along the wind, so the
// drawn width is the along-wind dimension. Pressures are the +GCpi values
// converted to kgf/m².
func ForDirection(res wind.Result, d wind.Direction) Section {
	dr := res.Direction(d)
	g := dr.Governing()
	conv := res.Input.Units.ToKgfM2
	return Section{
		Direction:    d,
		WallHeight:   res.Input.HeightM,
		Width:        dr.AlongM,
		RoofAngleDeg: res.Input.RoofAngleDeg,
		Pressures: Pressures{
			WindwardWall: conv(g.WindwardWall),
			LeewardWall:  conv(g.LeewardWall),
			WindwardRoof: conv(g.WindwardRoof),
			LeewardRoof:  conv(g.LeewardRoof),
		},
	}
}

// RenderSection renders s with a title naming its direction.
func RenderSection(s Section) (Scene, error) {
	scene, err := Render(s.WallHeight, s.Width, s.RoofAngleDeg, s.Pressures)
	if err != nil {
		return Scene{}, err
	}
	scene.Title = "Wind loads, " + s.Direction.Title()
	return scene, nil
}

func positive(field string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return &GeometryError{Field: field, Value: v}
	}
	return nil
}

// Render draws the gable frame of a building cut along the wind with one
// arrow per surface. Arrows are normal to their surface: positive
// pressure points into the building, suction points away from it. Arrow
// length grows with the pressure magnitude.
func Render(wallHeight, width, roofAngleDeg float64, p Pressures) (Scene, error) {
	if err := positive("wall height", wallHeight); err != nil {
		return Scene{}, err
	}
	if err := positive("width", width); err != nil {
		return Scene{}, err
	}
	if roofAngleDeg < 0 || roofAngleDeg >= 90 || math.IsNaN(roofAngleDeg) {
		return Scene{}, &GeometryError{Field: "roof angle", Value: roofAngleDeg}
	}

	rad := roofAngleDeg * math.Pi / 180
	rise := width / 2 * math.Tan(rad)
	top := wallHeight + rise
	margin := width * 0.5

	s := Scene{
		Title: "Wind loads",
		Min:   Point{-margin, -0.1 * top},
		Max:   Point{width + margin, top + margin},
		Polygons: []Polygon{{
			Points: []Point{{0, 0}, {0, wallHeight}, {width / 2, top}, {width, wallHeight}, {width, 0}},
			Stroke: outline,
			Fill:   fill,
		}},
		Lines: []Line{{From: Point{-width * 0.2, 0}, To: Point{width * 1.2, 0}, Stroke: ground, Width: 3}},
	}

	scale := width * 0.15
	peak := p.maxAbs()
	add := func(at, normal Point, value float64) {
		length := scale
		if peak > 0 {
			length = scale * (0.4 + 0.6*math.Abs(value)/peak)
		}
		out := Point{at.X + normal.X*length, at.Y + normal.Y*length}
		a := Arrow{
			HeadSize: scale * 0.3,
			Label:    fmt.Sprintf("%.1f", math.Abs(value)),
			LabelAt:  Point{at.X + normal.X*length*1.5, at.Y + normal.Y*length*1.5},
		}
		if value < 0 {
			a.Tail, a.Head, a.Color = at, out, suction
		} else {
			a.Tail, a.Head, a.Color = out, at, pressure
		}
		s.Arrows = append(s.Arrows, a)
	}

	sin, cos := math.Sin(rad), math.Cos(rad)
	add(Point{0, wallHeight / 2}, Point{-1, 0}, p.WindwardWall)
	add(Point{width, wallHeight / 2}, Point{1, 0}, p.LeewardWall)
	add(Point{width / 4, wallHeight + rise/2}, Point{-sin, cos}, p.WindwardRoof)
	add(Point{width * 0.75, wallHeight + rise/2}, Point{sin, cos}, p.LeewardRoof)

	s.Texts = append(s.Texts, Text{At: Point{width / 2, -0.05 * top}, Value: "kgf/m²", Color: dimColor})
	return s, nil
}

// Plan draws the building footprint with the wind arrow along L.
func Plan(length, width float64) (Scene, error) {
	if err := positive("length", length); err != nil {
		return Scene{}, err
	}
	if err := positive("width", width); err != nil {
		return Scene{}, err
	}
	margin := math.Max(length, width) * 0.5
	return Scene{
		Title: "Plan view",
		Min:   Point{-length * 0.3, -width * 0.2},
		Max:   Point{length + margin, width + margin},
		Polygons: []Polygon{{
			Points: []Point{{0, 0}, {length, 0}, {length, width}, {0, width}},
			Stroke: outline,
			Fill:   fill,
		}},
		Arrows: []Arrow{{
			Tail:     Point{-length * 0.2, width / 2},
			Head:     Point{-length * 0.05, width / 2},
			HeadSize: width / 10,
			Color:    pressure,
			Label:    "Wind",
			LabelAt:  Point{-length * 0.15, width/2 + width/10},
		}},
		Texts: []Text{
			{At: Point{length / 2, -width * 0.1}, Value: fmt.Sprintf("L = %.1f m", length), Color: dimColor},
			{At: Point{length + length*0.05, width / 2}, Value: fmt.Sprintf("B = %.1f m", width), Color: dimColor, Rotate: 90},
		},
	}, nil
}

// arrowHead returns the two base corners of the head triangle.
func arrowHead(a Arrow) (Point, Point) {
	dx, dy := a.Head.X-a.Tail.X, a.Head.Y-a.Tail.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return a.Head, a.Head
	}
	ux, uy := dx/n, dy/n
	size := math.Min(a.HeadSize, n)
	bx, by := a.Head.X-ux*size, a.Head.Y-uy*size
	half := size / 2
	return Point{bx - uy*half, by + ux*half}, Point{bx + uy*half, by - ux*half}
}
