package wind

import (
	"math"
	"strings"
)

const (
	FtPerM       = 3.28084
	MphPerKmh    = 0.621371
	KgfM2PerPsf  = 4.88243
	PaPerKgfM2   = 9.80665
	Kzt          = 1.0  // flat terrain
	Kd           = 0.85 // buildings, Table 6-4
	GustRigid    = 0.85 // rigid structure, 6.5.8.1
	floorHeightF = 15.0
	floorHeightM = 4.6
)

type Units string

const (
	Imperial Units = "imperial"
	Metric   Units = "metric"
)

func ParseUnits(s string) (Units, error) {
	switch Units(strings.ToLower(strings.TrimSpace(s))) {
	case "", Imperial:
		return Imperial, nil
	case Metric:
		return Metric, nil
	}
	return "", &ValidationError{Field: "units", Value: s, Reason: "must be imperial or metric"}
}

// unitSystem binds the Eq. 6-15 constant to the velocity and length units
// it was derived for.
type unitSystem struct {
	constant     float64
	floor        float64 // in the system's length unit
	lengthPerM   float64
	lengthPerFt  float64
	speed        func(kmh float64) float64
	toKgfM2      float64
	speedUnit    string
	pressureUnit string
	lengthUnit   string
}

var unitSystems = map[Units]unitSystem{
	Imperial: {
		constant:     0.00256,
		floor:        floorHeightF,
		lengthPerM:   FtPerM,
		lengthPerFt:  1,
		speed:        func(kmh float64) float64 { return kmh * MphPerKmh },
		toKgfM2:      KgfM2PerPsf,
		speedUnit:    "mph",
		pressureUnit: "psf",
		lengthUnit:   "ft",
	},
	Metric: {
		constant:     0.613,
		floor:        floorHeightM,
		lengthPerM:   1,
		lengthPerFt:  1 / FtPerM,
		speed:        func(kmh float64) float64 { return kmh / 3.6 },
		toKgfM2:      1 / PaPerKgfM2,
		speedUnit:    "m/s",
		pressureUnit: "Pa",
		lengthUnit:   "m",
	},
}

func systemFor(u Units) (unitSystem, error) {
	sys, ok := unitSystems[u]
	if !ok {
		return unitSystem{}, &ConfigurationError{Table: "unit systems", Key: string(u)}
	}
	return sys, nil
}

func (u Units) SpeedUnit() string    { return unitSystems[u].speedUnit }
func (u Units) PressureUnit() string { return unitSystems[u].pressureUnit }
func (u Units) LengthUnit() string   { return unitSystems[u].lengthUnit }

// Constant is the Eq. 6-15 coefficient for the unit system.
func (u Units) Constant() float64 { return unitSystems[u].constant }

// ToKgfM2 converts a pressure in the unit system's native unit to kgf/m².
func (u Units) ToKgfM2(p float64) float64 { return p * unitSystems[u].toKgfM2 }

// Terrain holds the power-law constants of one exposure category.
type Terrain struct {
	Alpha            float64 `json:"alpha"`
	GradientHeightFt float64 `json:"gradient_height_ft"`
}

// ASCE 7-05 Table 6-2.
var terrainCoefficients = map[Exposure]Terrain{
	ExposureB: {Alpha: 7.0, GradientHeightFt: 1200},
	ExposureC: {Alpha: 9.5, GradientHeightFt: 900},
	ExposureD: {Alpha: 11.5, GradientHeightFt: 700},
}

func TerrainFor(e Exposure) (Terrain, error) {
	t, ok := terrainCoefficients[e]
	if !ok {
		return Terrain{}, &ConfigurationError{Table: "terrain coefficients", Key: string(e)}
	}
	return t, nil
}

// Kz returns the velocity pressure exposure coefficient at zM meters.
// Heights below the code floor use the floor.
func Kz(e Exposure, units Units, zM float64) (float64, error) {
	t, err := TerrainFor(e)
	if err != nil {
		return 0, err
	}
	sys, err := systemFor(units)
	if err != nil {
		return 0, err
	}
	z := math.Max(zM*sys.lengthPerM, sys.floor)
	zg := t.GradientHeightFt * sys.lengthPerFt
	return 2.01 * math.Pow(z/zg, 2.0/t.Alpha), nil
}

// VelocityPressure is Eq. 6-15 for the speed already expressed in the
// unit system's velocity unit.
func VelocityPressure(units Units, kz, speed, importance float64) float64 {
	return unitSystems[units].constant * kz * Kzt * Kd * speed * speed * importance
}

// InternalCoefficient returns GCpi for an enclosure classification (Figure 6-5).
func InternalCoefficient(e Enclosure) (float64, error) {
	switch e {
	case Enclosed:
		return 0.18, nil
	case PartiallyEnclosed:
		return 0.55, nil
	case Open:
		return 0.00, nil
	}
	return 0, &ConfigurationError{Table: "internal pressure coefficients", Key: string(e)}
}
