package wind

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

type Exposure string

const (
	ExposureB Exposure = "B"
	ExposureC Exposure = "C"
	ExposureD Exposure = "D"
)

type Enclosure string

const (
	Enclosed          Enclosure = "Enclosed"
	PartiallyEnclosed Enclosure = "PartiallyEnclosed"
	Open              Enclosure = "Open"
)

// ASCE 7-05 Table 6-1.
var importanceFactors = []float64{0.77, 0.87, 1.00, 1.15}

// RawInput is the input set as a form or spreadsheet delivers it.
type RawInput struct {
	V              string `json:"V" mapstructure:"V"`
	Exposure       string `json:"exposure" mapstructure:"exposure"`
	I              string `json:"I" mapstructure:"I"`
	H              string `json:"h" mapstructure:"h"`
	L              string `json:"L" mapstructure:"L"`
	B              string `json:"B" mapstructure:"B"`
	Theta          string `json:"theta" mapstructure:"theta"`
	Enclosure      string `json:"enclosure" mapstructure:"enclosure"`
	TributaryWidth string `json:"trib_width" mapstructure:"trib_width"`
}

// Input is a validated input set. Geometry stays in meters; the
// unit-system dependent values are carried alongside.
type Input struct {
	SpeedKmh       float64   `json:"speed_kmh"`
	Speed          float64   `json:"speed"` // mph or m/s, see Units
	Exposure       Exposure  `json:"exposure"`
	Importance     float64   `json:"importance"`
	HeightM        float64   `json:"height_m"`
	LengthM        float64   `json:"length_m"`
	WidthM         float64   `json:"width_m"`
	RoofAngleDeg   float64   `json:"roof_angle_deg"`
	Enclosure      Enclosure `json:"enclosure"`
	TributaryWidth float64   `json:"tributary_width_m,omitempty"`
	Units          Units     `json:"units"`
}

// Normalize parses and validates raw, converting wind speed to the unit
// the velocity-pressure formula of units expects. Every bad field is
// reported; the returned error matches ErrValidation.
func Normalize(raw RawInput, units Units) (Input, error) {
	sys, err := systemFor(units)
	if err != nil {
		return Input{}, err
	}

	var errs []error
	positive := func(field, s string) float64 {
		v, err := parsePositive(field, s)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	in := Input{Units: units}
	in.SpeedKmh = positive("V", raw.V)
	in.HeightM = positive("h", raw.H)
	in.LengthM = positive("L", raw.L)
	in.WidthM = positive("B", raw.B)

	if exp, err := ParseExposure(raw.Exposure); err != nil {
		errs = append(errs, err)
	} else {
		in.Exposure = exp
	}
	if enc, err := ParseEnclosure(raw.Enclosure); err != nil {
		errs = append(errs, err)
	} else {
		in.Enclosure = enc
	}
	if imp, err := parseImportance(raw.I); err != nil {
		errs = append(errs, err)
	} else {
		in.Importance = imp
	}
	if theta, err := parseRoofAngle(raw.Theta); err != nil {
		errs = append(errs, err)
	} else {
		in.RoofAngleDeg = theta
	}
	if strings.TrimSpace(raw.TributaryWidth) != "" {
		in.TributaryWidth = positive("trib_width", raw.TributaryWidth)
	}

	if len(errs) > 0 {
		return Input{}, errors.Join(errs...)
	}
	in.Speed = sys.speed(in.SpeedKmh)
	return in, nil
}

func ParseExposure(s string) (Exposure, error) {
	switch Exposure(strings.ToUpper(strings.TrimSpace(s))) {
	case ExposureB:
		return ExposureB, nil
	case ExposureC:
		return ExposureC, nil
	case ExposureD:
		return ExposureD, nil
	}
	return "", &ValidationError{Field: "exposure", Value: s, Reason: "must be one of B, C, D"}
}

// ParseEnclosure accepts the English names and the labels of the original
// Spanish form. Empty means Enclosed.
func ParseEnclosure(s string) (Enclosure, error) {
	key := strings.ToLower(strings.Join(strings.Fields(s), ""))
	switch key {
	case "", "enclosed", "cerrado":
		return Enclosed, nil
	case "partiallyenclosed", "partially_enclosed", "parcialmentecerrado":
		return PartiallyEnclosed, nil
	case "open", "abierto":
		return Open, nil
	}
	return "", &ValidationError{Field: "enclosure", Value: s, Reason: "must be Enclosed, PartiallyEnclosed or Open"}
}

func parseImportance(s string) (float64, error) {
	v, err := parsePositive("I", s)
	if err != nil {
		return 0, err
	}
	for _, f := range importanceFactors {
		if math.Abs(v-f) < 1e-9 {
			return f, nil
		}
	}
	return 0, &ValidationError{Field: "I", Value: s, Reason: "must be one of 0.77, 0.87, 1.00, 1.15"}
}

func parseRoofAngle(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	v, err := parseNumber("theta", s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= 90 {
		return 0, &ValidationError{Field: "theta", Value: s, Reason: "must be in [0, 90) degrees"}
	}
	return v, nil
}

func parsePositive(field, s string) (float64, error) {
	v, err := parseNumber(field, s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, &ValidationError{Field: field, Value: s, Reason: "must be greater than zero"}
	}
	return v, nil
}

func parseNumber(field, s string) (float64, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, &ValidationError{Field: field, Reason: "is required"}
	}
	v, err := strconv.ParseFloat(strings.Replace(t, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Value: s, Reason: "is not a finite number"}
	}
	return v, nil
}
