package diagram

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Aeolus/internal/calc/wind"
	"Aeolus/internal/observability"

	"github.com/phpdave11/gofpdf"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loads = Pressures{WindwardWall: 47.2, LeewardWall: -41.1, WindwardRoof: -73.2, LeewardRoof: 12.0}

func TestRender_Geometry(t *testing.T) {
	s, err := Render(6, 20, 15, loads)
	require.NoError(t, err)

	require.Len(t, s.Polygons, 1)
	pts := s.Polygons[0].Points
	require.Len(t, pts, 5)
	ridge := 6 + 10*math.Tan(15*math.Pi/180)
	assert.InDelta(t, ridge, pts[2].Y, 1e-12)
	assert.Equal(t, 10.0, pts[2].X)
	assert.Equal(t, Point{20, 0}, pts[4])

	assert.Less(t, s.Min.X, 0.0)
	assert.Greater(t, s.Max.X, 20.0)
	assert.Greater(t, s.Max.Y, ridge)
}

func TestRender_ArrowDirections(t *testing.T) {
	s, err := Render(6, 20, 15, loads)
	require.NoError(t, err)
	require.Len(t, s.Arrows, 4)

	ww, lw, wr, lr := s.Arrows[0], s.Arrows[1], s.Arrows[2], s.Arrows[3]

	// pressure on the windward wall pushes toward +x and ends on the wall
	assert.Equal(t, pressure, ww.Color)
	assert.Equal(t, 0.0, ww.Head.X)
	assert.Less(t, ww.Tail.X, ww.Head.X)

	// leeward wall suction pulls away from the building
	assert.Equal(t, suction, lw.Color)
	assert.Equal(t, 20.0, lw.Tail.X)
	assert.Greater(t, lw.Head.X, lw.Tail.X)

	// windward roof suction leaves the roof along its outward normal
	assert.Equal(t, suction, wr.Color)
	assert.Less(t, wr.Head.X, wr.Tail.X)
	assert.Greater(t, wr.Head.Y, wr.Tail.Y)

	// positive leeward roof pressure points down into the roof
	assert.Equal(t, pressure, lr.Color)
	assert.Less(t, lr.Head.Y, lr.Tail.Y)
	assert.Equal(t, "12.0", lr.Label)
	assert.Equal(t, "41.1", lw.Label)
}

func TestRender_ArrowLengthFollowsMagnitude(t *testing.T) {
	s, err := Render(6, 20, 15, loads)
	require.NoError(t, err)
	length := func(a Arrow) float64 { return math.Hypot(a.Head.X-a.Tail.X, a.Head.Y-a.Tail.Y) }

	assert.InDelta(t, 20*0.15, length(s.Arrows[2]), 1e-9)
	assert.Less(t, length(s.Arrows[3]), length(s.Arrows[0]))
}

func TestRender_FlatRoofAndZeroLoads(t *testing.T) {
	s, err := Render(4, 10, 0, Pressures{})
	require.NoError(t, err)
	assert.Equal(t, 4.0, s.Polygons[0].Points[2].Y)
	for _, a := range s.Arrows {
		assert.Equal(t, pressure, a.Color)
		assert.Equal(t, "0.0", a.Label)
	}
}

func TestRender_GeometryErrors(t *testing.T) {
	tests := []struct {
		name                string
		height, width, roof float64
		field               string
	}{
		{"zero width", 6, 0, 15, "width"},
		{"negative height", -1, 20, 15, "wall height"},
		{"infinite width", 6, math.Inf(1), 15, "width"},
		{"nan height", math.NaN(), 20, 15, "wall height"},
		{"vertical roof", 6, 20, 90, "roof angle"},
		{"negative roof", 6, 20, -3, "roof angle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.height, tt.width, tt.roof, loads)
			var gerr *GeometryError
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, tt.field, gerr.Field)
		})
	}
}

func TestPlan(t *testing.T) {
	s, err := Plan(20, 10)
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 0}, {20, 0}, {20, 10}, {0, 10}}, s.Polygons[0].Points)
	require.Len(t, s.Arrows, 1)
	assert.Equal(t, "Wind", s.Arrows[0].Label)
	assert.Equal(t, "L = 20.0 m", s.Texts[0].Value)
	assert.Equal(t, "B = 10.0 m", s.Texts[1].Value)

	_, err = Plan(20, -1)
	assert.Error(t, err)
}

func scenario(t *testing.T) wind.Result {
	t.Helper()
	res, err := wind.Calculate(wind.RawInput{
		V: "160", Exposure: "C", I: "1.00", H: "6", L: "20", B: "10", Theta: "15", Enclosure: "Cerrado",
	}, wind.Options{Model: wind.Simplified{}})
	require.NoError(t, err)
	return res
}

func TestForDirection(t *testing.T) {
	res := scenario(t)

	long := ForDirection(res, wind.Longitudinal)
	assert.Equal(t, 20.0, long.Width)
	assert.Equal(t, 6.0, long.WallHeight)
	assert.Equal(t, 15.0, long.RoofAngleDeg)
	ww, _ := res.Longitudinal.Row(wind.WindwardWall)
	assert.InDelta(t, ww.PPos*wind.KgfM2PerPsf, long.Pressures.WindwardWall, 1e-9)

	trans := ForDirection(res, wind.Transverse)
	assert.Equal(t, 10.0, trans.Width)
	lw, _ := res.Transverse.Row(wind.LeewardWall)
	assert.InDelta(t, lw.PPos*wind.KgfM2PerPsf, trans.Pressures.LeewardWall, 1e-9)

	scene, err := RenderSection(trans)
	require.NoError(t, err)
	assert.Contains(t, scene.Title, "Transverse")
}

func TestScene_SVGIsWellFormed(t *testing.T) {
	s, err := RenderSection(ForDirection(scenario(t), wind.Longitudinal))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.SVG(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Equal(t, 5, strings.Count(out, "<polygon"))
	assert.Contains(t, out, "kgf/m²")

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
}

func TestDrawPDF(t *testing.T) {
	s, err := Render(6, 20, 15, loads)
	require.NoError(t, err)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	used := DrawPDF(pdf, s, 20, 20, 170)
	assert.Greater(t, used, 0.0)

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

const body = `{"V":"160","exposure":"C","I":"1.00","h":"6","L":"20","B":"10","theta":"15","enclosure":"Cerrado"}`

func TestHandlerSVG(t *testing.T) {
	h := &Handler{Metrics: observability.NewMetricsForTesting()}

	rec := httptest.NewRecorder()
	h.SVG(rec, httptest.NewRequest(http.MethodPost, "/diagram?direction=trans", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Transverse")
	assert.Equal(t, 1.0, testutil.ToFloat64(h.Metrics.DocumentsRendered.WithLabelValues("svg")))

	rec = httptest.NewRecorder()
	h.SVG(rec, httptest.NewRequest(http.MethodPost, "/diagram?view=plan", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Plan view")
}

func TestHandlerSVG_Errors(t *testing.T) {
	h := &Handler{}

	rec := httptest.NewRecorder()
	h.SVG(rec, httptest.NewRequest(http.MethodPost, "/diagram?direction=up", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.SVG(rec, httptest.NewRequest(http.MethodPost, "/diagram", strings.NewReader(strings.Replace(body, `"6"`, `"0"`, 1))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(&GeometryError{Field: "width"}))
}

func TestDrawPDF_TallSceneFitsPage(t *testing.T) {
	s, err := Render(60, 4, 10, loads)
	require.NoError(t, err)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	used := DrawPDF(pdf, s, 15, 15, 180)
	assert.LessOrEqual(t, used, 297.0-15-15+1e-9)
}
