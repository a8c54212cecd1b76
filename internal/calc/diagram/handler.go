package diagram

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"Aeolus/internal/calc/wind"
	"Aeolus/internal/observability"
)

type Handler struct {
	Defaults wind.Options
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// StatusFor maps diagram and engine errors to HTTP status codes.
func StatusFor(err error) int {
	var gerr *GeometryError
	if errors.As(err, &gerr) {
		return http.StatusUnprocessableEntity
	}
	return wind.StatusFor(err)
}

// SVG calculates the posted input and answers with the section of the
// direction query parameter, or the plan view when view=plan.
func (h *Handler) SVG(w http.ResponseWriter, r *http.Request) {
	raw, opts, err := wind.DecodeRequest(r, h.Defaults)
	if err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	dir, err := wind.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	res, err := wind.Calculate(raw, opts)
	if err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}

	var scene Scene
	if r.URL.Query().Get("view") == "plan" {
		scene, err = Plan(res.Input.LengthM, res.Input.WidthM)
	} else {
		scene, err = RenderSection(ForDirection(res, dir))
	}
	if err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := scene.SVG(&buf); err != nil {
		h.logger().Error("render svg failed", "error", err)
		http.Error(w, "Diagram generation error", http.StatusInternalServerError)
		return
	}
	if h.Metrics != nil {
		h.Metrics.DocumentsRendered.WithLabelValues("svg").Inc()
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
