package report

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"Aeolus/internal/calc/diagram"
	"Aeolus/internal/calc/wind"
	"Aeolus/internal/observability"
)

// Request is a wind input set plus optional title block fields.
type Request struct {
	wind.RawInput
	Project string `json:"project"`
	Author  string `json:"author"`
	Notes   string `json:"notes"`
}

type Handler struct {
	Defaults wind.Options
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) (Document, wind.Result, bool) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return Document{}, wind.Result{}, false
	}
	opts, err := wind.RequestOptions(r, h.Defaults)
	if err != nil {
		http.Error(w, err.Error(), wind.StatusFor(err))
		return Document{}, wind.Result{}, false
	}
	res, err := wind.Calculate(req.RawInput, opts)
	if h.Metrics != nil {
		h.Metrics.Calculations.WithLabelValues(string(opts.Model.Name()), observability.Outcome(err, wind.IsValidation)).Inc()
	}
	if err != nil {
		http.Error(w, err.Error(), wind.StatusFor(err))
		return Document{}, wind.Result{}, false
	}

	doc := FormatReport(res)
	doc.Project, doc.Author, doc.Notes = req.Project, req.Author, req.Notes
	return doc, res, true
}

func (h *Handler) Markdown(w http.ResponseWriter, r *http.Request) {
	doc, _, ok := h.build(w, r)
	if !ok {
		return
	}
	h.rendered("markdown")
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(doc.Markdown()))
}

// PDF answers with the memorandum followed by the plan view and the
// section of each direction.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	doc, res, ok := h.build(w, r)
	if !ok {
		return
	}
	scenes, err := Scenes(res)
	if err != nil {
		http.Error(w, err.Error(), diagram.StatusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, doc, scenes...); err != nil {
		h.logger().Error("render pdf failed", "error", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	h.rendered("pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"wind-report.pdf\"")
	w.Write(buf.Bytes())
}

// Scenes are the drawings a full report carries.
func Scenes(res wind.Result) ([]diagram.Scene, error) {
	plan, err := diagram.Plan(res.Input.LengthM, res.Input.WidthM)
	if err != nil {
		return nil, err
	}
	scenes := []diagram.Scene{plan}
	for _, d := range []wind.Direction{wind.Longitudinal, wind.Transverse} {
		s, err := diagram.RenderSection(diagram.ForDirection(res, d))
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, s)
	}
	return scenes, nil
}

func (h *Handler) rendered(format string) {
	if h.Metrics != nil {
		h.Metrics.DocumentsRendered.WithLabelValues(format).Inc()
	}
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
