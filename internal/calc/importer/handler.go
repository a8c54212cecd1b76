package importer

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"Aeolus/internal/calc/batch"
	"Aeolus/internal/calc/wind"
	"Aeolus/internal/observability"
)

const (
	maxUpload = 10 << 20
	xlsxType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	Defaults wind.Options
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// Wind evaluates every row of the uploaded workbook. The answer is the
// batch result as JSON, or a results workbook when format=xlsx.
func (h *Handler) Wind(w http.ResponseWriter, r *http.Request) {
	opts, err := wind.RequestOptions(r, h.Defaults)
	if err != nil {
		http.Error(w, err.Error(), wind.StatusFor(err))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	inputs, err := ReadInputs(file)
	if err != nil {
		http.Error(w, err.Error(), wind.StatusFor(err))
		return
	}
	res := batch.Calculate(batch.With(opts), inputs)
	batch.Count(h.Metrics, string(opts.Model.Name()), res)
	h.logger().Info("workbook imported", "rows", len(inputs), "failed", res.Failed)

	if r.URL.Query().Get("format") != "xlsx" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
		return
	}

	var buf bytes.Buffer
	if err := WriteResults(&buf, res.Items); err != nil {
		h.logger().Error("write results workbook failed", "error", err)
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	if h.Metrics != nil {
		h.Metrics.DocumentsRendered.WithLabelValues("xlsx").Inc()
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"wind-results.xlsx\"")
	w.Write(buf.Bytes())
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
