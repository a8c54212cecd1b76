package batch

import (
	"encoding/json"
	"net/http"

	"Aeolus/internal/calc/wind"
	"Aeolus/internal/observability"
)

const maxItems = 500

type Handler struct {
	Defaults wind.Options
	Metrics  *observability.Metrics
}

func (h *Handler) Wind(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(input.Items) == 0 || len(input.Items) > maxItems {
		http.Error(w, "Between 1 and 500 items required", http.StatusBadRequest)
		return
	}
	opts, err := wind.RequestOptions(r, h.Defaults)
	if err != nil {
		http.Error(w, err.Error(), wind.StatusFor(err))
		return
	}

	res := Calculate(With(opts), input.Items)
	Count(h.Metrics, string(opts.Model.Name()), res)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Count records every item of res as a calculation and an import row.
func Count(m *observability.Metrics, model string, res BatchResult) {
	if m == nil {
		return
	}
	for _, item := range res.Items {
		m.Calculations.WithLabelValues(model, observability.Outcome(item.Err, wind.IsValidation)).Inc()
		outcome := "ok"
		if item.Err != nil {
			outcome = "invalid"
		}
		m.ImportRows.WithLabelValues(outcome).Inc()
	}
}
