package wind

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"Aeolus/internal/auth"
	"Aeolus/internal/observability"
	"Aeolus/internal/repo"
)

type Handler struct {
	Defaults Options
	Runs     repo.RunRepository // nil disables history
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// DecodeRequest reads a RawInput body and the model/units query overrides.
func DecodeRequest(r *http.Request, defaults Options) (RawInput, Options, error) {
	var raw RawInput
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return RawInput{}, Options{}, &ValidationError{Field: "body", Reason: "invalid request payload"}
	}
	opts, err := RequestOptions(r, defaults)
	if err != nil {
		return RawInput{}, Options{}, err
	}
	return raw, opts, nil
}

// RequestOptions applies the model and units query parameters to defaults.
func RequestOptions(r *http.Request, defaults Options) (Options, error) {
	opts := defaults.withDefaults()
	q := r.URL.Query()
	if s := q.Get("model"); s != "" {
		m, err := ParseModel(s)
		if err != nil {
			return Options{}, err
		}
		opts.Model = m
	}
	if s := q.Get("units"); s != "" {
		u, err := ParseUnits(s)
		if err != nil {
			return Options{}, err
		}
		opts.Units = u
	}
	return opts, nil
}

// StatusFor maps engine errors to HTTP status codes.
func StatusFor(err error) int {
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// IsValidation reports whether err is user-correctable input.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	raw, opts, err := DecodeRequest(r, h.Defaults)
	if err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	res, err := Calculate(raw, opts)
	h.count(opts.Model.Name(), err)
	if err != nil {
		if !IsValidation(err) {
			h.logger().Error("wind calculation failed", "error", err)
		}
		http.Error(w, err.Error(), StatusFor(err))
		return
	}

	if h.Runs != nil {
		if id, ok := auth.UserID(r.Context()); ok {
			h.save(r, id, raw, res)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// save is best effort: a failed history write does not fail the calculation.
func (h *Handler) save(r *http.Request, userID int, raw RawInput, res Result) {
	input, err := json.Marshal(raw)
	if err != nil {
		h.logger().Error("encode run input", "error", err)
		return
	}
	result, err := json.Marshal(res)
	if err != nil {
		h.logger().Error("encode run result", "error", err)
		return
	}
	id, err := h.Runs.SaveRun(r.Context(), repo.Run{
		UserID: userID,
		Model:  string(res.Model),
		Input:  input,
		Result: result,
	})
	if err != nil {
		h.logger().Warn("save run failed", "user_id", userID, "error", err)
		return
	}
	h.logger().Debug("run saved", "run_id", id, "user_id", userID)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if h.Runs == nil {
		http.Error(w, "History disabled", http.StatusNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.Runs.ListRuns(r.Context(), userID, limit)
	if err != nil {
		h.logger().Error("list runs failed", "user_id", userID, "error", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

func (h *Handler) count(model ModelName, err error) {
	if h.Metrics == nil {
		return
	}
	h.Metrics.Calculations.WithLabelValues(string(model), observability.Outcome(err, IsValidation)).Inc()
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
