package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bakeops/ovenboard/pkg/models/api"
	"github.com/bakeops/ovenboard/pkg/services/dashboard"
	"github.com/bakeops/ovenboard/pkg/services/view"
	"github.com/bakeops/ovenboard/pkg/store/client"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Handler struct {
	session  *dashboard.Session
	validate *validator.Validate
}

func NewHandler(session *dashboard.Session) *Handler {
	return &Handler{
		session:  session,
		validate: validator.New(),
	}
}

// EditRequest is an inline inventory edit. Both fields are optional but at
// least one must be present; negatives never leave the console.
type EditRequest struct {
	CurrentQuantity  *int `json:"currentQuantity" validate:"omitempty,gte=0"`
	RestockThreshold *int `json:"restockThreshold" validate:"omitempty,gte=0"`
}

// RefreshForecastRequest mirrors the bakehouse forecast parameters.
type RefreshForecastRequest struct {
	StartDate     string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate       string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	Increment     string  `json:"increment" validate:"required,oneof=daily weekly"`
	GrowthRate    float64 `json:"growthRate"`
	LookbackWeeks int     `json:"lookbackWeeks" validate:"gte=0"`
}

// GetInventory renders the inventory view. A `filter` query param replaces
// the active filter; a `sort` param is treated as a column-header click, so
// repeating the same sort key flips direction.
func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	h.applyViewParams(r, h.session.SetInventoryFilter, h.session.ToggleInventorySort)
	writeJSON(w, r, http.StatusOK, h.session.InventoryView())
}

func (h *Handler) RefreshInventory(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RefreshInventory(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.session.InventoryView())
}

func (h *Handler) EditPosition(w http.ResponseWriter, r *http.Request) {
	product := chi.URLParam(r, "product")

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, r, http.StatusBadRequest, "invalid edit payload", []string{err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeEnvelope(w, r, http.StatusBadRequest, "invalid edit payload", fieldErrors(err))
		return
	}
	if req.CurrentQuantity == nil && req.RestockThreshold == nil {
		writeEnvelope(w, r, http.StatusBadRequest, "invalid edit payload",
			[]string{"at least one of currentQuantity or restockThreshold is required"})
		return
	}

	edit := api.PositionEdit{
		CurrentQuantity:  req.CurrentQuantity,
		RestockThreshold: req.RestockThreshold,
	}
	if err := h.session.SubmitEdit(r.Context(), product, edit); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.session.InventoryView())
}

func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	h.applyViewParams(r, h.session.SetForecastFilter, h.session.ToggleForecastSort)
	writeJSON(w, r, http.StatusOK, h.session.ForecastView())
}

func (h *Handler) RefreshForecast(w http.ResponseWriter, r *http.Request) {
	var req RefreshForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, r, http.StatusBadRequest, "invalid forecast request", []string{err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeEnvelope(w, r, http.StatusBadRequest, "invalid forecast request", fieldErrors(err))
		return
	}

	err := h.session.RefreshForecast(r.Context(), api.ForecastRequest{
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Increment:     req.Increment,
		GrowthRate:    req.GrowthRate,
		LookbackWeeks: req.LookbackWeeks,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.session.ForecastView())
}

func (h *Handler) ToggleExpand(w http.ResponseWriter, r *http.Request) {
	product := chi.URLParam(r, "product")
	expanded := h.session.ToggleExpand(product)
	writeJSON(w, r, http.StatusOK, map[string]any{
		"product":  product,
		"expanded": expanded,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.session.Health(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// applyViewParams folds query params into the session's view state: `filter`
// replaces the filter text (an empty value clears it), `sort` is a header
// click on that column.
func (h *Handler) applyViewParams(r *http.Request, setFilter func(string), toggleSort func(string) view.SortState) {
	q := r.URL.Query()
	if q.Has("filter") {
		setFilter(q.Get("filter"))
	}
	if key := q.Get("sort"); key != "" {
		toggleSort(key)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps the error taxonomy onto HTTP responses. Transport failures
// become 502 with remediation text; application errors keep the bakehouse's
// status, message and details verbatim.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var transportErr *client.TransportError
	if errors.As(err, &transportErr) {
		writeEnvelope(w, r, http.StatusBadGateway, transportErr.Error(), nil)
		return
	}

	var appErr *client.ApplicationError
	if errors.As(err, &appErr) {
		writeEnvelope(w, r, appErr.StatusCode, appErr.Message, appErr.Details)
		return
	}

	writeEnvelope(w, r, http.StatusBadRequest, err.Error(), nil)
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, message string, details []string) {
	envelope := api.ErrorEnvelope{
		Error: api.ErrorBody{
			Message: message,
			Details: details,
		},
	}
	writeJSON(w, r, status, envelope)
}

func fieldErrors(err error) []string {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(invalid))
	for _, fieldErr := range invalid {
		details = append(details, fmt.Sprintf("%s failed %s validation", fieldErr.Field(), fieldErr.Tag()))
	}
	return details
}
