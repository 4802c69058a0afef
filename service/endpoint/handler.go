package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/viant/hourly"
	"github.com/viant/hourly/model"
	"github.com/viant/hourly/model/types"
	"github.com/viant/hourly/service/dao"
	"github.com/viant/hourly/service/export"
	"github.com/viant/hourly/tracing"
)

const maxBodyBytes = 1 << 20

// ExportPath is the route prefix of CSV downloads
const ExportPath = "/exports/"

// Planner is the subset of hourly.Service served over HTTP
type Planner interface {
	AddDemand(ctx context.Context, aDemand *model.Demand) (*model.Demand, error)
	AddDeveloper(ctx context.Context, aDeveloper *model.Developer) (*model.Developer, error)
	Demands(ctx context.Context, parameters ...*dao.Parameter) (model.Demands, error)
	Developers(ctx context.Context, parameters ...*dao.Parameter) (model.Developers, error)
	UpdateDemandOrder(ctx context.Context, id int, order int) (*model.Demand, error)
	Allocate(ctx context.Context) (*hourly.Outcome, error)
	Reorder(ctx context.Context) (*hourly.Outcome, error)
	Reset(ctx context.Context) error
	Export(ctx context.Context, ref string) ([]byte, error)
}

var _ Planner = (*hourly.Service)(nil)

type demandRequest struct {
	Name  string `json:"name"`
	Hours number `json:"hours"`
	Order number `json:"order"`
}

type developerRequest struct {
	Name           string `json:"name"`
	HoursAvailable number `json:"hoursAvailable"`
}

type orderRequest struct {
	Order number `json:"order"`
}

// AllocationResponse is the body of allocate and reorder-allocate responses
type AllocationResponse struct {
	Mode        model.Mode     `json:"mode"`
	Result      model.Result   `json:"result"`
	CsvPath     string         `json:"csvPath"`
	Unallocated []model.Demand `json:"unallocated"`
	Report      *export.Report `json:"report,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Rule  string `json:"rule,omitempty"`
}

// Handler routes HTTP requests to a Planner
type Handler struct {
	planner Planner
	logger  *slog.Logger
	mux     *http.ServeMux
}

// NewHandler creates a handler; logger may be nil
func NewHandler(planner Planner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	ret := &Handler{planner: planner, logger: logger, mux: http.NewServeMux()}
	ret.mux.HandleFunc("GET /demands", ret.listDemands)
	ret.mux.HandleFunc("POST /demands", ret.addDemand)
	ret.mux.HandleFunc("PATCH /demands/{id}", ret.updateDemandOrder)
	ret.mux.HandleFunc("GET /developers", ret.listDevelopers)
	ret.mux.HandleFunc("POST /developers", ret.addDeveloper)
	ret.mux.HandleFunc("POST /allocate", ret.allocate(planner.Allocate))
	ret.mux.HandleFunc("POST /reorder-allocate", ret.allocate(planner.Reorder))
	ret.mux.HandleFunc("DELETE /reset", ret.reset)
	ret.mux.HandleFunc("GET "+ExportPath+"{ref}", ret.download)
	ret.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": hourly.Version})
	})
	return ret
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.StartSpan(r.Context(), r.Method+" "+r.URL.Path, "SERVER")
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(recorder, r.WithContext(ctx))
	span.SetStatusFromHTTPCode(recorder.status)
	span.OnDone()
	h.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", recorder.status)
}

func (h *Handler) listDemands(w http.ResponseWriter, r *http.Request) {
	demands, err := h.planner.Demands(r.Context(), nameFilter(r)...)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, demands)
}

func (h *Handler) addDemand(w http.ResponseWriter, r *http.Request) {
	var request demandRequest
	if !h.decode(w, r, &request) {
		return
	}
	order, err := orderValue(0, request.Order)
	if err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.planner.AddDemand(r.Context(), &model.Demand{Name: request.Name, Hours: float64(request.Hours), Order: order})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateDemandOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeError(w, fmt.Errorf("demand id %q: %w", r.PathValue("id"), dao.ErrInvalidID))
		return
	}
	var request orderRequest
	if !h.decode(w, r, &request) {
		return
	}
	order, err := orderValue(id, request.Order)
	if err != nil {
		h.writeError(w, err)
		return
	}
	updated, err := h.planner.UpdateDemandOrder(r.Context(), id, order)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) listDevelopers(w http.ResponseWriter, r *http.Request) {
	developers, err := h.planner.Developers(r.Context(), nameFilter(r)...)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, developers)
}

func (h *Handler) addDeveloper(w http.ResponseWriter, r *http.Request) {
	var request developerRequest
	if !h.decode(w, r, &request) {
		return
	}
	created, err := h.planner.AddDeveloper(r.Context(), &model.Developer{Name: request.Name, HoursAvailable: float64(request.HoursAvailable)})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) allocate(run func(ctx context.Context) (*hourly.Outcome, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outcome, err := run(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		response := &AllocationResponse{
			Mode:        outcome.Mode,
			Result:      outcome.Result,
			CsvPath:     ExportPath + outcome.ExportRef,
			Unallocated: outcome.Unallocated,
			Report:      outcome.Report,
		}
		writeJSON(w, http.StatusOK, response)
	}
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.Reset(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	data, err := h.planner.Export(r.Context(), r.PathValue("ref"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="allocation_result.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unable to read body"})
		return false
	}
	if err = json.Unmarshal(body, target); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid JSON: %v", err)})
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Rule: types.Rule(err)})
	case errors.Is(err, dao.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, dao.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// orderValue converts a decoded priority to int, rejecting fractions and values int cannot hold.
func orderValue(id int, value number) (int, error) {
	order := float64(value)
	if order != math.Trunc(order) {
		return 0, types.NewValidationError("demand", id, "order", "must be an integer")
	}
	if order < math.MinInt || order >= math.MaxInt {
		return 0, types.NewValidationError("demand", id, "order", "must be an integer within range")
	}
	return int(order), nil
}

// nameFilter maps repeated ?name= query values to a Name parameter
func nameFilter(r *http.Request) []*dao.Parameter {
	names := r.URL.Query()["name"]
	if len(names) == 0 {
		return nil
	}
	return []*dao.Parameter{dao.NewParameter("Name", names...)}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
