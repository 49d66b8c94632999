package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/chrissnell/lickcalc/internal/licks"
	"github.com/chrissnell/lickcalc/internal/log"
	"github.com/chrissnell/lickcalc/internal/store"
	"github.com/chrissnell/lickcalc/pkg/responseformat"
)

const maxResultsLimit = 1000

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{controller: ctrl}
}

// Healthz reports that the server is up
func (h *Handlers) Healthz(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, http.StatusOK, map[string]any{
		"status":  "ok",
		"storage": h.controller.store != nil,
	})
}

// Validate checks onset (and optional offset) arrays without analyzing them
func (h *Handlers) Validate(w http.ResponseWriter, req *http.Request) {
	var body ValidateRequest
	if !h.decode(w, req, &body) {
		return
	}

	err := licks.ValidateOnsetTimes(body.Onsets)
	if err == nil && body.Offsets != nil {
		err = licks.ValidateOnsetOffsetPairs(body.Onsets, body.Offsets)
	}
	if err != nil {
		h.analysisError(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, map[string]bool{"valid": true})
}

// Analyze runs a full microstructure analysis of one session
func (h *Handlers) Analyze(w http.ResponseWriter, req *http.Request) {
	var body AnalyzeRequest
	if !h.decode(w, req, &body) {
		return
	}
	if body.Onsets == nil {
		body.Onsets = []float64{}
	}
	if body.Epochs != nil && !licks.EpochKind(body.Epochs.Method).Valid() {
		h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("unknown epoch method %q", body.Epochs.Method))
		return
	}
	if body.Save && h.controller.store == nil {
		h.writeError(w, req, http.StatusBadRequest, "save requested but storage is not configured")
		return
	}

	cfg := h.controller.cfg
	p := applyOverrides(cfg.Params(), body.Params)

	a, err := licks.Analyze(body.Onsets, body.Offsets, p)
	if err != nil {
		h.analysisError(w, req, err)
		return
	}

	resp := analysisToResponse(&body, a)

	sessionLength := 0.0
	if body.Epochs != nil {
		sessionLength = body.Epochs.SessionLength
	}
	if body.Histograms {
		resp.Histograms = histogramsToDTO(a, cfg.Histograms, sessionLength)
	}

	var epochResults []licks.EpochResult
	if body.Epochs != nil {
		epochs, err := a.Divide(epochOptions(body.Epochs))
		if err != nil {
			h.analysisError(w, req, err)
			return
		}
		if epochResults, err = a.AnalyzeEpochs(epochs); err != nil {
			h.analysisError(w, req, err)
			return
		}
		resp.Epochs = make([]EpochDTO, len(epochResults))
		for i, r := range epochResults {
			resp.Epochs[i] = epochToDTO(r)
		}
	}

	if body.Save {
		records := []store.Record{store.NewRecord(body.AnimalID, body.Source, "", a)}
		for _, r := range epochResults {
			records = append(records, store.NewRecord(body.AnimalID, body.Source, r.Epoch.Label, r.Analysis))
		}
		ids, err := h.controller.store.SaveAll(req.Context(), records)
		if err != nil {
			h.controller.logger.Errorw("failed to save results", "error", err, "request_id", log.RequestID(req.Context()))
			h.writeError(w, req, http.StatusInternalServerError, "failed to save results")
			return
		}
		resp.ResultID = ids[0].String()
		for i := range resp.Epochs {
			resp.Epochs[i].ResultID = ids[i+1].String()
		}
	}

	h.controller.logger.Debugw("analyzed session",
		"animal_id", body.AnimalID,
		"licks", a.Stats.TotalLicks,
		"bursts", a.Stats.BurstCount,
		"epochs", len(resp.Epochs),
	)
	h.write(w, req, http.StatusOK, resp)
}

// ListResults returns the newest rows of the results table
func (h *Handlers) ListResults(w http.ResponseWriter, req *http.Request) {
	if h.controller.store == nil {
		h.writeError(w, req, http.StatusNotFound, "storage not configured")
		return
	}

	limit := 100
	if v := req.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxResultsLimit {
			h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxResultsLimit))
			return
		}
		limit = n
	}

	records, err := h.controller.store.List(req.Context(), limit)
	if err != nil {
		h.controller.logger.Errorf("error listing results: %v", err)
		h.writeError(w, req, http.StatusInternalServerError, "failed to list results")
		return
	}

	resp := ResultsResponse{Results: make([]ResultDTO, len(records))}
	for i, r := range records {
		resp.Results[i] = recordToDTO(r)
	}
	h.write(w, req, http.StatusOK, resp)
}

// GetResult returns one row of the results table
func (h *Handlers) GetResult(w http.ResponseWriter, req *http.Request) {
	if h.controller.store == nil {
		h.writeError(w, req, http.StatusNotFound, "storage not configured")
		return
	}

	id, err := uuid.Parse(mux.Vars(req)["id"])
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, "invalid result id")
		return
	}

	r, err := h.controller.store.Get(req.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.writeError(w, req, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		h.controller.logger.Errorf("error getting result %s: %v", id, err)
		h.writeError(w, req, http.StatusInternalServerError, "failed to get result")
		return
	}
	h.write(w, req, http.StatusOK, recordToDTO(r))
}

// decode reads a JSON body, rejecting unknown fields. It writes the error
// response itself and reports whether decoding succeeded.
func (h *Handlers) decode(w http.ResponseWriter, req *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, h.controller.cfg.Server.MaxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil && dec.More() {
		err = errors.New("unexpected data after JSON body")
	}
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		h.writeError(w, req, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	case errors.Is(err, io.EOF):
		h.writeError(w, req, http.StatusBadRequest, "request body is empty")
	default:
		h.writeError(w, req, http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return false
}

// analysisError maps validation failures to 422 with the failing index
func (h *Handlers) analysisError(w http.ResponseWriter, req *http.Request, err error) {
	kind, index := licks.ErrorKind(err)
	if kind == "" {
		h.controller.logger.Errorf("unexpected analysis error: %v", err)
		h.writeError(w, req, http.StatusInternalServerError, "analysis failed")
		return
	}

	body := responseformat.ErrorBody{Error: err.Error(), Kind: kind}
	if index >= 0 {
		body.Index = &index
	}
	if err := h.controller.formatter.WriteError(w, req, http.StatusUnprocessableEntity, body); err != nil {
		h.controller.logger.Errorf("error writing response: %v", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, status int, msg string) {
	if err := h.controller.formatter.WriteError(w, req, status, responseformat.ErrorBody{Error: msg}); err != nil {
		h.controller.logger.Errorf("error writing response: %v", err)
	}
}

func (h *Handlers) write(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.controller.formatter.WriteResponse(w, req, status, data); err != nil {
		h.controller.logger.Errorf("error writing response: %v", err)
	}
}
