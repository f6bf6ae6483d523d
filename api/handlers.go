package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonwraymond/incidentops/classifier"
	"github.com/jonwraymond/incidentops/dispatch"
	"github.com/jonwraymond/incidentops/incident"
	"github.com/jonwraymond/incidentops/observe"
)

// SubmitRequest is the body of POST /v1/incidents.
type SubmitRequest struct {
	Text string `json:"text"`
}

// StatusRequest is the body of PATCH /v1/incidents/{id}.
type StatusRequest struct {
	Status string `json:"status"`
}

// SystemResponse is the body of GET /v1/system.
type SystemResponse struct {
	dispatch.SystemHealth
	Metrics dispatch.RequestMetrics `json:"metrics"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.dispatcher.Submit(r.Context(), req.Text)
	if errors.Is(err, classifier.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "text must be at least 5 characters")
		return
	}
	if err != nil {
		s.logger.Error(r.Context(), "submit failed", observe.F("error", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	// A nil result means nothing happened; clients receive null.
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.Board().List())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, err := s.dispatcher.Board().Get(r.PathValue("id"))
	if errors.Is(err, dispatch.ErrNotFound) {
		writeError(w, http.StatusNotFound, "incident not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !s.decode(w, r, &req) {
		return
	}
	status, err := incident.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	res, err := s.dispatcher.UpdateStatus(r.PathValue("id"), status)
	if errors.Is(err, dispatch.ErrNotFound) {
		writeError(w, http.StatusNotFound, "incident not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.Stats())
}

func (s *Server) handleSystem(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SystemResponse{
		SystemHealth: s.dispatcher.Health(),
		Metrics:      s.dispatcher.Metrics(),
	})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	s.dispatcher.RunDiagnostics(r.Context())
	writeJSON(w, http.StatusOK, s.dispatcher.Health())
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.Preferences())
}

// handlePutPreferences applies a partial document over the current
// preferences.
func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	prefs := s.dispatcher.Preferences()
	if !s.decode(w, r, &prefs) {
		return
	}
	if err := s.dispatcher.UpdatePreferences(r.Context(), prefs); err != nil {
		s.logger.Error(r.Context(), "save preferences failed", observe.F("error", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
