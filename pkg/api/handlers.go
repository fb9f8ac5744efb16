package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aretw0/introspection"
	"github.com/gorilla/mux"

	"github.com/aretw0/quire/internal/metrics"
	"github.com/aretw0/quire/pkg/core"
)

var errInvalidJSON = errors.New("invalid JSON body")

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Quire backend running!")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Version: s.version, Service: s.svc.State()}
	if repo, ok := s.svc.Repository().(introspection.Introspectable); ok {
		resp.Repository = repo.State()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.svc.ListNotes(r.Context(), r.URL.Query().Get("wallet_address"))
	metrics.ObserveAuthorization("list", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := listResponse{Notes: make([]noteResponse, 0, len(notes))}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, toResponse(n))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		metrics.ObserveAuthorization("create", core.ErrMissingFields)
		s.writeError(w, r, core.ErrMissingFields)
		return
	}

	n, err := s.svc.CreateNote(r.Context(), req.toCore())
	metrics.ObserveAuthorization("create", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(n))
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.GetNote(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("wallet_address"))
	metrics.ObserveAuthorization("read", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(n))
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	n, err := s.svc.UpdateNote(r.Context(), mux.Vars(r)["id"], core.UpdateRequest{
		Title:         req.Title,
		Content:       req.Content,
		Authorization: req.toCore(),
	})
	metrics.ObserveAuthorization("update", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(n))
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	var req authorizationBody
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	err := s.svc.DeleteNote(r.Context(), mux.Vars(r)["id"], req.toCore())
	metrics.ObserveAuthorization("delete", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Note deleted"})
}

// decodeBody reads a JSON object into dst. An empty body leaves dst zeroed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return nil
}

// statusFor maps domain errors to an HTTP status and a client-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidJSON):
		return http.StatusBadRequest, "Invalid JSON body"
	case errors.Is(err, core.ErrMissingFields):
		return http.StatusBadRequest, "Missing required fields"
	case errors.Is(err, core.ErrInvalidAddress):
		return http.StatusBadRequest, "Invalid or missing wallet address"
	case errors.Is(err, core.ErrInvalidSignature):
		return http.StatusForbidden, "Invalid signature"
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusForbidden, "Unauthorized"
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "Note not found"
	case errors.Is(err, core.ErrReadOnly):
		return http.StatusConflict, "Store is read-only"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
