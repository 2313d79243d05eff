// internal/webhook/server.go

// Package webhook exposes the telephony provider endpoints and the reporting
// API over HTTP.
package webhook

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/user/hotline/internal/orchestrator"
	"github.com/user/hotline/internal/state"
	"github.com/user/hotline/internal/twiml"
	"github.com/user/hotline/internal/types"
)

// statusMessage is the liveness confirmation for GET /status.
const statusMessage = "Anrufbeantworter aktiv und bereit"

// Server routes provider webhooks into the orchestrator and serves the call
// query API for the reporting dashboard.
type Server struct {
	orch           *orchestrator.Orchestrator
	archive        *state.Archive
	allowedOrigins []string
	mux            *http.ServeMux
}

// NewServer creates a Server. allowedOrigins configures CORS for the
// dashboard API; an empty list allows every origin.
func NewServer(orch *orchestrator.Orchestrator, archive *state.Archive, allowedOrigins []string) *Server {
	s := &Server{
		orch:           orch,
		archive:        archive,
		allowedOrigins: allowedOrigins,
		mux:            http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /voice", s.handleVoice)
	s.mux.HandleFunc("POST /gather", s.handleGather)
	s.mux.HandleFunc("POST /transcribe", s.handleTranscribe)
	s.mux.HandleFunc("GET /api/calls", s.handleAPICalls)
	s.mux.HandleFunc("OPTIONS /api/calls", s.handlePreflight)
	s.mux.HandleFunc("GET /status", s.handleStatus)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// writeTwiML renders the call-control document. Every provider webhook must
// receive a valid document, so a render failure degrades to a bare hangup.
func writeTwiML(w http.ResponseWriter, doc *twiml.Response) {
	body, err := doc.Render()
	if err != nil {
		slog.Error("render call-control document failed", "error", err)
		body, _ = twiml.New().Hangup().Render()
	}
	w.Header().Set("Content-Type", "text/xml")
	w.Write(body)
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn("malformed voice webhook", "error", err)
		writeTwiML(w, orchestrator.ErrorResponse())
		return
	}

	callID := types.CallID(r.PostFormValue("CallSid"))
	if callID == "" {
		slog.Warn("voice webhook without CallSid")
		writeTwiML(w, orchestrator.ErrorResponse())
		return
	}

	doc := s.orch.HandleStart(r.Context(), callID, r.PostFormValue("From"))
	writeTwiML(w, doc)
}

func (s *Server) handleGather(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn("malformed gather webhook", "error", err)
		writeTwiML(w, orchestrator.ErrorResponse())
		return
	}

	callID := types.CallID(r.PostFormValue("CallSid"))
	if callID == "" {
		slog.Warn("gather webhook without CallSid")
		writeTwiML(w, orchestrator.ErrorResponse())
		return
	}

	doc := s.orch.HandleExchange(r.Context(), callID,
		r.PostFormValue("SpeechResult"), r.PostFormValue("Confidence"))
	writeTwiML(w, doc)
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn("malformed transcribe webhook", "error", err)
		writeTwiML(w, orchestrator.ErrorResponse())
		return
	}

	callID := types.CallID(r.PostFormValue("CallSid"))
	if callID == "" {
		slog.Warn("transcribe webhook without CallSid")
		writeTwiML(w, orchestrator.ErrorResponse())
		return
	}

	doc := s.orch.HandleRecording(r.Context(), callID, r.PostFormValue("RecordingUrl"))
	writeTwiML(w, doc)
}

func (s *Server) handleAPICalls(w http.ResponseWriter, r *http.Request) {
	s.setCORS(w, r)

	days := 1
	if q := r.URL.Query().Get("days"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			days = n
		}
	}

	records := s.archive.Since(days)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	s.setCORS(w, r)
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.WriteHeader(http.StatusOK)
}

// setCORS allows the dashboard origin. With no configured origins every
// origin is allowed; otherwise only listed origins get the header.
func (s *Server) setCORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	if len(s.allowedOrigins) == 0 {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		return
	}
	for _, allowed := range s.allowedOrigins {
		if allowed == origin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			return
		}
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(statusMessage))
}
