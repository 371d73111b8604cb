package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/neuromint/neuromint-go/internal/engine"
	"github.com/neuromint/neuromint-go/internal/games"
	"github.com/neuromint/neuromint-go/internal/scripting"
	"github.com/neuromint/neuromint-go/internal/session"
	"github.com/neuromint/neuromint-go/internal/store"
)

// defaultSessionTTL is how long an untouched session survives before the
// next create sweeps it away.
const defaultSessionTTL = 30 * time.Minute

// Options tunes a Server. Zero values get sensible defaults.
type Options struct {
	// SessionTTL is the idle lifetime of a session.
	SessionTTL time.Duration
	// Diagnostics routes controller no-op diagnostics into the server log.
	Diagnostics bool
	Logger      *log.Logger
}

// Server handles HTTP requests.
type Server struct {
	db          store.DB
	registry    *sessionRegistry
	errors      *ErrorHandler
	logger      *log.Logger
	sessionTTL  time.Duration
	diagnostics bool
	startTime   time.Time
}

// NewServer creates an API server over a record store. db may be nil;
// sessions then run without persistence and say so in their snapshots.
func NewServer(db store.DB, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Server{
		db:          db,
		registry:    newSessionRegistry(),
		errors:      NewErrorHandler(logger),
		logger:      logger,
		sessionTTL:  ttl,
		diagnostics: opts.Diagnostics,
		startTime:   time.Now(),
	}
}

// Routes sets up the HTTP routes with proper middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.errors.RecoveryHandler)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", s.handleListGames)
		r.Post("/games/custom", s.handleCustomGame)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/input", s.handleSessionInput)
			r.Post("/tick", s.handleSessionTick)
			r.Post("/restart", s.handleSessionRestart)
			r.Get("/events", s.handleSessionEvents)
		})

		r.Get("/records", s.handleListRecords)
		r.Get("/records/{gameID}", s.handleGetRecord)
		r.Get("/results/{gameID}", s.handleListResults)
	})

	return r
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"catalogue": "ok"}
	status := "healthy"
	if s.db == nil {
		checks["database"] = "disabled"
	} else if _, err := s.db.ListBestRecords(); err != nil {
		checks["database"] = err.Error()
		status = "degraded"
	} else {
		checks["database"] = "ok"
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":        status,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"uptime":        time.Since(s.startTime).String(),
		"games":         len(games.List()),
		"live_sessions": s.registry.count(),
		"goroutines":    runtime.NumGoroutine(),
		"checks":        checks,
		"request_id":    middleware.GetReqID(r.Context()),
	})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"games": games.List()})
}

func (s *Server) handleCustomGame(w http.ResponseWriter, r *http.Request) {
	var req CustomGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errors.Handle(w, r, http.StatusBadRequest, ErrTypeInvalidParams, "invalid JSON body", nil)
		return
	}
	if req.Source == "" {
		s.errors.Handle(w, r, http.StatusBadRequest, ErrTypeValidation, "source is required", map[string]any{"field": "source"})
		return
	}
	rules, vm, err := scripting.Compile(req.Source)
	if err != nil {
		s.errors.Handle(w, r, http.StatusBadRequest, ErrTypeScript, err.Error(), nil)
		return
	}
	if err := games.Register(rules); err != nil {
		s.errors.Handle(w, r, http.StatusConflict, ErrTypeValidation, err.Error(), map[string]any{"game_id": rules.ID})
		return
	}
	logs := make([]string, 0, len(vm.Logs()))
	for _, entry := range vm.Logs() {
		logs = append(logs, entry.Message)
	}
	s.logger.Printf("custom_game_registered id=%s", rules.ID)
	s.writeJSON(w, http.StatusCreated, CustomGameResponse{Rules: rules, Logs: logs})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errors.Handle(w, r, http.StatusBadRequest, ErrTypeInvalidParams, "invalid JSON body", nil)
		return
	}
	rules, ok := games.Get(req.GameID)
	if !ok {
		s.errors.Handle(w, r, http.StatusNotFound, ErrTypeGameNotFound, "unknown game", map[string]any{"game_id": req.GameID})
		return
	}

	now := time.Now()
	if evicted := s.registry.evictIdle(now, s.sessionTTL); evicted > 0 {
		s.logger.Printf("sessions_evicted count=%d", evicted)
	}

	opts := session.Options{Records: s.db}
	if req.Seed != 0 {
		opts.Stream = engine.NewStream(req.Seed)
	}
	if s.diagnostics {
		opts.Diag = s.logger
	}
	ctrl := session.New(rules, opts)
	entry := s.registry.add(ctrl, now)
	ctrl.Start()

	s.logger.Printf("session_created id=%s game=%s", entry.id, rules.ID)
	s.writeJSON(w, http.StatusCreated, SessionResponse{SessionID: entry.id, Snapshot: ctrl.Snapshot()})
}

// withSession resolves the session handle in the URL, or writes a 404.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request) (*sessionEntry, bool) {
	id := chi.URLParam(r, "sessionID")
	entry, ok := s.registry.get(id)
	if !ok {
		s.errors.Handle(w, r, http.StatusNotFound, ErrTypeSessionNotFound, "unknown session", map[string]any{"session_id": id})
		return nil, false
	}
	entry.touch(time.Now())
	return entry, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.withSession(w, r)
	if !ok {
		return
	}
	entry.ctrl.Tick(time.Now())
	s.writeJSON(w, http.StatusOK, SessionResponse{SessionID: entry.id, Snapshot: entry.ctrl.Snapshot()})
}

func (s *Server) handleSessionInput(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.withSession(w, r)
	if !ok {
		return
	}
	var req InputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errors.Handle(w, r, http.StatusBadRequest, ErrTypeInvalidParams, "invalid JSON body", nil)
		return
	}
	if req.Token == "" {
		s.errors.Handle(w, r, http.StatusBadRequest, ErrTypeValidation, "token is required", map[string]any{"field": "token"})
		return
	}
	entry.ctrl.SubmitInput(req.Token)
	s.writeJSON(w, http.StatusOK, SessionResponse{SessionID: entry.id, Snapshot: entry.ctrl.Snapshot()})
}

func (s *Server) handleSessionTick(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.withSession(w, r)
	if !ok {
		return
	}
	entry.ctrl.Tick(time.Now())
	s.writeJSON(w, http.StatusOK, SessionResponse{SessionID: entry.id, Snapshot: entry.ctrl.Snapshot()})
}

func (s *Server) handleSessionRestart(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.withSession(w, r)
	if !ok {
		return
	}
	entry.ctrl.Start()
	s.writeJSON(w, http.StatusOK, SessionResponse{SessionID: entry.id, Snapshot: entry.ctrl.Snapshot()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.registry.remove(id) {
		s.errors.Handle(w, r, http.StatusNotFound, ErrTypeSessionNotFound, "unknown session", map[string]any{"session_id": id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.withSession(w, r)
	if !ok {
		return
	}
	since := 0
	if raw := r.URL.Query().Get("since"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.errors.Handle(w, r, http.StatusBadRequest, ErrTypeValidation, "since must be a non-negative integer", map[string]any{"field": "since"})
			return
		}
		since = n
	}
	entry.ctrl.Tick(time.Now())
	events, next := entry.eventsSince(since)
	s.writeJSON(w, http.StatusOK, EventsResponse{Events: events, Next: next})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errors.Handle(w, r, http.StatusServiceUnavailable, ErrTypeStore, "persistence disabled", nil)
		return
	}
	records, err := s.db.ListBestRecords()
	if err != nil {
		s.errors.Handle(w, r, http.StatusInternalServerError, ErrTypeStore, err.Error(), nil)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errors.Handle(w, r, http.StatusServiceUnavailable, ErrTypeStore, "persistence disabled", nil)
		return
	}
	gameID := chi.URLParam(r, "gameID")
	if _, ok := games.Get(gameID); !ok {
		s.errors.Handle(w, r, http.StatusNotFound, ErrTypeGameNotFound, "unknown game", map[string]any{"game_id": gameID})
		return
	}
	rec, err := s.db.GetBestRecord(gameID)
	if err != nil {
		s.errors.Handle(w, r, http.StatusInternalServerError, ErrTypeStore, err.Error(), nil)
		return
	}
	if rec == nil {
		// Never played: an empty record, not an error.
		rec = &store.BestRecord{GameID: gameID}
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errors.Handle(w, r, http.StatusServiceUnavailable, ErrTypeStore, "persistence disabled", nil)
		return
	}
	gameID := chi.URLParam(r, "gameID")
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.errors.Handle(w, r, http.StatusBadRequest, ErrTypeValidation, "limit must be a positive integer", map[string]any{"field": "limit"})
			return
		}
		if n > 200 {
			n = 200
		}
		limit = n
	}
	results, err := s.db.ListResults(gameID, limit)
	if err != nil {
		s.errors.Handle(w, r, http.StatusInternalServerError, ErrTypeStore, err.Error(), nil)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
