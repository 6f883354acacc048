package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/ussdsim"
	"github.com/aretw0/ussdsim/internal/logging"
	"github.com/aretw0/ussdsim/pkg/catalog"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/runner"
	"github.com/aretw0/ussdsim/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Browser lists catalog entries. *catalog.Catalog implements it.
type Browser interface {
	Entries() []catalog.Entry
	Search(term string) []catalog.Entry
}

// OperatorResolver maps a device SIM to its operator. *devices.Registry implements it.
type OperatorResolver interface {
	ResolveOperator(deviceID, slot string) (domain.OperatorContext, error)
	List() []domain.Device
}

// Server exposes the session manager over HTTP.
type Server struct {
	Sessions *session.Manager
	Devices  OperatorResolver
	Catalog  Browser
	Streams  *StreamManager

	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCatalog enables GET /catalog.
func WithCatalog(b Browser) Option {
	return func(s *Server) {
		s.Catalog = b
	}
}

// WithMetricsHandler mounts h (usually promhttp.Handler()) on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(sessions *session.Manager, devices OperatorResolver, opts ...Option) http.Handler {
	s := &Server{
		Sessions: sessions,
		Devices:  devices,
		Streams:  NewStreamManager(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/devices", s.ListDevices)
	if s.Catalog != nil {
		r.Get("/catalog", s.ListCatalog)
	}
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.Dial)
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/select", s.Select)
			r.Post("/close", s.Close)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// DialRequest starts a session. Either DeviceID and SIMSlot or Operator must be set.
type DialRequest struct {
	Code     string `json:"code"`
	DeviceID string `json:"device_id,omitempty"`
	SIMSlot  string `json:"sim_slot,omitempty"`
	Operator string `json:"operator,omitempty"`
}

// SelectRequest answers the displayed menu.
type SelectRequest struct {
	Key string `json:"key"`
}

// SessionView is the JSON shape of a session snapshot.
type SessionView struct {
	ID        string                 `json:"id"`
	Status    domain.Status          `json:"status"`
	DialCode  domain.DialCode        `json:"dial_code,omitempty"`
	Operator  domain.OperatorContext `json:"operator"`
	Depth     int                    `json:"depth"`
	CanGoBack bool                   `json:"can_go_back"`
	Screen    *domain.Response       `json:"screen,omitempty"`
}

// StepResponse is returned by dial, select and close.
type StepResponse struct {
	Session SessionView     `json:"session"`
	Screen  domain.Response `json:"screen"`
	Ended   bool            `json:"ended"`
	Reason  string          `json:"reason,omitempty"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func viewOf(id string, s *domain.Session) SessionView {
	v := SessionView{
		ID:        id,
		Status:    s.Status,
		DialCode:  s.DialCode,
		Operator:  s.Operator,
		Depth:     s.Depth(),
		CanGoBack: s.CanGoBack(),
	}
	if cur, ok := s.Current(); ok {
		v.Screen = &cur
	}
	return v
}

// Dial handles POST /sessions.
func (s *Server) Dial(w http.ResponseWriter, r *http.Request) {
	var body DialRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body: %w", err))
		return
	}

	code, err := runner.SanitizeInput(body.Code)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	var op domain.OperatorContext
	switch {
	case body.DeviceID != "" || body.SIMSlot != "":
		op, err = s.Devices.ResolveOperator(body.DeviceID, body.SIMSlot)
		if err != nil {
			s.fail(w, err)
			return
		}
	case body.Operator != "":
		op = domain.OperatorContext{Name: body.Operator}
	default:
		s.writeError(w, http.StatusBadRequest, "bad_request", errors.New("device_id and sim_slot, or operator, are required"))
		return
	}

	next, err := s.Sessions.Dial(r.Context(), code, op)
	if err != nil {
		s.fail(w, err)
		return
	}

	root, _ := next.Current()
	resp := StepResponse{Session: viewOf(next.ID, next), Screen: root}
	s.publish(next.ID, resp)
	w.Header().Set("Location", "/sessions/"+next.ID)
	s.writeJSON(w, http.StatusCreated, resp)
}

// Select handles POST /sessions/{id}/select.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body: %w", err))
		return
	}
	key, err := runner.SanitizeInput(body.Key)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	next, out, err := s.Sessions.Select(r.Context(), id, key)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.step(w, id, next, out)
}

// Close handles POST /sessions/{id}/close.
func (s *Server) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	next, out, err := s.Sessions.Close(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.step(w, id, next, out)
}

func (s *Server) step(w http.ResponseWriter, id string, next *domain.Session, out domain.Outcome) {
	resp := StepResponse{
		Session: viewOf(id, next),
		Screen:  out.Response,
		Ended:   out.Ended,
		Reason:  string(out.Reason),
	}
	s.publish(id, resp)
	if out.Ended {
		s.Streams.CloseSession(id)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, viewOf(id, snap))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	s.Streams.CloseSession(id)
	w.WriteHeader(http.StatusNoContent)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// ListDevices handles GET /devices.
func (s *Server) ListDevices(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]domain.Device{"devices": s.Devices.List()})
}

// CatalogEntry is the browsing view of a catalog code.
type CatalogEntry struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	IsMenu      bool   `json:"is_menu"`
}

// ListCatalog handles GET /catalog[?search=term].
func (s *Server) ListCatalog(w http.ResponseWriter, r *http.Request) {
	entries := s.Catalog.Entries()
	if term := r.URL.Query().Get("search"); term != "" {
		entries = s.Catalog.Search(term)
	}
	out := make([]CatalogEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, CatalogEntry{
			Code:        e.Code,
			Description: e.Description,
			Category:    e.Category,
			IsMenu:      len(e.Options) > 0,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string][]CatalogEntry{"codes": out})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "ussdsim-http",
		"version": ussdsim.Version,
	})
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status, code = http.StatusNotFound, "session_not_found"
	case errors.Is(err, domain.ErrInvalidDialCode):
		status, code = http.StatusUnprocessableEntity, "invalid_dial_code"
	case errors.Is(err, domain.ErrUnknownOption):
		status, code = http.StatusUnprocessableEntity, "unknown_option"
	case errors.Is(err, domain.ErrUnknownDevice):
		status, code = http.StatusUnprocessableEntity, "unknown_device"
	case errors.Is(err, domain.ErrUnknownSIM):
		status, code = http.StatusUnprocessableEntity, "unknown_sim"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, code = http.StatusConflict, "invalid_transition"
	case errors.Is(err, domain.ErrOperationInProgress):
		status, code = http.StatusConflict, "operation_in_progress"
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "err", err, "status", status)
	}
	s.writeError(w, status, code, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, code string, err error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) publish(id string, resp StepResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	s.Streams.Broadcast(id, string(data))
}
