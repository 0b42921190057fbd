// Package httptransport exposes the hookgate HTTP surface: health,
// admin status, the kill-switch toggle, and the webhook endpoint.
package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-hookgate/auth"
	"github.com/goliatone/go-hookgate/core"
)

const defaultRequestBodyLimit int64 = 1 << 20 // 1 MiB

// GuardService is the hookgate facade surface the transport drives.
type GuardService interface {
	ProcessWebhook(ctx context.Context, presentedKey string, evt core.Event) (core.Outcome, error)
	SetKillSwitch(ctx context.Context, enabled bool) (core.Mode, error)
	Status(ctx context.Context) (core.StatusReport, error)
}

type Server struct {
	service GuardService
	logger  core.Logger
	router  chi.Router
}

func NewServer(service GuardService, logger core.Logger) *Server {
	s := &Server{
		service: service,
		logger:  glog.Ensure(logger),
	}
	router := chi.NewRouter()
	router.Get("/health", s.handleHealth)
	router.Get("/admin/status", s.handleStatus)
	router.Post("/admin/kill_switch", s.handleKillSwitch)
	router.Post("/webhook", s.handleWebhook)
	s.router = router
	return s
}

func (s *Server) Handler() http.Handler {
	if s == nil {
		return nil
	}
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Status(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":              true,
		"mode":            report.Mode.String(),
		"processed_count": report.ProcessedCount,
	})
}

func (s *Server) handleKillSwitch(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("enabled"))
	if raw == "" {
		s.writeError(w, core.BadInputError("transport: enabled query parameter is required", nil))
		return
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		s.writeError(w, core.BadInputError("transport: enabled must be a boolean", map[string]any{"enabled": raw}))
		return
	}

	mode, err := s.service.SetKillSwitch(r.Context(), enabled)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"mode": mode.String(),
	})
}

// webhookRequest is the wire shape of an inbound event. Every field
// except payload is required; the core trusts the transport to enforce
// that.
type webhookRequest struct {
	SignalID  string         `json:"signal_id"`
	Source    string         `json:"source"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	Payload   map[string]any `json:"payload"`
	EventTime time.Time      `json:"event_time"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, defaultRequestBodyLimit))
	if err != nil {
		s.writeError(w, core.BadInputError("transport: read request body failed", nil))
		return
	}

	var req webhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, core.BadInputError("transport: invalid JSON body", nil))
		return
	}
	if req.Payload == nil {
		req.Payload = map[string]any{}
	}

	evt := core.Event{
		SignalID:  strings.TrimSpace(req.SignalID),
		Source:    strings.TrimSpace(req.Source),
		Action:    strings.TrimSpace(req.Action),
		Entity:    strings.TrimSpace(req.Entity),
		Payload:   req.Payload,
		EventTime: req.EventTime,
	}
	if err := evt.Validate(); err != nil {
		s.writeError(w, core.BadInputError(err.Error(), nil))
		return
	}

	outcome, err := s.service.ProcessWebhook(r.Context(), r.Header.Get(auth.HeaderAPIKey), evt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeEnvelope(outcome))
}

// outcomeEnvelope shapes the business-level response. Rejections and
// duplicates report ok:true with a differentiating status; only auth
// and infrastructure failures use error status codes.
func outcomeEnvelope(outcome core.Outcome) map[string]any {
	envelope := map[string]any{
		"ok":     true,
		"status": outcome.Status,
	}
	switch outcome.Status {
	case core.StatusRejected:
		envelope["reason"] = outcome.Reason
		if len(outcome.Details) > 0 {
			envelope["details"] = outcome.Details
		}
	case core.StatusDuplicate:
		envelope["signal_id"] = outcome.SignalID
	case core.StatusExecuted:
		envelope["signal_id"] = outcome.SignalID
		envelope["result"] = outcome.Result
	case core.StatusExecutedWithError:
		envelope["signal_id"] = outcome.SignalID
		envelope["error"] = outcome.Error
	}
	return envelope
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := core.HTTPStatus(err)
	if status >= http.StatusInternalServerError && s != nil && s.logger != nil {
		s.logger.Error("request failed", "status", status, "error", err.Error())
	}
	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": core.TextCode(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
