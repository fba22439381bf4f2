package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/passmeter/passmeter/pkg/generator"
	"github.com/passmeter/passmeter/pkg/types"
	"github.com/passmeter/passmeter/server/internal/metrics"
	"github.com/passmeter/passmeter/server/internal/service"
	"github.com/passmeter/passmeter/server/internal/session"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	svc      *service.Service
	sessions *session.Registry
	metrics  *metrics.Metrics
	validate *validator.Validate
	mux      *http.ServeMux
	now      func() time.Time // injectable for deterministic tests
}

// New creates a Handler and registers all routes.
func New(svc *service.Service, sessions *session.Registry, m *metrics.Metrics) *Handler {
	h := &Handler{
		svc:      svc,
		sessions: sessions,
		metrics:  m,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		mux:      http.NewServeMux(),
		now:      time.Now,
	}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/evaluate", h.evaluate)
	h.mux.HandleFunc("/api/v1/analyze", h.analyze)
	h.mux.HandleFunc("/api/v1/generate", h.generate)
	h.mux.HandleFunc("/api/v1/tips", h.tips)
	h.mux.HandleFunc("/api/v1/sessions", h.createSession)
	h.mux.HandleFunc("/api/v1/sessions/", h.sessionRoute) // subtree, extracts {id}/{action}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	totals, err := h.metrics.Totals()
	if err != nil {
		slog.Error("api: gather metrics", "err", err)
		jsonErr(w, http.StatusInternalServerError, "metrics unavailable")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Sessions: h.sessions.Count(),
		Totals:   totals,
	})
}

// evaluate returns POST /api/v1/evaluate.
func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req evaluateRequest
	if !h.decode(w, r, &req) {
		return
	}
	tr := h.svc.Translator(req.Locale, r.Header.Get("Accept-Language"))
	jsonResp(w, http.StatusOK, h.svc.Evaluate(deref(req.Password), tr))
}

// analyze returns POST /api/v1/analyze.
func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req analyzeRequest
	if !h.decode(w, r, &req) {
		return
	}
	tr := h.svc.Translator(req.Locale, r.Header.Get("Accept-Language"))
	jsonResp(w, http.StatusOK, h.svc.Analyze(deref(req.Password), req.UserInputs, tr))
}

// generate returns POST /api/v1/generate.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req generateRequest
	if !h.decode(w, r, &req) {
		return
	}
	pw, ok := h.generatePassword(w, req.Length)
	if !ok {
		return
	}
	tr := h.svc.Translator(req.Locale, r.Header.Get("Accept-Language"))
	jsonResp(w, http.StatusOK, types.Generated{
		Password:   pw,
		Length:     len(pw),
		Evaluation: h.svc.Evaluate(pw, tr),
	})
}

// tips returns GET /api/v1/tips.
func (h *Handler) tips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	tr := h.svc.Translator(r.URL.Query().Get("locale"), r.Header.Get("Accept-Language"))
	jsonResp(w, http.StatusOK, TipsResponse{Locale: tr.Locale(), Tips: h.svc.Tips(tr)})
}

// createSession returns POST /api/v1/sessions.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	e := h.sessions.Create()
	slog.Debug("api: session created", "session", e.ID)
	jsonResp(w, http.StatusCreated, SessionResponse{ID: e.ID, ExpiresIn: h.sessions.TTL().String()})
}

// sessionRoute dispatches /api/v1/sessions/{id}[/{action}].
func (h *Handler) sessionRoute(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/"), "/")
	if rest == "" {
		h.createSession(w, r)
		return
	}
	id, action, _ := strings.Cut(rest, "/")

	switch action {
	case "":
		if r.Method != http.MethodDelete {
			jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if !h.sessions.Delete(id) {
			jsonErr(w, http.StatusNotFound, "session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case "evaluate":
		h.withSession(w, r, id, h.sessionEvaluate)
	case "visibility":
		h.withSession(w, r, id, h.sessionVisibility)
	case "generate":
		h.withSession(w, r, id, h.sessionGenerate)
	default:
		jsonErr(w, http.StatusNotFound, "not found")
	}
}

// withSession enforces POST, resolves id and marks the session as used.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, id string,
	fn func(http.ResponseWriter, *http.Request, *session.Entry)) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	e, ok := h.sessions.Get(id)
	if !ok {
		jsonErr(w, http.StatusNotFound, "session not found")
		return
	}
	h.sessions.Touch(id)
	fn(w, r, e)
}

func (h *Handler) sessionEvaluate(w http.ResponseWriter, r *http.Request, e *session.Entry) {
	var req evaluateRequest
	if !h.decode(w, r, &req) {
		return
	}
	pw := deref(req.Password)
	res, celebrate := e.Controller.Evaluate(pw, h.now())
	if celebrate {
		h.svc.Celebrated()
	}
	tr := h.svc.Translator(req.Locale, r.Header.Get("Accept-Language"))
	jsonResp(w, http.StatusOK, SessionEvaluation{
		Evaluation: h.svc.Render(pw, res, tr),
		Celebrate:  celebrate,
	})
}

func (h *Handler) sessionVisibility(w http.ResponseWriter, _ *http.Request, e *session.Entry) {
	jsonResp(w, http.StatusOK, VisibilityResponse{Visible: e.Controller.ToggleVisibility()})
}

func (h *Handler) sessionGenerate(w http.ResponseWriter, r *http.Request, e *session.Entry) {
	var req generateRequest
	if !h.decode(w, r, &req) {
		return
	}
	pw, ok := h.generatePassword(w, req.Length)
	if !ok {
		return
	}
	now := h.now()
	res, celebrate := e.Controller.Evaluate(pw, now)
	if celebrate {
		h.svc.Celebrated()
	}
	until := e.Controller.Reveal(now).UTC()

	tr := h.svc.Translator(req.Locale, r.Header.Get("Accept-Language"))
	jsonResp(w, http.StatusOK, SessionGenerated{
		Generated: types.Generated{
			Password:    pw,
			Length:      len(pw),
			Evaluation:  h.svc.Render(pw, res, tr),
			RevealUntil: &until,
		},
		Visible:   e.Controller.Visible(now),
		Celebrate: celebrate,
	})
}

// --- helpers ----------------------------------------------------------------

// decode reads a JSON body into v and validates it. An empty body leaves v
// at its zero value. On failure it writes a 400 and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		jsonErr(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func (h *Handler) generatePassword(w http.ResponseWriter, length int) (string, bool) {
	pw, err := h.svc.Generate(length)
	switch {
	case errors.Is(err, generator.ErrLengthTooShort), errors.Is(err, generator.ErrLengthTooLong):
		jsonErr(w, http.StatusBadRequest, err.Error())
		return "", false
	case err != nil:
		slog.Error("api: generate password", "err", err)
		jsonErr(w, http.StatusInternalServerError, "generator unavailable")
		return "", false
	}
	return pw, true
}

// validationMessage names the first failing field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("invalid %s: failed %q", strings.ToLower(fe.Field()), fe.Tag())
	}
	return "invalid request"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
