package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yegors/airport-readiness/internal/auth"
	"github.com/yegors/airport-readiness/internal/checklist"
	"github.com/yegors/airport-readiness/internal/metrics"
	"github.com/yegors/airport-readiness/internal/query"
	"github.com/yegors/airport-readiness/internal/report"
	"github.com/yegors/airport-readiness/internal/storage"
	"github.com/yegors/airport-readiness/internal/templating"
	"github.com/yegors/airport-readiness/pkg/logger"
)

// Services groups the dependencies of the HTTP handlers
type Services struct {
	Store      storage.Store
	Checklist  *checklist.Service
	Query      *query.Service
	Reports    *report.Generator
	Selections *query.SelectionCache
	Verifier   auth.Verifier
	Metrics    *metrics.Metrics
}

// Handler contains the HTTP handlers
type Handler struct {
	Services
	sessions   *Sessions
	pages      *Pages
	aggregator *templating.DataAggregator
	logger     *logger.Logger
	now        func() time.Time
}

// NewHandler creates a new handler
func NewHandler(svc Services, sessions *Sessions, pages *Pages, logger *logger.Logger) *Handler {
	return &Handler{
		Services:   svc,
		sessions:   sessions,
		pages:      pages,
		aggregator: templating.NewDataAggregator(svc.Store, logger),
		logger:     logger.Named("api-handler"),
		now:        time.Now,
	}
}

// render writes a page and logs failures
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	if err := h.pages.Render(w, status, name, data); err != nil {
		h.logger.Error("Failed to render page", logger.String("page", name), logger.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// LoginForm renders the login form
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login.html", templating.LoginPage{})
}

// Login checks the submitted credentials
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	ok := h.Verifier.Verify(r.PostForm.Get("username"), r.PostForm.Get("password"))
	h.Metrics.RecordLogin(ok)
	if !ok {
		h.logger.Warn("Rejected login", logger.String("remote_addr", r.RemoteAddr))
		h.render(w, http.StatusOK, "login.html", templating.LoginPage{Error: "Invalid username or password"})
		return
	}

	if err := h.sessions.Login(w, r); err != nil {
		h.logger.Error("Failed to save session", logger.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.logger.Warn("Failed to clear session", logger.Error(err))
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// InputForm renders the checklist form, prefilled when ?airport= names a stored record
func (h *Handler) InputForm(w http.ResponseWriter, r *http.Request) {
	code := checklist.NormalizeCode(r.URL.Query().Get("airport"))

	record, ok, err := h.Checklist.Get(r.Context(), code)
	if err != nil {
		h.logger.Error("Failed to load airport record", logger.String("airport", code), logger.Error(err))
		http.Error(w, "Failed to load airport record", http.StatusInternalServerError)
		return
	}

	page, err := h.aggregator.EditorContext(r.Context(), code, record, ok)
	if err != nil {
		h.logger.Error("Failed to build input page", logger.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, http.StatusOK, "input.html", page)
}

// SaveInput applies a checklist submission
func (h *Handler) SaveInput(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	code, record, err := h.Checklist.Save(r.Context(), r.PostForm.Get("airport"), r.PostForm)
	status := http.StatusOK
	var message string
	switch {
	case errors.Is(err, checklist.ErrMissingAirportCode):
		status, message = http.StatusBadRequest, "Airport code is required"
	case err != nil:
		h.logger.Error("Failed to save airport record", logger.String("airport", code), logger.Error(err))
		status, message = http.StatusInternalServerError, "Failed to save airport record"
	}

	page, perr := h.aggregator.EditorContext(r.Context(), code, record, err == nil)
	if perr != nil {
		h.logger.Error("Failed to build input page", logger.Error(perr))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	page.Saved = err == nil
	page.Error = message
	h.render(w, status, "input.html", page)
}

// CheckForm renders the empty query view
func (h *Handler) CheckForm(w http.ResponseWriter, r *http.Request) {
	page := h.aggregator.CheckContext("", query.Selection{}, nil, "")
	h.render(w, http.StatusOK, "check.html", page)
}

// RunCheck runs a query and remembers its selection for export
func (h *Handler) RunCheck(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	airports := r.PostForm.Get("airports")
	result, sel, err := h.Query.Run(r.Context(), query.ParseAirports(airports), r.PostForm["filters"])
	if err != nil {
		h.logger.Error("Checklist query failed", logger.Error(err))
		http.Error(w, "Failed to query airport records", http.StatusInternalServerError)
		return
	}

	handle := h.Selections.Put(sel)
	if err := h.sessions.SetSelection(w, r, handle, sel); err != nil {
		h.logger.Warn("Failed to remember selection in session", logger.Error(err))
	}

	h.render(w, http.StatusOK, "check.html", h.aggregator.CheckContext(airports, sel, result, handle))
}

// Export writes the spreadsheet for the selection of the last query and sends it
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	sel := h.exportSelection(r)

	path, err := h.Reports.Export(r.Context(), sel, h.now())
	if err != nil {
		http.Error(w, "Failed to generate report", http.StatusInternalServerError)
		return
	}

	file, err := os.Open(path)
	if err != nil {
		h.logger.Error("Failed to open report", logger.String("path", path), logger.Error(err))
		http.Error(w, "Failed to generate report", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		http.Error(w, "Failed to generate report", http.StatusInternalServerError)
		return
	}

	name := filepath.Base(path)
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeContent(w, r, name, info.ModTime(), file)
}

// exportSelection picks the selection named by the form handle, then the one
// kept in the session cookie, then the session's cached handle. With none of
// them the report is empty.
func (h *Handler) exportSelection(r *http.Request) query.Selection {
	if sel, ok := h.Selections.Get(r.PostForm.Get("selection")); ok {
		return sel
	}
	if sel, ok := h.sessions.StoredSelection(r); ok {
		return sel
	}
	sel, _ := h.Selections.Get(h.sessions.Selection(r))
	return sel
}

// AirportListResponse is the API response for the stored airport codes
type AirportListResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
	Airports  []string  `json:"airports"`
}

// GetAllAirports returns the stored airport codes
func (h *Handler) GetAllAirports(w http.ResponseWriter, r *http.Request) {
	codes, err := h.Store.ListCodes(r.Context())
	if err != nil {
		h.logger.Error("Failed to list airports", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list airports")
		return
	}
	writeJSON(w, http.StatusOK, AirportListResponse{
		Timestamp: h.now().UTC(),
		Count:     len(codes),
		Airports:  codes,
	})
}

// GetAirport returns one stored record
func (h *Handler) GetAirport(w http.ResponseWriter, r *http.Request) {
	code := checklist.NormalizeCode(chi.URLParam(r, "code"))
	record, ok, err := h.Checklist.Get(r.Context(), code)
	if err != nil {
		h.logger.Error("Failed to load airport record", logger.String("airport", code), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load airport record")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "airport not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]checklist.Record{code: record})
}

// GetHealth reports liveness
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
