// Package api exposes a carbon.Ledger over HTTP.
//
// The caller identity is read from a request header set by an upstream
// authenticator (X-Carbon-Account by default). Writes always go to that
// identity's own ledger; reads take the account from the path.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/xraph/carbon"
)

// DefaultAccountHeader carries the authenticated caller identity.
const DefaultAccountHeader = "X-Carbon-Account"

// Handler serves the ledger routes.
type Handler struct {
	ledger        *carbon.Ledger
	logger        *slog.Logger
	accountHeader string
	router        *mux.Router
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithAccountHeader sets the header that carries the caller identity.
func WithAccountHeader(name string) Option {
	return func(h *Handler) {
		if name != "" {
			h.accountHeader = name
		}
	}
}

// NewHandler builds the router for l under basePath ("" mounts at root).
func NewHandler(l *carbon.Ledger, basePath string, opts ...Option) *Handler {
	h := &Handler{
		ledger:        l,
		logger:        slog.Default(),
		accountHeader: DefaultAccountHeader,
	}
	for _, opt := range opts {
		opt(h)
	}

	// Accounts may contain "/", which clients send as %2F.
	h.router = mux.NewRouter().UseEncodedPath()
	h.router.NotFoundHandler = http.HandlerFunc(h.notFound)

	r := h.router
	if basePath != "" && basePath != "/" {
		r = h.router.PathPrefix(basePath).Subrouter()
	}
	r.Use(h.requestIDMiddleware)
	r.Use(h.loggingMiddleware)

	r.Handle("/records", h.identityMiddleware(http.HandlerFunc(h.createRecord))).Methods(http.MethodPost)

	r.HandleFunc("/accounts/{account}/records", h.history).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{account}/total", h.total).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{account}/breakdown", h.breakdown).Methods(http.MethodGet)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

type createRecordRequest struct {
	// Amount accepts a JSON number or a decimal string.
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
}

type totalResponse struct {
	Account  string `json:"account"`
	Total    int64  `json:"total"`
	Category string `json:"category,omitempty"`
	Start    *int64 `json:"start,omitempty"`
	End      *int64 `json:"end,omitempty"`
}

type historyResponse struct {
	Account string          `json:"account"`
	Records []carbon.Record `json:"records"`
}

type breakdownResponse struct {
	Account    string           `json:"account"`
	Categories map[string]int64 `json:"categories"`
}

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	amount, err := parseJSONAmount(req.Amount)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rec, err := h.ledger.RecordFromContext(r.Context(), amount, req.Category)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	account, ok := accountVar(w, r)
	if !ok {
		return
	}

	records, err := h.ledger.History(r.Context(), account)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Account: account, Records: records})
}

func (h *Handler) total(w http.ResponseWriter, r *http.Request) {
	account, ok := accountVar(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	resp := totalResponse{Account: account}
	filter := carbon.Filter{}

	_, hasCategory := q["category"]
	startRaw, endRaw := q.Get("start"), q.Get("end")
	hasWindow := startRaw != "" || endRaw != ""

	switch {
	case hasCategory && hasWindow:
		writeError(w, http.StatusBadRequest, "category and time window filters are exclusive")
		return
	case hasCategory:
		resp.Category = q.Get("category")
		filter = carbon.CategoryFilter(resp.Category)
	case hasWindow:
		start, err := strconv.ParseInt(startRaw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start must be an integer timestamp")
			return
		}
		end, err := strconv.ParseInt(endRaw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "end must be an integer timestamp")
			return
		}
		resp.Start, resp.End = &start, &end
		filter = carbon.WindowFilter(start, end)
	}

	total, err := h.ledger.TotalFiltered(r.Context(), account, filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp.Total = total

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) breakdown(w http.ResponseWriter, r *http.Request) {
	account, ok := accountVar(w, r)
	if !ok {
		return
	}

	totals, err := h.ledger.Breakdown(r.Context(), account)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, breakdownResponse{Account: account, Categories: totals})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Ping(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// accountVar returns the decoded {account} path segment. With encoded
// paths enabled mux leaves escapes in place.
func accountVar(w http.ResponseWriter, r *http.Request) (string, bool) {
	account, err := url.PathUnescape(mux.Vars(r)["account"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed account in path")
		return "", false
	}
	return account, true
}

// parseJSONAmount accepts 12, "12" and rejects anything that is not a
// non-negative integer.
func parseJSONAmount(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return carbon.ParseAmount("")
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return carbon.ParseAmount("")
		}
	} else {
		s = string(raw)
	}
	return carbon.ParseAmount(s)
}
