package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/gridaccounts/internal/logger"
	"github.com/marmos91/gridaccounts/pkg/identity"
	"github.com/marmos91/gridaccounts/pkg/models"
	"github.com/marmos91/gridaccounts/pkg/provisioning"
)

// AccountHandler serves registration and account administration.
type AccountHandler struct {
	workflow *provisioning.Workflow
	identity *identity.Coordinator
}

// NewAccountHandler creates an account handler.
func NewAccountHandler(workflow *provisioning.Workflow, coord *identity.Coordinator) *AccountHandler {
	return &AccountHandler{workflow: workflow, identity: coord}
}

// RegisterResponse is the body of a successful registration or activation.
type RegisterResponse struct {
	Account  *models.Account `json:"account"`
	Pending  bool            `json:"pending"`
	Notice   string          `json:"notice"`
	Warnings []string        `json:"warnings"`
}

func registerResponse(res *provisioning.Result) RegisterResponse {
	return RegisterResponse{
		Account:  publicAccount(res.Account),
		Pending:  res.Pending,
		Notice:   res.Notice,
		Warnings: errorStrings(res.Warnings),
	}
}

// Register handles POST /api/v1/accounts.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req provisioning.Registration
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Language == "" {
		req.Language = preferredLanguage(r)
	}

	res, err := h.workflow.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse(res))
}

// Get handles GET /api/v1/accounts/{id}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.identity.GetAccountWithMapping(r.Context(), scopeParam(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	account.ServiceURLs = publicAccount(&account.Account).ServiceURLs
	writeJSON(w, http.StatusOK, account)
}

// Delete handles DELETE /api/v1/accounts/{id}.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.identity.DeleteAccount(r.Context(), scopeParam(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	logger.InfoCtx(r.Context(), "Account deleted via API", logger.KeyPrincipalID, id)
	WriteNoContent(w)
}

// Activate handles POST /api/v1/accounts/{id}/activate.
func (h *AccountHandler) Activate(w http.ResponseWriter, r *http.Request) {
	res, err := h.workflow.Activate(r.Context(), scopeParam(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, registerResponse(res))
}

// ActiveAccountsResponse lists active accounts.
type ActiveAccountsResponse struct {
	Supported bool              `json:"supported"`
	Accounts  []*models.Account `json:"accounts"`
}

// Active handles GET /api/v1/accounts/active?term=&exclude=.
func (h *AccountHandler) Active(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	accounts, err := h.identity.GetActiveAccounts(r.Context(), scopeParam(r), q.Get("term"), q.Get("exclude"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]*models.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, publicAccount(a))
	}
	writeJSON(w, http.StatusOK, ActiveAccountsResponse{
		Supported: h.identity.SupportsActiveAccounts(),
		Accounts:  out,
	})
}

// ActiveCountResponse is the active account count.
type ActiveCountResponse struct {
	Supported bool  `json:"supported"`
	Count     int64 `json:"count"`
}

// ActiveCount handles GET /api/v1/accounts/active/count?exclude=.
func (h *AccountHandler) ActiveCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.identity.CountActiveAccounts(r.Context(), scopeParam(r), r.URL.Query().Get("exclude"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ActiveCountResponse{
		Supported: h.identity.SupportsActiveAccounts(),
		Count:     n,
	})
}

// preferredLanguage returns the first tag of the Accept-Language header.
func preferredLanguage(r *http.Request) string {
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	first, _, _ := strings.Cut(header, ",")
	tag, _, _ := strings.Cut(first, ";")
	return strings.TrimSpace(tag)
}
