package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/gridaccounts/pkg/identity"
	"github.com/marmos91/gridaccounts/pkg/models"
)

// MappingHandler serves identity mapping administration.
type MappingHandler struct {
	identity *identity.Coordinator
}

// NewMappingHandler creates a mapping handler.
func NewMappingHandler(coord *identity.Coordinator) *MappingHandler {
	return &MappingHandler{identity: coord}
}

// Get handles GET /api/v1/mappings?connect_id= or ?principal_id=. Exactly
// one of them must be given.
func (h *MappingHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	connectID := strings.TrimSpace(q.Get("connect_id"))
	principalID := strings.TrimSpace(q.Get("principal_id"))

	var (
		rec *models.MappingRecord
		err error
	)
	switch {
	case connectID != "" && principalID != "":
		BadRequest(w, "Specify only one of connect_id or principal_id")
		return
	case connectID != "":
		rec, err = h.identity.GetMappingByConnectID(r.Context(), connectID)
	case principalID != "":
		rec, err = h.identity.GetMappingByPrincipalID(r.Context(), principalID)
	default:
		BadRequest(w, "connect_id or principal_id is required")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// StoreMappingRequest is the body of PUT /api/v1/mappings/{principal_id}.
type StoreMappingRequest struct {
	ConnectID     string `json:"connect_id"`
	RealFirstName string `json:"real_first_name"`
	RealLastName  string `json:"real_last_name"`
	Institution   string `json:"institution"`
}

// Put handles PUT /api/v1/mappings/{principal_id}.
func (h *MappingHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req StoreMappingRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	rec := &models.MappingRecord{
		PrincipalID:   chi.URLParam(r, "principal_id"),
		ConnectID:     req.ConnectID,
		RealFirstName: req.RealFirstName,
		RealLastName:  req.RealLastName,
		Institution:   req.Institution,
	}
	if err := h.identity.StoreMapping(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SearchResponse lists mapping search matches.
type SearchResponse struct {
	Mappings []*models.MappingRecord `json:"mappings"`
}

// Search handles GET /api/v1/mappings/search?q=.
func (h *MappingHandler) Search(w http.ResponseWriter, r *http.Request) {
	records, err := h.identity.SearchMappings(r.Context(), scopeParam(r), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*models.MappingRecord{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Mappings: records})
}
