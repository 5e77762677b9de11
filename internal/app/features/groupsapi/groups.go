// internal/app/features/groupsapi/groups.go
package groupsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/texthub/internal/app/system/auth"
	"github.com/dalemusser/texthub/internal/app/system/timeouts"
	"github.com/dalemusser/texthub/internal/domain/faults"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

// HandleCreate handles POST /groups: create a group with the caller
// as owner and first member.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "group name is required", Code: faults.CodeValidation})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Membership.CreateGroup(ctx, req.Name, user.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, g)
}

// ServeList handles GET /groups?limit=&offset=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	limit := queryInt64(r, "limit", 0)
	offset := queryInt64(r, "offset", 0)

	groups, err := h.Directory.List(ctx, limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, groups)
}

// ServeSearch handles GET /groups/search?q=.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Directory.Search(ctx, r.URL.Query().Get("q"), queryInt64(r, "limit", 0))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, groups)
}

// ServeGroup handles GET /groups/{id}.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.groupID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Directory.GetByID(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

// groupID parses the {id} URL param, answering 404 for malformed ids
// so probes can't distinguish bad ids from absent groups.
func (h *Handler) groupID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "group not found", Code: faults.CodeNotFound})
		return primitive.NilObjectID, false
	}
	return id, true
}

func queryInt64(r *http.Request, key string, fallback int64) int64 {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
