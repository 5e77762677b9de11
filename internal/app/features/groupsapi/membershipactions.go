// internal/app/features/groupsapi/membershipactions.go
package groupsapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/texthub/internal/app/system/auth"
	"github.com/dalemusser/texthub/internal/app/system/timeouts"
	"github.com/dalemusser/texthub/internal/domain/faults"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleJoin handles POST /groups/{id}/join.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	m, err := h.Membership.Join(ctx, user.ID, groupID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// HandleLeave handles POST /groups/{id}/leave.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Membership.Leave(ctx, user.ID, groupID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"left": true})
}

type transferRequest struct {
	NewOwnerID string `json:"new_owner_id"`
}

// HandleTransfer handles POST /groups/{id}/transfer.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	newOwnerID, err := primitive.ObjectIDFromHex(req.NewOwnerID)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "new_owner_id is required", Code: faults.CodeValidation})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Membership.TransferOwnership(ctx, user.ID, groupID, newOwnerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}
