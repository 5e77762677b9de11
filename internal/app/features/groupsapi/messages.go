// internal/app/features/groupsapi/messages.go
package groupsapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/texthub/internal/app/system/auth"
	"github.com/dalemusser/texthub/internal/app/system/timeouts"
)

type postMessageRequest struct {
	Content string `json:"content"`
}

// HandlePostMessage handles POST /groups/{id}/messages. The message
// is accepted once persisted; SMS fan-out happens inside the same
// call but its per-recipient failures never surface here.
func (h *Handler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	summary, err := h.Directory.GetByID(ctx, groupID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	msg, err := h.Fanout.Send(ctx, user, summary.Group, req.Content)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, msg)
}

// ServeMessages handles GET /groups/{id}/messages?limit=. Only
// members may read history.
func (h *Handler) ServeMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Directory.GetByID(ctx, groupID); err != nil {
		h.writeError(w, r, err)
		return
	}
	active, err := h.Membership.IsActiveMember(ctx, user.ID, groupID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !active {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "not a member of this group"})
		return
	}

	msgs, err := h.Fanout.ListGroupMessages(ctx, groupID, queryInt64(r, "limit", 0))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, msgs)
}
