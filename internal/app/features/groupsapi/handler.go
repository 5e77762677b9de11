// internal/app/features/groupsapi/handler.go

// Package groupsapi is the JSON surface over the group directory, the
// membership service, and the fan-out service. Handlers stay thin:
// decode, call the service, map the fault code to a status.
package groupsapi

import (
	"encoding/json"
	"net/http"

	groupdir "github.com/dalemusser/texthub/internal/app/services/directory"
	fanoutsvc "github.com/dalemusser/texthub/internal/app/services/fanout"
	membershipsvc "github.com/dalemusser/texthub/internal/app/services/membership"
	"github.com/dalemusser/texthub/internal/domain/faults"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
type Handler struct {
	DB         *mongo.Database
	Directory  *groupdir.Service
	Membership *membershipsvc.Service
	Fanout     *fanoutsvc.Service
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, directory *groupdir.Service, membership *membershipsvc.Service, fanout *fanoutsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Directory:  directory,
		Membership: membership,
		Fanout:     fanout,
		Log:        logger,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps a fault's taxonomy code to an HTTP status. Non-fault
// errors are storage problems and come back as a plain 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := faults.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case faults.CodeNotFound:
		status = http.StatusNotFound
	case faults.CodeValidation:
		status = http.StatusBadRequest
	case faults.CodeConflict:
		status = http.StatusConflict
	case faults.CodeAuth:
		status = http.StatusForbidden
	case faults.CodeExternal:
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.Log.Error("groupsapi: internal error",
			zap.String("path", r.URL.Path), zap.Error(err))
		h.writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}
