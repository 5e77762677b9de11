// internal/app/features/groupsapi/routes.go
package groupsapi

import (
	"github.com/dalemusser/texthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires a bearer token.
	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireUser)

		pr.Post("/", h.HandleCreate)
		pr.Get("/", h.ServeList)
		pr.Get("/search", h.ServeSearch)
		pr.Get("/{id}", h.ServeGroup)

		pr.Post("/{id}/join", h.HandleJoin)
		pr.Post("/{id}/leave", h.HandleLeave)
		pr.Post("/{id}/transfer", h.HandleTransfer)

		pr.Get("/{id}/messages", h.ServeMessages)
		pr.Post("/{id}/messages", h.HandlePostMessage)
	})

	return r
}
