// internal/app/features/smswebhook/routes.go
package smswebhook

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleInbound)
	return r
}
