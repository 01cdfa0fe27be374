package certificate

import (
	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
)

func Routes(r chi.Router, h *Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Get("/certificate", h.Get)
		r.Get("/certificate/{certificate_id}/download", h.Download)

		r.With(auth.RequireRole(auth.RoleAdmin)).Post("/certificate/{certificate_id}/invalidate", h.Invalidate)
	})
}
