package module

import (
	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
)

func Routes(r chi.Router, h *Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Get("/dashboard", h.Dashboard)
		r.Get("/module-progress", h.ListProgress)
		r.Get("/module/{module_id}", h.Get)
		r.Post("/module/{module_id}/complete", h.MarkCompleted)
		r.Get("/module/{module_id}/quiz", h.GetQuiz)
	})
}
