package quiz

import (
	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
)

func Routes(r chi.Router, h *Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Get("/quiz", h.GetQuestions)
		r.Post("/quiz", h.Submit)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))

			r.Get("/quiz/questions", h.ListQuestions)
			r.Post("/quiz/questions", h.CreateQuestion)
			r.Delete("/quiz/attempts/{user_id}", h.ResetAttempts)
		})
	})
}
