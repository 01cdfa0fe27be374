package user

import (
	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
)

// Routes registers the account endpoints directly on r, since they share
// the /api root with other features.
func Routes(r chi.Router, h *Handler) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/token-refresh", h.RefreshToken)
	r.Post("/verify-otp", h.VerifyOTP)
	r.Post("/resend-otp", h.ResendOTP)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Post("/change-password", h.ChangePassword)
		r.Get("/session", h.Session)
	})
}
