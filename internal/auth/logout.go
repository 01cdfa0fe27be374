package auth

import (
	"net/http"

	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} config.SuccessEnvelope
// @Router /logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	config.Success(w, http.StatusOK, "Logout successful", nil)
}
