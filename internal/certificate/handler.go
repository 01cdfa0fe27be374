package certificate

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
)

type Handler struct {
	service CertificateService
}

func NewHandler(s CertificateService) *Handler {
	return &Handler{service: s}
}

// Get godoc
// @Summary Valid certificate of the user
// @Tags certificates
// @Security BearerAuth
// @Produce json
// @Success 200 {object} config.SuccessEnvelope
// @Failure 404 {object} config.ErrorEnvelope
// @Router /certificate [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Fail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", nil)
		return
	}

	c, err := h.service.Fetch(r.Context(), claims.UserID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Certificate retrieved successfully", ToResponse(c))
}

// Download godoc
// @Summary Certificate as PDF
// @Tags certificates
// @Security BearerAuth
// @Produce application/pdf
// @Param certificate_id path string true "Certificate ID"
// @Success 200 {file} file
// @Failure 404 {object} config.ErrorEnvelope
// @Failure 500 {object} config.ErrorEnvelope
// @Router /certificate/{certificate_id}/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Fail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", nil)
		return
	}

	c, body, err := h.service.Download(r.Context(), claims.UserID, chi.URLParam(r, "certificate_id"))
	if err != nil {
		config.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"certificate_%s.pdf\"", c.CertificateID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Failed to write certificate")
	}
}

// Invalidate godoc
// @Summary Invalidate a certificate
// @Tags certificates
// @Security BearerAuth
// @Produce json
// @Param certificate_id path string true "Certificate ID"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 404 {object} config.ErrorEnvelope
// @Router /certificate/{certificate_id}/invalidate [post]
func (h *Handler) Invalidate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "certificate_id")
	if err := h.service.Invalidate(r.Context(), id); err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Certificate invalidated", map[string]string{"certificate_id": id})
}
