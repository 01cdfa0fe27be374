package module

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
)

type Handler struct {
	service ModuleService
}

func NewHandler(s ModuleService) *Handler {
	return &Handler{service: s}
}

// Dashboard godoc
// @Summary Modules with the user's completion state
// @Tags modules
// @Security BearerAuth
// @Produce json
// @Success 200 {object} config.SuccessEnvelope
// @Router /dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Fail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", nil)
		return
	}

	resp, err := h.service.Dashboard(r.Context(), claims.UserID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Dashboard retrieved successfully", resp)
}

// ListProgress godoc
// @Summary Progress rows of the user
// @Tags modules
// @Security BearerAuth
// @Produce json
// @Success 200 {object} config.SuccessEnvelope
// @Router /module-progress [get]
func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Fail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", nil)
		return
	}

	resp, err := h.service.ListProgress(r.Context(), claims.UserID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Module progress retrieved successfully", resp)
}

// Get godoc
// @Summary Module content
// @Tags modules
// @Security BearerAuth
// @Produce json
// @Param module_id path int true "Module ID"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 403 {object} config.ErrorEnvelope
// @Failure 404 {object} config.ErrorEnvelope
// @Router /module/{module_id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	claims, moduleID, ok := h.params(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), claims.UserID, moduleID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Module retrieved successfully", resp)
}

// MarkCompleted godoc
// @Summary Mark a module as completed
// @Tags modules
// @Security BearerAuth
// @Produce json
// @Param module_id path int true "Module ID"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 403 {object} config.ErrorEnvelope
// @Failure 404 {object} config.ErrorEnvelope
// @Router /module/{module_id}/complete [post]
func (h *Handler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	claims, moduleID, ok := h.params(w, r)
	if !ok {
		return
	}

	resp, err := h.service.MarkCompleted(r.Context(), claims.UserID, moduleID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Module marked as completed", resp)
}

// GetQuiz godoc
// @Summary Practice questions of a module
// @Tags modules
// @Security BearerAuth
// @Produce json
// @Param module_id path int true "Module ID"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 404 {object} config.ErrorEnvelope
// @Router /module/{module_id}/quiz [get]
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	_, moduleID, ok := h.params(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetQuiz(r.Context(), moduleID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Module quiz retrieved successfully", resp)
}

func (h *Handler) params(w http.ResponseWriter, r *http.Request) (*auth.Claims, uint, bool) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Fail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", nil)
		return nil, 0, false
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "module_id"), 10, 64)
	if err != nil || id == 0 {
		config.Error(w, r, ErrModuleNotFound)
		return nil, 0, false
	}
	return claims, uint(id), true
}

