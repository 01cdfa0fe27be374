package user

import (
	"net/http"

	"github.com/saulo-duarte/cyberaware-lambda/internal/apperr"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/saulo-duarte/cyberaware-lambda/internal/validation"
)

type Handler struct {
	service UserService
}

func NewHandler(s UserService) *Handler {
	return &Handler{service: s}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} config.SuccessEnvelope
// @Success 202 {object} config.SuccessEnvelope
// @Failure 400 {object} config.ErrorEnvelope
// @Router /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validation.Decode(r, &req, "Registration failed"); err != nil {
		config.Error(w, r, err)
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	if !resp.OTPSent {
		config.Success(w, http.StatusAccepted, "Registration successful, but failed to send OTP.", resp)
		return
	}
	config.Success(w, http.StatusCreated, "User registered successfully. OTP sent to email.", resp)
}

// Login godoc
// @Summary Obtain access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 401 {object} config.ErrorEnvelope
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validation.Decode(r, &req, "Login failed"); err != nil {
		config.Error(w, r, apperr.AsKind(err, apperr.KindAuth))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Login successful", resp)
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 401 {object} config.ErrorEnvelope
// @Router /token-refresh [post]
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := validation.Decode(r, &req, "Token refresh failed"); err != nil {
		config.Error(w, r, apperr.AsKind(err, apperr.KindAuth))
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Token refreshed successfully", resp)
}

// VerifyOTP godoc
// @Summary Verify the email verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body VerifyOTPRequest true "Email and code"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 400 {object} config.ErrorEnvelope
// @Router /verify-otp [post]
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := validation.Decode(r, &req, "Invalid data"); err != nil {
		config.Error(w, r, err)
		return
	}

	resp, err := h.service.VerifyOTP(r.Context(), req)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "OTP verified successfully.", resp)
}

// ResendOTP godoc
// @Summary Send a new verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Email"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 404 {object} config.ErrorEnvelope
// @Failure 429 {object} config.ErrorEnvelope
// @Router /resend-otp [post]
func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := validation.Decode(r, &req, "Invalid data"); err != nil {
		config.Error(w, r, err)
		return
	}

	resp, err := h.service.ResendOTP(r.Context(), req.Email)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	if !resp.OTPResent {
		config.Success(w, http.StatusOK, "OTP created but failed to send email. Please try again later.", resp)
		return
	}
	config.Success(w, http.StatusOK, "OTP resent successfully.", resp)
}

// ForgotPassword godoc
// @Summary Send a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Email"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 400 {object} config.ErrorEnvelope
// @Failure 404 {object} config.ErrorEnvelope
// @Router /forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := validation.Decode(r, &req, "Invalid data"); err != nil {
		config.Error(w, r, err)
		return
	}

	resp, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	if !resp.OTPSent {
		config.Success(w, http.StatusOK, "OTP created but failed to send email. Please try again later.", resp)
		return
	}
	config.Success(w, http.StatusOK, "OTP sent to email.", resp)
}

// ResetPassword godoc
// @Summary Reset the password with a reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Reset data"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 400 {object} config.ErrorEnvelope
// @Router /reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := validation.Decode(r, &req, "Invalid data"); err != nil {
		config.Error(w, r, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Password reset successfully.", map[string]interface{}{
		"email":          NormalizeEmail(req.Email),
		"password_reset": true,
	})
}

// ChangePassword godoc
// @Summary Change the password of the authenticated user
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body ChangePasswordRequest true "Passwords"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 400 {object} config.ErrorEnvelope
// @Router /change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Fail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", nil)
		return
	}

	var req ChangePasswordRequest
	if err := validation.Decode(r, &req, "Invalid data"); err != nil {
		config.Error(w, r, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), claims.UserID, req); err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Password changed successfully.", map[string]interface{}{
		"password_changed": true,
	})
}

// Session godoc
// @Summary Describe the authenticated user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} config.SuccessEnvelope
// @Failure 401 {object} config.ErrorEnvelope
// @Router /session [get]
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Fail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", nil)
		return
	}

	resp, err := h.service.Session(r.Context(), claims.UserID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "User session is active", resp)
}
