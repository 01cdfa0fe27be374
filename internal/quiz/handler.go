package quiz

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/saulo-duarte/cyberaware-lambda/internal/validation"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

// GetQuestions godoc
// @Summary Final quiz questions
// @Tags quiz
// @Security BearerAuth
// @Produce json
// @Success 200 {object} config.SuccessEnvelope
// @Failure 400 {object} config.ErrorEnvelope
// @Router /quiz [get]
func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Fail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", nil)
		return
	}

	questions, err := h.service.FetchQuestions(r.Context(), claims.UserID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Quiz questions retrieved successfully", questions)
}

// Submit godoc
// @Summary Submit final quiz answers
// @Tags quiz
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body []Submission true "Answers"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 400 {object} config.ErrorEnvelope
// @Failure 500 {object} config.ErrorEnvelope
// @Router /quiz [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Fail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", nil)
		return
	}

	var answers []Submission
	if err := validation.DecodeJSON(r, &answers, "Invalid quiz submission"); err != nil {
		config.Error(w, r, err)
		return
	}

	result, err := h.service.Submit(r.Context(), claims.UserID, answers)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Quiz submitted successfully", result)
}

// ListQuestions godoc
// @Summary Question bank with answers
// @Tags quiz-admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} config.SuccessEnvelope
// @Router /quiz/questions [get]
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.ListQuestions(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Questions retrieved successfully", questions)
}

// CreateQuestion godoc
// @Summary Add a question to the bank
// @Tags quiz-admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CreateQuestionRequest true "Question"
// @Success 201 {object} config.SuccessEnvelope
// @Failure 400 {object} config.ErrorEnvelope
// @Router /quiz/questions [post]
func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if err := validation.Decode(r, &req, "Invalid question"); err != nil {
		config.Error(w, r, err)
		return
	}

	q, err := h.service.CreateQuestion(r.Context(), req)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusCreated, "Question created successfully", q)
}

// ResetAttempts godoc
// @Summary Reset the quiz attempts of a user
// @Tags quiz-admin
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} config.SuccessEnvelope
// @Failure 404 {object} config.ErrorEnvelope
// @Router /quiz/attempts/{user_id} [delete]
func (h *Handler) ResetAttempts(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		config.Error(w, r, ErrSessionNotFound)
		return
	}

	if err := h.service.ResetAttempts(r.Context(), uint(userID)); err != nil {
		config.Error(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Quiz attempts reset", nil)
}
