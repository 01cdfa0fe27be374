package quiz

import "github.com/saulo-duarte/cyberaware-lambda/internal/certificate"

type Submission struct {
	Question       string `json:"question" validate:"required"`
	SelectedOption string `json:"selected_option" validate:"required"`
}

type QuestionResponse struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type Result struct {
	Score          string                `json:"score"`
	Passed         bool                  `json:"passed"`
	CorrectAnswers int                   `json:"correct_answers"`
	TotalQuestions int                   `json:"total_questions"`
	AttemptNumber  int                   `json:"attempt_number"`
	Certificate    *certificate.Response `json:"certificate,omitempty"`
}

type CreateQuestionRequest struct {
	Question      string   `json:"question" validate:"required,max=500"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
}

func ToQuestionResponse(q *Question) QuestionResponse {
	return QuestionResponse{Question: q.Question, Options: []string(q.Options)}
}
