package quiz

import (
	"time"

	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
	"gorm.io/datatypes"
)

const (
	MaxAttempts = 5
	PassMark    = 80.0
)

// Question is an entry of the final quiz bank. The question text is its
// natural key and is what clients submit answers against.
type Question struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Question      string                      `gorm:"type:varchar(500);uniqueIndex;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	CorrectAnswer string                      `gorm:"type:varchar(255);not null" json:"correct_answer"`
	Active        bool                        `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime" json:"created_at"`
}

func (Question) TableName() string { return "quiz_questions" }

type Session struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User          *user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AttemptNumber int        `gorm:"not null;default:0" json:"attempt_number"`
	Score         float64    `gorm:"not null;default:0" json:"score"`
	Passed        bool       `gorm:"not null;default:false" json:"passed"`
	StartedAt     time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`

	Answers []Answer `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Session) TableName() string { return "quiz_sessions" }

// Answer records one submitted pair of an attempt. IsCorrect is computed
// from the answer key when the row is written.
type Answer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SessionID      uint      `gorm:"not null;index" json:"session_id"`
	QuestionID     uint      `gorm:"not null;index" json:"question_id"`
	Question       *Question `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AttemptNumber  int       `gorm:"not null" json:"attempt_number"`
	SelectedOption string    `gorm:"type:varchar(255);not null" json:"selected_option"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Answer) TableName() string { return "quiz_answers" }
