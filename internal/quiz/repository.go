package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/saulo-duarte/cyberaware-lambda/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository interface {
	CreateQuestion(ctx context.Context, tx *gorm.DB, q *Question) error
	ListQuestions(ctx context.Context) ([]Question, error)
	ListActiveQuestions(ctx context.Context) ([]Question, error)

	GetSessionByUser(ctx context.Context, userID uint) (*Session, error)
	LockSessionByUser(ctx context.Context, tx *gorm.DB, userID uint) (*Session, error)
	CreateSession(ctx context.Context, tx *gorm.DB, s *Session) error
	UpdateAttempt(ctx context.Context, tx *gorm.DB, s *Session) error
	UpdateResult(ctx context.Context, tx *gorm.DB, sessionID uint, score float64, passed bool, completedAt time.Time) error
	DeleteSessionByUser(ctx context.Context, userID uint) (bool, error)

	CreateAnswers(ctx context.Context, tx *gorm.DB, answers []Answer) error
	ListAnswers(ctx context.Context, sessionID uint, attempt int) ([]Answer, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) CreateQuestion(ctx context.Context, tx *gorm.DB, q *Question) error {
	return database.Conn(r.db, tx).WithContext(ctx).Create(q).Error
}

func (r *quizRepository) ListQuestions(ctx context.Context) ([]Question, error) {
	var questions []Question
	err := r.db.WithContext(ctx).Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *quizRepository) ListActiveQuestions(ctx context.Context) ([]Question, error) {
	var questions []Question
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *quizRepository) GetSessionByUser(ctx context.Context, userID uint) (*Session, error) {
	return firstSession(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// LockSessionByUser reads the session with a row lock held until tx ends.
func (r *quizRepository) LockSessionByUser(ctx context.Context, tx *gorm.DB, userID uint) (*Session, error) {
	q := database.Conn(r.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID)
	return firstSession(q)
}

func (r *quizRepository) CreateSession(ctx context.Context, tx *gorm.DB, s *Session) error {
	return database.Conn(r.db, tx).WithContext(ctx).Omit("User", "Answers").Create(s).Error
}

func (r *quizRepository) UpdateAttempt(ctx context.Context, tx *gorm.DB, s *Session) error {
	return database.Conn(r.db, tx).WithContext(ctx).
		Model(&Session{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"attempt_number": s.AttemptNumber,
			"started_at":     s.StartedAt,
			"completed_at":   nil,
		}).Error
}

func (r *quizRepository) UpdateResult(ctx context.Context, tx *gorm.DB, sessionID uint, score float64, passed bool, completedAt time.Time) error {
	return database.Conn(r.db, tx).WithContext(ctx).
		Model(&Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"score":        score,
			"passed":       passed,
			"completed_at": completedAt,
		}).Error
}

func (r *quizRepository) DeleteSessionByUser(ctx context.Context, userID uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := firstSession(tx.Where("user_id = ?", userID))
		if err != nil || s == nil {
			return err
		}
		if err := tx.Where("session_id = ?", s.ID).Delete(&Answer{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Session{}, s.ID)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

func (r *quizRepository) CreateAnswers(ctx context.Context, tx *gorm.DB, answers []Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return database.Conn(r.db, tx).WithContext(ctx).Omit("Question").Create(&answers).Error
}

func (r *quizRepository) ListAnswers(ctx context.Context, sessionID uint, attempt int) ([]Answer, error) {
	var answers []Answer
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND attempt_number = ?", sessionID, attempt).
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}

func firstSession(q *gorm.DB) (*Session, error) {
	var s Session
	if err := q.First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
