package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saulo-duarte/cyberaware-lambda/internal/apperr"
	"github.com/saulo-duarte/cyberaware-lambda/internal/certificate"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/saulo-duarte/cyberaware-lambda/internal/database"
	"github.com/saulo-duarte/cyberaware-lambda/internal/lock"
	util "github.com/saulo-duarte/cyberaware-lambda/internal/utils"
	"github.com/saulo-duarte/cyberaware-lambda/internal/validation"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAttemptLimit       = apperr.AttemptLimitExceeded(fmt.Sprintf("Maximum number of attempts (%d) reached.", MaxAttempts))
	ErrEmptySubmission    = apperr.Validation("Invalid quiz submission", map[string]string{"answers": "This list may not be empty."})
	ErrSessionNotFound    = apperr.NotFound("Quiz session not found.")
	ErrQuestionExists     = apperr.Validation("Invalid question", map[string]string{"question": "A question with this text already exists."})
	ErrAnswerNotInOptions = apperr.Validation("Invalid question", map[string]string{"correct_answer": "Must be one of the options."})
)

// Issuer grants the certificate of a passing attempt.
type Issuer interface {
	IssueIfPassed(ctx context.Context, userID, sessionID uint, score float64) (*certificate.Certificate, error)
}

type QuizService interface {
	FetchQuestions(ctx context.Context, userID uint) ([]QuestionResponse, error)
	Submit(ctx context.Context, userID uint, answers []Submission) (*Result, error)
	CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*Question, error)
	ListQuestions(ctx context.Context) ([]Question, error)
	ResetAttempts(ctx context.Context, userID uint) error
}

type quizService struct {
	db     *gorm.DB
	repo   QuizRepository
	locker lock.Locker
	issuer Issuer
	now    func() time.Time
}

func NewService(db *gorm.DB, repo QuizRepository, locker lock.Locker, issuer Issuer) QuizService {
	return &quizService{
		db:     db,
		repo:   repo,
		locker: locker,
		issuer: issuer,
		now:    util.Now,
	}
}

func lockKey(userID uint) string {
	return fmt.Sprintf("quiz:%d", userID)
}

func (s *quizService) FetchQuestions(ctx context.Context, userID uint) ([]QuestionResponse, error) {
	session, err := s.repo.GetSessionByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to load quiz session", err)
	}
	if session != nil && session.AttemptNumber >= MaxAttempts {
		return nil, ErrAttemptLimit
	}

	questions, err := s.repo.ListActiveQuestions(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load questions", err)
	}
	out := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, ToQuestionResponse(&questions[i]))
	}
	return out, nil
}

type answerKey struct {
	id     uint
	answer string
}

func (s *quizService) Submit(ctx context.Context, userID uint, answers []Submission) (*Result, error) {
	if len(answers) == 0 {
		return nil, ErrEmptySubmission
	}
	if err := validation.Slice(answers, "Invalid quiz submission"); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, lockKey(userID))
	if err != nil {
		return nil, apperr.Internal("failed to lock quiz session", err)
	}
	defer release()

	session, err := s.beginAttempt(ctx, userID)
	if err != nil {
		return nil, err
	}
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"session_id": session.ID,
		"attempt":    session.AttemptNumber,
	})

	bank, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	correct := 0
	rows := make([]Answer, 0, len(answers))
	for _, a := range answers {
		key, ok := bank[a.Question]
		if !ok {
			continue
		}
		isCorrect := a.SelectedOption == key.answer
		if isCorrect {
			correct++
		}
		rows = append(rows, Answer{
			SessionID:      session.ID,
			QuestionID:     key.id,
			AttemptNumber:  session.AttemptNumber,
			SelectedOption: a.SelectedOption,
			IsCorrect:      isCorrect,
		})
	}
	if skipped := len(answers) - len(rows); skipped > 0 {
		log.WithField("skipped", skipped).Warn("Submission references unknown questions")
	}

	score, passed := Score(correct, len(answers))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreateAnswers(ctx, tx, rows); err != nil {
			return err
		}
		return s.repo.UpdateResult(ctx, tx, session.ID, score, passed, s.now())
	})
	if err != nil {
		return nil, apperr.Internal("failed to save quiz answers", err)
	}

	result := &Result{
		Score:          FormatScore(score),
		Passed:         passed,
		CorrectAnswers: correct,
		TotalQuestions: len(answers),
		AttemptNumber:  session.AttemptNumber,
	}
	log.WithFields(logrus.Fields{"score": result.Score, "passed": passed}).Info("Quiz submitted")

	if passed && s.issuer != nil {
		cert, err := s.issuer.IssueIfPassed(ctx, userID, session.ID, score)
		if err != nil {
			log.WithError(err).Error("Certificate issuance failed")
		} else {
			result.Certificate = certificate.ToResponse(cert)
		}
	}
	return result, nil
}

// beginAttempt consumes one attempt and commits it before scoring starts.
// A lost race on the first insert is retried against the winner's row.
func (s *quizService) beginAttempt(ctx context.Context, userID uint) (*Session, error) {
	for try := 0; ; try++ {
		session, err := s.tryBeginAttempt(ctx, userID)
		if err == nil {
			return session, nil
		}
		if errors.Is(err, ErrAttemptLimit) {
			return nil, err
		}
		if try == 0 && database.IsUniqueViolation(err) {
			continue
		}
		return nil, apperr.Internal("failed to start quiz attempt", err)
	}
}

func (s *quizService) tryBeginAttempt(ctx context.Context, userID uint) (*Session, error) {
	var session *Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.LockSessionByUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		now := s.now()
		if current == nil {
			current = &Session{UserID: userID, AttemptNumber: 1, StartedAt: now}
			if err := s.repo.CreateSession(ctx, tx, current); err != nil {
				return err
			}
			session = current
			return nil
		}

		if current.AttemptNumber >= MaxAttempts {
			return ErrAttemptLimit
		}
		current.AttemptNumber++
		current.StartedAt = now
		current.CompletedAt = nil
		if err := s.repo.UpdateAttempt(ctx, tx, current); err != nil {
			return err
		}
		session = current
		return nil
	})
	return session, err
}

func (s *quizService) snapshot(ctx context.Context) (map[string]answerKey, error) {
	questions, err := s.repo.ListActiveQuestions(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load answer key", err)
	}
	bank := make(map[string]answerKey, len(questions))
	for _, q := range questions {
		bank[q.Question] = answerKey{id: q.ID, answer: q.CorrectAnswer}
	}
	return bank, nil
}

func (s *quizService) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*Question, error) {
	if err := validation.Struct(&req, "Invalid question"); err != nil {
		return nil, err
	}
	q := &Question{
		Question:      strings.TrimSpace(req.Question),
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Active:        true,
	}
	if !q.hasOption(q.CorrectAnswer) {
		return nil, ErrAnswerNotInOptions
	}
	if err := s.repo.CreateQuestion(ctx, nil, q); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrQuestionExists
		}
		return nil, apperr.Internal("failed to create question", err)
	}
	config.WithContext(ctx).WithField("question_id", q.ID).Info("Quiz question created")
	return q, nil
}

func (s *quizService) ListQuestions(ctx context.Context) ([]Question, error) {
	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list questions", err)
	}
	return questions, nil
}

func (s *quizService) ResetAttempts(ctx context.Context, userID uint) error {
	release, err := s.locker.Acquire(ctx, lockKey(userID))
	if err != nil {
		return apperr.Internal("failed to lock quiz session", err)
	}
	defer release()

	deleted, err := s.repo.DeleteSessionByUser(ctx, userID)
	if err != nil {
		return apperr.Internal("failed to reset quiz attempts", err)
	}
	if !deleted {
		return ErrSessionNotFound
	}
	config.WithContext(ctx).WithField("target_user_id", userID).Info("Quiz attempts reset")
	return nil
}

func (q *Question) hasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}
