package quiz_test

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/saulo-duarte/cyberaware-lambda/internal/apperr"
	"github.com/saulo-duarte/cyberaware-lambda/internal/certificate"
	"github.com/saulo-duarte/cyberaware-lambda/internal/lock"
	"github.com/saulo-duarte/cyberaware-lambda/internal/pdf"
	"github.com/saulo-duarte/cyberaware-lambda/internal/quiz"
	"github.com/saulo-duarte/cyberaware-lambda/internal/testutil"
	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
	"gorm.io/gorm"
)

type failingIssuer struct{}

func (failingIssuer) IssueIfPassed(context.Context, uint, uint, float64) (*certificate.Certificate, error) {
	return nil, errors.New("certificate store unavailable")
}

// failingAnswers loses every bulk answer write.
type failingAnswers struct {
	quiz.QuizRepository
}

func (failingAnswers) CreateAnswers(context.Context, *gorm.DB, []quiz.Answer) error {
	return errors.New("disk full")
}

type fixture struct {
	db    *gorm.DB
	svc   quiz.QuizService
	repo  quiz.QuizRepository
	certs certificate.CertificateRepository
	user  *user.User
}

func newFixture(t *testing.T, issuer quiz.Issuer) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "ana@example.com")

	locker := lock.NewMemoryLocker()
	certRepo := certificate.NewRepository(db)
	if issuer == nil {
		renderer, err := pdf.NewRenderer()
		if err != nil {
			t.Fatalf("renderer: %v", err)
		}
		issuer = certificate.NewService(certRepo, locker, renderer)
	}

	repo := quiz.NewRepository(db)
	f := &fixture{
		db:    db,
		svc:   quiz.NewService(db, repo, locker, issuer),
		repo:  repo,
		certs: certRepo,
		user:  u,
	}
	f.addQuestion(t, "Q1", []string{"A", "B"}, "A")
	return f
}

func (f *fixture) addQuestion(t *testing.T, text string, options []string, answer string) *quiz.Question {
	t.Helper()
	q, err := f.svc.CreateQuestion(context.Background(), quiz.CreateQuestionRequest{
		Question:      text,
		Options:       options,
		CorrectAnswer: answer,
	})
	if err != nil {
		t.Fatalf("create question %s: %v", text, err)
	}
	return q
}

func (f *fixture) attempt(t *testing.T) int {
	t.Helper()
	s, err := f.repo.GetSessionByUser(context.Background(), f.user.ID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if s == nil {
		return 0
	}
	return s.AttemptNumber
}

func pass() []quiz.Submission { return []quiz.Submission{{Question: "Q1", SelectedOption: "A"}} }
func fail() []quiz.Submission { return []quiz.Submission{{Question: "Q1", SelectedOption: "B"}} }

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("Passing", func(t *testing.T) {
		f := newFixture(t, nil)

		res, err := f.svc.Submit(ctx, f.user.ID, pass())
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if res.Score != "100.0%" || !res.Passed || res.CorrectAnswers != 1 || res.TotalQuestions != 1 || res.AttemptNumber != 1 {
			t.Errorf("unexpected result %+v", res)
		}
		if res.Certificate == nil {
			t.Fatal("expected a certificate")
		}
		if res.Certificate.CertificateID != certificate.FormatID(res.Certificate.IssuedDate.Time, f.user.ID) {
			t.Errorf("unexpected certificate id %s", res.Certificate.CertificateID)
		}
	})

	t.Run("Failing", func(t *testing.T) {
		f := newFixture(t, nil)

		res, err := f.svc.Submit(ctx, f.user.ID, fail())
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if res.Score != "0.0%" || res.Passed || res.CorrectAnswers != 0 || res.AttemptNumber != 1 {
			t.Errorf("unexpected result %+v", res)
		}
		if res.Certificate != nil {
			t.Error("failing attempt must not return a certificate")
		}
		if n, _ := f.certs.CountValidByUser(ctx, f.user.ID); n != 0 {
			t.Errorf("expected no certificate, found %d", n)
		}
	})

	t.Run("EmptyDoesNotConsumeAttempt", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.svc.Submit(ctx, f.user.ID, nil)
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		if got := f.attempt(t); got != 0 {
			t.Fatalf("no session expected, attempt %d", got)
		}

		if _, err := f.svc.Submit(ctx, f.user.ID, fail()); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if _, err := f.svc.Submit(ctx, f.user.ID, []quiz.Submission{}); err == nil {
			t.Fatal("expected validation error")
		}
		if got := f.attempt(t); got != 1 {
			t.Errorf("expected attempt 1, got %d", got)
		}
	})

	t.Run("MalformedPair", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.svc.Submit(ctx, f.user.ID, []quiz.Submission{{Question: "Q1"}})
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		if got := f.attempt(t); got != 0 {
			t.Errorf("malformed submission must not create a session, attempt %d", got)
		}
	})

	t.Run("AttemptCap", func(t *testing.T) {
		f := newFixture(t, nil)

		for i := 1; i <= quiz.MaxAttempts; i++ {
			res, err := f.svc.Submit(ctx, f.user.ID, fail())
			if err != nil {
				t.Fatalf("attempt %d failed: %v", i, err)
			}
			if res.AttemptNumber != i {
				t.Fatalf("expected attempt %d, got %d", i, res.AttemptNumber)
			}
		}

		_, err := f.svc.FetchQuestions(ctx, f.user.ID)
		if !errors.Is(err, quiz.ErrAttemptLimit) {
			t.Errorf("expected attempt limit on fetch, got %v", err)
		}
		_, err = f.svc.Submit(ctx, f.user.ID, pass())
		if !errors.Is(err, quiz.ErrAttemptLimit) {
			t.Errorf("expected attempt limit on submit, got %v", err)
		}
		if apperr.KindOf(err).Status() != 400 {
			t.Errorf("attempt limit should map to 400, got %d", apperr.KindOf(err).Status())
		}
		if got := f.attempt(t); got != quiz.MaxAttempts {
			t.Errorf("rejected submission must not count, attempt %d", got)
		}
	})

	t.Run("UnknownQuestionsCountInTotal", func(t *testing.T) {
		f := newFixture(t, nil)

		res, err := f.svc.Submit(ctx, f.user.ID, []quiz.Submission{
			{Question: "Q1", SelectedOption: "A"},
			{Question: "Not in the bank", SelectedOption: "A"},
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if res.CorrectAnswers != 1 || res.TotalQuestions != 2 || res.Score != "50.0%" || res.Passed {
			t.Errorf("unexpected result %+v", res)
		}

		s, _ := f.repo.GetSessionByUser(ctx, f.user.ID)
		answers, err := f.repo.ListAnswers(ctx, s.ID, 1)
		if err != nil {
			t.Fatalf("ListAnswers failed: %v", err)
		}
		if len(answers) != 1 {
			t.Errorf("only known questions are stored, got %d rows", len(answers))
		}
	})

	t.Run("CorrectnessIsRecomputed", func(t *testing.T) {
		f := newFixture(t, nil)
		f.addQuestion(t, "Q2", []string{"yes", "no"}, "no")

		res, err := f.svc.Submit(ctx, f.user.ID, []quiz.Submission{
			{Question: "Q1", SelectedOption: "A"},
			{Question: "Q2", SelectedOption: "yes"},
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if res.CorrectAnswers != 1 {
			t.Errorf("expected 1 correct, got %d", res.CorrectAnswers)
		}

		s, _ := f.repo.GetSessionByUser(ctx, f.user.ID)
		answers, _ := f.repo.ListAnswers(ctx, s.ID, 1)
		if len(answers) != 2 || !answers[0].IsCorrect || answers[1].IsCorrect {
			t.Errorf("stored correctness does not match the answer key: %+v", answers)
		}
		if s.Score != 50 || s.Passed || s.CompletedAt == nil {
			t.Errorf("session result not persisted: %+v", s)
		}
	})

	t.Run("ResubmitAfterPassKeepsCertificate", func(t *testing.T) {
		f := newFixture(t, nil)

		first, err := f.svc.Submit(ctx, f.user.ID, pass())
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		second, err := f.svc.Submit(ctx, f.user.ID, pass())
		if err != nil {
			t.Fatalf("second Submit failed: %v", err)
		}
		if second.AttemptNumber != 2 {
			t.Errorf("expected attempt 2, got %d", second.AttemptNumber)
		}
		if second.Certificate == nil || second.Certificate.CertificateID != first.Certificate.CertificateID {
			t.Error("resubmission should return the existing certificate")
		}
	})

	t.Run("ConcurrentPasses", func(t *testing.T) {
		f := newFixture(t, nil)

		const n = quiz.MaxAttempts
		results := make([]*quiz.Result, n)
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = f.svc.Submit(ctx, f.user.ID, pass())
			}(i)
		}
		wg.Wait()

		attempts := make([]int, 0, n)
		for i := 0; i < n; i++ {
			if errs[i] != nil {
				t.Fatalf("submission %d failed: %v", i, errs[i])
			}
			if results[i].Certificate == nil {
				t.Fatalf("submission %d has no certificate", i)
			}
			if results[i].Certificate.CertificateID != results[0].Certificate.CertificateID {
				t.Errorf("submission %d got a different certificate", i)
			}
			attempts = append(attempts, results[i].AttemptNumber)
		}
		sort.Ints(attempts)
		for i, a := range attempts {
			if a != i+1 {
				t.Fatalf("attempt numbers must be 1..%d, got %v", n, attempts)
			}
		}
		if count, _ := f.certs.CountValidByUser(ctx, f.user.ID); count != 1 {
			t.Errorf("expected one valid certificate, got %d", count)
		}
	})

	t.Run("AnswerWriteFailureConsumesAttempt", func(t *testing.T) {
		f := newFixture(t, nil)
		svc := quiz.NewService(f.db, failingAnswers{QuizRepository: f.repo}, lock.NewMemoryLocker(), nil)

		res, err := svc.Submit(ctx, f.user.ID, pass())
		if res != nil {
			t.Errorf("expected no result, got %+v", res)
		}
		if kind := apperr.KindOf(err); kind != apperr.KindInternal || kind.Status() != http.StatusInternalServerError {
			t.Fatalf("expected internal error, got %v", err)
		}
		if got := f.attempt(t); got != 1 {
			t.Errorf("attempt should stay consumed, got %d", got)
		}
		certs, err := f.certs.CountValidByUser(ctx, f.user.ID)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if certs != 0 {
			t.Errorf("no certificate expected, got %d", certs)
		}
	})

	t.Run("IssuerFailureIsSwallowed", func(t *testing.T) {
		f := newFixture(t, failingIssuer{})

		res, err := f.svc.Submit(ctx, f.user.ID, pass())
		if err != nil {
			t.Fatalf("Submit must succeed when issuance fails: %v", err)
		}
		if !res.Passed || res.Certificate != nil {
			t.Errorf("unexpected result %+v", res)
		}
	})
}

func TestFetchQuestions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.addQuestion(t, "Q2", []string{"yes", "no"}, "no")
	hidden := f.addQuestion(t, "Q3", []string{"x", "y"}, "x")
	if err := f.db.Model(&quiz.Question{}).Where("id = ?", hidden.ID).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	got, err := f.svc.FetchQuestions(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("FetchQuestions failed: %v", err)
	}
	if len(got) != 2 || got[0].Question != "Q1" || got[1].Question != "Q2" {
		t.Fatalf("unexpected questions %+v", got)
	}
	if len(got[0].Options) != 2 {
		t.Errorf("expected options, got %v", got[0].Options)
	}
}

func TestCreateQuestion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	t.Run("Duplicate", func(t *testing.T) {
		_, err := f.svc.CreateQuestion(ctx, quiz.CreateQuestionRequest{Question: "Q1", Options: []string{"A", "B"}, CorrectAnswer: "A"})
		if !errors.Is(err, quiz.ErrQuestionExists) {
			t.Errorf("expected duplicate error, got %v", err)
		}
	})

	t.Run("AnswerNotInOptions", func(t *testing.T) {
		_, err := f.svc.CreateQuestion(ctx, quiz.CreateQuestionRequest{Question: "Q9", Options: []string{"A", "B"}, CorrectAnswer: "C"})
		if !errors.Is(err, quiz.ErrAnswerNotInOptions) {
			t.Errorf("expected option error, got %v", err)
		}
	})

	t.Run("TooFewOptions", func(t *testing.T) {
		_, err := f.svc.CreateQuestion(ctx, quiz.CreateQuestionRequest{Question: "Q9", Options: []string{"A"}, CorrectAnswer: "A"})
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("ListIncludesAnswers", func(t *testing.T) {
		questions, err := f.svc.ListQuestions(ctx)
		if err != nil {
			t.Fatalf("ListQuestions failed: %v", err)
		}
		if len(questions) != 1 || questions[0].CorrectAnswer != "A" {
			t.Errorf("unexpected bank %+v", questions)
		}
	})
}

func TestResetAttempts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	if err := f.svc.ResetAttempts(ctx, f.user.ID); !errors.Is(err, quiz.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}

	for i := 0; i < quiz.MaxAttempts; i++ {
		if _, err := f.svc.Submit(ctx, f.user.ID, fail()); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	if err := f.svc.ResetAttempts(ctx, f.user.ID); err != nil {
		t.Fatalf("ResetAttempts failed: %v", err)
	}
	if _, err := f.svc.FetchQuestions(ctx, f.user.ID); err != nil {
		t.Errorf("questions should be available after reset: %v", err)
	}
	res, err := f.svc.Submit(ctx, f.user.ID, pass())
	if err != nil {
		t.Fatalf("Submit after reset failed: %v", err)
	}
	if res.AttemptNumber != 1 {
		t.Errorf("expected attempt 1 after reset, got %d", res.AttemptNumber)
	}
}
