package module

import (
	"context"
	"math"
	"time"

	"github.com/saulo-duarte/cyberaware-lambda/internal/apperr"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
)

var (
	ErrModuleNotFound = apperr.NotFound("Module not found.")
	ErrModuleLocked   = apperr.Forbidden("Complete the previous modules first.")
	ErrNoPracticeQuiz = apperr.NotFound("No quiz found for this module.")
)

type ModuleService interface {
	Dashboard(ctx context.Context, userID uint) (*DashboardResponse, error)
	ListProgress(ctx context.Context, userID uint) ([]ProgressResponse, error)
	Get(ctx context.Context, userID, moduleID uint) (*Detail, error)
	MarkCompleted(ctx context.Context, userID, moduleID uint) (*ProgressResponse, error)
	GetQuiz(ctx context.Context, moduleID uint) ([]PracticeQuestionResponse, error)
}

type moduleService struct {
	repo ModuleRepository
}

func NewService(repo ModuleRepository) ModuleService {
	return &moduleService{repo: repo}
}

func (s *moduleService) Dashboard(ctx context.Context, userID uint) (*DashboardResponse, error) {
	modules, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list modules", err)
	}
	done, err := s.repo.CompletedModuleIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to load progress", err)
	}

	resp := &DashboardResponse{
		Modules:      make([]DashboardModule, 0, len(modules)),
		TotalModules: len(modules),
	}
	// modules are ordered by position, so a module is unlocked while every
	// earlier one is completed.
	unlocked := true
	for i := range modules {
		completed := done[modules[i].ID]
		resp.Modules = append(resp.Modules, DashboardModule{
			Summary:   ToSummary(&modules[i]),
			Completed: completed,
			Unlocked:  unlocked,
		})
		if completed {
			resp.CompletedModules++
		} else {
			unlocked = false
		}
	}
	resp.PercentageCompleted = percentage(resp.CompletedModules, resp.TotalModules)
	return resp, nil
}

func (s *moduleService) ListProgress(ctx context.Context, userID uint) ([]ProgressResponse, error) {
	rows, err := s.repo.ListProgress(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list progress", err)
	}
	out := make([]ProgressResponse, 0, len(rows))
	for i := range rows {
		if rows[i].Module == nil {
			continue
		}
		out = append(out, ProgressResponse{Module: ToSummary(rows[i].Module), Completed: rows[i].Completed})
	}
	return out, nil
}

func (s *moduleService) Get(ctx context.Context, userID, moduleID uint) (*Detail, error) {
	m, err := s.unlockedModule(ctx, userID, moduleID)
	if err != nil {
		return nil, err
	}
	done, err := s.repo.CompletedModuleIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to load progress", err)
	}
	return &Detail{
		Summary:   ToSummary(m),
		Content:   []byte(m.Content),
		Completed: done[m.ID],
	}, nil
}

func (s *moduleService) MarkCompleted(ctx context.Context, userID, moduleID uint) (*ProgressResponse, error) {
	m, err := s.unlockedModule(ctx, userID, moduleID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkCompleted(ctx, userID, m.ID, time.Now()); err != nil {
		return nil, apperr.Internal("failed to mark module completed", err)
	}
	config.WithContext(ctx).WithField("module_id", m.ID).Info("Module completed")
	return &ProgressResponse{Module: ToSummary(m), Completed: true}, nil
}

func (s *moduleService) GetQuiz(ctx context.Context, moduleID uint) ([]PracticeQuestionResponse, error) {
	m, err := s.repo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, apperr.Internal("failed to load module", err)
	}
	if m == nil {
		return nil, ErrModuleNotFound
	}
	questions, err := s.repo.ListPracticeQuestions(ctx, m.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load module quiz", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoPracticeQuiz
	}
	out := make([]PracticeQuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, ToPracticeResponse(&questions[i]))
	}
	return out, nil
}

func (s *moduleService) unlockedModule(ctx context.Context, userID, moduleID uint) (*Module, error) {
	m, err := s.repo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, apperr.Internal("failed to load module", err)
	}
	if m == nil {
		return nil, ErrModuleNotFound
	}

	before, err := s.repo.CountBefore(ctx, m.Position)
	if err != nil {
		return nil, apperr.Internal("failed to count modules", err)
	}
	completed, err := s.repo.CountCompletedBefore(ctx, userID, m.Position)
	if err != nil {
		return nil, apperr.Internal("failed to count progress", err)
	}
	if completed < before {
		return nil, ErrModuleLocked
	}
	return m, nil
}

func percentage(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(done)*1000/float64(total)) / 10
}
