package module

import (
	"context"
	"errors"
	"time"

	"github.com/saulo-duarte/cyberaware-lambda/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModuleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, m *Module) error
	GetByID(ctx context.Context, id uint) (*Module, error)
	GetByPosition(ctx context.Context, position int) (*Module, error)
	List(ctx context.Context) ([]Module, error)
	CountBefore(ctx context.Context, position int) (int64, error)
	CountCompletedBefore(ctx context.Context, userID uint, position int) (int64, error)

	CompletedModuleIDs(ctx context.Context, userID uint) (map[uint]bool, error)
	ListProgress(ctx context.Context, userID uint) ([]Progress, error)
	MarkCompleted(ctx context.Context, userID, moduleID uint, at time.Time) error

	CreatePracticeQuestions(ctx context.Context, tx *gorm.DB, questions []PracticeQuestion) error
	ListPracticeQuestions(ctx context.Context, moduleID uint) ([]PracticeQuestion, error)
}

type moduleRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(ctx context.Context, tx *gorm.DB, m *Module) error {
	return database.Conn(r.db, tx).WithContext(ctx).Create(m).Error
}

func (r *moduleRepository) GetByID(ctx context.Context, id uint) (*Module, error) {
	var m Module
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *moduleRepository) GetByPosition(ctx context.Context, position int) (*Module, error) {
	var m Module
	if err := r.db.WithContext(ctx).Where("position = ?", position).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *moduleRepository) List(ctx context.Context) ([]Module, error) {
	var modules []Module
	err := r.db.WithContext(ctx).Order("position ASC").Find(&modules).Error
	return modules, err
}

func (r *moduleRepository) CountBefore(ctx context.Context, position int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Module{}).Where("position < ?", position).Count(&n).Error
	return n, err
}

func (r *moduleRepository) CountCompletedBefore(ctx context.Context, userID uint, position int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Progress{}).
		Joins("JOIN modules ON modules.id = user_module_progress.module_id").
		Where("user_module_progress.user_id = ? AND user_module_progress.completed = ? AND modules.position < ?", userID, true, position).
		Count(&n).Error
	return n, err
}

func (r *moduleRepository) CompletedModuleIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&Progress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Pluck("module_id", &ids).Error
	if err != nil {
		return nil, err
	}
	done := make(map[uint]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

func (r *moduleRepository) ListProgress(ctx context.Context, userID uint) ([]Progress, error) {
	var rows []Progress
	err := r.db.WithContext(ctx).
		Preload("Module").
		Joins("JOIN modules ON modules.id = user_module_progress.module_id").
		Where("user_module_progress.user_id = ?", userID).
		Order("modules.position ASC").
		Find(&rows).Error
	return rows, err
}

// MarkCompleted upserts the progress row, so repeated calls are harmless.
func (r *moduleRepository) MarkCompleted(ctx context.Context, userID, moduleID uint, at time.Time) error {
	row := Progress{UserID: userID, ModuleID: moduleID, Completed: true, CompletedAt: &at}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"completed": true, "updated_at": at}),
	}).Create(&row).Error
}

func (r *moduleRepository) CreatePracticeQuestions(ctx context.Context, tx *gorm.DB, questions []PracticeQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return database.Conn(r.db, tx).WithContext(ctx).Create(&questions).Error
}

func (r *moduleRepository) ListPracticeQuestions(ctx context.Context, moduleID uint) ([]PracticeQuestion, error) {
	var questions []PracticeQuestion
	err := r.db.WithContext(ctx).Where("module_id = ?", moduleID).Order("id ASC").Find(&questions).Error
	return questions, err
}
