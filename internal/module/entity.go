package module

import (
	"time"

	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
	"gorm.io/datatypes"
)

const (
	TypeVideo       = "video"
	TypeText        = "text"
	TypeInteractive = "interactive"
)

type Module struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Position    int            `gorm:"uniqueIndex;not null" json:"position"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text;not null" json:"description"`
	ModuleType  string         `gorm:"type:varchar(20);not null;default:text" json:"module_type"`
	Content     datatypes.JSON `json:"content"`
	PlaybackID  *string        `gorm:"type:varchar(255)" json:"playback_id,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Module) TableName() string { return "modules" }

type Progress struct {
	ID          uint       `gorm:"primaryKey" json:"-"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_progress_user_module" json:"user_id"`
	User        *user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ModuleID    uint       `gorm:"not null;uniqueIndex:idx_progress_user_module" json:"module_id"`
	Module      *Module    `gorm:"constraint:OnDelete:CASCADE" json:"module,omitempty"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Progress) TableName() string { return "user_module_progress" }

// PracticeQuestion belongs to a module's ungraded quiz.
type PracticeQuestion struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	ModuleID      uint                        `gorm:"not null;index" json:"module"`
	Module        *Module                     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Question      string                      `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	CorrectAnswer string                      `gorm:"type:varchar(255);not null" json:"correct_answer"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime" json:"-"`
}

func (PracticeQuestion) TableName() string { return "module_quizzes" }
