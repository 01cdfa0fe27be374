// Package seed loads the final quiz bank and course modules from a JSON file.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/saulo-duarte/cyberaware-lambda/internal/module"
	"github.com/saulo-duarte/cyberaware-lambda/internal/quiz"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type File struct {
	Questions []Question `json:"questions"`
	Modules   []Module   `json:"modules"`
}

type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

type Module struct {
	Position    int             `json:"position"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ModuleType  string          `json:"module_type"`
	Content     json.RawMessage `json:"content"`
	PlaybackID  *string         `json:"playback_id"`
	Quiz        []Question      `json:"quiz"`
}

type Stats struct {
	Questions int
	Modules   int
}

// LoadFile reads path and syncs it into db. An empty path is a no-op.
func LoadFile(ctx context.Context, db *gorm.DB, path string) (Stats, error) {
	if path == "" {
		return Stats{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed reading seed file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return Stats{}, fmt.Errorf("failed unmarshaling seed file: %w", err)
	}
	return Sync(ctx, db, f)
}

// Sync inserts the questions and modules of f that are missing from db.
// Questions are matched by text and modules by position; existing rows are
// never modified, so answers already stored keep their meaning.
func Sync(ctx context.Context, db *gorm.DB, f File) (Stats, error) {
	if err := f.validate(); err != nil {
		return Stats{}, err
	}

	quizRepo := quiz.NewRepository(db)
	moduleRepo := module.NewRepository(db)
	var stats Stats

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var texts []string
		if err := tx.Model(&quiz.Question{}).Pluck("question", &texts).Error; err != nil {
			return fmt.Errorf("failed fetching existing questions: %w", err)
		}
		existing := make(map[string]bool, len(texts))
		for _, t := range texts {
			existing[t] = true
		}
		for _, sq := range f.Questions {
			if existing[sq.Question] {
				continue
			}
			q := &quiz.Question{
				Question:      sq.Question,
				Options:       sq.Options,
				CorrectAnswer: sq.CorrectAnswer,
				Active:        true,
			}
			if err := quizRepo.CreateQuestion(ctx, tx, q); err != nil {
				return fmt.Errorf("failed creating question %q: %w", sq.Question, err)
			}
			existing[sq.Question] = true
			stats.Questions++
		}

		var positions []int
		if err := tx.Model(&module.Module{}).Pluck("position", &positions).Error; err != nil {
			return fmt.Errorf("failed fetching existing modules: %w", err)
		}
		taken := make(map[int]bool, len(positions))
		for _, p := range positions {
			taken[p] = true
		}
		for _, sm := range f.Modules {
			if taken[sm.Position] {
				continue
			}
			m := &module.Module{
				Position:    sm.Position,
				Name:        sm.Name,
				Description: sm.Description,
				ModuleType:  sm.ModuleType,
				Content:     datatypes.JSON(sm.Content),
				PlaybackID:  sm.PlaybackID,
			}
			if m.ModuleType == "" {
				m.ModuleType = module.TypeText
			}
			if len(m.Content) == 0 {
				m.Content = datatypes.JSON("{}")
			}
			if err := moduleRepo.Create(ctx, tx, m); err != nil {
				return fmt.Errorf("failed creating module %d: %w", sm.Position, err)
			}

			practice := make([]module.PracticeQuestion, 0, len(sm.Quiz))
			for _, pq := range sm.Quiz {
				practice = append(practice, module.PracticeQuestion{
					ModuleID:      m.ID,
					Question:      pq.Question,
					Options:       pq.Options,
					CorrectAnswer: pq.CorrectAnswer,
				})
			}
			if err := moduleRepo.CreatePracticeQuestions(ctx, tx, practice); err != nil {
				return fmt.Errorf("failed creating quiz of module %d: %w", sm.Position, err)
			}
			taken[sm.Position] = true
			stats.Modules++
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	config.WithContext(ctx).WithFields(logrus.Fields{
		"questions": stats.Questions,
		"modules":   stats.Modules,
	}).Info("Seed data synced")
	return stats, nil
}

func (f File) validate() error {
	check := func(where string, q Question) error {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("%s: question text is empty", where)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%s: question %q needs at least two options", where, q.Question)
		}
		for _, o := range q.Options {
			if o == q.CorrectAnswer {
				return nil
			}
		}
		return fmt.Errorf("%s: correct answer of %q is not an option", where, q.Question)
	}

	for i, q := range f.Questions {
		if err := check(fmt.Sprintf("questions[%d]", i), q); err != nil {
			return err
		}
	}
	for i, m := range f.Modules {
		switch m.ModuleType {
		case "", module.TypeVideo, module.TypeText, module.TypeInteractive:
		default:
			return fmt.Errorf("modules[%d]: unknown module type %q", i, m.ModuleType)
		}
		for j, q := range m.Quiz {
			if err := check(fmt.Sprintf("modules[%d].quiz[%d]", i, j), q); err != nil {
				return err
			}
		}
	}
	return nil
}
