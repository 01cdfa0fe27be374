package module

import (
	"encoding/json"
	"fmt"
)

const playbackURLFormat = "https://stream.mux.com/%s.m3u8"

type Summary struct {
	ID          uint    `json:"id"`
	Position    int     `json:"position"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ModuleType  string  `json:"module_type"`
	PlaybackID  *string `json:"mux_playback,omitempty"`
	PlaybackURL *string `json:"mux_playback_url,omitempty"`
}

type DashboardModule struct {
	Summary
	Completed bool `json:"completed"`
	Unlocked  bool `json:"unlocked"`
}

type DashboardResponse struct {
	Modules             []DashboardModule `json:"modules"`
	CompletedModules    int               `json:"completed_modules"`
	TotalModules        int               `json:"total_modules"`
	PercentageCompleted float64           `json:"percentage_completed"`
}

type ProgressResponse struct {
	Module    Summary `json:"module"`
	Completed bool    `json:"completed"`
}

type Detail struct {
	Summary
	Content   json.RawMessage `json:"content"`
	Completed bool            `json:"completed"`
}

type PracticeQuestionResponse struct {
	ID            uint     `json:"id"`
	Module        uint     `json:"module"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

func ToSummary(m *Module) Summary {
	s := Summary{
		ID:          m.ID,
		Position:    m.Position,
		Name:        m.Name,
		Description: m.Description,
		ModuleType:  m.ModuleType,
		PlaybackID:  m.PlaybackID,
	}
	if m.PlaybackID != nil && *m.PlaybackID != "" {
		url := fmt.Sprintf(playbackURLFormat, *m.PlaybackID)
		s.PlaybackURL = &url
	}
	return s
}

func ToPracticeResponse(q *PracticeQuestion) PracticeQuestionResponse {
	return PracticeQuestionResponse{
		ID:            q.ID,
		Module:        q.ModuleID,
		Question:      q.Question,
		Options:       []string(q.Options),
		CorrectAnswer: q.CorrectAnswer,
	}
}
