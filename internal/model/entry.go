package model

import (
	"time"

	"github.com/cleberrangel/time-perception-api/internal/insights"
)

// Entry representa uma estimativa de tempo registrada pelo usuário
type Entry struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Category     *string   `json:"category"`
	EstimatedMin int       `json:"estimated_min"`
	ActualMin    int       `json:"actual_min"`
	Difficulty   int       `json:"difficulty"`   // 1-5
	Mood         int       `json:"mood"`         // 1-5
	Distractions int       `json:"distractions"` // 0-5
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// Estimation expõe os campos usados pelo cálculo de métricas
func (e Entry) Estimation() insights.Estimation {
	return insights.Estimation{
		EstimatedMin: e.EstimatedMin,
		ActualMin:    e.ActualMin,
		Difficulty:   e.Difficulty,
		Mood:         e.Mood,
		Distractions: e.Distractions,
		CreatedAt:    e.CreatedAt,
	}
}

// EntryCreate representa o payload de criação de um registro
type EntryCreate struct {
	Title    string  `json:"title" binding:"required,min=1,max=200"`
	Category *string `json:"category" binding:"omitempty,max=50"`

	EstimatedMin int `json:"estimated_min" binding:"required,min=1,max=1440"`
	ActualMin    int `json:"actual_min" binding:"required,min=1,max=1440"`

	Difficulty   int `json:"difficulty" binding:"required,min=1,max=5"`
	Mood         int `json:"mood" binding:"required,min=1,max=5"`
	Distractions int `json:"distractions" binding:"min=0,max=5"`

	Notes *string `json:"notes"`
}
