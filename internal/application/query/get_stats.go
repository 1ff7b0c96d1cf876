package query

import (
	"context"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STATS QUERY
// Сводка по всему ростеру, независимо от текущего представления.
// ══════════════════════════════════════════════════════════════════════════════

// GetStatsResult - данные для карточек статистики.
type GetStatsResult struct {
	Total        int `json:"total"`
	AverageGrade int `json:"average_grade"`
	PassedCount  int `json:"passed_count"`
	FailedCount  int `json:"failed_count"`

	// AverageDisplay - средняя оценка с процентом, например "63%".
	AverageDisplay string `json:"average_display"`
}

// GetStatsHandler обрабатывает запрос статистики.
type GetStatsHandler struct {
	roster RosterReader
}

// NewGetStatsHandler создаёт новый обработчик.
func NewGetStatsHandler(r RosterReader) *GetStatsHandler {
	return &GetStatsHandler{roster: r}
}

// Handle выполняет запрос.
func (h *GetStatsHandler) Handle(ctx context.Context) (*GetStatsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := h.roster.Stats()
	return &GetStatsResult{
		Total:          s.Total,
		AverageGrade:   s.AverageGrade,
		PassedCount:    s.PassedCount,
		FailedCount:    s.FailedCount,
		AverageDisplay: fmt.Sprintf("%d%%", s.AverageGrade),
	}, nil
}
