// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
package query

import (
	"context"

	"github.com/masy43/Student-Management-System/internal/domain/roster"
	"github.com/masy43/Student-Management-System/internal/domain/shared"
	"github.com/masy43/Student-Management-System/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// Строит представление ростера: поиск, затем фильтр, затем сортировка.
// ══════════════════════════════════════════════════════════════════════════════

// RosterReader - сторона чтения ростера.
type RosterReader interface {
	View(q roster.ViewQuery) []student.Record
	Stats() roster.Stats
	Len() int
}

// ListStudentsQuery содержит параметры в виде, в котором они пришли от клиента.
type ListStudentsQuery struct {
	// Search - подстрока для поиска по имени, email, id и факультету.
	Search string

	// Filter - all, passed или failed (пустая строка = all).
	Filter string

	// Sort - name, grade или department (пустая строка = без сортировки).
	Sort string
}

// parse разбирает режимы. Неизвестные значения отклоняются.
func (q ListStudentsQuery) parse() (roster.ViewQuery, error) {
	filter, err := roster.ParseFilterMode(q.Filter)
	if err != nil {
		return roster.ViewQuery{}, err
	}
	sortMode, err := roster.ParseSortMode(q.Sort)
	if err != nil {
		return roster.ViewQuery{}, err
	}
	return roster.ViewQuery{Search: q.Search, Filter: filter, Sort: sortMode}, nil
}

// StudentDTO - запись ростера для отображения в таблице.
type StudentDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Grade      int    `json:"grade"`
	Department string `json:"department"`

	// Status - passed, average или failed.
	Status string `json:"status"`

	// StatusLabel - подпись бейджа ("Passed", "Average", "Failed").
	StatusLabel string `json:"status_label"`

	// Band - класс полоски оценки: high, mid или low.
	Band string `json:"band"`
}

// ListStudentsResult содержит результат запроса.
type ListStudentsResult struct {
	Students []StudentDTO `json:"students"`

	// Count - количество записей в представлении.
	Count int `json:"count"`

	// Total - размер всего ростера.
	Total int `json:"total"`

	// Empty - ростер пуст (клиент показывает заглушку).
	Empty bool `json:"empty"`

	Filter string `json:"filter"`
	Sort   string `json:"sort"`
}

// ListStudentsHandler обрабатывает запрос списка студентов.
type ListStudentsHandler struct {
	roster RosterReader
}

// NewListStudentsHandler создаёт новый обработчик.
func NewListStudentsHandler(r RosterReader) *ListStudentsHandler {
	return &ListStudentsHandler{roster: r}
}

// Handle выполняет запрос.
func (h *ListStudentsHandler) Handle(ctx context.Context, q ListStudentsQuery) (*ListStudentsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view, err := q.parse()
	if err != nil {
		return nil, shared.WrapError("query", "ListStudents", shared.ErrInvalidInput, "invalid view options", err)
	}

	records := h.roster.View(view)
	total := h.roster.Len()

	students := make([]StudentDTO, 0, len(records))
	for _, r := range records {
		students = append(students, NewStudentDTO(r))
	}

	return &ListStudentsResult{
		Students: students,
		Count:    len(students),
		Total:    total,
		Empty:    total == 0,
		Filter:   string(view.Filter),
		Sort:     string(view.Sort),
	}, nil
}

// NewStudentDTO maps a roster record onto its table row.
func NewStudentDTO(r student.Record) StudentDTO {
	return StudentDTO{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Grade:       r.Grade,
		Department:  r.Department.String(),
		Status:      string(r.Status),
		StatusLabel: r.Status.Label(),
		Band:        string(r.Band()),
	}
}
