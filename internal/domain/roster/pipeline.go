// Package roster владеет ведомостью студентов: добавление, удаление,
// представление (поиск, фильтр, сортировка) и сводная статистика.
package roster

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/masy43/Student-Management-System/internal/domain/shared"
	"github.com/masy43/Student-Management-System/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// DuplicateNameError - запись с таким именем (без учёта регистра) уже есть.
type DuplicateNameError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s: %q", shared.ErrDuplicateName.Message, e.Name)
}

// Is сопоставляет ошибку с shared.ErrDuplicateName и shared.ErrAlreadyExists.
func (e *DuplicateNameError) Is(target error) bool {
	return target == shared.ErrDuplicateName || target == shared.ErrAlreadyExists
}

// ══════════════════════════════════════════════════════════════════════════════
// PIPELINE
// ══════════════════════════════════════════════════════════════════════════════

// Pipeline хранит ведомость в порядке добавления.
// Add и Delete выполняются под одной блокировкой на запись целиком,
// View и Stats работают со снимком под блокировкой на чтение.
type Pipeline struct {
	mu      sync.RWMutex
	records []student.Record
	locale  language.Tag
}

// New создаёт пустую ведомость с английской локалью сортировки.
func New() *Pipeline {
	return NewWithLocale(language.English)
}

// NewWithLocale создаёт пустую ведомость с заданной локалью сортировки.
func NewWithLocale(locale language.Tag) *Pipeline {
	return &Pipeline{
		records: make([]student.Record, 0),
		locale:  locale,
	}
}

// Add проверяет поля, вычисляет статус, проверяет уникальность имени и
// добавляет запись в конец. До успешного прохождения всех проверок ведомость не меняется.
// Совпадение ID с существующей записью не проверяется.
func (p *Pipeline) Add(fields student.FormFields) (student.Record, error) {
	result := student.ValidateForm(fields)
	if !student.ValidateDepartment(fields.Department) {
		result.Errors = append(result.Errors, student.FieldError{
			Field:   student.FieldDepartment,
			Message: student.MsgInvalidDepartment,
		})
		result.Valid = false
	}
	if err := result.Err(); err != nil {
		return student.Record{}, err
	}

	grade := int(student.ParseGrade(fields.Grade))
	rec := student.NewRecord(fields.ID, fields.Name, fields.Email, grade, student.Department(fields.Department))
	key := fold(rec.Name)

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, existing := range p.records {
		if fold(existing.Name) == key {
			return student.Record{}, &DuplicateNameError{Name: rec.Name}
		}
	}

	p.records = append(p.records, rec)
	return rec, nil
}

// Delete удаляет записи с точно совпадающим ID. Возвращает первую найденную запись;
// found=false, если такой записи нет - это не ошибка, ведомость не меняется.
func (p *Pipeline) Delete(id string) (removed student.Record, found bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.records[:0:0]
	for _, r := range p.records {
		if r.ID == id {
			if !found {
				removed, found = r, true
			}
			continue
		}
		kept = append(kept, r)
	}
	if found {
		p.records = kept
	}
	return removed, found
}

// View строит свежее представление: поиск, затем фильтр, затем стабильная сортировка.
// Ведомость не меняется; результат - независимая копия.
func (p *Pipeline) View(q ViewQuery) []student.Record {
	view := p.snapshot()

	if query := fold(strings.TrimSpace(q.Search)); query != "" {
		view = slices.DeleteFunc(view, func(r student.Record) bool {
			return !matches(r, query)
		})
	}

	view = slices.DeleteFunc(view, func(r student.Record) bool {
		return !q.Filter.keep(r)
	})

	switch q.Sort {
	case SortName:
		c := collate.New(p.locale)
		slices.SortStableFunc(view, func(a, b student.Record) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortDepartment:
		c := collate.New(p.locale)
		slices.SortStableFunc(view, func(a, b student.Record) int {
			return c.CompareString(string(a.Department), string(b.Department))
		})
	case SortGrade:
		slices.SortStableFunc(view, func(a, b student.Record) int {
			return b.Grade - a.Grade
		})
	}

	return view
}

// Stats считает сводку по всей ведомости за один проход.
// Средняя оценка округляется до целого (половина - вверх), 0 для пустой ведомости.
func (p *Pipeline) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var stats Stats
	sum := 0
	for _, r := range p.records {
		sum += r.Grade
		switch r.Status {
		case student.StatusPassed:
			stats.PassedCount++
		case student.StatusFailed:
			stats.FailedCount++
		}
	}

	stats.Total = len(p.records)
	if stats.Total > 0 {
		stats.AverageGrade = int(math.Floor(float64(sum)/float64(stats.Total) + 0.5))
	}
	return stats
}

// All возвращает копию ведомости в порядке добавления.
func (p *Pipeline) All() []student.Record {
	return p.snapshot()
}

// Len возвращает количество записей.
func (p *Pipeline) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}

func (p *Pipeline) snapshot() []student.Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.records)
}

func matches(r student.Record, query string) bool {
	return strings.Contains(fold(r.Name), query) ||
		strings.Contains(fold(r.ID), query) ||
		strings.Contains(fold(r.Email), query) ||
		strings.Contains(fold(string(r.Department)), query)
}

// fold приводит строку к нижнему регистру. Caser не потокобезопасен, поэтому создаётся на вызов.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}
