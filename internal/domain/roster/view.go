package roster

import (
	"strings"

	"github.com/masy43/Student-Management-System/internal/domain/shared"
	"github.com/masy43/Student-Management-System/internal/domain/student"
)

// FilterMode - фильтр по статусу.
type FilterMode string

const (
	// FilterAll - без фильтра. Только так видны записи со статусом average.
	FilterAll FilterMode = "all"
	// FilterPassed - только passed.
	FilterPassed FilterMode = "passed"
	// FilterFailed - только failed.
	FilterFailed FilterMode = "failed"
)

// ParseFilterMode разбирает значение фильтра. Пустая строка означает FilterAll.
func ParseFilterMode(s string) (FilterMode, error) {
	switch mode := FilterMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPassed, FilterFailed:
		return mode, nil
	default:
		return "", shared.WrapError("roster", "ParseFilterMode", shared.ErrInvalidInput, "unknown filter mode "+s, shared.ErrInvalidFilter)
	}
}

// keep сообщает, проходит ли запись фильтр. Неизвестный режим ведёт себя как FilterAll.
func (m FilterMode) keep(r student.Record) bool {
	switch m {
	case FilterPassed:
		return r.Status == student.StatusPassed
	case FilterFailed:
		return r.Status == student.StatusFailed
	default:
		return true
	}
}

// SortMode - порядок сортировки представления.
type SortMode string

const (
	// SortNone - порядок добавления.
	SortNone SortMode = "none"
	// SortName - по имени, по возрастанию с учётом локали.
	SortName SortMode = "name"
	// SortGrade - по оценке, по убыванию.
	SortGrade SortMode = "grade"
	// SortDepartment - по факультету, по возрастанию с учётом локали.
	SortDepartment SortMode = "department"
)

// ParseSortMode разбирает значение сортировки. Пустая строка означает SortNone.
func ParseSortMode(s string) (SortMode, error) {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return SortNone, nil
	case SortNone, SortName, SortGrade, SortDepartment:
		return mode, nil
	default:
		return "", shared.WrapError("roster", "ParseSortMode", shared.ErrInvalidInput, "unknown sort mode "+s, shared.ErrInvalidSort)
	}
}

// ViewQuery - параметры представления: поиск, затем фильтр, затем сортировка.
type ViewQuery struct {
	Search string
	Filter FilterMode
	Sort   SortMode
}

// Stats - сводка по всей ведомости (не по представлению).
type Stats struct {
	Total        int `json:"total"`
	AverageGrade int `json:"average_grade"`
	PassedCount  int `json:"passed_count"`
	FailedCount  int `json:"failed_count"`
}
