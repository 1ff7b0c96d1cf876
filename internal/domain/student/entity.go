// Package student содержит доменную модель записи студента в ведомости.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package student

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет успеваемость студента, вычисляемую из оценки.
type Status string

const (
	// StatusPassed - оценка 70 и выше.
	StatusPassed Status = "passed"
	// StatusAverage - оценка от 50 до 69.
	StatusAverage Status = "average"
	// StatusFailed - оценка ниже 50.
	StatusFailed Status = "failed"
)

// Пороговые значения оценки.
const (
	PassingGrade = 70
	AverageGrade = 50

	MinGrade = 0
	MaxGrade = 100
)

// GetStatus вычисляет статус по оценке. Функция тотальна на всём диапазоне int.
func GetStatus(grade int) Status {
	if grade >= PassingGrade {
		return StatusPassed
	}
	if grade >= AverageGrade {
		return StatusAverage
	}
	return StatusFailed
}

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusPassed, StatusAverage, StatusFailed:
		return true
	default:
		return false
	}
}

// Rank возвращает порядок статуса: failed < average < passed.
func (s Status) Rank() int {
	switch s {
	case StatusPassed:
		return 2
	case StatusAverage:
		return 1
	default:
		return 0
	}
}

// Label возвращает подпись статуса для отображения в таблице.
func (s Status) Label() string {
	switch s {
	case StatusPassed:
		return "Passed"
	case StatusFailed:
		return "Failed"
	default:
		return "Average"
	}
}

// GradeBand - цветовая полоса оценки в таблице.
type GradeBand string

const (
	GradeBandHigh GradeBand = "high"
	GradeBandMid  GradeBand = "mid"
	GradeBandLow  GradeBand = "low"
)

// BandOf возвращает полосу для оценки (те же пороги, что и у статуса).
func BandOf(grade int) GradeBand {
	switch GetStatus(grade) {
	case StatusPassed:
		return GradeBandHigh
	case StatusAverage:
		return GradeBandMid
	default:
		return GradeBandLow
	}
}

// Department - факультет студента из фиксированного списка.
type Department string

const (
	DepartmentComputerScience Department = "Computer Science"
	DepartmentEngineering     Department = "Engineering"
	DepartmentMathematics     Department = "Mathematics"
	DepartmentPhysics         Department = "Physics"
	DepartmentBusiness        Department = "Business"
)

// Departments возвращает все допустимые факультеты в порядке отображения.
func Departments() []Department {
	return []Department{
		DepartmentComputerScience,
		DepartmentEngineering,
		DepartmentMathematics,
		DepartmentPhysics,
		DepartmentBusiness,
	}
}

// IsValid проверяет, что факультет входит в фиксированный список.
func (d Department) IsValid() bool {
	for _, known := range Departments() {
		if d == known {
			return true
		}
	}
	return false
}

// String возвращает строковое представление факультета.
func (d Department) String() string {
	return string(d)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record - запись студента в ведомости.
// Status всегда равен GetStatus(Grade) и не меняется отдельно от оценки.
type Record struct {
	// ID - идентификатор студента (регистр учитывается).
	ID string `json:"id"`

	// Name - имя, уникальное без учёта регистра.
	Name string `json:"name"`

	// Email - адрес вида local@domain.tld.
	Email string `json:"email"`

	// Grade - оценка 0-100.
	Grade int `json:"grade"`

	// Department - факультет.
	Department Department `json:"department"`

	// Status - производный статус.
	Status Status `json:"status"`
}

// NewRecord собирает запись из уже проверенных полей: обрезает пробелы
// и вычисляет статус. Проверку полей выполняет ValidateForm.
func NewRecord(id, name, email string, grade int, department Department) Record {
	return Record{
		ID:         trimForm(id),
		Name:       trimForm(name),
		Email:      trimForm(email),
		Grade:      grade,
		Department: department,
		Status:     GetStatus(grade),
	}
}

// Band возвращает цветовую полосу оценки записи.
func (r Record) Band() GradeBand {
	return BandOf(r.Grade)
}
