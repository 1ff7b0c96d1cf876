package student

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/masy43/Student-Management-System/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// FORM FIELDS
// ══════════════════════════════════════════════════════════════════════════════

// FormFields - сырые значения полей формы в том виде, в каком их прислал клиент.
type FormFields struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	Email      string `json:"email"`
	Grade      string `json:"grade"`
	Department string `json:"department"`
}

// Field идентифицирует поле формы.
type Field string

const (
	FieldName       Field = "name"
	FieldID         Field = "id"
	FieldEmail      Field = "email"
	FieldGrade      Field = "grade"
	FieldDepartment Field = "department"
)

// Фиксированные сообщения для полей формы.
const (
	MsgInvalidName       = "Please enter a valid name"
	MsgInvalidID         = "Please enter a valid ID"
	MsgInvalidEmail      = "Please enter a valid email"
	MsgInvalidGrade      = "Grade must be between 0–100"
	MsgInvalidDepartment = "Please select a department"
)

// ══════════════════════════════════════════════════════════════════════════════
// FIELD PREDICATES
// ══════════════════════════════════════════════════════════════════════════════

// Классы без пробельных символов в смысле isFormSpace.
var emailRegex = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// isFormSpace - пробельный символ так, как его понимает браузерная форма:
// ASCII-пробелы, включая \v, разделители Unicode (Zs, Zl, Zp) и BOM U+FEFF.
// U+0085 (NEL) пробелом не считается.
func isFormSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\ufeff':
		return true
	}
	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}

// trimForm обрезает пробельные символы по краям значения поля.
func trimForm(s string) string {
	return strings.TrimFunc(s, isFormSpace)
}

// ValidateName - имя не пустое после обрезки пробелов.
func ValidateName(name string) bool {
	return trimForm(name) != ""
}

// ValidateID - ID не пустой после обрезки пробелов.
func ValidateID(id string) bool {
	return trimForm(id) != ""
}

// ValidateEmail проверяет адрес как есть, без обрезки: пробел по краям - ошибка.
func ValidateEmail(email string) bool {
	return email != "" && emailRegex.MatchString(email)
}

// ValidateGrade - 0 <= grade <= 100. NaN не проходит ни одно сравнение и отклоняется.
func ValidateGrade(grade float64) bool {
	return grade >= MinGrade && grade <= MaxGrade
}

// ValidateDepartment - факультет из фиксированного списка.
func ValidateDepartment(department string) bool {
	return Department(department).IsValid()
}

// ParseGrade разбирает сырое значение оценки целочисленным префиксом:
// "85.9" -> 85, " 42x" -> 42, "0x1F" -> 31. Пустая строка или отсутствие цифр дают NaN.
func ParseGrade(raw string) float64 {
	s := strings.TrimLeftFunc(raw, isFormSpace)

	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	base := 10.0
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	value, digits := 0.0, 0
	for _, c := range s {
		d := digitValue(c)
		if d < 0 || float64(d) >= base {
			break
		}
		value = value*base + float64(d)
		digits++
	}
	if digits == 0 {
		return math.NaN()
	}
	return sign * value
}

func digitValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// FORM VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// FieldError - ошибка одного поля формы.
type FieldError struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

// ValidationResult - итог проверки формы. Errors идут в порядке полей формы.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// ValidateForm прогоняет все четыре предиката (имя, ID, email, оценка)
// и возвращает общий результат с сообщениями по каждому ошибочному полю.
func ValidateForm(fields FormFields) ValidationResult {
	var result ValidationResult

	if !ValidateName(fields.Name) {
		result.Errors = append(result.Errors, FieldError{Field: FieldName, Message: MsgInvalidName})
	}
	if !ValidateID(fields.ID) {
		result.Errors = append(result.Errors, FieldError{Field: FieldID, Message: MsgInvalidID})
	}
	if !ValidateEmail(fields.Email) {
		result.Errors = append(result.Errors, FieldError{Field: FieldEmail, Message: MsgInvalidEmail})
	}
	if !ValidateGrade(ParseGrade(fields.Grade)) {
		result.Errors = append(result.Errors, FieldError{Field: FieldGrade, Message: MsgInvalidGrade})
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// Message возвращает сообщение для поля или пустую строку, если поле прошло проверку.
func (r ValidationResult) Message(field Field) string {
	for _, fe := range r.Errors {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Err возвращает *ValidationError, если форма не прошла проверку, иначе nil.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &ValidationError{Fields: r.Errors}
}

// ValidationError - одно или несколько полей формы не прошли проверку.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is позволяет сопоставлять ошибку с shared.ErrValidation через errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == shared.ErrValidation
}

// Messages возвращает сообщения в виде карты поле -> текст.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, fe := range e.Fields {
		out[string(fe.Field)] = fe.Message
	}
	return out
}
