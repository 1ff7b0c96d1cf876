package student

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masy43/Student-Management-System/internal/domain/shared"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"first.last@school.edu.kz", true},
		{"a@b", false},
		{"a b@c.com", false},
		{"a@@b.com", false},
		{"@b.com", false},
		{"a@.com", false},
		{" a@b.com", false},
		{"a\vb@c.com", false},
		{"a\uFEFFb@c.com", false},
		{"a@b\u00A0c.com", false},
		{"a@b.c\u2028", false},
		{"a\u0085b@c.com", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestValidateGrade(t *testing.T) {
	assert.True(t, ValidateGrade(0))
	assert.True(t, ValidateGrade(100))
	assert.True(t, ValidateGrade(55))
	assert.False(t, ValidateGrade(101))
	assert.False(t, ValidateGrade(-1))
	assert.False(t, ValidateGrade(math.NaN()))
}

func TestValidateNameAndID(t *testing.T) {
	assert.True(t, ValidateName("Alice"))
	assert.True(t, ValidateName("  Bob  "))
	assert.False(t, ValidateName(""))
	assert.False(t, ValidateName(" \t\n"))
	assert.False(t, ValidateName("\uFEFF"))
	assert.False(t, ValidateName("\v\u00A0\u3000"))
	assert.True(t, ValidateName("\u0085"))

	assert.True(t, ValidateID("S-001"))
	assert.False(t, ValidateID("   "))
	assert.False(t, ValidateID("\uFEFF\u2029"))
}

func TestParseGrade(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"85", 85},
		{"85.9", 85},
		{" 42x", 42},
		{"+7", 7},
		{"-5", -5},
		{"0x1F", 31},
		{"007", 7},
		{"1e3", 1},
		{"\uFEFF\v12", 12},
		{"\u3000\u2028 9", 9},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGrade(tt.raw))
		})
	}

	for _, raw := range []string{"", "   ", "abc", "-", "0x", ".5", "\u00855"} {
		assert.True(t, math.IsNaN(ParseGrade(raw)), "expected NaN for %q", raw)
	}
}

func TestValidateForm_AllValid(t *testing.T) {
	result := ValidateForm(FormFields{
		Name:  "Alice",
		ID:    "1",
		Email: "alice@school.edu",
		Grade: "88",
	})

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.Err())
}

func TestValidateForm_ReportsEveryFailingField(t *testing.T) {
	result := ValidateForm(FormFields{
		Name:  " ",
		ID:    "",
		Email: "not-an-email",
		Grade: "",
	})

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 4)

	assert.Equal(t, []FieldError{
		{Field: FieldName, Message: "Please enter a valid name"},
		{Field: FieldID, Message: "Please enter a valid ID"},
		{Field: FieldEmail, Message: "Please enter a valid email"},
		{Field: FieldGrade, Message: "Grade must be between 0–100"},
	}, result.Errors)

	assert.Equal(t, MsgInvalidEmail, result.Message(FieldEmail))
	assert.Equal(t, "", result.Message(FieldDepartment))
}

func TestValidateForm_GradeOutOfRange(t *testing.T) {
	result := ValidateForm(FormFields{Name: "A", ID: "1", Email: "a@b.co", Grade: "101"})

	assert.False(t, result.Valid)
	assert.Equal(t, MsgInvalidGrade, result.Message(FieldGrade))
}

func TestValidationError(t *testing.T) {
	err := ValidateForm(FormFields{Name: "A", ID: "", Email: "a@b.co", Grade: "50"}).Err()
	require.Error(t, err)

	assert.True(t, errors.Is(err, shared.ErrValidation))
	assert.True(t, shared.IsValidation(err))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"id": MsgInvalidID}, verr.Messages())
	assert.Contains(t, err.Error(), "id: Please enter a valid ID")
}

func TestValidateDepartment(t *testing.T) {
	for _, d := range Departments() {
		assert.True(t, ValidateDepartment(string(d)))
	}
	assert.False(t, ValidateDepartment(""))
	assert.False(t, ValidateDepartment("computer science"))
}
