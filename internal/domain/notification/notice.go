// Package notification содержит доменную модель коротких уведомлений (тостов),
// которые клиент показывает после изменений в ростере.
package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// KIND
// ══════════════════════════════════════════════════════════════════════════════

// Kind определяет оформление уведомления на клиенте.
type Kind string

const (
	// KindSuccess - успешная операция (зелёный тост).
	KindSuccess Kind = "success"

	// KindError - удаление или отказ (красный тост).
	KindError Kind = "error"
)

// IsValid проверяет, что тип известен.
func (k Kind) IsValid() bool {
	return k == KindSuccess || k == KindError
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTICE
// ══════════════════════════════════════════════════════════════════════════════

// Notice - одно уведомление.
type Notice struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotice создаёт уведомление. Неизвестный kind заменяется на KindSuccess.
func NewNotice(kind Kind, message string) Notice {
	if !kind.IsValid() {
		kind = KindSuccess
	}
	return Notice{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// StudentAdded - "<name> added successfully".
func StudentAdded(name string) Notice {
	return NewNotice(KindSuccess, fmt.Sprintf("%s added successfully", name))
}

// StudentRemoved - "<name> removed".
func StudentRemoved(name string) Notice {
	return NewNotice(KindError, fmt.Sprintf("%s removed", name))
}

// Rejected - отказ в операции с готовым текстом, например "Student name already exists".
func Rejected(message string) Notice {
	return NewNotice(KindError, message)
}

// Notifier принимает уведомления для показа клиенту.
type Notifier interface {
	Notify(n Notice)
}
