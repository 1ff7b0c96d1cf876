// Package preference содержит пользовательские настройки отображения.
// Сейчас это только тема интерфейса, которая переключается между тёмной и светлой.
package preference

import (
	"context"
	"strings"

	"github.com/masy43/Student-Management-System/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// THEME
// ══════════════════════════════════════════════════════════════════════════════

// Theme - тема интерфейса.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme используется, пока клиент ничего не сохранил.
const DefaultTheme = ThemeDark

// IsValid проверяет, что тема известна.
func (t Theme) IsValid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Toggle возвращает противоположную тему.
// Неизвестное значение считается тёмной темой.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// String возвращает строковое представление.
func (t Theme) String() string {
	return string(t)
}

// ParseTheme разбирает тему из строки без учёта регистра.
func ParseTheme(raw string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(raw)))
	if !t.IsValid() {
		return "", shared.WrapError("preference", "ParseTheme", shared.ErrInvalidInput,
			"theme must be dark or light", shared.ErrInvalidTheme)
	}
	return t, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store хранит тему для каждого клиента.
// Theme возвращает DefaultTheme, если для клиента ничего не сохранено.
type Store interface {
	Theme(ctx context.Context, clientID string) (Theme, error)
	SetTheme(ctx context.Context, clientID string, theme Theme) error
}

// Toggle переключает тему клиента и возвращает новое значение.
func Toggle(ctx context.Context, store Store, clientID string) (Theme, error) {
	current, err := store.Theme(ctx, clientID)
	if err != nil {
		return "", err
	}
	next := current.Toggle()
	if err := store.SetTheme(ctx, clientID, next); err != nil {
		return "", err
	}
	return next, nil
}
