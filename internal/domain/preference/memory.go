package preference

import (
	"context"
	"sync"
)

// MemoryStore - Store в памяти процесса. Используется, когда Redis отключён.
type MemoryStore struct {
	mu     sync.RWMutex
	themes map[string]Theme
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{themes: make(map[string]Theme)}
}

// Theme возвращает сохранённую тему или DefaultTheme.
func (s *MemoryStore) Theme(_ context.Context, clientID string) (Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.themes[clientID]; ok {
		return t, nil
	}
	return DefaultTheme, nil
}

// SetTheme сохраняет тему клиента.
func (s *MemoryStore) SetTheme(_ context.Context, clientID string, theme Theme) error {
	if !theme.IsValid() {
		_, err := ParseTheme(string(theme))
		return err
	}

	s.mu.Lock()
	s.themes[clientID] = theme
	s.mu.Unlock()
	return nil
}
