package redis

import (
	"context"
	"errors"
	"time"

	"github.com/masy43/Student-Management-System/internal/domain/preference"
	"github.com/masy43/Student-Management-System/internal/domain/shared"
	"github.com/masy43/Student-Management-System/pkg/circuitbreaker"
)

// PreferenceStore хранит тему клиента в Redis под ключом prefs:theme:<clientID>.
type PreferenceStore struct {
	cache   *Cache
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// StoreOption configures a PreferenceStore.
type StoreOption func(*PreferenceStore)

// WithBreaker routes every Redis call through cb.
// Пока цепь разомкнута, хранилище отвечает ErrPreferenceStoreDown без обращения к Redis.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) StoreOption {
	return func(s *PreferenceStore) { s.breaker = cb }
}

// NewPreferenceStore создаёт хранилище поверх Cache.
func NewPreferenceStore(cache *Cache, opts ...StoreOption) *PreferenceStore {
	s := &PreferenceStore{cache: cache, ttl: TTLPreference}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Theme возвращает сохранённую тему или DefaultTheme.
// Повреждённое значение в Redis тоже даёт DefaultTheme.
func (s *PreferenceStore) Theme(ctx context.Context, clientID string) (preference.Theme, error) {
	var raw string
	err := s.guard(ctx, func(ctx context.Context) error {
		v, err := s.cache.GetString(ctx, ThemeKey(clientID))
		if errors.Is(err, ErrCacheMiss) {
			return nil
		}
		raw = v
		return err
	})
	if err != nil {
		return "", shared.WrapError("preference", "Theme", shared.ErrServiceUnavailable,
			"read theme", errors.Join(shared.ErrPreferenceStoreDown, err))
	}

	if raw == "" {
		return preference.DefaultTheme, nil
	}
	theme, err := preference.ParseTheme(raw)
	if err != nil {
		return preference.DefaultTheme, nil
	}
	return theme, nil
}

// SetTheme сохраняет тему клиента и продлевает TTL.
func (s *PreferenceStore) SetTheme(ctx context.Context, clientID string, theme preference.Theme) error {
	if !theme.IsValid() {
		_, err := preference.ParseTheme(theme.String())
		return err
	}

	err := s.guard(ctx, func(ctx context.Context) error {
		return s.cache.SetString(ctx, ThemeKey(clientID), theme.String(), s.ttl)
	})
	if err != nil {
		return shared.WrapError("preference", "SetTheme", shared.ErrServiceUnavailable,
			"write theme", errors.Join(shared.ErrPreferenceStoreDown, err))
	}
	return nil
}

func (s *PreferenceStore) guard(ctx context.Context, fn func(context.Context) error) error {
	if s.breaker == nil {
		return fn(ctx)
	}
	return s.breaker.Execute(ctx, fn)
}

var _ preference.Store = (*PreferenceStore)(nil)
