package query

import (
	"context"
	"errors"

	"github.com/masy43/Student-Management-System/internal/domain/notification"
	"github.com/masy43/Student-Management-System/internal/domain/preference"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET THEME / GET NOTIFICATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetThemeHandler возвращает тему клиента.
type GetThemeHandler struct {
	store preference.Store
}

// NewGetThemeHandler создаёт новый обработчик.
func NewGetThemeHandler(store preference.Store) *GetThemeHandler {
	return &GetThemeHandler{store: store}
}

// Handle выполняет запрос.
func (h *GetThemeHandler) Handle(ctx context.Context, clientID string) (preference.Theme, error) {
	if clientID == "" {
		return "", errors.New("get_theme: client_id is required")
	}
	return h.store.Theme(ctx, clientID)
}

// NoticeSource - лента уведомлений.
type NoticeSource interface {
	Recent(n int) []notification.Notice
}

// GetNotificationsHandler возвращает последние уведомления.
type GetNotificationsHandler struct {
	source NoticeSource
}

// NewGetNotificationsHandler создаёт новый обработчик.
func NewGetNotificationsHandler(source NoticeSource) *GetNotificationsHandler {
	return &GetNotificationsHandler{source: source}
}

// Handle возвращает до limit уведомлений, новые первыми. limit <= 0 - все.
func (h *GetNotificationsHandler) Handle(ctx context.Context, limit int) ([]notification.Notice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.source.Recent(limit), nil
}
