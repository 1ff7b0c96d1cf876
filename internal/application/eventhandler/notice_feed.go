// Package eventhandler содержит обработчики доменных событий.
// Обработчики реагируют на изменения в ростере и запускают побочные эффекты,
// такие как уведомления для клиента.
package eventhandler

import (
	"fmt"
	"slices"
	"sync"

	"github.com/masy43/Student-Management-System/internal/domain/notification"
	"github.com/masy43/Student-Management-System/internal/domain/shared"
	"github.com/masy43/Student-Management-System/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// NOTICE FEED
// Хранит последние уведомления о добавлении и удалении студентов.
// Клиент забирает их через GET /api/v1/notifications и показывает как тосты.
// ═══════════════════════════════════════════════════════════════════════════

// DefaultNoticeLimit - сколько уведомлений хранится по умолчанию.
const DefaultNoticeLimit = 20

// Subscriber - часть шины событий, нужная ленте.
type Subscriber interface {
	Subscribe(eventType shared.EventType, handler shared.EventHandler) error
}

// NoticeFeed - ограниченная лента уведомлений. Старые вытесняются новыми.
type NoticeFeed struct {
	mu      sync.RWMutex
	limit   int
	notices []notification.Notice
	log     *logger.Logger
}

// NewNoticeFeed создаёт ленту на limit записей.
func NewNoticeFeed(limit int, log *logger.Logger) *NoticeFeed {
	if limit <= 0 {
		limit = DefaultNoticeLimit
	}
	if log == nil {
		log = logger.Nop()
	}
	return &NoticeFeed{
		limit:   limit,
		notices: make([]notification.Notice, 0, limit),
		log:     log.With(logger.Component("notice_feed")),
	}
}

// Register подписывает ленту на события ростера.
func (f *NoticeFeed) Register(bus Subscriber) error {
	if err := bus.Subscribe(shared.EventStudentAdded, f.OnStudentAdded); err != nil {
		return fmt.Errorf("subscribe %s: %w", shared.EventStudentAdded, err)
	}
	if err := bus.Subscribe(shared.EventStudentRemoved, f.OnStudentRemoved); err != nil {
		return fmt.Errorf("subscribe %s: %w", shared.EventStudentRemoved, err)
	}
	return nil
}

// OnStudentAdded обрабатывает roster.student_added.
func (f *NoticeFeed) OnStudentAdded(event shared.Event) error {
	name, err := studentName(event)
	if err != nil {
		return err
	}
	f.Notify(notification.StudentAdded(name))
	return nil
}

// OnStudentRemoved обрабатывает roster.student_removed.
func (f *NoticeFeed) OnStudentRemoved(event shared.Event) error {
	name, err := studentName(event)
	if err != nil {
		return err
	}
	f.Notify(notification.StudentRemoved(name))
	return nil
}

// Notify добавляет уведомление в ленту.
func (f *NoticeFeed) Notify(n notification.Notice) {
	f.mu.Lock()
	if len(f.notices) == f.limit {
		f.notices = slices.Delete(f.notices, 0, 1)
	}
	f.notices = append(f.notices, n)
	f.mu.Unlock()

	f.log.Debug("notice queued",
		logger.String("kind", string(n.Kind)),
		logger.String("message", n.Message),
	)
}

// Recent возвращает до n уведомлений, новые первыми. n <= 0 означает все.
func (f *NoticeFeed) Recent(n int) []notification.Notice {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if n <= 0 || n > len(f.notices) {
		n = len(f.notices)
	}
	out := make([]notification.Notice, 0, n)
	for i := len(f.notices) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, f.notices[i])
	}
	return out
}

// Len возвращает количество уведомлений в ленте.
func (f *NoticeFeed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.notices)
}

var _ notification.Notifier = (*NoticeFeed)(nil)

func studentName(event shared.Event) (string, error) {
	switch e := event.(type) {
	case shared.StudentAddedEvent:
		return e.Name, nil
	case *shared.StudentAddedEvent:
		return e.Name, nil
	case shared.StudentRemovedEvent:
		return e.Name, nil
	case *shared.StudentRemovedEvent:
		return e.Name, nil
	}
	if name, ok := event.Payload()["name"].(string); ok {
		return name, nil
	}
	return "", fmt.Errorf("event %s: missing student name", event.EventType())
}
