// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/masy43/Student-Management-System/internal/domain/notification"
	"github.com/masy43/Student-Management-System/internal/domain/roster"
	"github.com/masy43/Student-Management-System/internal/domain/shared"
	"github.com/masy43/Student-Management-System/internal/domain/student"
	"github.com/masy43/Student-Management-System/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD STUDENT COMMAND
// Validates raw form fields, inserts the record into the roster
// and announces it to subscribers.
// ══════════════════════════════════════════════════════════════════════════════

// Roster is the write side of the roster pipeline.
type Roster interface {
	Add(fields student.FormFields) (student.Record, error)
	Delete(id string) (student.Record, bool)
}

// AddStudentCommand contains the raw form values.
type AddStudentCommand struct {
	Fields student.FormFields

	// CorrelationID for tracing.
	CorrelationID string
}

// AddStudentResult contains the created record.
type AddStudentResult struct {
	Record student.Record

	// Events contains domain events generated.
	Events []shared.Event
}

// AddStudentHandler handles the AddStudentCommand.
type AddStudentHandler struct {
	roster         Roster
	eventPublisher shared.EventPublisher
	notifier       notification.Notifier
	log            *logger.Logger
}

// NewAddStudentHandler creates a new AddStudentHandler.
// notifier may be nil; then rejections are not announced.
func NewAddStudentHandler(
	r Roster,
	eventPublisher shared.EventPublisher,
	notifier notification.Notifier,
	log *logger.Logger,
) *AddStudentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AddStudentHandler{
		roster:         r,
		eventPublisher: eventPublisher,
		notifier:       notifier,
		log:            log.With(logger.Component("command"), logger.Operation("add_student")),
	}
}

// Handle executes the add student command.
// Returns *student.ValidationError or *roster.DuplicateNameError on rejection.
func (h *AddStudentHandler) Handle(ctx context.Context, cmd AddStudentCommand) (*AddStudentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := h.roster.Add(cmd.Fields)
	if err != nil {
		var dup *roster.DuplicateNameError
		if errors.As(err, &dup) && h.notifier != nil {
			h.notifier.Notify(notification.Rejected(shared.ErrDuplicateName.Message))
		}
		return nil, fmt.Errorf("add_student: %w", err)
	}

	event := shared.NewStudentAddedEvent(rec.ID, rec.Name, rec.Grade, rec.Department.String(), string(rec.Status))
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.WithCorrelationID(cmd.CorrelationID)
	}

	// Запись уже в ростере; ошибка публикации не откатывает её.
	if h.eventPublisher != nil {
		if err := h.eventPublisher.Publish(event); err != nil {
			h.log.Warn("failed to publish event", logger.StudentID(rec.ID), logger.Err(err))
		}
	}

	h.log.Info("student added",
		logger.StudentID(rec.ID),
		logger.StudentName(rec.Name),
		logger.String("status", string(rec.Status)),
	)

	return &AddStudentResult{
		Record: rec,
		Events: []shared.Event{event},
	}, nil
}
