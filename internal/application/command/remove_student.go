package command

import (
	"context"
	"strings"

	"github.com/masy43/Student-Management-System/internal/domain/shared"
	"github.com/masy43/Student-Management-System/internal/domain/student"
	"github.com/masy43/Student-Management-System/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE STUDENT COMMAND
// Deletes a record by exact id. A missing id leaves the roster untouched.
// ══════════════════════════════════════════════════════════════════════════════

// RemoveStudentCommand identifies the record to delete.
type RemoveStudentCommand struct {
	// StudentID is compared case-sensitively and without trimming.
	StudentID string

	// CorrelationID for tracing.
	CorrelationID string
}

// RemoveStudentResult contains the removed record.
// Found is false when no record had the id; Record and Events are then empty.
type RemoveStudentResult struct {
	Record student.Record
	Found  bool
	Events []shared.Event
}

// RemoveStudentHandler handles the RemoveStudentCommand.
type RemoveStudentHandler struct {
	roster         Roster
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewRemoveStudentHandler creates a new RemoveStudentHandler.
func NewRemoveStudentHandler(r Roster, eventPublisher shared.EventPublisher, log *logger.Logger) *RemoveStudentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RemoveStudentHandler{
		roster:         r,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("command"), logger.Operation("remove_student")),
	}
}

// Handle executes the remove student command.
// An absent id is a no-op reported with Found=false, not an error.
func (h *RemoveStudentHandler) Handle(ctx context.Context, cmd RemoveStudentCommand) (*RemoveStudentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd.StudentID) == "" {
		return nil, shared.NewDomainError("roster", "Delete", shared.ErrInvalidInput, "student id is required")
	}

	rec, found := h.roster.Delete(cmd.StudentID)
	if !found {
		h.log.Debug("student not found, nothing removed", logger.StudentID(cmd.StudentID))
		return &RemoveStudentResult{Found: false}, nil
	}

	event := shared.NewStudentRemovedEvent(rec.ID, rec.Name)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.WithCorrelationID(cmd.CorrelationID)
	}

	if h.eventPublisher != nil {
		if err := h.eventPublisher.Publish(event); err != nil {
			h.log.Warn("failed to publish event", logger.StudentID(rec.ID), logger.Err(err))
		}
	}

	h.log.Info("student removed", logger.StudentID(rec.ID), logger.StudentName(rec.Name))

	return &RemoveStudentResult{
		Record: rec,
		Found:  true,
		Events: []shared.Event{event},
	}, nil
}
