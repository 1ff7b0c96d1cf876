package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that happened in the roster.
const (
	EventStudentAdded   EventType = "roster.student_added"
	EventStudentRemoved EventType = "roster.student_removed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventID returns the unique identifier of this event instance.
	EventID() string

	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler is a function that handles domain events.
type EventHandler func(event Event) error

// EventPublisher publishes domain events to subscribers.
type EventPublisher interface {
	Publish(event Event) error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventID implements Event interface.
func (e BaseEvent) EventID() string {
	return e.ID
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Roster Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentAddedEvent is emitted after a record has been inserted into the roster.
type StudentAddedEvent struct {
	BaseEvent
	Name       string `json:"name"`
	Grade      int    `json:"grade"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

// Payload implements Event interface.
func (e StudentAddedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"name":       e.Name,
		"grade":      e.Grade,
		"department": e.Department,
		"status":     e.Status,
	}
}

// NewStudentAddedEvent creates a new StudentAddedEvent.
func NewStudentAddedEvent(studentID, name string, grade int, department, status string) StudentAddedEvent {
	return StudentAddedEvent{
		BaseEvent:  NewBaseEvent(EventStudentAdded, studentID),
		Name:       name,
		Grade:      grade,
		Department: department,
		Status:     status,
	}
}

// StudentRemovedEvent is emitted after a record has been deleted from the roster.
type StudentRemovedEvent struct {
	BaseEvent
	Name string `json:"name"`
}

// Payload implements Event interface.
func (e StudentRemovedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"name": e.Name,
	}
}

// NewStudentRemovedEvent creates a new StudentRemovedEvent.
func NewStudentRemovedEvent(studentID, name string) StudentRemovedEvent {
	return StudentRemovedEvent{
		BaseEvent: NewBaseEvent(EventStudentRemoved, studentID),
		Name:      name,
	}
}
