package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masy43/Student-Management-System/internal/domain/notification"
	"github.com/masy43/Student-Management-System/internal/domain/preference"
	"github.com/masy43/Student-Management-System/internal/domain/roster"
	"github.com/masy43/Student-Management-System/internal/domain/shared"
	"github.com/masy43/Student-Management-System/internal/domain/student"
)

type recordingPublisher struct {
	events []shared.Event
	err    error
}

func (p *recordingPublisher) Publish(e shared.Event) error {
	p.events = append(p.events, e)
	return p.err
}

type recordingNotifier struct {
	notices []notification.Notice
}

func (n *recordingNotifier) Notify(notice notification.Notice) {
	n.notices = append(n.notices, notice)
}

func aliceFields() student.FormFields {
	return student.FormFields{
		Name:       "Alice",
		ID:         "S-1",
		Email:      "alice@school.edu",
		Grade:      "91",
		Department: "Physics",
	}
}

func TestAddStudent_PublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewAddStudentHandler(roster.New(), pub, nil, nil)

	res, err := h.Handle(context.Background(), AddStudentCommand{Fields: aliceFields(), CorrelationID: "req-1"})
	require.NoError(t, err)

	assert.Equal(t, "S-1", res.Record.ID)
	assert.Equal(t, student.StatusPassed, res.Record.Status)
	require.Len(t, pub.events, 1)

	ev, ok := pub.events[0].(shared.StudentAddedEvent)
	require.True(t, ok)
	assert.Equal(t, shared.EventStudentAdded, ev.EventType())
	assert.Equal(t, "S-1", ev.AggregateID())
	assert.Equal(t, "Alice", ev.Name)
	assert.Equal(t, "req-1", ev.CorrelationID)
}

func TestAddStudent_DuplicateNotifiesAndDoesNotPublish(t *testing.T) {
	pub := &recordingPublisher{}
	notes := &recordingNotifier{}
	h := NewAddStudentHandler(roster.New(), pub, notes, nil)
	ctx := context.Background()

	_, err := h.Handle(ctx, AddStudentCommand{Fields: aliceFields()})
	require.NoError(t, err)

	dup := aliceFields()
	dup.Name = "ALICE"
	dup.ID = "S-2"
	_, err = h.Handle(ctx, AddStudentCommand{Fields: dup})
	require.Error(t, err)
	assert.True(t, shared.IsAlreadyExists(err))

	assert.Len(t, pub.events, 1)
	require.Len(t, notes.notices, 1)
	assert.Equal(t, "Student name already exists", notes.notices[0].Message)
	assert.Equal(t, notification.KindError, notes.notices[0].Kind)
}

func TestAddStudent_ValidationFailureIsSilent(t *testing.T) {
	pub := &recordingPublisher{}
	notes := &recordingNotifier{}
	h := NewAddStudentHandler(roster.New(), pub, notes, nil)

	bad := aliceFields()
	bad.Grade = ""
	_, err := h.Handle(context.Background(), AddStudentCommand{Fields: bad})

	var verr *student.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, student.MsgInvalidGrade, verr.Messages()["grade"])
	assert.Empty(t, pub.events)
	assert.Empty(t, notes.notices)
}

func TestAddStudent_PublishFailureKeepsRecord(t *testing.T) {
	r := roster.New()
	h := NewAddStudentHandler(r, &recordingPublisher{err: errors.New("bus down")}, nil, nil)

	_, err := h.Handle(context.Background(), AddStudentCommand{Fields: aliceFields()})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
}

func TestAddStudent_CancelledContext(t *testing.T) {
	r := roster.New()
	h := NewAddStudentHandler(r, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Handle(ctx, AddStudentCommand{Fields: aliceFields()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, r.Len())
}

func TestRemoveStudent(t *testing.T) {
	r := roster.New()
	_, err := r.Add(aliceFields())
	require.NoError(t, err)

	pub := &recordingPublisher{}
	h := NewRemoveStudentHandler(r, pub, nil)

	res, err := h.Handle(context.Background(), RemoveStudentCommand{StudentID: "S-1"})
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "Alice", res.Record.Name)
	assert.Equal(t, 0, r.Len())

	require.Len(t, pub.events, 1)
	assert.Equal(t, shared.EventStudentRemoved, pub.events[0].EventType())
}

func TestRemoveStudent_NotFound(t *testing.T) {
	r := roster.New()
	_, _ = r.Add(aliceFields())
	pub := &recordingPublisher{}
	h := NewRemoveStudentHandler(r, pub, nil)

	res, err := h.Handle(context.Background(), RemoveStudentCommand{StudentID: "s-1"})
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, student.Record{}, res.Record)
	assert.Equal(t, 1, r.Len())
	assert.Empty(t, pub.events)

	_, err = h.Handle(context.Background(), RemoveStudentCommand{StudentID: "  "})
	assert.True(t, shared.IsInvalidInput(err))
}

func TestUpdatePreferences(t *testing.T) {
	store := preference.NewMemoryStore()
	h := NewUpdatePreferencesHandler(store, nil)
	ctx := context.Background()

	res, err := h.Handle(ctx, UpdatePreferencesCommand{ClientID: "c", Toggle: true})
	require.NoError(t, err)
	assert.Equal(t, preference.ThemeLight, res.Theme)
	assert.True(t, res.Changed)

	light := "light"
	res, err = h.Handle(ctx, UpdatePreferencesCommand{ClientID: "c", Theme: &light})
	require.NoError(t, err)
	assert.False(t, res.Changed)

	dark := "DARK"
	res, err = h.Handle(ctx, UpdatePreferencesCommand{ClientID: "c", Theme: &dark, Toggle: true})
	require.NoError(t, err)
	assert.Equal(t, preference.ThemeDark, res.Theme)
	assert.True(t, res.Changed)

	neon := "neon"
	_, err = h.Handle(ctx, UpdatePreferencesCommand{ClientID: "c", Theme: &neon})
	assert.ErrorIs(t, err, shared.ErrInvalidTheme)

	_, err = h.Handle(ctx, UpdatePreferencesCommand{ClientID: "c"})
	assert.Error(t, err)
	_, err = h.Handle(ctx, UpdatePreferencesCommand{Toggle: true})
	assert.Error(t, err)
}
