package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoticeWording(t *testing.T) {
	added := StudentAdded("Alice")
	assert.Equal(t, "Alice added successfully", added.Message)
	assert.Equal(t, KindSuccess, added.Kind)
	assert.NotEmpty(t, added.ID)
	assert.False(t, added.CreatedAt.IsZero())

	removed := StudentRemoved("Alice")
	assert.Equal(t, "Alice removed", removed.Message)
	assert.Equal(t, KindError, removed.Kind)

	rejected := Rejected("Student name already exists")
	assert.Equal(t, KindError, rejected.Kind)
}

func TestNewNotice_UnknownKind(t *testing.T) {
	assert.Equal(t, KindSuccess, NewNotice(Kind("warning"), "x").Kind)
	assert.NotEqual(t, NewNotice(KindError, "a").ID, NewNotice(KindError, "a").ID)
}
