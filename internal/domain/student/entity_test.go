package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandle_IsValid(t *testing.T) {
	assert.True(t, Handle("tourist").IsValid())
	assert.True(t, Handle("Um_nik").IsValid())
	assert.False(t, Handle("a").IsValid())
	assert.False(t, Handle("").IsValid())
	assert.False(t, Handle("has space").IsValid())
	assert.False(t, Handle("tab\there").IsValid())
}

func TestNewStudent(t *testing.T) {
	st, err := NewStudent(NewStudentParams{
		ID:     "some-id",
		Handle: "student42",
		Name:   "  Aida  ",
		Email:  "aida@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Aida", st.Name, "name must be trimmed")
	assert.True(t, st.EmailEnabled)
	assert.True(t, st.NeverSynced())
	assert.False(t, st.CreatedAt.IsZero())
}

func TestNewStudent_Validation(t *testing.T) {
	_, err := NewStudent(NewStudentParams{Handle: "student42", Name: "X"})
	assert.Error(t, err, "missing id")

	_, err = NewStudent(NewStudentParams{ID: "id", Handle: "a", Name: "X"})
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, err = NewStudent(NewStudentParams{ID: "id", Handle: "student42", Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewStudent(NewStudentParams{ID: "id", Handle: "student42", Name: "X", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestChangeHandle_ClearsSyncState(t *testing.T) {
	st, _ := NewStudent(NewStudentParams{ID: "id", Handle: "oldhandle", Name: "X"})
	st.SyncedWith(time.Now())
	assert.False(t, st.NeverSynced())

	assert.NoError(t, st.ChangeHandle("newhandle"))

	assert.Equal(t, Handle("newhandle"), st.Handle)
	assert.True(t, st.NeverSynced())
	assert.True(t, st.HandleChangedSinceSync())
}

func TestChangeHandle_SameHandleIsNoop(t *testing.T) {
	st, _ := NewStudent(NewStudentParams{ID: "id", Handle: "student42", Name: "X"})
	synced := time.Now()
	st.SyncedWith(synced)

	assert.NoError(t, st.ChangeHandle("student42"))

	assert.False(t, st.NeverSynced())
	assert.False(t, st.HandleChangedSinceSync())
}

func TestSyncedWith_RecordsHandle(t *testing.T) {
	st, _ := NewStudent(NewStudentParams{ID: "id", Handle: "student42", Name: "X"})
	at := time.Now()

	st.SyncedWith(at)

	assert.Equal(t, at, st.LastSyncedAt)
	assert.Equal(t, st.Handle, st.LastSyncedHandle)
	assert.False(t, st.HandleChangedSinceSync())
}

func TestRecordReminder(t *testing.T) {
	st, _ := NewStudent(NewStudentParams{ID: "id", Handle: "student42", Name: "X"})

	assert.True(t, st.RecordReminder())
	assert.Equal(t, 1, st.ReminderCount)

	st.SetEmailEnabled(false)
	assert.False(t, st.RecordReminder())
	assert.Equal(t, 1, st.ReminderCount)
}

func TestClone(t *testing.T) {
	st, _ := NewStudent(NewStudentParams{ID: "id", Handle: "student42", Name: "X"})
	clone := st.Clone()

	clone.Name = "Changed"
	assert.Equal(t, "X", st.Name)

	var nilStudent *Student
	assert.Nil(t, nilStudent.Clone())
}
