package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteDAOCreateAllocatesSequentialIndexes(t *testing.T) {
	dao := NewNoteDAO(t.TempDir(), 1, false, nil)

	first := dao.Create("first visit")
	second := dao.Create("follow up")

	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 2, second.Index)
	assert.Equal(t, 2, dao.Count())
}

func TestNoteDAODeletedIndexIsNeverRecycled(t *testing.T) {
	dao := NewNoteDAO(t.TempDir(), 1, false, nil)

	first := dao.Create("first")
	require.Equal(t, 1, first.Index)
	require.True(t, dao.Delete(1))

	second := dao.Create("second")
	assert.Equal(t, 2, second.Index, "deleting note 1 must not free index 1")
	assert.Nil(t, dao.Search(1))
}

func TestNoteDAOSearch(t *testing.T) {
	dao := NewNoteDAO(t.TempDir(), 1, false, nil)
	created := dao.Create("checkup")

	found := dao.Search(created.Index)
	require.NotNil(t, found)
	assert.True(t, created.Equal(found))

	assert.Nil(t, dao.Search(99), "absent index is a nil result, not an error")
}

func TestNoteDAORetrieveByText(t *testing.T) {
	dao := NewNoteDAO(t.TempDir(), 1, false, nil)
	dao.Create("blood pressure elevated")
	dao.Create("prescribed rest")
	dao.Create("blood work ordered")

	matches := dao.RetrieveByText("blood")
	require.Len(t, matches, 2)
	assert.Equal(t, 1, matches[0].Index, "matches keep creation order")
	assert.Equal(t, 3, matches[1].Index)

	assert.Empty(t, dao.RetrieveByText("Blood"), "matching is case-sensitive")
	assert.Empty(t, dao.RetrieveByText("surgery"))
}

func TestNoteDAORevise(t *testing.T) {
	dao := NewNoteDAO(t.TempDir(), 1, false, nil)
	note := dao.Create("initial")
	stamped := note.Timestamp

	require.True(t, dao.Revise(note.Index, "revised"))

	found := dao.Search(note.Index)
	require.NotNil(t, found)
	assert.Equal(t, "revised", found.Text)
	assert.Equal(t, note.Index, found.Index)
	assert.False(t, found.Timestamp.Before(stamped))

	assert.False(t, dao.Revise(99, "whatever"), "absent index reports false, no error")
}

func TestNoteDAOListAllNewestFirst(t *testing.T) {
	dao := NewNoteDAO(t.TempDir(), 1, false, nil)
	dao.Create("A")
	dao.Create("B")
	dao.Create("C")

	notes := dao.ListAll()
	require.Len(t, notes, 3)
	assert.Equal(t, "C", notes[0].Text)
	assert.Equal(t, "B", notes[1].Text)
	assert.Equal(t, "A", notes[2].Text)
}

func TestNoteDAOPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	dao := NewNoteDAO(dir, 7, true, nil)
	created := dao.Create("first visit")
	dao.Create("follow up")
	require.True(t, dao.Delete(2))

	reloaded := NewNoteDAO(dir, 7, true, nil)
	assert.Equal(t, 1, reloaded.Count())

	found := reloaded.Search(1)
	require.NotNil(t, found)
	assert.True(t, created.Equal(found))
	assert.Equal(t, created.Timestamp.Unix(), found.Timestamp.Unix(),
		"timestamps survive the round trip")
}

func TestNoteDAOPersistenceIsPerPatient(t *testing.T) {
	dir := t.TempDir()

	NewNoteDAO(dir, 1, true, nil).Create("for patient 1")
	NewNoteDAO(dir, 2, true, nil).Create("for patient 2")

	reloaded := NewNoteDAO(dir, 1, true, nil)
	notes := reloaded.ListAll()
	require.Len(t, notes, 1)
	assert.Equal(t, "for patient 1", notes[0].Text)
}

func TestNoteDAOCorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "records"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "records", "5.dat"), []byte("not gob"), 0o644))

	dao := NewNoteDAO(dir, 5, true, nil)
	assert.Equal(t, 0, dao.Count())

	// The store stays usable and overwrites the bad file on first mutation.
	note := dao.Create("fresh start")
	assert.Equal(t, 1, note.Index)
}

func TestNoteDAONoPersistenceWritesNothing(t *testing.T) {
	dir := t.TempDir()

	dao := NewNoteDAO(dir, 3, false, nil)
	dao.Create("in memory only")

	_, err := os.Stat(filepath.Join(dir, "records", "3.dat"))
	assert.True(t, os.IsNotExist(err))
}
