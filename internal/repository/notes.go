// Package repository provides the file-backed data-access objects that own
// the patient and note collections and their persistence.
package repository

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/clinicstack/cliniccore/internal/models"
	"go.uber.org/zap"
)

// NoteDAO owns the ordered note collection for one patient and persists it
// to a per-patient file. It implements models.NoteStore.
type NoteDAO struct {
	mu sync.Mutex
	// phn identifies the patient the collection belongs to.
	phn int
	// persist enables the whole-file rewrite after every mutation.
	persist bool
	// path is the patient's record file, <dataDir>/records/<phn>.dat.
	path string
	// notes maps note index to note.
	notes map[int]*models.Note
	// nextIndex is the highest index allocated so far. It never
	// decreases, so deleted indexes are not handed out again.
	nextIndex int
	log       *zap.Logger
}

// recordsDir is the subdirectory of the data directory holding one note
// file per patient.
const recordsDir = "records"

// NewNoteDAO builds the note store for the given patient. When persist is
// true the store loads its file from dataDir; a missing or unreadable file
// yields an empty store and is never an error.
func NewNoteDAO(dataDir string, phn int, persist bool, log *zap.Logger) *NoteDAO {
	if log == nil {
		log = zap.NewNop()
	}
	d := &NoteDAO{
		phn:     phn,
		persist: persist,
		path:    filepath.Join(dataDir, recordsDir, strconv.Itoa(phn)+".dat"),
		notes:   make(map[int]*models.Note),
		log:     log,
	}
	if persist {
		d.load()
	}
	return d
}

// load reads the note file back into memory. Any failure leaves the store
// empty; the counter resumes from the highest stored index.
func (d *NoteDAO) load() {
	f, err := os.Open(d.path)
	if err != nil {
		if !os.IsNotExist(err) {
			d.log.Warn("cannot open note file, starting empty",
				zap.Int("phn", d.phn), zap.Error(err))
		}
		return
	}
	defer f.Close()

	notes := make(map[int]*models.Note)
	if err := gob.NewDecoder(f).Decode(&notes); err != nil {
		d.log.Warn("cannot decode note file, starting empty",
			zap.Int("phn", d.phn), zap.Error(err))
		return
	}
	d.notes = notes
	for index := range notes {
		if index > d.nextIndex {
			d.nextIndex = index
		}
	}
}

// save rewrites the whole note file. Failures are logged and swallowed so
// that mutating operations keep their contracts.
func (d *NoteDAO) save() {
	if !d.persist {
		return
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		d.log.Warn("cannot create records directory", zap.Error(err))
		return
	}
	f, err := os.Create(d.path)
	if err != nil {
		d.log.Warn("cannot write note file", zap.Int("phn", d.phn), zap.Error(err))
		return
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(d.notes); err != nil {
		d.log.Warn("cannot encode note file", zap.Int("phn", d.phn), zap.Error(err))
	}
}

// sortedIndexes returns the stored indexes in ascending order. Indexes are
// allocated monotonically, so ascending index order is creation order.
func (d *NoteDAO) sortedIndexes() []int {
	indexes := make([]int, 0, len(d.notes))
	for index := range d.notes {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)
	return indexes
}

// Create allocates the next index, stores a note stamped with the current
// time, persists, and returns the note. It never fails.
func (d *NoteDAO) Create(text string) *models.Note {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextIndex++
	note := models.NewNote(d.nextIndex, text)
	d.notes[note.Index] = note
	d.save()
	d.log.Debug("note created", zap.Int("phn", d.phn), zap.Int("index", note.Index))
	return note
}

// Search returns the note at the given index, or nil if absent.
func (d *NoteDAO) Search(index int) *models.Note {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notes[index]
}

// RetrieveByText returns every note whose text contains the given string as
// a literal, case-sensitive substring, in creation order.
func (d *NoteDAO) RetrieveByText(text string) []*models.Note {
	d.mu.Lock()
	defer d.mu.Unlock()

	matches := []*models.Note{}
	for _, index := range d.sortedIndexes() {
		if note := d.notes[index]; strings.Contains(note.Text, text) {
			matches = append(matches, note)
		}
	}
	return matches
}

// Revise replaces the text of the note at the given index, refreshes its
// timestamp, and persists. It returns false if the index is absent.
func (d *NoteDAO) Revise(index int, text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	note, ok := d.notes[index]
	if !ok {
		return false
	}
	note.Revise(text)
	d.save()
	d.log.Debug("note revised", zap.Int("phn", d.phn), zap.Int("index", index))
	return true
}

// Delete removes the note at the given index and persists. It returns false
// if the index is absent. The index is never allocated again.
func (d *NoteDAO) Delete(index int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.notes[index]; !ok {
		return false
	}
	delete(d.notes, index)
	d.save()
	d.log.Debug("note deleted", zap.Int("phn", d.phn), zap.Int("index", index))
	return true
}

// ListAll returns every note, most recently created first. This ordering is
// part of the store's contract.
func (d *NoteDAO) ListAll() []*models.Note {
	d.mu.Lock()
	defer d.mu.Unlock()

	indexes := d.sortedIndexes()
	notes := make([]*models.Note, 0, len(indexes))
	for i := len(indexes) - 1; i >= 0; i-- {
		notes = append(notes, d.notes[indexes[i]])
	}
	return notes
}

// Count returns the number of live notes in the store.
func (d *NoteDAO) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.notes)
}
