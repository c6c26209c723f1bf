package models

// NoteStore defines the note operations a patient record delegates to.
type NoteStore interface {
	// Create allocates the next index, builds a note stamped with the
	// current time, stores it, and returns it. It never fails.
	Create(text string) *Note
	// Search returns the note at the given index, or nil if absent.
	Search(index int) *Note
	// RetrieveByText returns every note whose text contains the given
	// string as a literal, case-sensitive substring.
	RetrieveByText(text string) []*Note
	// Revise replaces the text of the note at the given index and
	// refreshes its timestamp. It returns false if the index is absent.
	Revise(index int, text string) bool
	// Delete removes the note at the given index. It returns false if
	// the index is absent. Deleted indexes are never reused.
	Delete(index int) bool
	// ListAll returns every note, most recently created first.
	ListAll() []*Note
}

// PatientRecord binds a patient identifier to the store holding that
// patient's notes. It exists for the lifetime of its owning Patient and
// forwards every note operation to the store.
type PatientRecord struct {
	// PHN identifies the patient the record belongs to.
	PHN int
	// Notes is the store owning the patient's note collection.
	Notes NoteStore
}

// NewPatientRecord binds a patient identifier to its note store.
func NewPatientRecord(phn int, notes NoteStore) *PatientRecord {
	return &PatientRecord{PHN: phn, Notes: notes}
}

// CreateNote adds a note with the given text to the patient's chart.
func (r *PatientRecord) CreateNote(text string) *Note {
	return r.Notes.Create(text)
}

// RetrieveNotes returns the notes whose text contains the given string.
func (r *PatientRecord) RetrieveNotes(text string) []*Note {
	return r.Notes.RetrieveByText(text)
}

// SearchNote returns the note at the given index, or nil if absent.
func (r *PatientRecord) SearchNote(index int) *Note {
	return r.Notes.Search(index)
}

// UpdateNote replaces the text of the note at the given index. It returns
// false if the note does not exist.
func (r *PatientRecord) UpdateNote(index int, text string) bool {
	return r.Notes.Revise(index, text)
}

// DeleteNote removes the note at the given index. It returns false if the
// note does not exist.
func (r *PatientRecord) DeleteNote(index int) bool {
	return r.Notes.Delete(index)
}

// ListNotes returns the patient's notes, most recently created first.
func (r *PatientRecord) ListNotes() []*Note {
	return r.Notes.ListAll()
}
