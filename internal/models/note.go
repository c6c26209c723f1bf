// Package models defines the core data structures for patients, their
// records, and chart notes.
package models

import "time"

// Note is a single free-text annotation in a patient's chart.
type Note struct {
	// Index is the note's key within its store, unique per patient,
	// assigned at creation and never reused after deletion.
	Index int `json:"index"`
	// Text is the body of the note.
	Text string `json:"text"`
	// Timestamp records when the note was created or last revised.
	Timestamp time.Time `json:"timestamp"`
}

// NewNote builds a note with the given index and text, stamped with the
// current time.
func NewNote(index int, text string) *Note {
	return &Note{
		Index:     index,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Revise replaces the note text and refreshes the timestamp. The index is
// stable across revisions.
func (n *Note) Revise(text string) {
	n.Text = text
	n.Timestamp = time.Now()
}

// Equal reports whether two notes carry the same index and text.
// Timestamps are excluded: they are non-deterministic and not control data.
func (n *Note) Equal(other *Note) bool {
	if n == nil || other == nil {
		return n == nil && other == nil
	}
	return n.Index == other.Index && n.Text == other.Text
}
