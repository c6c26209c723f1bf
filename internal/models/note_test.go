package models

import (
	"testing"
	"time"
)

func TestNewNote(t *testing.T) {
	before := time.Now()
	n := NewNote(1, "first visit")
	if n.Index != 1 {
		t.Errorf("Index = %d; want 1", n.Index)
	}
	if n.Text != "first visit" {
		t.Errorf("Text = %q; want %q", n.Text, "first visit")
	}
	if n.Timestamp.Before(before) {
		t.Errorf("Timestamp = %v; want not before %v", n.Timestamp, before)
	}
}

func TestNoteRevise(t *testing.T) {
	n := NewNote(3, "old")
	stamped := n.Timestamp

	n.Revise("new")
	if n.Text != "new" {
		t.Errorf("Text = %q; want %q", n.Text, "new")
	}
	if n.Index != 3 {
		t.Errorf("Index = %d; want 3 (stable across revisions)", n.Index)
	}
	if n.Timestamp.Before(stamped) {
		t.Errorf("Timestamp moved backwards: %v before %v", n.Timestamp, stamped)
	}
}

func TestNoteEqual(t *testing.T) {
	a := NewNote(1, "checkup")
	b := &Note{Index: 1, Text: "checkup", Timestamp: time.Now().Add(time.Hour)}
	if !a.Equal(b) {
		t.Error("notes with equal index and text should be equal regardless of timestamp")
	}

	c := NewNote(2, "checkup")
	if a.Equal(c) {
		t.Error("notes with different indexes should not be equal")
	}

	d := NewNote(1, "other")
	if a.Equal(d) {
		t.Error("notes with different text should not be equal")
	}

	var nilNote *Note
	if a.Equal(nilNote) {
		t.Error("note should not equal nil")
	}
	if !nilNote.Equal(nil) {
		t.Error("two nil notes should be equal")
	}
}
