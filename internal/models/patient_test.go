package models

import "testing"

func newTestPatient() *Patient {
	return NewPatient(1, "Ann", "2000-01-01", "555", "a@x", "Addr")
}

func TestPatientEqual(t *testing.T) {
	a := newTestPatient()
	b := newTestPatient()
	if !a.Equal(b) {
		t.Error("patients with identical demographics should be equal")
	}

	b.Record = NewPatientRecord(1, nil)
	if !a.Equal(b) {
		t.Error("the attached record should not affect equality")
	}

	c := newTestPatient()
	c.Name = "Bob"
	if a.Equal(c) {
		t.Error("patients with different names should not be equal")
	}

	d := newTestPatient()
	d.PHN = 2
	if a.Equal(d) {
		t.Error("patients with different PHNs should not be equal")
	}

	var nilPatient *Patient
	if a.Equal(nilPatient) {
		t.Error("patient should not equal nil")
	}
}

func TestPatientApplyUpdate(t *testing.T) {
	p := newTestPatient()
	record := NewPatientRecord(1, nil)
	p.Record = record

	p.ApplyUpdate(2, "Ann Lee", "2000-01-02", "556", "b@x", "Addr 2")

	want := NewPatient(2, "Ann Lee", "2000-01-02", "556", "b@x", "Addr 2")
	if !p.Equal(want) {
		t.Errorf("patient after ApplyUpdate = %+v; want %+v", p, want)
	}
	if p.Record != record {
		t.Error("ApplyUpdate should preserve the attached record")
	}
}
