// Package service implements the session controller that mediates every
// call into the patient registry and the selected patient's record,
// enforcing login and current-patient preconditions before delegating.
package service

import (
	"fmt"

	"github.com/clinicstack/cliniccore/internal/clinicerr"
	"github.com/clinicstack/cliniccore/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PatientRegistry defines the registry operations the controller delegates
// to.
type PatientRegistry interface {
	// Search returns the patient with the given PHN, or nil if absent.
	Search(phn int) *models.Patient
	// Create registers a new patient under the given PHN.
	Create(phn int, name, birthDate, phone, email, address string) (*models.Patient, error)
	// RetrieveByName returns the patients whose name contains the given
	// substring.
	RetrieveByName(name string) []*models.Patient
	// Update mutates the patient stored under oldPHN and re-keys it to
	// newPHN.
	Update(oldPHN, newPHN int, name, birthDate, phone, email, address string) error
	// Delete removes the patient with the given PHN.
	Delete(phn int) error
	// ListAll returns every registered patient.
	ListAll() []*models.Patient
}

// Controller owns the login state and the current-patient selection. Every
// external call passes through it; registry and note operations are only
// reachable from an active session.
type Controller struct {
	// registry is the single source of truth for patients.
	registry PatientRegistry
	// users maps username to stored credential value.
	users map[string]string
	// verifier checks supplied passwords against stored credentials.
	verifier CredentialVerifier
	// loggedIn is true while a session is active.
	loggedIn bool
	// currentPHN identifies the selected patient. Only the identifier is
	// kept; the live patient is resolved through the registry on demand.
	currentPHN *int
	// sessionID correlates log entries of one login session.
	sessionID string
	log       *zap.Logger
}

// NewController builds a session controller in the logged-out state. A nil
// verifier defaults to plaintext comparison; a nil logger discards logs.
func NewController(registry PatientRegistry, users map[string]string, verifier CredentialVerifier, log *zap.Logger) *Controller {
	if verifier == nil {
		verifier = PlainVerifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		registry: registry,
		users:    users,
		verifier: verifier,
		log:      log,
	}
}

// requireLogin fails with ErrAccessDenied unless a session is active.
func (c *Controller) requireLogin() error {
	if !c.loggedIn {
		return clinicerr.ErrAccessDenied
	}
	return nil
}

// requireCurrent resolves the selected patient through the registry,
// failing with ErrNoCurrentPatient when no patient is selected.
func (c *Controller) requireCurrent() (*models.Patient, error) {
	if c.currentPHN == nil {
		return nil, clinicerr.ErrNoCurrentPatient
	}
	p := c.registry.Search(*c.currentPHN)
	if p == nil {
		return nil, clinicerr.ErrNoCurrentPatient
	}
	return p, nil
}

// guardSelected rejects mutations that target the currently selected
// patient: they would invalidate the session's selection, so the caller
// must unset the current patient first. The check compares identifiers,
// never object identity.
func (c *Controller) guardSelected(phn int) error {
	if c.currentPHN != nil && *c.currentPHN == phn {
		return fmt.Errorf("%w: patient %d is currently selected", clinicerr.ErrIllegalOperation, phn)
	}
	return nil
}

// Login starts a session for the given user. It fails with
// ErrAlreadyLoggedIn while a session is active and with
// ErrInvalidCredentials when the user is unknown or the password does not
// verify against the stored credential.
func (c *Controller) Login(username, password string) error {
	if c.loggedIn {
		return clinicerr.ErrAlreadyLoggedIn
	}
	stored, ok := c.users[username]
	if !ok || !c.verifier.Verify(password, stored) {
		return clinicerr.ErrInvalidCredentials
	}
	c.loggedIn = true
	c.sessionID = uuid.NewString()
	c.log.Info("session started",
		zap.String("user", username), zap.String("session_id", c.sessionID))
	return nil
}

// Logout ends the session, clearing the current-patient selection. It
// fails with ErrNotLoggedIn while no session is active.
func (c *Controller) Logout() error {
	if !c.loggedIn {
		return clinicerr.ErrNotLoggedIn
	}
	c.currentPHN = nil
	c.loggedIn = false
	c.log.Info("session ended", zap.String("session_id", c.sessionID))
	c.sessionID = ""
	return nil
}

// SessionID returns the identifier of the active session, or the empty
// string while logged out.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// SearchPatient returns the patient with the given PHN, or nil if absent.
func (c *Controller) SearchPatient(phn int) (*models.Patient, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	return c.registry.Search(phn), nil
}

// CreatePatient registers a new patient under the given PHN.
func (c *Controller) CreatePatient(phn int, name, birthDate, phone, email, address string) (*models.Patient, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	return c.registry.Create(phn, name, birthDate, phone, email, address)
}

// RetrievePatients returns the patients whose name contains the given
// substring.
func (c *Controller) RetrievePatients(name string) ([]*models.Patient, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	return c.registry.RetrieveByName(name), nil
}

// UpdatePatient mutates the patient registered under oldPHN, re-keying it
// to newPHN. Updating the currently selected patient fails with
// ErrIllegalOperation; unset the current patient first.
func (c *Controller) UpdatePatient(oldPHN, newPHN int, name, birthDate, phone, email, address string) error {
	if err := c.requireLogin(); err != nil {
		return err
	}
	if err := c.guardSelected(oldPHN); err != nil {
		return err
	}
	return c.registry.Update(oldPHN, newPHN, name, birthDate, phone, email, address)
}

// DeletePatient removes the patient with the given PHN. Deleting the
// currently selected patient fails with ErrIllegalOperation; unset the
// current patient first.
func (c *Controller) DeletePatient(phn int) error {
	if err := c.requireLogin(); err != nil {
		return err
	}
	if err := c.guardSelected(phn); err != nil {
		return err
	}
	return c.registry.Delete(phn)
}

// ListPatients returns every registered patient.
func (c *Controller) ListPatients() ([]*models.Patient, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	return c.registry.ListAll(), nil
}

// GetCurrentPatient returns the selected patient, or nil when none is
// selected.
func (c *Controller) GetCurrentPatient() (*models.Patient, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	if c.currentPHN == nil {
		return nil, nil
	}
	return c.registry.Search(*c.currentPHN), nil
}

// SetCurrentPatient selects the patient with the given PHN for note
// operations. It fails with ErrIllegalOperation if the PHN is not
// registered.
func (c *Controller) SetCurrentPatient(phn int) (*models.Patient, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	p := c.registry.Search(phn)
	if p == nil {
		return nil, fmt.Errorf("%w: patient %d not registered", clinicerr.ErrIllegalOperation, phn)
	}
	c.currentPHN = &phn
	c.log.Debug("current patient set", zap.Int("phn", phn))
	return p, nil
}

// UnsetCurrentPatient clears the current-patient selection. It is
// idempotent.
func (c *Controller) UnsetCurrentPatient() error {
	if err := c.requireLogin(); err != nil {
		return err
	}
	c.currentPHN = nil
	return nil
}

// CreateNote adds a note to the selected patient's record.
func (c *Controller) CreateNote(text string) (*models.Note, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	p, err := c.requireCurrent()
	if err != nil {
		return nil, err
	}
	return p.Record.CreateNote(text), nil
}

// RetrieveNotes returns the selected patient's notes whose text contains
// the given substring.
func (c *Controller) RetrieveNotes(text string) ([]*models.Note, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	p, err := c.requireCurrent()
	if err != nil {
		return nil, err
	}
	return p.Record.RetrieveNotes(text), nil
}

// SearchNote returns the selected patient's note at the given index, or
// nil if absent.
func (c *Controller) SearchNote(index int) (*models.Note, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	p, err := c.requireCurrent()
	if err != nil {
		return nil, err
	}
	return p.Record.SearchNote(index), nil
}

// UpdateNote replaces the text of the selected patient's note at the given
// index. It returns false when the note does not exist.
func (c *Controller) UpdateNote(index int, text string) (bool, error) {
	if err := c.requireLogin(); err != nil {
		return false, err
	}
	p, err := c.requireCurrent()
	if err != nil {
		return false, err
	}
	return p.Record.UpdateNote(index, text), nil
}

// DeleteNote removes the selected patient's note at the given index. It
// returns false when the note does not exist.
func (c *Controller) DeleteNote(index int) (bool, error) {
	if err := c.requireLogin(); err != nil {
		return false, err
	}
	p, err := c.requireCurrent()
	if err != nil {
		return false, err
	}
	return p.Record.DeleteNote(index), nil
}

// ListNotes returns the selected patient's notes, most recently created
// first.
func (c *Controller) ListNotes() ([]*models.Note, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	p, err := c.requireCurrent()
	if err != nil {
		return nil, err
	}
	return p.Record.ListNotes(), nil
}
