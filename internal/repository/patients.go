package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/clinicstack/cliniccore/internal/clinicerr"
	"github.com/clinicstack/cliniccore/internal/models"
	"go.uber.org/zap"
)

// patientsFile is the shared registry file inside the data directory.
const patientsFile = "patients.json"

// patientTypeTag discriminates patient records in the registry file so that
// decoding can skip entries it does not recognize.
const patientTypeTag = "Patient"

// patientRecord is the on-disk form of one registry entry. PHNs appear
// twice: as the textual map key and as the integer phn field.
type patientRecord struct {
	Type      string `json:"type"`
	PHN       int    `json:"phn"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Persisted bool   `json:"persisted"`
}

// PatientDAO owns the keyed patient collection, enforces PHN uniqueness,
// and persists the registry to a single shared file.
type PatientDAO struct {
	mu sync.Mutex
	// dataDir is the base directory for the registry file and the
	// per-patient note files.
	dataDir string
	// persist enables the whole-file rewrite after every mutation.
	persist bool
	// patients maps PHN to patient.
	patients map[int]*models.Patient
	// order tracks PHNs in insertion order so listings are stable. A
	// re-keying update keeps the patient's position.
	order []int
	log   *zap.Logger
}

// NewPatientDAO builds the registry. When persist is true the registry
// loads its file from dataDir; a missing or unreadable file yields an empty
// registry and is never an error.
func NewPatientDAO(dataDir string, persist bool, log *zap.Logger) *PatientDAO {
	if log == nil {
		log = zap.NewNop()
	}
	d := &PatientDAO{
		dataDir:  dataDir,
		persist:  persist,
		patients: make(map[int]*models.Patient),
		log:      log,
	}
	if persist {
		d.load()
	}
	return d
}

// attachRecord binds a freshly constructed patient to its own note store.
func (d *PatientDAO) attachRecord(p *models.Patient) {
	p.Record = models.NewPatientRecord(p.PHN, NewNoteDAO(d.dataDir, p.PHN, d.persist, d.log))
}

// load reads the registry file back into memory. Any failure leaves the
// registry empty. Map keys are textual PHNs and are parsed back to
// integers; entries without the patient type tag are skipped. Loaded
// patients are listed in ascending PHN order, which is stable across runs.
func (d *PatientDAO) load() {
	raw, err := os.ReadFile(d.path())
	if err != nil {
		if !os.IsNotExist(err) {
			d.log.Warn("cannot read registry file, starting empty", zap.Error(err))
		}
		return
	}
	decoded := make(map[string]patientRecord)
	if err := json.Unmarshal(raw, &decoded); err != nil {
		d.log.Warn("cannot decode registry file, starting empty", zap.Error(err))
		return
	}
	for key, rec := range decoded {
		if rec.Type != patientTypeTag {
			d.log.Warn("skipping unknown registry entry", zap.String("type", rec.Type))
			continue
		}
		phn, err := strconv.Atoi(key)
		if err != nil {
			d.log.Warn("skipping registry entry with bad key", zap.String("key", key))
			continue
		}
		p := models.NewPatient(phn, rec.Name, rec.BirthDate, rec.Phone, rec.Email, rec.Address)
		d.attachRecord(p)
		d.patients[phn] = p
		d.order = append(d.order, phn)
	}
	sort.Ints(d.order)
}

// save rewrites the whole registry file. Failures are logged and swallowed.
func (d *PatientDAO) save() {
	if !d.persist {
		return
	}
	encoded := make(map[string]patientRecord, len(d.patients))
	for phn, p := range d.patients {
		encoded[strconv.Itoa(phn)] = patientRecord{
			Type:      patientTypeTag,
			PHN:       p.PHN,
			Name:      p.Name,
			BirthDate: p.BirthDate,
			Phone:     p.Phone,
			Email:     p.Email,
			Address:   p.Address,
			Persisted: d.persist,
		}
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		d.log.Warn("cannot encode registry", zap.Error(err))
		return
	}
	if err := os.MkdirAll(d.dataDir, 0o755); err != nil {
		d.log.Warn("cannot create data directory", zap.Error(err))
		return
	}
	if err := os.WriteFile(d.path(), raw, 0o644); err != nil {
		d.log.Warn("cannot write registry file", zap.Error(err))
	}
}

func (d *PatientDAO) path() string {
	return filepath.Join(d.dataDir, patientsFile)
}

// Search returns the patient with the given PHN, or nil if absent.
func (d *PatientDAO) Search(phn int) *models.Patient {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.patients[phn]
}

// Create registers a new patient under the given PHN with a fresh, empty
// record. It fails with ErrIllegalOperation if the PHN is already in use,
// leaving the registry unchanged.
func (d *PatientDAO) Create(phn int, name, birthDate, phone, email, address string) (*models.Patient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.patients[phn]; ok {
		return nil, fmt.Errorf("%w: phn %d already in use", clinicerr.ErrIllegalOperation, phn)
	}
	p := models.NewPatient(phn, name, birthDate, phone, email, address)
	d.attachRecord(p)
	d.patients[phn] = p
	d.order = append(d.order, phn)
	d.save()
	d.log.Info("patient created", zap.Int("phn", phn))
	return p, nil
}

// RetrieveByName returns every patient whose name contains the given string
// as a literal, case-sensitive substring, in insertion order.
func (d *PatientDAO) RetrieveByName(name string) []*models.Patient {
	d.mu.Lock()
	defer d.mu.Unlock()

	matches := []*models.Patient{}
	for _, phn := range d.order {
		if p := d.patients[phn]; strings.Contains(p.Name, name) {
			matches = append(matches, p)
		}
	}
	return matches
}

// Update mutates the patient stored under oldPHN in place and re-keys the
// collection to newPHN. The patient object's identity is preserved, so a
// caller holding a reference observes the update without re-fetching. It
// fails with ErrIllegalOperation if newPHN differs from oldPHN and is
// already in use, or if oldPHN is not registered.
func (d *PatientDAO) Update(oldPHN, newPHN int, name, birthDate, phone, email, address string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if newPHN != oldPHN {
		if _, ok := d.patients[newPHN]; ok {
			return fmt.Errorf("%w: phn %d already in use", clinicerr.ErrIllegalOperation, newPHN)
		}
	}
	p, ok := d.patients[oldPHN]
	if !ok {
		return fmt.Errorf("%w: patient %d not registered", clinicerr.ErrIllegalOperation, oldPHN)
	}

	p.ApplyUpdate(newPHN, name, birthDate, phone, email, address)
	delete(d.patients, oldPHN)
	d.patients[newPHN] = p
	for i, phn := range d.order {
		if phn == oldPHN {
			d.order[i] = newPHN
			break
		}
	}
	d.save()
	d.log.Info("patient updated", zap.Int("old_phn", oldPHN), zap.Int("phn", newPHN))
	return nil
}

// Delete removes the patient with the given PHN. It fails with
// ErrIllegalOperation if the PHN is not registered.
func (d *PatientDAO) Delete(phn int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.patients[phn]; !ok {
		return fmt.Errorf("%w: patient %d not registered", clinicerr.ErrIllegalOperation, phn)
	}
	delete(d.patients, phn)
	for i, key := range d.order {
		if key == phn {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.save()
	d.log.Info("patient deleted", zap.Int("phn", phn))
	return nil
}

// ListAll returns every registered patient in insertion order.
func (d *PatientDAO) ListAll() []*models.Patient {
	d.mu.Lock()
	defer d.mu.Unlock()

	patients := make([]*models.Patient, 0, len(d.order))
	for _, phn := range d.order {
		patients = append(patients, d.patients[phn])
	}
	return patients
}
