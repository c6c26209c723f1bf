package models

// Patient holds a patient's identity and demographic attributes together
// with the record that owns their notes.
type Patient struct {
	// PHN is the personal health number, the unique integer key for the
	// patient across the registry. It changes only through an explicit
	// registry update.
	PHN int `json:"phn"`
	// Name is the patient's full name.
	Name string `json:"name"`
	// BirthDate is the patient's date of birth, kept as an opaque string.
	BirthDate string `json:"birth_date"`
	// Phone is the patient's contact number.
	Phone string `json:"phone"`
	// Email is the patient's contact email.
	Email string `json:"email"`
	// Address is the patient's street address.
	Address string `json:"address"`
	// Record owns the patient's notes. It is attached by the registry and
	// never serialized with the demographic fields.
	Record *PatientRecord `json:"-"`
}

// NewPatient builds a patient with the given identity and demographics.
// The record is attached separately by the registry that owns the patient.
func NewPatient(phn int, name, birthDate, phone, email, address string) *Patient {
	return &Patient{
		PHN:       phn,
		Name:      name,
		BirthDate: birthDate,
		Phone:     phone,
		Email:     email,
		Address:   address,
	}
}

// ApplyUpdate mutates the patient's identity and demographics in place,
// preserving the attached record. It is used only by the registry's update
// path, which also re-keys the collection when the PHN changes.
func (p *Patient) ApplyUpdate(phn int, name, birthDate, phone, email, address string) {
	p.PHN = phn
	p.Name = name
	p.BirthDate = birthDate
	p.Phone = phone
	p.Email = email
	p.Address = address
}

// Equal reports whether two patients carry the same identifier and
// demographic fields. The attached record and persistence mode are
// excluded from the comparison.
func (p *Patient) Equal(other *Patient) bool {
	if p == nil || other == nil {
		return p == nil && other == nil
	}
	return p.PHN == other.PHN &&
		p.Name == other.Name &&
		p.BirthDate == other.BirthDate &&
		p.Phone == other.Phone &&
		p.Email == other.Email &&
		p.Address == other.Address
}
