package entities

import (
	"slices"
	"strings"
	"time"
)

// Species вид питомца.
type Species string

// Виды.
const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesBird   Species = "bird"
	SpeciesRabbit Species = "rabbit"
	SpeciesOther  Species = "other"
)

// Valid сообщает, известен ли вид.
func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesOther:
		return true
	}
	return false
}

// PetStatus жизненный статус питомца.
type PetStatus string

// Статусы питомца.
const (
	PetActive   PetStatus = "active"
	PetDeceased PetStatus = "deceased"
	PetRehomed  PetStatus = "rehomed"
	PetLost     PetStatus = "lost"
)

// Valid сообщает, известен ли статус.
func (s PetStatus) Valid() bool {
	switch s {
	case PetActive, PetDeceased, PetRehomed, PetLost:
		return true
	}
	return false
}

// Vaccination запись о прививке.
type Vaccination struct {
	Name       string
	Date       time.Time
	ExpiryDate *time.Time
	Document   string
}

// Medication назначенный препарат.
type Medication struct {
	Name      string
	Dosage    string
	Frequency string
	StartDate *time.Time
	EndDate   *time.Time
}

// VetInfo контакты ветеринара.
type VetInfo struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// MedicalInfo медицинская карта.
type MedicalInfo struct {
	Vaccinations []Vaccination
	Allergies    []string
	Medications  []Medication
	Conditions   []string
	SpecialNeeds string
	Vet          *VetInfo
}

// MedicalUpdate частичное обновление медицинской карты, nil поля не меняются.
// Прививки добавляются отдельной операцией.
type MedicalUpdate struct {
	Allergies    []string
	Medications  []Medication
	Conditions   []string
	SpecialNeeds *string
	Vet          *VetInfo
}

// Apply накладывает изменения на карту.
func (m *MedicalInfo) Apply(u MedicalUpdate) {
	if u.Allergies != nil {
		m.Allergies = u.Allergies
	}
	if u.Medications != nil {
		m.Medications = u.Medications
	}
	if u.Conditions != nil {
		m.Conditions = u.Conditions
	}
	if u.SpecialNeeds != nil {
		m.SpecialNeeds = *u.SpecialNeeds
	}
	if u.Vet != nil {
		m.Vet = u.Vet
	}
}

// Behavior поведение питомца.
type Behavior struct {
	Temperament      string
	GoodWithKids     bool
	GoodWithDogs     bool
	GoodWithCats     bool
	EnergyLevel      string
	TrainingLevel    string
	SpecialBehaviors []string
}

// Insurance страховка питомца.
type Insurance struct {
	Provider     string
	PolicyNumber string
	ExpiryDate   *time.Time
}

// Pet питомец и его совладельцы.
type Pet struct {
	ID                 string
	Name               string
	Species            Species
	Breed              string
	Age                *int
	BirthDate          *time.Time
	Gender             string
	Weight             *float64
	Size               string
	Color              string
	Photos             []string
	OwnerID            string
	CoOwners           []string
	Medical            MedicalInfo
	Behavior           Behavior
	MicrochipID        string
	RegistrationNumber string
	Insurance          *Insurance
	Status             PetStatus
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsOwner сообщает, является ли accountID основным владельцем.
func (p *Pet) IsOwner(accountID string) bool {
	return accountID != "" && p.OwnerID == accountID
}

// IsCoOwner сообщает, является ли accountID совладельцем.
func (p *Pet) IsCoOwner(accountID string) bool {
	return accountID != "" && slices.Contains(p.CoOwners, accountID)
}

// HasAccess владелец или совладелец.
func (p *Pet) HasAccess(accountID string) bool {
	return p.IsOwner(accountID) || p.IsCoOwner(accountID)
}

// AddCoOwner добавляет совладельца.
func (p *Pet) AddCoOwner(accountID string) error {
	if p.IsOwner(accountID) {
		return ErrCannotCoOwnSelf
	}
	if p.IsCoOwner(accountID) {
		return ErrAlreadyCoOwner
	}
	p.CoOwners = append(p.CoOwners, accountID)
	return nil
}

// RemoveCoOwner удаляет совладельца, отсутствующий идентификатор не ошибка.
func (p *Pet) RemoveCoOwner(accountID string) {
	p.CoOwners = slices.DeleteFunc(p.CoOwners, func(id string) bool { return id == accountID })
}

// RemovePhoto удаляет ссылку и сообщает, была ли она.
func (p *Pet) RemovePhoto(url string) bool {
	n := len(p.Photos)
	p.Photos = slices.DeleteFunc(p.Photos, func(u string) bool { return u == url })
	return len(p.Photos) != n
}

// AgeAt возвращает полный возраст в годах на момент now.
// Без даты рождения используется сохраненный возраст.
func (p *Pet) AgeAt(now time.Time) *int {
	if p.BirthDate == nil {
		return p.Age
	}
	b := p.BirthDate.In(now.Location())
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return &age
}

// Validate проверяет обязательные поля и перечисления.
func (p *Pet) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrNameRequired
	}
	if !p.Species.Valid() {
		return ErrInvalidSpecies
	}
	if p.Status == "" {
		p.Status = PetActive
	}
	if !p.Status.Valid() {
		return ErrInvalidPetStatus
	}
	if p.Gender == "" {
		p.Gender = "unknown"
	}
	if (p.Age != nil && *p.Age < 0) || (p.Weight != nil && *p.Weight < 0) {
		return ErrNegativeNumber
	}
	return nil
}

// PetPatch частичное обновление питомца, nil поля не меняются.
// Владелец и совладельцы через него не меняются.
type PetPatch struct {
	Name               *string
	Species            *Species
	Breed              *string
	Age                *int
	BirthDate          *time.Time
	Gender             *string
	Weight             *float64
	Size               *string
	Color              *string
	Behavior           *Behavior
	MicrochipID        *string
	RegistrationNumber *string
	Insurance          *Insurance
	Status             *PetStatus
	Notes              *string
}

// Apply накладывает патч на питомца.
func (p *Pet) Apply(patch PetPatch) {
	setIf(&p.Name, patch.Name)
	setIf(&p.Species, patch.Species)
	setIf(&p.Breed, patch.Breed)
	setIf(&p.Gender, patch.Gender)
	setIf(&p.Size, patch.Size)
	setIf(&p.Color, patch.Color)
	setIf(&p.MicrochipID, patch.MicrochipID)
	setIf(&p.RegistrationNumber, patch.RegistrationNumber)
	setIf(&p.Status, patch.Status)
	setIf(&p.Notes, patch.Notes)
	setIf(&p.Behavior, patch.Behavior)
	if patch.Age != nil {
		p.Age = patch.Age
	}
	if patch.BirthDate != nil {
		p.BirthDate = patch.BirthDate
	}
	if patch.Weight != nil {
		p.Weight = patch.Weight
	}
	if patch.Insurance != nil {
		p.Insurance = patch.Insurance
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
