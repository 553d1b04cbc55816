package dto

import (
	"time"

	"walkydoggy/internal/marketplace/domain/entities"
)

// VaccinationJSON запись о прививке.
type VaccinationJSON struct {
	Name       string     `json:"name" validate:"required,max=200"`
	Date       time.Time  `json:"date" validate:"required"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	Document   string     `json:"document,omitempty" validate:"omitempty,url"`
}

// Entity переводит прививку в сущность.
func (v VaccinationJSON) Entity() entities.Vaccination {
	return entities.Vaccination(v)
}

// MedicationJSON назначенный препарат.
type MedicationJSON struct {
	Name      string     `json:"name,omitempty"`
	Dosage    string     `json:"dosage,omitempty"`
	Frequency string     `json:"frequency,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// VetJSON контакты ветеринара.
type VetJSON struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty"`
}

// MedicalJSON медицинская карта.
type MedicalJSON struct {
	Vaccinations []VaccinationJSON `json:"vaccinations" validate:"dive"`
	Allergies    []string          `json:"allergies"`
	Medications  []MedicationJSON  `json:"medications"`
	Conditions   []string          `json:"conditions"`
	SpecialNeeds string            `json:"specialNeeds,omitempty" validate:"max=1000"`
	Vet          *VetJSON          `json:"vetInfo,omitempty"`
}

// BehaviorJSON поведение питомца.
type BehaviorJSON struct {
	Temperament      string   `json:"temperament,omitempty"`
	GoodWithKids     bool     `json:"goodWithKids"`
	GoodWithDogs     bool     `json:"goodWithDogs"`
	GoodWithCats     bool     `json:"goodWithCats"`
	EnergyLevel      string   `json:"energyLevel,omitempty" validate:"omitempty,oneof=low medium high very-high"`
	TrainingLevel    string   `json:"trainingLevel,omitempty" validate:"omitempty,oneof=none basic intermediate advanced"`
	SpecialBehaviors []string `json:"specialBehaviors,omitempty"`
}

// InsuranceJSON страховка питомца.
type InsuranceJSON struct {
	Provider     string     `json:"provider,omitempty"`
	PolicyNumber string     `json:"policyNumber,omitempty"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
}

// PetRequest тело создания питомца.
type PetRequest struct {
	Name               string         `json:"name" validate:"required,max=100"`
	Species            string         `json:"species" validate:"required,oneof=dog cat bird rabbit other"`
	Breed              string         `json:"breed" validate:"max=100"`
	Age                *int           `json:"age" validate:"omitempty,gte=0,lte=100"`
	BirthDate          *time.Time     `json:"birthDate"`
	Gender             string         `json:"gender" validate:"omitempty,oneof=male female unknown"`
	Weight             *float64       `json:"weight" validate:"omitempty,gte=0,lte=500"`
	Size               string         `json:"size" validate:"omitempty,oneof=small medium large extra-large"`
	Color              string         `json:"color" validate:"max=100"`
	Photos             []string       `json:"photos" validate:"omitempty,dive,url"`
	Medical            *MedicalJSON   `json:"medicalInfo"`
	Behavior           *BehaviorJSON  `json:"behavior"`
	MicrochipID        string         `json:"microchipId" validate:"max=100"`
	RegistrationNumber string         `json:"registrationNumber" validate:"max=100"`
	Insurance          *InsuranceJSON `json:"insurance"`
	Notes              string         `json:"notes" validate:"max=1000"`
}

// Entity переводит запрос в питомца.
func (r PetRequest) Entity() *entities.Pet {
	pet := &entities.Pet{
		Name:               r.Name,
		Species:            entities.Species(r.Species),
		Breed:              r.Breed,
		Age:                r.Age,
		BirthDate:          r.BirthDate,
		Gender:             r.Gender,
		Weight:             r.Weight,
		Size:               r.Size,
		Color:              r.Color,
		Photos:             r.Photos,
		MicrochipID:        r.MicrochipID,
		RegistrationNumber: r.RegistrationNumber,
		Insurance:          r.Insurance.entity(),
		Notes:              r.Notes,
	}
	if r.Medical != nil {
		pet.Medical = r.Medical.entity()
	}
	if r.Behavior != nil {
		pet.Behavior = r.Behavior.entity()
	}
	return pet
}

// PetPatchRequest частичное обновление питомца.
type PetPatchRequest struct {
	Name               *string        `json:"name" validate:"omitempty,min=1,max=100"`
	Species            *string        `json:"species" validate:"omitempty,oneof=dog cat bird rabbit other"`
	Breed              *string        `json:"breed" validate:"omitempty,max=100"`
	Age                *int           `json:"age" validate:"omitempty,gte=0,lte=100"`
	BirthDate          *time.Time     `json:"birthDate"`
	Gender             *string        `json:"gender" validate:"omitempty,oneof=male female unknown"`
	Weight             *float64       `json:"weight" validate:"omitempty,gte=0,lte=500"`
	Size               *string        `json:"size" validate:"omitempty,oneof=small medium large extra-large"`
	Color              *string        `json:"color" validate:"omitempty,max=100"`
	Behavior           *BehaviorJSON  `json:"behavior"`
	MicrochipID        *string        `json:"microchipId" validate:"omitempty,max=100"`
	RegistrationNumber *string        `json:"registrationNumber" validate:"omitempty,max=100"`
	Insurance          *InsuranceJSON `json:"insurance"`
	Status             *string        `json:"status" validate:"omitempty,oneof=active deceased rehomed lost"`
	Notes              *string        `json:"notes" validate:"omitempty,max=1000"`
}

// Patch переводит запрос в патч питомца.
func (r PetPatchRequest) Patch() entities.PetPatch {
	patch := entities.PetPatch{
		Name:               r.Name,
		Breed:              r.Breed,
		Age:                r.Age,
		BirthDate:          r.BirthDate,
		Gender:             r.Gender,
		Weight:             r.Weight,
		Size:               r.Size,
		Color:              r.Color,
		MicrochipID:        r.MicrochipID,
		RegistrationNumber: r.RegistrationNumber,
		Insurance:          r.Insurance.entity(),
		Notes:              r.Notes,
	}
	if r.Species != nil {
		s := entities.Species(*r.Species)
		patch.Species = &s
	}
	if r.Status != nil {
		s := entities.PetStatus(*r.Status)
		patch.Status = &s
	}
	if r.Behavior != nil {
		b := r.Behavior.entity()
		patch.Behavior = &b
	}
	return patch
}

// CoOwnerRequest email будущего совладельца.
type CoOwnerRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// MedicalUpdateRequest изменение медицинской карты без прививок.
type MedicalUpdateRequest struct {
	Allergies    []string         `json:"allergies"`
	Medications  []MedicationJSON `json:"medications"`
	Conditions   []string         `json:"conditions"`
	SpecialNeeds *string          `json:"specialNeeds" validate:"omitempty,max=1000"`
	Vet          *VetJSON         `json:"vetInfo"`
}

// Update переводит запрос в изменение карты.
func (r MedicalUpdateRequest) Update() entities.MedicalUpdate {
	u := entities.MedicalUpdate{
		Allergies:    r.Allergies,
		Conditions:   r.Conditions,
		SpecialNeeds: r.SpecialNeeds,
		Vet:          r.Vet.entity(),
	}
	if r.Medications != nil {
		u.Medications = mapSlice(r.Medications, MedicationJSON.entity)
	}
	return u
}

func (m MedicationJSON) entity() entities.Medication {
	return entities.Medication(m)
}

func (v *VetJSON) entity() *entities.VetInfo {
	if v == nil {
		return nil
	}
	info := entities.VetInfo(*v)
	return &info
}

func (i *InsuranceJSON) entity() *entities.Insurance {
	if i == nil {
		return nil
	}
	ins := entities.Insurance(*i)
	return &ins
}

func (b BehaviorJSON) entity() entities.Behavior {
	return entities.Behavior(b)
}

func (m MedicalJSON) entity() entities.MedicalInfo {
	return entities.MedicalInfo{
		Vaccinations: mapSlice(m.Vaccinations, VaccinationJSON.Entity),
		Allergies:    m.Allergies,
		Medications:  mapSlice(m.Medications, MedicationJSON.entity),
		Conditions:   m.Conditions,
		SpecialNeeds: m.SpecialNeeds,
		Vet:          m.Vet.entity(),
	}
}

// PetResponse питомец в ответе.
type PetResponse struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Species            string         `json:"species"`
	Breed              string         `json:"breed,omitempty"`
	Age                *int           `json:"age,omitempty"`
	BirthDate          *time.Time     `json:"birthDate,omitempty"`
	Gender             string         `json:"gender"`
	Weight             *float64       `json:"weight,omitempty"`
	Size               string         `json:"size,omitempty"`
	Color              string         `json:"color,omitempty"`
	Photos             []string       `json:"photos"`
	OwnerID            string         `json:"owner"`
	CoOwners           []string       `json:"coOwners"`
	Medical            MedicalJSON    `json:"medicalInfo"`
	Behavior           BehaviorJSON   `json:"behavior"`
	MicrochipID        string         `json:"microchipId,omitempty"`
	RegistrationNumber string         `json:"registrationNumber,omitempty"`
	Insurance          *InsuranceJSON `json:"insurance,omitempty"`
	Status             string         `json:"status"`
	Notes              string         `json:"notes,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// NewPetResponse переводит питомца в ответ. Возраст считается по дате рождения.
func NewPetResponse(p *entities.Pet) PetResponse {
	resp := PetResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Species:            string(p.Species),
		Breed:              p.Breed,
		Age:                p.AgeAt(time.Now()),
		BirthDate:          p.BirthDate,
		Gender:             p.Gender,
		Weight:             p.Weight,
		Size:               p.Size,
		Color:              p.Color,
		Photos:             orEmpty(p.Photos),
		OwnerID:            p.OwnerID,
		CoOwners:           orEmpty(p.CoOwners),
		Behavior:           BehaviorJSON(p.Behavior),
		MicrochipID:        p.MicrochipID,
		RegistrationNumber: p.RegistrationNumber,
		Status:             string(p.Status),
		Notes:              p.Notes,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		Medical: MedicalJSON{
			Vaccinations: mapSlice(p.Medical.Vaccinations, func(v entities.Vaccination) VaccinationJSON { return VaccinationJSON(v) }),
			Allergies:    orEmpty(p.Medical.Allergies),
			Medications:  mapSlice(p.Medical.Medications, func(m entities.Medication) MedicationJSON { return MedicationJSON(m) }),
			Conditions:   orEmpty(p.Medical.Conditions),
			SpecialNeeds: p.Medical.SpecialNeeds,
		},
	}
	if v := p.Medical.Vet; v != nil {
		vet := VetJSON(*v)
		resp.Medical.Vet = &vet
	}
	if i := p.Insurance; i != nil {
		ins := InsuranceJSON(*i)
		resp.Insurance = &ins
	}
	return resp
}

// NewPetResponses переводит список питомцев.
func NewPetResponses(pets []*entities.Pet) []PetResponse {
	return mapSlice(pets, NewPetResponse)
}

// PhotoUploadResponse питомец и подписанная ссылка на загрузку.
type PhotoUploadResponse struct {
	Pet       PetResponse `json:"pet"`
	UploadURL string      `json:"uploadUrl"`
	PhotoURL  string      `json:"photoUrl"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
