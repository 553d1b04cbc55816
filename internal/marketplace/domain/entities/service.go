package entities

import (
	"slices"
	"strings"
	"time"
)

// Category категория услуги. Пары walking/dog_walking, sitting/pet_sitting и
// transportation/transport принимаются как синонимы, сохраняется то, что прислал клиент.
type Category string

// Категории услуг.
const (
	CategoryWalking        Category = "walking"
	CategoryDogWalking     Category = "dog_walking"
	CategorySitting        Category = "sitting"
	CategoryPetSitting     Category = "pet_sitting"
	CategoryGrooming       Category = "grooming"
	CategoryTraining       Category = "training"
	CategoryVeterinary     Category = "veterinary"
	CategoryTransportation Category = "transportation"
	CategoryTransport      Category = "transport"
	CategoryBoarding       Category = "boarding"
	CategoryDaycare        Category = "daycare"
	CategoryOther          Category = "other"
)

// Categories все допустимые категории.
var Categories = []Category{
	CategoryWalking, CategoryDogWalking, CategorySitting, CategoryPetSitting,
	CategoryGrooming, CategoryTraining, CategoryVeterinary, CategoryTransportation,
	CategoryTransport, CategoryBoarding, CategoryDaycare, CategoryOther,
}

// Valid сообщает, известна ли категория.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// PricingType модель цены.
type PricingType string

// Модели цены.
const (
	PricingFixed    PricingType = "fixed"
	PricingHourly   PricingType = "hourly"
	PricingDaily    PricingType = "daily"
	PricingPerVisit PricingType = "per_visit"
	PricingPerPet   PricingType = "per_pet"
	PricingCustom   PricingType = "custom"
)

// Valid сообщает, известна ли модель цены.
func (p PricingType) Valid() bool {
	switch p {
	case PricingFixed, PricingHourly, PricingDaily, PricingPerVisit, PricingPerPet, PricingCustom:
		return true
	}
	return false
}

// DefaultCurrency валюта услуг по умолчанию.
const DefaultCurrency = "EUR"

// AdditionalRate дополнительная ставка за длительность.
type AdditionalRate struct {
	DurationMinutes int
	Price           float64
	Description     string
}

// Pricing цена услуги.
type Pricing struct {
	BasePrice       float64
	Currency        string
	PricingType     PricingType
	AdditionalRates []AdditionalRate
}

// ServiceAvailability дни и часы оказания услуги.
type ServiceAvailability struct {
	DaysOfWeek         []int
	StartTime          string
	EndTime            string
	AdvanceBookingDays int
}

// Capacity ограничения нагрузки.
type Capacity struct {
	MaxPetsPerSession int
	MaxSessionsPerDay int
}

// AddOn платная опция.
type AddOn struct {
	Name        string
	Description string
	Price       float64
}

// Service услуга бизнеса.
type Service struct {
	ID                 string
	BusinessID         string
	Name               string
	Category           Category
	Description        string
	Pricing            Pricing
	DurationMinutes    int
	PetTypes           []Species
	PetSizes           []string
	Images             []string
	Availability       ServiceAvailability
	Capacity           Capacity
	AddOns             []AddOn
	CancellationPolicy string
	Tags               []string
	Rating             Rating
	IsActive           bool
	Featured           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsAvailableOn сообщает, оказывается ли услуга в день недели day.
// Пустой список дней означает любой день.
func (s *Service) IsAvailableOn(day time.Weekday) bool {
	if len(s.Availability.DaysOfWeek) == 0 {
		return true
	}
	return slices.Contains(s.Availability.DaysOfWeek, int(day))
}

// Validate проверяет обязательные поля и выставляет значения по умолчанию.
func (s *Service) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return ErrNameRequired
	}
	if !s.Category.Valid() {
		return ErrInvalidCategory
	}
	if s.Pricing.BasePrice < 0 {
		return ErrNegativeNumber
	}
	if s.Pricing.Currency == "" {
		s.Pricing.Currency = DefaultCurrency
	}
	if s.Pricing.PricingType == "" {
		s.Pricing.PricingType = PricingFixed
	}
	if !s.Pricing.PricingType.Valid() {
		return ErrInvalidPricingType
	}
	if s.DurationMinutes <= 0 {
		s.DurationMinutes = 30
	}
	if s.Capacity.MaxPetsPerSession <= 0 {
		s.Capacity.MaxPetsPerSession = 1
	}
	if s.Capacity.MaxSessionsPerDay <= 0 {
		s.Capacity.MaxSessionsPerDay = 10
	}
	for _, d := range s.Availability.DaysOfWeek {
		if d < 0 || d > 6 {
			return ErrInvalidHours
		}
	}
	return nil
}

// ServicePatch частичное обновление услуги. Бизнес-владелец через него не меняется.
type ServicePatch struct {
	Name               *string
	Category           *Category
	Description        *string
	Pricing            *Pricing
	DurationMinutes    *int
	PetTypes           []Species
	PetSizes           []string
	Images             []string
	Availability       *ServiceAvailability
	Capacity           *Capacity
	AddOns             []AddOn
	CancellationPolicy *string
	Tags               []string
}

// Apply накладывает патч на услугу.
func (s *Service) Apply(p ServicePatch) {
	setIf(&s.Name, p.Name)
	setIf(&s.Category, p.Category)
	setIf(&s.Description, p.Description)
	setIf(&s.Pricing, p.Pricing)
	setIf(&s.DurationMinutes, p.DurationMinutes)
	setIf(&s.Availability, p.Availability)
	setIf(&s.Capacity, p.Capacity)
	setIf(&s.CancellationPolicy, p.CancellationPolicy)
	if p.PetTypes != nil {
		s.PetTypes = p.PetTypes
	}
	if p.PetSizes != nil {
		s.PetSizes = p.PetSizes
	}
	if p.Images != nil {
		s.Images = p.Images
	}
	if p.AddOns != nil {
		s.AddOns = p.AddOns
	}
	if p.Tags != nil {
		s.Tags = p.Tags
	}
}

// ServiceSearch параметры поиска услуг.
type ServiceSearch struct {
	Text     string
	Category Category
	Page     int
	Limit    int
}
