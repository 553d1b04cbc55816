package dto

import (
	"time"

	"walkydoggy/internal/marketplace/domain/entities"
)

// AdditionalRateJSON доплата за продление.
type AdditionalRateJSON struct {
	DurationMinutes int     `json:"duration" validate:"gte=1"`
	Price           float64 `json:"price" validate:"gte=0"`
	Description     string  `json:"description,omitempty"`
}

// PricingJSON цена услуги.
type PricingJSON struct {
	BasePrice       float64              `json:"basePrice" validate:"gte=0"`
	Currency        string               `json:"currency,omitempty" validate:"omitempty,len=3"`
	PricingType     string               `json:"pricingType,omitempty" validate:"omitempty,oneof=fixed hourly daily per_visit per_pet custom"`
	AdditionalRates []AdditionalRateJSON `json:"additionalRates,omitempty" validate:"omitempty,dive"`
}

func (p PricingJSON) entity() entities.Pricing {
	return entities.Pricing{
		BasePrice:   p.BasePrice,
		Currency:    p.Currency,
		PricingType: entities.PricingType(p.PricingType),
		AdditionalRates: mapSlice(p.AdditionalRates, func(r AdditionalRateJSON) entities.AdditionalRate {
			return entities.AdditionalRate(r)
		}),
	}
}

// ServiceAvailabilityJSON дни и часы оказания услуги.
type ServiceAvailabilityJSON struct {
	DaysOfWeek         []int  `json:"daysOfWeek" validate:"omitempty,dive,gte=0,lte=6"`
	StartTime          string `json:"startTime,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime            string `json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
	AdvanceBookingDays int    `json:"advanceBookingDays" validate:"gte=0,lte=365"`
}

// CapacityJSON вместимость услуги.
type CapacityJSON struct {
	MaxPetsPerSession int `json:"maxPetsPerSession" validate:"gte=0"`
	MaxSessionsPerDay int `json:"maxSessionsPerDay" validate:"gte=0"`
}

// AddOnJSON дополнительная опция.
type AddOnJSON struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// ServiceRequest тело создания услуги.
type ServiceRequest struct {
	Name               string                   `json:"name" validate:"required,max=200"`
	Category           string                   `json:"category" validate:"required,oneof=walking dog_walking sitting pet_sitting grooming training veterinary transportation transport boarding daycare other"`
	Description        string                   `json:"description" validate:"max=2000"`
	Pricing            PricingJSON              `json:"pricing"`
	DurationMinutes    int                      `json:"duration" validate:"gte=0,lte=1440"`
	PetTypes           []string                 `json:"petTypes" validate:"omitempty,dive,oneof=dog cat bird rabbit other"`
	PetSizes           []string                 `json:"petSizes"`
	Images             []string                 `json:"images" validate:"omitempty,dive,url"`
	Availability       *ServiceAvailabilityJSON `json:"availability"`
	Capacity           *CapacityJSON            `json:"capacity"`
	AddOns             []AddOnJSON              `json:"addOns" validate:"omitempty,dive"`
	CancellationPolicy string                   `json:"cancellationPolicy" validate:"max=1000"`
	Tags               []string                 `json:"tags"`
}

// Entity переводит запрос в услугу.
func (r ServiceRequest) Entity() *entities.Service {
	s := &entities.Service{
		Name:               r.Name,
		Category:           entities.Category(r.Category),
		Description:        r.Description,
		Pricing:            r.Pricing.entity(),
		DurationMinutes:    r.DurationMinutes,
		PetTypes:           species(r.PetTypes),
		PetSizes:           r.PetSizes,
		Images:             r.Images,
		AddOns:             addOns(r.AddOns),
		CancellationPolicy: r.CancellationPolicy,
		Tags:               r.Tags,
		IsActive:           true,
	}
	if r.Availability != nil {
		s.Availability = entities.ServiceAvailability(*r.Availability)
	}
	if r.Capacity != nil {
		s.Capacity = entities.Capacity(*r.Capacity)
	}
	return s
}

// ServicePatchRequest частичное обновление услуги.
type ServicePatchRequest struct {
	Name               *string                  `json:"name" validate:"omitempty,min=1,max=200"`
	Category           *string                  `json:"category" validate:"omitempty,oneof=walking dog_walking sitting pet_sitting grooming training veterinary transportation transport boarding daycare other"`
	Description        *string                  `json:"description" validate:"omitempty,max=2000"`
	Pricing            *PricingJSON             `json:"pricing"`
	DurationMinutes    *int                     `json:"duration" validate:"omitempty,gte=1,lte=1440"`
	PetTypes           []string                 `json:"petTypes" validate:"omitempty,dive,oneof=dog cat bird rabbit other"`
	PetSizes           []string                 `json:"petSizes"`
	Images             []string                 `json:"images" validate:"omitempty,dive,url"`
	Availability       *ServiceAvailabilityJSON `json:"availability"`
	Capacity           *CapacityJSON            `json:"capacity"`
	AddOns             []AddOnJSON              `json:"addOns" validate:"omitempty,dive"`
	CancellationPolicy *string                  `json:"cancellationPolicy" validate:"omitempty,max=1000"`
	Tags               []string                 `json:"tags"`
}

// Patch переводит запрос в патч услуги.
func (r ServicePatchRequest) Patch() entities.ServicePatch {
	p := entities.ServicePatch{
		Name:               r.Name,
		Description:        r.Description,
		DurationMinutes:    r.DurationMinutes,
		PetSizes:           r.PetSizes,
		Images:             r.Images,
		CancellationPolicy: r.CancellationPolicy,
		Tags:               r.Tags,
	}
	if r.Category != nil {
		c := entities.Category(*r.Category)
		p.Category = &c
	}
	if r.Pricing != nil {
		pr := r.Pricing.entity()
		p.Pricing = &pr
	}
	if r.PetTypes != nil {
		p.PetTypes = species(r.PetTypes)
	}
	if r.Availability != nil {
		a := entities.ServiceAvailability(*r.Availability)
		p.Availability = &a
	}
	if r.Capacity != nil {
		c := entities.Capacity(*r.Capacity)
		p.Capacity = &c
	}
	if r.AddOns != nil {
		p.AddOns = addOns(r.AddOns)
	}
	return p
}

func species(in []string) []entities.Species {
	if in == nil {
		return nil
	}
	return mapSlice(in, func(s string) entities.Species { return entities.Species(s) })
}

func addOns(in []AddOnJSON) []entities.AddOn {
	return mapSlice(in, func(a AddOnJSON) entities.AddOn { return entities.AddOn(a) })
}

// ServiceSearchQuery параметры поиска услуг.
type ServiceSearchQuery struct {
	PageQuery
	Query    string `query:"q" validate:"max=200"`
	Category string `query:"category" validate:"omitempty,oneof=walking dog_walking sitting pet_sitting grooming training veterinary transportation transport boarding daycare other"`
}

// Search переводит запрос в условия поиска.
func (q ServiceSearchQuery) Search() entities.ServiceSearch {
	return entities.ServiceSearch{
		Text:     q.Query,
		Category: entities.Category(q.Category),
		Page:     q.Page,
		Limit:    q.Limit,
	}
}

// ServiceResponse услуга в ответе.
type ServiceResponse struct {
	ID                 string                  `json:"id"`
	BusinessID         string                  `json:"business"`
	Name               string                  `json:"name"`
	Category           string                  `json:"category"`
	Description        string                  `json:"description,omitempty"`
	Pricing            PricingJSON             `json:"pricing"`
	DurationMinutes    int                     `json:"duration"`
	PetTypes           []entities.Species      `json:"petTypes"`
	PetSizes           []string                `json:"petSizes"`
	Images             []string                `json:"images"`
	Availability       ServiceAvailabilityJSON `json:"availability"`
	Capacity           CapacityJSON            `json:"capacity"`
	AddOns             []AddOnJSON             `json:"addOns"`
	CancellationPolicy string                  `json:"cancellationPolicy,omitempty"`
	Tags               []string                `json:"tags"`
	Rating             RatingJSON              `json:"rating"`
	IsActive           bool                    `json:"isActive"`
	Featured           bool                    `json:"featured"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}

// NewServiceResponse переводит услугу в ответ.
func NewServiceResponse(s *entities.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		BusinessID:  s.BusinessID,
		Name:        s.Name,
		Category:    string(s.Category),
		Description: s.Description,
		Pricing: PricingJSON{
			BasePrice:   s.Pricing.BasePrice,
			Currency:    s.Pricing.Currency,
			PricingType: string(s.Pricing.PricingType),
			AdditionalRates: mapSlice(s.Pricing.AdditionalRates, func(r entities.AdditionalRate) AdditionalRateJSON {
				return AdditionalRateJSON(r)
			}),
		},
		DurationMinutes:    s.DurationMinutes,
		PetTypes:           orEmpty(s.PetTypes),
		PetSizes:           orEmpty(s.PetSizes),
		Images:             orEmpty(s.Images),
		Availability:       ServiceAvailabilityJSON(s.Availability),
		Capacity:           CapacityJSON(s.Capacity),
		AddOns:             mapSlice(s.AddOns, func(a entities.AddOn) AddOnJSON { return AddOnJSON(a) }),
		CancellationPolicy: s.CancellationPolicy,
		Tags:               orEmpty(s.Tags),
		Rating:             newRating(s.Rating),
		IsActive:           s.IsActive,
		Featured:           s.Featured,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// NewServiceResponses переводит список услуг.
func NewServiceResponses(items []*entities.Service) []ServiceResponse {
	return mapSlice(items, NewServiceResponse)
}

// ServicePageResponse страница услуг.
type ServicePageResponse struct {
	Services   []ServiceResponse `json:"services"`
	Pagination PageMeta          `json:"pagination"`
}
