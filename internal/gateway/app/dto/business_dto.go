package dto

import (
	"time"

	"walkydoggy/internal/marketplace/domain/entities"
)

// ContactJSON контакты бизнеса.
type ContactJSON struct {
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" validate:"max=30"`
	Website string `json:"website,omitempty" validate:"omitempty,url"`
}

// BusinessAddressJSON адрес бизнеса с обязательными координатами.
type BusinessAddressJSON struct {
	Street      string    `json:"street,omitempty" validate:"max=200"`
	City        string    `json:"city,omitempty" validate:"max=100"`
	State       string    `json:"state,omitempty" validate:"max=100"`
	ZipCode     string    `json:"zipCode,omitempty" validate:"max=20"`
	Country     string    `json:"country,omitempty" validate:"max=100"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
}

func (a BusinessAddressJSON) entity() entities.BusinessAddress {
	return entities.BusinessAddress{
		Street:      a.Street,
		City:        a.City,
		State:       a.State,
		ZipCode:     a.ZipCode,
		Country:     a.Country,
		Coordinates: entities.GeoPoint{Longitude: a.Coordinates[0], Latitude: a.Coordinates[1]},
	}
}

// OperatingHoursJSON часы работы в один день недели, 0 воскресенье.
type OperatingHoursJSON struct {
	DayOfWeek int    `json:"dayOfWeek" validate:"gte=0,lte=6"`
	OpenTime  string `json:"openTime" validate:"required,datetime=15:04"`
	CloseTime string `json:"closeTime" validate:"required,datetime=15:04"`
	IsClosed  bool   `json:"isClosed"`
}

// BusinessPricingJSON способы оплаты.
type BusinessPricingJSON struct {
	Currency    string `json:"currency,omitempty" validate:"omitempty,len=3"`
	AcceptsCash bool   `json:"acceptsCash"`
	AcceptsCard bool   `json:"acceptsCard"`
}

// BusinessSettingsJSON настройки бронирования.
type BusinessSettingsJSON struct {
	InstantBooking     bool   `json:"instantBooking"`
	RequireApproval    bool   `json:"requireApproval"`
	AdvanceBookingDays int    `json:"advanceBookingDays" validate:"gte=0,lte=365"`
	CancellationPolicy string `json:"cancellationPolicy,omitempty" validate:"max=1000"`
}

// BusinessRequest тело создания бизнеса.
type BusinessRequest struct {
	Name           string                `json:"businessName" validate:"required,max=200"`
	Description    string                `json:"description" validate:"max=2000"`
	Type           string                `json:"businessType" validate:"omitempty,oneof=individual company franchise"`
	Logo           string                `json:"logo" validate:"omitempty,url"`
	CoverPhoto     string                `json:"coverPhoto" validate:"omitempty,url"`
	Photos         []string              `json:"photos" validate:"omitempty,dive,url"`
	Contact        ContactJSON           `json:"contactInfo"`
	Address        BusinessAddressJSON   `json:"address" validate:"required"`
	OperatingHours []OperatingHoursJSON  `json:"operatingHours" validate:"omitempty,dive"`
	Pricing        *BusinessPricingJSON  `json:"pricing"`
	Settings       *BusinessSettingsJSON `json:"settings"`
}

// Entity переводит запрос в бизнес.
func (r BusinessRequest) Entity() *entities.Business {
	b := &entities.Business{
		Name:           r.Name,
		Description:    r.Description,
		Type:           entities.BusinessType(r.Type),
		Logo:           r.Logo,
		CoverPhoto:     r.CoverPhoto,
		Photos:         r.Photos,
		Contact:        entities.ContactInfo(r.Contact),
		Address:        r.Address.entity(),
		OperatingHours: Hours(r.OperatingHours),
	}
	if r.Pricing != nil {
		b.Pricing = entities.BusinessPricing(*r.Pricing)
	}
	if r.Settings != nil {
		b.Settings = entities.BusinessSettings(*r.Settings)
	}
	return b
}

// BusinessPatchRequest частичное обновление бизнеса.
type BusinessPatchRequest struct {
	Name        *string               `json:"businessName" validate:"omitempty,min=1,max=200"`
	Description *string               `json:"description" validate:"omitempty,max=2000"`
	Type        *string               `json:"businessType" validate:"omitempty,oneof=individual company franchise"`
	Status      *string               `json:"status" validate:"omitempty,oneof=pending active suspended closed"`
	Logo        *string               `json:"logo" validate:"omitempty,url"`
	CoverPhoto  *string               `json:"coverPhoto" validate:"omitempty,url"`
	Photos      []string              `json:"photos" validate:"omitempty,dive,url"`
	Contact     *ContactJSON          `json:"contactInfo"`
	Address     *BusinessAddressJSON  `json:"address"`
	Pricing     *BusinessPricingJSON  `json:"pricing"`
	Settings    *BusinessSettingsJSON `json:"settings"`
}

// Patch переводит запрос в патч бизнеса.
func (r BusinessPatchRequest) Patch() entities.BusinessPatch {
	p := entities.BusinessPatch{
		Name:        r.Name,
		Description: r.Description,
		Logo:        r.Logo,
		CoverPhoto:  r.CoverPhoto,
		Photos:      r.Photos,
	}
	if r.Type != nil {
		t := entities.BusinessType(*r.Type)
		p.Type = &t
	}
	if r.Status != nil {
		s := entities.BusinessStatus(*r.Status)
		p.Status = &s
	}
	if r.Contact != nil {
		c := entities.ContactInfo(*r.Contact)
		p.Contact = &c
	}
	if r.Address != nil {
		a := r.Address.entity()
		p.Address = &a
	}
	if r.Pricing != nil {
		pr := entities.BusinessPricing(*r.Pricing)
		p.Pricing = &pr
	}
	if r.Settings != nil {
		s := entities.BusinessSettings(*r.Settings)
		p.Settings = &s
	}
	return p
}

// OperatingHoursRequest новое расписание.
type OperatingHoursRequest struct {
	OperatingHours []OperatingHoursJSON `json:"operatingHours" validate:"required,dive"`
}

// Hours переводит расписание в сущности.
func Hours(hours []OperatingHoursJSON) []entities.OperatingHours {
	return mapSlice(hours, func(h OperatingHoursJSON) entities.OperatingHours { return entities.OperatingHours(h) })
}

// PaymentAccountRequest платежный аккаунт Stripe.
type PaymentAccountRequest struct {
	StripeAccountID string `json:"stripeAccountId" validate:"required,max=255"`
	Status          string `json:"status" validate:"omitempty,oneof=pending verified rejected incomplete"`
}

// BusinessSearchQuery параметры поиска бизнесов.
type BusinessSearchQuery struct {
	PageQuery
	Query    string   `query:"q" validate:"max=200"`
	Category string   `query:"category" validate:"omitempty,oneof=individual company franchise"`
	Verified *bool    `query:"verified"`
	Featured *bool    `query:"featured"`
	Lng      *float64 `query:"lng" validate:"omitempty,longitude"`
	Lat      *float64 `query:"lat" validate:"omitempty,latitude"`
	Radius   float64  `query:"radius" validate:"omitempty,gt=0,lte=500"`
	SortBy   string   `query:"sortBy" validate:"omitempty,oneof=rating newest distance"`
}

// Search переводит запрос в условия поиска.
func (q BusinessSearchQuery) Search() entities.BusinessSearch {
	s := entities.BusinessSearch{
		Text:     q.Query,
		Type:     entities.BusinessType(q.Category),
		Verified: q.Verified,
		Featured: q.Featured,
		RadiusKm: q.Radius,
		SortBy:   entities.SortBy(q.SortBy),
		Page:     q.Page,
		Limit:    q.Limit,
	}
	if q.Lng != nil && q.Lat != nil {
		s.Near = &entities.GeoPoint{Longitude: *q.Lng, Latitude: *q.Lat}
	}
	return s
}

// FeaturedQuery размер выдачи избранных бизнесов.
type FeaturedQuery struct {
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=50"`
}

// BusinessResponse бизнес в ответе.
type BusinessResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"businessName"`
	Description    string               `json:"description,omitempty"`
	OwnerID        string               `json:"owner"`
	Type           string               `json:"businessType"`
	Logo           string               `json:"logo,omitempty"`
	CoverPhoto     string               `json:"coverPhoto,omitempty"`
	Photos         []string             `json:"photos"`
	Contact        ContactJSON          `json:"contactInfo"`
	Address        BusinessAddressJSON  `json:"address"`
	OperatingHours []OperatingHoursJSON `json:"operatingHours"`
	Certifications []CertificationJSON  `json:"certifications"`
	PaymentStatus  string               `json:"paymentStatus"`
	Pricing        BusinessPricingJSON  `json:"pricing"`
	Settings       BusinessSettingsJSON `json:"settings"`
	Rating         RatingJSON           `json:"rating"`
	IsVerified     bool                 `json:"isVerified"`
	IsOpen         bool                 `json:"isOpen"`
	Status         string               `json:"status"`
	Featured       bool                 `json:"featured"`
	Views          int64                `json:"views"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// NewBusinessResponse переводит бизнес в ответ. Stripe аккаунт наружу не отдается.
func NewBusinessResponse(b *entities.Business) BusinessResponse {
	return BusinessResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		OwnerID:     b.OwnerID,
		Type:        string(b.Type),
		Logo:        b.Logo,
		CoverPhoto:  b.CoverPhoto,
		Photos:      orEmpty(b.Photos),
		Contact:     ContactJSON(b.Contact),
		Address: BusinessAddressJSON{
			Street:      b.Address.Street,
			City:        b.Address.City,
			State:       b.Address.State,
			ZipCode:     b.Address.ZipCode,
			Country:     b.Address.Country,
			Coordinates: []float64{b.Address.Coordinates.Longitude, b.Address.Coordinates.Latitude},
		},
		OperatingHours: mapSlice(b.OperatingHours, func(h entities.OperatingHours) OperatingHoursJSON { return OperatingHoursJSON(h) }),
		Certifications: newCertifications(b.Certifications),
		PaymentStatus:  string(b.Payment.Status),
		Pricing:        BusinessPricingJSON(b.Pricing),
		Settings:       BusinessSettingsJSON(b.Settings),
		Rating:         newRating(b.Rating),
		IsVerified:     b.IsVerified,
		IsOpen:         b.IsOpenAt(time.Now()),
		Status:         string(b.Status),
		Featured:       b.Featured,
		Views:          b.Views,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// NewBusinessResponses переводит список бизнесов.
func NewBusinessResponses(items []*entities.Business) []BusinessResponse {
	return mapSlice(items, NewBusinessResponse)
}

// BusinessPageResponse страница бизнесов.
type BusinessPageResponse struct {
	Businesses []BusinessResponse `json:"businesses"`
	Pagination PageMeta           `json:"pagination"`
}
