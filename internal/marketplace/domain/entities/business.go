package entities

import (
	"strings"
	"time"
)

// BusinessType форма бизнеса.
type BusinessType string

// Формы бизнеса.
const (
	BusinessIndividual BusinessType = "individual"
	BusinessCompany    BusinessType = "company"
	BusinessFranchise  BusinessType = "franchise"
)

// BusinessStatus статус бизнеса. Удаление переводит бизнес в closed.
type BusinessStatus string

// Статусы бизнеса.
const (
	BusinessPending   BusinessStatus = "pending"
	BusinessActive    BusinessStatus = "active"
	BusinessSuspended BusinessStatus = "suspended"
	BusinessClosed    BusinessStatus = "closed"
)

// Valid сообщает, известен ли статус.
func (s BusinessStatus) Valid() bool {
	switch s {
	case BusinessPending, BusinessActive, BusinessSuspended, BusinessClosed:
		return true
	}
	return false
}

// PaymentStatus статус платежного аккаунта Stripe.
type PaymentStatus string

// Статусы платежного аккаунта.
const (
	PaymentPending    PaymentStatus = "pending"
	PaymentVerified   PaymentStatus = "verified"
	PaymentRejected   PaymentStatus = "rejected"
	PaymentIncomplete PaymentStatus = "incomplete"
)

// Valid сообщает, известен ли статус.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentVerified, PaymentRejected, PaymentIncomplete:
		return true
	}
	return false
}

// ContactInfo контакты бизнеса.
type ContactInfo struct {
	Email   string
	Phone   string
	Website string
}

// BusinessAddress адрес бизнеса с точкой на карте.
type BusinessAddress struct {
	Street      string
	City        string
	State       string
	ZipCode     string
	Country     string
	Coordinates GeoPoint
}

// OperatingHours часы работы в один день недели, 0 воскресенье.
type OperatingHours struct {
	DayOfWeek int
	OpenTime  string
	CloseTime string
	IsClosed  bool
}

// ValidateHours проверяет расписание.
func ValidateHours(hours []OperatingHours) error {
	for _, h := range hours {
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 || !validClock(h.OpenTime) || !validClock(h.CloseTime) {
			return ErrInvalidHours
		}
	}
	return nil
}

// PaymentAccount привязанный аккаунт Stripe.
type PaymentAccount struct {
	StripeAccountID string
	Status          PaymentStatus
}

// BusinessPricing платежные предпочтения бизнеса.
type BusinessPricing struct {
	Currency    string
	AcceptsCash bool
	AcceptsCard bool
}

// BusinessSettings настройки бронирования.
type BusinessSettings struct {
	InstantBooking     bool
	RequireApproval    bool
	AdvanceBookingDays int
	CancellationPolicy string
}

// Business профиль бизнеса, принадлежащий одной учетной записи.
type Business struct {
	ID             string
	Name           string
	Description    string
	OwnerID        string
	Type           BusinessType
	Logo           string
	CoverPhoto     string
	Photos         []string
	Contact        ContactInfo
	Address        BusinessAddress
	OperatingHours []OperatingHours
	Certifications []Certification
	Payment        PaymentAccount
	Pricing        BusinessPricing
	Settings       BusinessSettings
	Rating         Rating
	IsVerified     bool
	Status         BusinessStatus
	Featured       bool
	Views          int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOwner сообщает, владеет ли accountID бизнесом.
func (b *Business) IsOwner(accountID string) bool {
	return accountID != "" && b.OwnerID == accountID
}

// IsOpenAt сообщает, открыт ли бизнес в момент t по его расписанию.
func (b *Business) IsOpenAt(t time.Time) bool {
	day := int(t.Weekday())
	now := clockOf(t)
	for _, h := range b.OperatingHours {
		if h.DayOfWeek != day {
			continue
		}
		return !h.IsClosed && now >= h.OpenTime && now <= h.CloseTime
	}
	return false
}

// Validate проверяет обязательные поля и выставляет значения по умолчанию.
func (b *Business) Validate() error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return ErrNameRequired
	}
	if err := b.Address.Coordinates.Validate(); err != nil {
		return err
	}
	if err := ValidateHours(b.OperatingHours); err != nil {
		return err
	}
	b.Contact.Email = strings.ToLower(strings.TrimSpace(b.Contact.Email))
	if b.Type == "" {
		b.Type = BusinessIndividual
	}
	if b.Status == "" {
		b.Status = BusinessPending
	}
	if !b.Status.Valid() {
		return ErrInvalidBusinessStatus
	}
	if b.Address.Country == "" {
		b.Address.Country = "USA"
	}
	if b.Pricing.Currency == "" {
		b.Pricing.Currency = "USD"
	}
	if b.Payment.Status == "" {
		b.Payment.Status = PaymentPending
	}
	return nil
}

// BusinessPatch частичное обновление профиля. Владелец и счетчики через него не меняются.
type BusinessPatch struct {
	Status      *BusinessStatus
	Name        *string
	Description *string
	Type        *BusinessType
	Logo        *string
	CoverPhoto  *string
	Photos      []string
	Contact     *ContactInfo
	Address     *BusinessAddress
	Pricing     *BusinessPricing
	Settings    *BusinessSettings
}

// Apply накладывает патч на бизнес.
func (b *Business) Apply(p BusinessPatch) {
	setIf(&b.Status, p.Status)
	setIf(&b.Name, p.Name)
	setIf(&b.Description, p.Description)
	setIf(&b.Type, p.Type)
	setIf(&b.Logo, p.Logo)
	setIf(&b.CoverPhoto, p.CoverPhoto)
	setIf(&b.Contact, p.Contact)
	setIf(&b.Address, p.Address)
	setIf(&b.Pricing, p.Pricing)
	setIf(&b.Settings, p.Settings)
	if p.Photos != nil {
		b.Photos = p.Photos
	}
}

// SortBy порядок выдачи поиска бизнесов.
type SortBy string

// Порядки выдачи.
const (
	SortFeatured SortBy = ""
	SortRating   SortBy = "rating"
	SortNewest   SortBy = "newest"
	SortDistance SortBy = "distance"
)

// DefaultSearchRadiusKm радиус поиска бизнесов по умолчанию.
const DefaultSearchRadiusKm = 50

// BusinessSearch параметры поиска. Near задает геофильтр в радиусе RadiusKm,
// сортировка distance имеет смысл только вместе с Near.
type BusinessSearch struct {
	Text     string
	Type     BusinessType
	Verified *bool
	Featured *bool
	Near     *GeoPoint
	RadiusKm float64
	SortBy   SortBy
	Page     int
	Limit    int
}
