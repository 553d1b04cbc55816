package entities

import (
	"math"
	"regexp"
	"time"
)

// GeoPoint точка в порядке GeoJSON: долгота, затем широта.
type GeoPoint struct {
	Longitude float64
	Latitude  float64
}

// Validate проверяет диапазоны координат.
func (p GeoPoint) Validate() error {
	if p.Longitude < -180 || p.Longitude > 180 || p.Latitude < -90 || p.Latitude > 90 {
		return ErrInvalidLocation
	}
	return nil
}

// Rating агрегированная оценка.
type Rating struct {
	Average float64
	Count   int
}

// Certification сертификат бизнеса или исполнителя.
type Certification struct {
	Name       string
	IssuedBy   string
	IssueDate  *time.Time
	ExpiryDate *time.Time
	Document   string
	Verified   bool
}

// Page метаданные постраничной выдачи.
type Page struct {
	Page  int
	Limit int
	Total int64
	Pages int
}

// Пределы постраничной выдачи.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// NewPage нормализует номер и размер страницы и считает число страниц.
func NewPage(page, limit int, total int64) Page {
	page, limit = NormalizePage(page, limit)
	return Page{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// NormalizePage приводит номер страницы и лимит к допустимым значениям.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// validClock проверяет время в формате HH:MM.
func validClock(s string) bool {
	return clockRegex.MatchString(s)
}

// clockOf форматирует время суток как HH:MM для сравнения со строками расписания.
func clockOf(t time.Time) string {
	return t.Format("15:04")
}
