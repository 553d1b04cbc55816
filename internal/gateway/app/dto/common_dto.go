package dto

import (
	"time"

	"walkydoggy/internal/marketplace/domain/entities"
)

// PageQuery параметры постраничной выдачи.
type PageQuery struct {
	Page  int `query:"page" validate:"omitempty,gte=1"`
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GeoQuery точка и радиус поиска.
type GeoQuery struct {
	Lng    *float64 `query:"lng" validate:"required,longitude"`
	Lat    *float64 `query:"lat" validate:"required,latitude"`
	Radius float64  `query:"radius" validate:"omitempty,gt=0,lte=500"`
}

// Point точка запроса.
func (q GeoQuery) Point() entities.GeoPoint {
	return entities.GeoPoint{Longitude: *q.Lng, Latitude: *q.Lat}
}

// RadiusOr радиус запроса или значение по умолчанию.
func (q GeoQuery) RadiusOr(def float64) float64 {
	if q.Radius > 0 {
		return q.Radius
	}
	return def
}

// LocationRequest точка [долгота, широта] в теле запроса.
type LocationRequest struct {
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
}

// Point переводит координаты в точку.
func (r LocationRequest) Point() entities.GeoPoint {
	return entities.GeoPoint{Longitude: r.Coordinates[0], Latitude: r.Coordinates[1]}
}

// PageMeta метаданные страницы.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPageMeta переводит страницу в ответ.
func NewPageMeta(p entities.Page) PageMeta {
	return PageMeta{Page: p.Page, Limit: p.Limit, Total: p.Total, Pages: p.Pages}
}

// RatingJSON средняя оценка и число отзывов.
type RatingJSON struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

func newRating(r entities.Rating) RatingJSON {
	return RatingJSON{Average: r.Average, Count: r.Count}
}

// CertificationJSON сертификат бизнеса или исполнителя.
type CertificationJSON struct {
	Name       string     `json:"name" validate:"required,max=200"`
	IssuedBy   string     `json:"issuedBy,omitempty" validate:"max=200"`
	IssueDate  *time.Time `json:"issueDate,omitempty"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	Document   string     `json:"document,omitempty" validate:"omitempty,url"`
	Verified   bool       `json:"verified"`
}

// Entity переводит сертификат в сущность. Признак проверки клиент не задает.
func (c CertificationJSON) Entity() entities.Certification {
	return entities.Certification{
		Name:       c.Name,
		IssuedBy:   c.IssuedBy,
		IssueDate:  c.IssueDate,
		ExpiryDate: c.ExpiryDate,
		Document:   c.Document,
	}
}

func newCertifications(certs []entities.Certification) []CertificationJSON {
	out := make([]CertificationJSON, len(certs))
	for i, c := range certs {
		out[i] = CertificationJSON{
			Name:       c.Name,
			IssuedBy:   c.IssuedBy,
			IssueDate:  c.IssueDate,
			ExpiryDate: c.ExpiryDate,
			Document:   c.Document,
			Verified:   c.Verified,
		}
	}
	return out
}

func mapSlice[E, D any](items []E, fn func(E) D) []D {
	out := make([]D, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return out
}

// PhotoRequest тип загружаемого файла.
type PhotoRequest struct {
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png image/webp"`
}

// DeletePhotoRequest ссылка на удаляемую фотографию.
type DeletePhotoRequest struct {
	PhotoURL string `json:"photoUrl" validate:"required,url"`
}
