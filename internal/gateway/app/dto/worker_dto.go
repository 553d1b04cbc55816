package dto

import (
	"time"

	"walkydoggy/internal/marketplace/domain/entities"
)

// WorkerProfileJSON профиль исполнителя.
type WorkerProfileJSON struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName,omitempty" validate:"max=100"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty" validate:"max=30"`
	Avatar    string `json:"avatar,omitempty" validate:"omitempty,url"`
	Bio       string `json:"bio,omitempty" validate:"max=1000"`
}

// WorkerRequest тело создания исполнителя.
type WorkerRequest struct {
	Profile         WorkerProfileJSON `json:"profile"`
	Specializations []string          `json:"specializations"`
	Services        []string          `json:"services"`
	ExperienceYears int               `json:"experience" validate:"gte=0,lte=80"`
	HourlyRate      *float64          `json:"hourlyRate" validate:"omitempty,gte=0"`
}

// Input переводит запрос во входные данные исполнителя.
func (r WorkerRequest) Input() entities.WorkerInput {
	return entities.WorkerInput{
		Profile:         entities.WorkerProfile(r.Profile),
		Specializations: r.Specializations,
		Services:        r.Services,
		ExperienceYears: r.ExperienceYears,
		HourlyRate:      r.HourlyRate,
	}
}

// WorkerPatchRequest частичное обновление исполнителя.
type WorkerPatchRequest struct {
	Profile         *WorkerProfileJSON `json:"profile"`
	Bio             *string            `json:"bio" validate:"omitempty,max=1000"`
	Specializations []string           `json:"specializations"`
	ExperienceYears *int               `json:"experience" validate:"omitempty,gte=0,lte=80"`
	HourlyRate      *float64           `json:"hourlyRate" validate:"omitempty,gte=0"`
}

// Patch переводит запрос в патч исполнителя.
func (r WorkerPatchRequest) Patch() entities.WorkerPatch {
	p := entities.WorkerPatch{
		Bio:             r.Bio,
		Specializations: r.Specializations,
		ExperienceYears: r.ExperienceYears,
		HourlyRate:      r.HourlyRate,
	}
	if r.Profile != nil {
		profile := entities.WorkerProfile(*r.Profile)
		p.Profile = &profile
	}
	return p
}

// OnlineRequest переключение статуса в сети.
type OnlineRequest struct {
	IsOnline *bool `json:"isOnline" validate:"required"`
}

// AssignServicesRequest услуги исполнителя.
type AssignServicesRequest struct {
	ServiceIDs []string `json:"serviceIds" validate:"required,dive,required"`
}

// ScheduleSlotJSON интервал расписания.
type ScheduleSlotJSON struct {
	DayOfWeek   int    `json:"dayOfWeek" validate:"gte=0,lte=6"`
	StartTime   string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime     string `json:"endTime" validate:"required,datetime=15:04"`
	IsAvailable bool   `json:"isAvailable"`
}

// TimeOffJSON отпуск или отгул.
type TimeOffJSON struct {
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	Reason    string    `json:"reason,omitempty" validate:"max=500"`
}

// AvailabilityRequest новое расписание исполнителя.
type AvailabilityRequest struct {
	Schedule []ScheduleSlotJSON `json:"schedule" validate:"omitempty,dive"`
	TimeOff  []TimeOffJSON      `json:"timeOff" validate:"omitempty,dive"`
}

// Update переводит запрос в изменение расписания. Отсутствующие списки не меняются.
func (r AvailabilityRequest) Update() entities.AvailabilityUpdate {
	var u entities.AvailabilityUpdate
	if r.Schedule != nil {
		u.Schedule = mapSlice(r.Schedule, func(s ScheduleSlotJSON) entities.ScheduleSlot { return entities.ScheduleSlot(s) })
	}
	if r.TimeOff != nil {
		u.TimeOff = mapSlice(r.TimeOff, func(t TimeOffJSON) entities.TimeOff { return entities.TimeOff(t) })
	}
	return u
}

// WorkerStatusJSON статус исполнителя.
type WorkerStatusJSON struct {
	IsOnline      bool       `json:"isOnline"`
	CurrentStatus string     `json:"currentStatus"`
	LastSeenAt    *time.Time `json:"lastSeenAt,omitempty"`
}

// WorkerLocationJSON последняя известная точка.
type WorkerLocationJSON struct {
	Coordinates []float64 `json:"coordinates"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WorkerResponse исполнитель в ответе.
type WorkerResponse struct {
	ID              string              `json:"id"`
	BusinessID      string              `json:"business"`
	UserID          string              `json:"user,omitempty"`
	Profile         WorkerProfileJSON   `json:"profile"`
	FullName        string              `json:"fullName"`
	Services        []string            `json:"services"`
	Specializations []string            `json:"specializations"`
	Certifications  []CertificationJSON `json:"certifications"`
	ExperienceYears int                 `json:"experience"`
	Schedule        []ScheduleSlotJSON  `json:"schedule"`
	TimeOff         []TimeOffJSON       `json:"timeOff"`
	Status          WorkerStatusJSON    `json:"status"`
	Location        *WorkerLocationJSON `json:"currentLocation,omitempty"`
	HourlyRate      *float64            `json:"hourlyRate,omitempty"`
	Rating          RatingJSON          `json:"rating"`
	IsActive        bool                `json:"isActive"`
	IsVerified      bool                `json:"isVerified"`
	IsAvailableNow  bool                `json:"isAvailableNow"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// NewWorkerResponse переводит исполнителя в ответ.
func NewWorkerResponse(w *entities.Worker) WorkerResponse {
	resp := WorkerResponse{
		ID:              w.ID,
		BusinessID:      w.BusinessID,
		UserID:          w.AccountID,
		Profile:         WorkerProfileJSON(w.Profile),
		FullName:        w.FullName(),
		Services:        orEmpty(w.Services),
		Specializations: orEmpty(w.Specializations),
		Certifications:  newCertifications(w.Certifications),
		ExperienceYears: w.ExperienceYears,
		Schedule:        mapSlice(w.Availability.Schedule, func(s entities.ScheduleSlot) ScheduleSlotJSON { return ScheduleSlotJSON(s) }),
		TimeOff:         mapSlice(w.Availability.TimeOff, func(t entities.TimeOff) TimeOffJSON { return TimeOffJSON(t) }),
		Status: WorkerStatusJSON{
			IsOnline:      w.Status.IsOnline,
			CurrentStatus: string(w.Status.State),
			LastSeenAt:    w.Status.LastSeenAt,
		},
		HourlyRate:     w.HourlyRate,
		Rating:         newRating(w.Rating),
		IsActive:       w.IsActive,
		IsVerified:     w.IsVerified,
		IsAvailableNow: w.IsAvailableAt(time.Now()),
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
	if l := w.Location; l != nil {
		resp.Location = &WorkerLocationJSON{
			Coordinates: []float64{l.Point.Longitude, l.Point.Latitude},
			UpdatedAt:   l.UpdatedAt,
		}
	}
	return resp
}

// NewWorkerResponses переводит список исполнителей.
func NewWorkerResponses(items []*entities.Worker) []WorkerResponse {
	return mapSlice(items, NewWorkerResponse)
}
