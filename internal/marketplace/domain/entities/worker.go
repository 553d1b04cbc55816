package entities

import (
	"strings"
	"time"
)

// WorkerState текущее состояние исполнителя.
type WorkerState string

// Состояния исполнителя.
const (
	WorkerAvailable WorkerState = "available"
	WorkerBusy      WorkerState = "busy"
	WorkerOnBreak   WorkerState = "on_break"
	WorkerOffline   WorkerState = "offline"
)

// DefaultNearbyWorkersKm радиус поиска исполнителей по умолчанию.
const DefaultNearbyWorkersKm = 10

// WorkerProfile персональные данные исполнителя.
type WorkerProfile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Avatar    string
	Bio       string
}

// ScheduleSlot рабочие часы в один день недели.
type ScheduleSlot struct {
	DayOfWeek   int
	StartTime   string
	EndTime     string
	IsAvailable bool
}

// TimeOff отпуск или отгул.
type TimeOff struct {
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// WorkerAvailability расписание и отгулы.
type WorkerAvailability struct {
	Schedule []ScheduleSlot
	TimeOff  []TimeOff
}

// AvailabilityUpdate частичное обновление расписания, nil поля не меняются.
type AvailabilityUpdate struct {
	Schedule []ScheduleSlot
	TimeOff  []TimeOff
}

// WorkerStatus онлайн статус.
type WorkerStatus struct {
	IsOnline   bool
	State      WorkerState
	LastSeenAt *time.Time
}

// WorkerLocation последняя известная позиция.
type WorkerLocation struct {
	Point     GeoPoint
	UpdatedAt time.Time
}

// Worker исполнитель бизнеса.
type Worker struct {
	ID              string
	BusinessID      string
	AccountID       string
	Profile         WorkerProfile
	Services        []string
	Specializations []string
	Certifications  []Certification
	ExperienceYears int
	Availability    WorkerAvailability
	Status          WorkerStatus
	Location        *WorkerLocation
	HourlyRate      *float64
	Rating          Rating
	IsActive        bool
	IsVerified      bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName имя и фамилия.
func (w *Worker) FullName() string {
	return strings.TrimSpace(w.Profile.FirstName + " " + w.Profile.LastName)
}

// SetOnline меняет онлайн статус и время последней активности.
func (w *Worker) SetOnline(online bool, now time.Time) {
	w.Status.IsOnline = online
	w.Status.State = WorkerOffline
	if online {
		w.Status.State = WorkerAvailable
	}
	w.Status.LastSeenAt = &now
}

// Toggle переключает активность, деактивация переводит исполнителя в офлайн.
func (w *Worker) Toggle(now time.Time) {
	w.IsActive = !w.IsActive
	if !w.IsActive {
		w.SetOnline(false, now)
	}
}

// MoveTo обновляет позицию.
func (w *Worker) MoveTo(p GeoPoint, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	w.Location = &WorkerLocation{Point: p, UpdatedAt: now}
	return nil
}

// UpdateAvailability накладывает изменения расписания.
func (w *Worker) UpdateAvailability(u AvailabilityUpdate) error {
	for _, s := range u.Schedule {
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 || !validClock(s.StartTime) || !validClock(s.EndTime) {
			return ErrInvalidHours
		}
	}
	if u.Schedule != nil {
		w.Availability.Schedule = u.Schedule
	}
	if u.TimeOff != nil {
		w.Availability.TimeOff = u.TimeOff
	}
	return nil
}

// IsAvailableAt сообщает, может ли исполнитель принять работу в момент t.
func (w *Worker) IsAvailableAt(t time.Time) bool {
	if !w.IsActive || !w.Status.IsOnline {
		return false
	}
	for _, off := range w.Availability.TimeOff {
		if !t.Before(off.StartDate) && !t.After(off.EndDate) {
			return false
		}
	}
	day := int(t.Weekday())
	now := clockOf(t)
	for _, s := range w.Availability.Schedule {
		if s.DayOfWeek == day {
			return s.IsAvailable && now >= s.StartTime && now <= s.EndTime
		}
	}
	return false
}

// Validate проверяет обязательные поля.
func (w *Worker) Validate() error {
	w.Profile.Email = strings.ToLower(strings.TrimSpace(w.Profile.Email))
	w.Profile.FirstName = strings.TrimSpace(w.Profile.FirstName)
	if w.Profile.Email == "" {
		return ErrWorkerEmailMissing
	}
	if w.Profile.FirstName == "" {
		return ErrNameRequired
	}
	if w.ExperienceYears < 0 || (w.HourlyRate != nil && *w.HourlyRate < 0) {
		return ErrNegativeNumber
	}
	if w.Status.State == "" {
		w.Status.State = WorkerOffline
	}
	return nil
}

// WorkerPatch частичное обновление исполнителя.
// Бизнес, учетная запись, статус и позиция меняются отдельными операциями.
type WorkerPatch struct {
	Profile         *WorkerProfile
	Bio             *string
	Specializations []string
	ExperienceYears *int
	HourlyRate      *float64
}

// Apply накладывает патч. Непустые поля Profile заменяют текущие.
func (w *Worker) Apply(p WorkerPatch) {
	if p.Profile != nil {
		mergeString(&w.Profile.FirstName, p.Profile.FirstName)
		mergeString(&w.Profile.LastName, p.Profile.LastName)
		mergeString(&w.Profile.Email, p.Profile.Email)
		mergeString(&w.Profile.Phone, p.Profile.Phone)
		mergeString(&w.Profile.Avatar, p.Profile.Avatar)
		mergeString(&w.Profile.Bio, p.Profile.Bio)
	}
	setIf(&w.Profile.Bio, p.Bio)
	setIf(&w.ExperienceYears, p.ExperienceYears)
	if p.Specializations != nil {
		w.Specializations = p.Specializations
	}
	if p.HourlyRate != nil {
		w.HourlyRate = p.HourlyRate
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// WorkerInput данные нового исполнителя.
// Для индивидуального бизнеса профиль берется из учетной записи владельца.
type WorkerInput struct {
	Profile         WorkerProfile
	Specializations []string
	Services        []string
	ExperienceYears int
	HourlyRate      *float64
}
