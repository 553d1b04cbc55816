// Package entities содержит сущности маркетплейса: питомцев, бизнесы, услуги и исполнителей.
package entities

import (
	"errors"
	"fmt"
)

// Базовые классы ошибок, по ним транспорт выбирает статус ответа.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// Ошибки маркетплейса.
var (
	ErrPetNotFound      = fmt.Errorf("pet %w", ErrNotFound)
	ErrBusinessNotFound = fmt.Errorf("business %w", ErrNotFound)
	ErrServiceNotFound  = fmt.Errorf("service %w", ErrNotFound)
	ErrWorkerNotFound   = fmt.Errorf("worker %w", ErrNotFound)
	ErrNoBusinessForMe  = fmt.Errorf("business profile for this account %w", ErrNotFound)

	ErrBusinessExists  = fmt.Errorf("%w: you already have a business profile", ErrConflict)
	ErrAlreadyCoOwner  = fmt.Errorf("%w: this user is already a co-owner", ErrConflict)
	ErrWorkerExists    = fmt.Errorf("%w: worker with this email already exists in your business", ErrConflict)
	ErrOwnerWorkerDup  = fmt.Errorf("%w: you already have a worker profile for this business", ErrConflict)
	ErrCannotCoOwnSelf = fmt.Errorf("%w: the owner is already the primary owner", ErrInvalidInput)

	ErrInvalidSpecies        = fmt.Errorf("%w: unknown species", ErrInvalidInput)
	ErrInvalidPetStatus      = fmt.Errorf("%w: unknown pet status", ErrInvalidInput)
	ErrInvalidBusinessStatus = fmt.Errorf("%w: unknown business status", ErrInvalidInput)
	ErrInvalidPaymentStatus  = fmt.Errorf("%w: unknown payment account status", ErrInvalidInput)
	ErrInvalidCategory       = fmt.Errorf("%w: unknown service category", ErrInvalidInput)
	ErrInvalidPricingType    = fmt.Errorf("%w: unknown pricing type", ErrInvalidInput)
	ErrInvalidLocation       = fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	ErrInvalidHours          = fmt.Errorf("%w: operating hours must use day 0-6 and HH:MM times", ErrInvalidInput)
	ErrNameRequired          = fmt.Errorf("%w: name is required", ErrInvalidInput)
	ErrNegativeNumber        = fmt.Errorf("%w: value must not be negative", ErrInvalidInput)
	ErrWorkerEmailMissing    = fmt.Errorf("%w: worker profile with email is required", ErrInvalidInput)
	ErrForeignService        = fmt.Errorf("%w: services must belong to the business", ErrInvalidInput)
)

// ErrUnsupportedPhoto тип файла, который нельзя загрузить как фото.
var ErrUnsupportedPhoto = fmt.Errorf("%w: photo must be jpeg, png or webp", ErrInvalidInput)
