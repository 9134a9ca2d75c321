package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fairgrounds/registration-service/internal/domain"
	"github.com/fairgrounds/registration-service/internal/events"
	"github.com/fairgrounds/registration-service/internal/repository"
	"github.com/fairgrounds/registration-service/pkg/util"
)

// RegistrationService coordinates the registration lifecycle: intake,
// corrections, status transitions, and payment recording.
type RegistrationService struct {
	regs       repository.RegistrationRepository
	dispatcher events.Dispatcher
}

// RegistrationDependencies bundles collaborators for the service.
type RegistrationDependencies struct {
	RegistrationRepo repository.RegistrationRepository
	Dispatcher       events.Dispatcher
}

// NewRegistrationService constructs the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	return &RegistrationService{
		regs:       deps.RegistrationRepo,
		dispatcher: deps.Dispatcher,
	}
}

// RegistrationInput carries the applicant-editable content of a
// registration. Administrative fields (status, stand number, payment)
// are never part of it.
type RegistrationInput struct {
	ApplicantType domain.ApplicantType
	CompanyName   *string
	FirstName     string
	LastName      string
	BirthDate     time.Time
	BirthPlace    string

	Address    string
	PostalCode string
	City       string
	Phone      string
	Email      string

	ProductType string
	StandLength float64
	StandDepth  float64
	StandType   domain.StandType

	Electricity domain.Electricity
	Water       bool

	ProductCategory domain.ProductCategory
	ArtisanalType   *string
	Demonstration   bool
	Remarks         *string
}

// RegistrationUpdate describes a registration mutation. Details, when
// present, replaces the applicant content wholesale; the remaining fields
// are administrative and applied independently of each other.
type RegistrationUpdate struct {
	Details *RegistrationInput

	Status      *domain.RegistrationStatus
	StandNumber *string

	PaymentMethod    *domain.PaymentMethod
	PaymentDate      *time.Time
	PaymentReference *string
}

// RegistrationListFilter describes listing parameters.
type RegistrationListFilter struct {
	Status *domain.RegistrationStatus
	Search *string
	Page   int
	Limit  int
}

// Create stores a new public submission. The fee is derived server-side
// and the status always starts at pending.
func (s *RegistrationService) Create(ctx context.Context, actor events.Actor, input RegistrationInput) (*domain.Registration, error) {
	reg := &domain.Registration{Status: domain.StatusPending}
	applyInput(reg, input)
	reg.TotalFee = domain.ComputeFee(reg.StandLength)

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	if err := s.regs.Create(ctx, reg); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventRegistrationCreated,
		EntityID: reg.ID,
		Actor:    actor,
		Payload: events.RegistrationCreatedPayload{
			ApplicantType:   reg.ApplicantType,
			ProductCategory: reg.ProductCategory,
			Email:           reg.Email,
			TotalFee:        reg.TotalFee,
		},
	})
	return reg, nil
}

// Get fetches a single registration.
func (s *RegistrationService) Get(ctx context.Context, id string) (*domain.Registration, error) {
	reg, err := s.regs.GetByID(ctx, id)
	if err != nil {
		return nil, mapRegistrationErr(err)
	}
	return reg, nil
}

// List returns a page of registrations matching the filter. An empty
// match is not an error; the page metadata still describes it.
func (s *RegistrationService) List(ctx context.Context, filter RegistrationListFilter) ([]domain.Registration, repository.Page, error) {
	page := repository.NormalizePage(filter.Page)
	limit := repository.NormalizeLimit(filter.Limit)

	repoFilter := repository.RegistrationFilter{
		Status: filter.Status,
		Search: filter.Search,
		Limit:  limit,
		Offset: repository.Offset(page, limit),
	}

	items, err := s.regs.List(ctx, repoFilter)
	if err != nil {
		return nil, repository.Page{}, err
	}
	total, err := s.regs.Count(ctx, repoFilter)
	if err != nil {
		return nil, repository.Page{}, err
	}
	if items == nil {
		items = []domain.Registration{}
	}
	return items, repository.NewPage(page, limit, total), nil
}

// Update applies a correction, status transition, stand assignment, or
// payment record. The whole update is validated against the resulting
// state and written as a single statement, so a rejected update leaves
// the registration untouched and fee/status are never inconsistent.
func (s *RegistrationService) Update(ctx context.Context, actor events.Actor, id string, update RegistrationUpdate) (*domain.Registration, error) {
	reg, err := s.regs.GetByID(ctx, id)
	if err != nil {
		return nil, mapRegistrationErr(err)
	}

	oldStatus := reg.Status

	if update.Details != nil {
		applyInput(reg, *update.Details)
	}
	if update.StandNumber != nil {
		standNumber := strings.TrimSpace(*update.StandNumber)
		if standNumber == "" {
			reg.StandNumber = nil
		} else {
			reg.StandNumber = &standNumber
		}
	}
	if update.Status != nil {
		reg.Status = *update.Status
	}
	if update.PaymentMethod != nil {
		reg.PaymentMethod = update.PaymentMethod
	}
	if update.PaymentDate != nil {
		reg.PaymentDate = update.PaymentDate
	}
	if update.PaymentReference != nil {
		reg.PaymentReference = update.PaymentReference
	}

	if reg.Status == domain.StatusPaid {
		missing := map[string]any{}
		if reg.PaymentMethod == nil {
			missing["paymentMethod"] = "is required"
		}
		if reg.PaymentDate == nil {
			missing["paymentDate"] = "is required"
		}
		if len(missing) > 0 {
			return nil, util.NewMissingPaymentInfo(missing)
		}
	}

	// Fee follows the stand length through every write.
	reg.TotalFee = domain.ComputeFee(reg.StandLength)

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	if err := s.regs.Update(ctx, reg); err != nil {
		return nil, mapRegistrationErr(err)
	}

	if reg.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type:     events.EventRegistrationStatusChanged,
			EntityID: reg.ID,
			Actor:    actor,
			Payload: events.RegistrationStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: reg.Status,
			},
		})
		if reg.Status == domain.StatusPaid {
			s.publish(ctx, events.Event{
				Type:     events.EventRegistrationPaid,
				EntityID: reg.ID,
				Actor:    actor,
				Payload: events.RegistrationPaidPayload{
					PaymentMethod:    *reg.PaymentMethod,
					PaymentDate:      *reg.PaymentDate,
					PaymentReference: reg.PaymentReference,
					Amount:           reg.TotalFee,
				},
			})
		}
	} else {
		// A write with no status transition still changes what the
		// statistics report (fees, stand sizes), so it gets its own event.
		s.publish(ctx, events.Event{
			Type:     events.EventRegistrationUpdated,
			EntityID: reg.ID,
			Actor:    actor,
			Payload:  events.RegistrationUpdatedPayload{TotalFee: reg.TotalFee},
		})
	}
	return reg, nil
}

// Delete permanently removes a registration.
func (s *RegistrationService) Delete(ctx context.Context, actor events.Actor, id string) error {
	if err := s.regs.Delete(ctx, id); err != nil {
		return mapRegistrationErr(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventRegistrationDeleted,
		EntityID: id,
		Actor:    actor,
	})
	return nil
}

func applyInput(reg *domain.Registration, input RegistrationInput) {
	reg.ApplicantType = input.ApplicantType
	reg.CompanyName = input.CompanyName
	reg.FirstName = strings.TrimSpace(input.FirstName)
	reg.LastName = strings.TrimSpace(input.LastName)
	reg.BirthDate = input.BirthDate
	reg.BirthPlace = strings.TrimSpace(input.BirthPlace)
	reg.Address = strings.TrimSpace(input.Address)
	reg.PostalCode = strings.TrimSpace(input.PostalCode)
	reg.City = strings.TrimSpace(input.City)
	reg.Phone = strings.TrimSpace(input.Phone)
	reg.Email = strings.TrimSpace(input.Email)
	reg.ProductType = strings.TrimSpace(input.ProductType)
	reg.StandLength = input.StandLength
	reg.StandDepth = input.StandDepth
	reg.StandType = input.StandType
	reg.Electricity = input.Electricity
	reg.Water = input.Water
	reg.ProductCategory = input.ProductCategory
	reg.ArtisanalType = input.ArtisanalType
	reg.Demonstration = input.Demonstration
	reg.Remarks = input.Remarks
}

func mapRegistrationErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound("registration", nil)
	}
	return err
}

func (s *RegistrationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
