package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/fairgrounds/registration-service/internal/domain"
	"github.com/fairgrounds/registration-service/internal/repository"
	"github.com/fairgrounds/registration-service/internal/service"
)

// ElectricityRequest describes the hookup section of a submission.
type ElectricityRequest struct {
	Needed bool                    `json:"needed"`
	Type   *domain.ElectricityType `json:"type,omitempty"`
	Watts  *int                    `json:"watts,omitempty"`
}

// CreateRegistrationRequest is the public submission payload. It carries
// applicant-owned content only; status, fee and payment fields are
// managed server-side.
type CreateRegistrationRequest struct {
	ApplicantType domain.ApplicantType `json:"applicantType"`
	CompanyName   *string              `json:"companyName,omitempty"`
	FirstName     string               `json:"firstName"`
	LastName      string               `json:"lastName"`
	BirthDate     time.Time            `json:"birthDate"`
	BirthPlace    string               `json:"birthPlace"`

	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`

	ProductType string           `json:"productType"`
	StandLength float64          `json:"standLength"`
	StandDepth  float64          `json:"standDepth"`
	StandType   domain.StandType `json:"standType"`

	Electricity ElectricityRequest `json:"electricity"`
	Water       bool               `json:"water"`

	ProductCategory domain.ProductCategory `json:"productCategory"`
	ArtisanalType   *string                `json:"artisanalType,omitempty"`
	Demonstration   bool                   `json:"demonstration"`
	Remarks         *string                `json:"remarks,omitempty"`
}

func (req *CreateRegistrationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ApplicantType, validation.Required,
			validation.In(domain.ApplicantCompany, domain.ApplicantAssociation, domain.ApplicantPrivate)),
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.BirthDate, validation.Required),
		validation.Field(&req.BirthPlace, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Address, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.PostalCode, validation.Required, validation.Length(1, 20)),
		validation.Field(&req.City, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Phone, validation.Required, validation.Length(1, 30)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.ProductType, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.StandLength, validation.Required, validation.Min(0.1)),
		validation.Field(&req.StandDepth, validation.Required, validation.Min(0.1)),
		validation.Field(&req.StandType, validation.Required,
			validation.In(domain.StandTent, domain.StandCar, domain.StandCarTrailer, domain.StandSalesVehicle)),
		validation.Field(&req.ProductCategory, validation.Required,
			validation.In(domain.CategoryFleaMarket, domain.CategoryArtisanal)),
	)
}

// ToInput maps the request onto the service input type.
func (req *CreateRegistrationRequest) ToInput() service.RegistrationInput {
	return service.RegistrationInput{
		ApplicantType: req.ApplicantType,
		CompanyName:   req.CompanyName,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		BirthDate:     req.BirthDate,
		BirthPlace:    req.BirthPlace,

		Address:    req.Address,
		PostalCode: req.PostalCode,
		City:       req.City,
		Phone:      req.Phone,
		Email:      req.Email,

		ProductType: req.ProductType,
		StandLength: req.StandLength,
		StandDepth:  req.StandDepth,
		StandType:   req.StandType,

		Electricity: domain.Electricity{
			Needed: req.Electricity.Needed,
			Type:   req.Electricity.Type,
			Watts:  req.Electricity.Watts,
		},
		Water: req.Water,

		ProductCategory: req.ProductCategory,
		ArtisanalType:   req.ArtisanalType,
		Demonstration:   req.Demonstration,
		Remarks:         req.Remarks,
	}
}

// UpdateRegistrationRequest is the moderator-facing mutation payload.
// Details, when present, replaces the applicant content; the other
// fields adjust the administrative state of the registration.
type UpdateRegistrationRequest struct {
	Details *CreateRegistrationRequest `json:"details,omitempty"`

	Status      *domain.RegistrationStatus `json:"status,omitempty"`
	StandNumber *string                    `json:"standNumber,omitempty"`

	PaymentMethod    *domain.PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentDate      *time.Time            `json:"paymentDate,omitempty"`
	PaymentReference *string               `json:"paymentReference,omitempty"`
}

func (req *UpdateRegistrationRequest) Validate() error {
	if req.Details != nil {
		if err := req.Details.Validate(); err != nil {
			return err
		}
	}
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status,
			validation.In(domain.StatusPending, domain.StatusApproved, domain.StatusRejected, domain.StatusPaid)),
		validation.Field(&req.PaymentMethod,
			validation.In(domain.PaymentBankTransfer, domain.PaymentCash, domain.PaymentCheck, domain.PaymentCreditCard, domain.PaymentPaypal)),
	)
}

// ToUpdate maps the request onto the service update type.
func (req *UpdateRegistrationRequest) ToUpdate() service.RegistrationUpdate {
	update := service.RegistrationUpdate{
		Status:           req.Status,
		StandNumber:      req.StandNumber,
		PaymentMethod:    req.PaymentMethod,
		PaymentDate:      req.PaymentDate,
		PaymentReference: req.PaymentReference,
	}
	if req.Details != nil {
		details := req.Details.ToInput()
		update.Details = &details
	}
	return update
}

// ElectricityResponse mirrors the stored hookup request.
type ElectricityResponse struct {
	Needed bool                    `json:"needed"`
	Type   *domain.ElectricityType `json:"type,omitempty"`
	Watts  *int                    `json:"watts,omitempty"`
}

// RegistrationResponse is the full registration representation.
type RegistrationResponse struct {
	ID string `json:"id"`

	ApplicantType domain.ApplicantType `json:"applicantType"`
	CompanyName   *string              `json:"companyName,omitempty"`
	FirstName     string               `json:"firstName"`
	LastName      string               `json:"lastName"`
	BirthDate     time.Time            `json:"birthDate"`
	BirthPlace    string               `json:"birthPlace"`

	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`

	ProductType string           `json:"productType"`
	StandLength float64          `json:"standLength"`
	StandDepth  float64          `json:"standDepth"`
	StandType   domain.StandType `json:"standType"`

	Electricity ElectricityResponse `json:"electricity"`
	Water       bool                `json:"water"`

	ProductCategory domain.ProductCategory `json:"productCategory"`
	ArtisanalType   *string                `json:"artisanalType,omitempty"`
	Demonstration   bool                   `json:"demonstration"`
	Remarks         *string                `json:"remarks,omitempty"`

	Status      domain.RegistrationStatus `json:"status"`
	StandNumber *string                   `json:"standNumber,omitempty"`
	TotalFee    float64                   `json:"totalFee"`

	PaymentDate      *time.Time            `json:"paymentDate,omitempty"`
	PaymentMethod    *domain.PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentReference *string               `json:"paymentReference,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromRegistration builds the response representation.
func FromRegistration(reg *domain.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID: reg.ID,

		ApplicantType: reg.ApplicantType,
		CompanyName:   reg.CompanyName,
		FirstName:     reg.FirstName,
		LastName:      reg.LastName,
		BirthDate:     reg.BirthDate,
		BirthPlace:    reg.BirthPlace,

		Address:    reg.Address,
		PostalCode: reg.PostalCode,
		City:       reg.City,
		Phone:      reg.Phone,
		Email:      reg.Email,

		ProductType: reg.ProductType,
		StandLength: reg.StandLength,
		StandDepth:  reg.StandDepth,
		StandType:   reg.StandType,

		Electricity: ElectricityResponse{
			Needed: reg.Electricity.Needed,
			Type:   reg.Electricity.Type,
			Watts:  reg.Electricity.Watts,
		},
		Water: reg.Water,

		ProductCategory: reg.ProductCategory,
		ArtisanalType:   reg.ArtisanalType,
		Demonstration:   reg.Demonstration,
		Remarks:         reg.Remarks,

		Status:      reg.Status,
		StandNumber: reg.StandNumber,
		TotalFee:    reg.TotalFee,

		PaymentDate:      reg.PaymentDate,
		PaymentMethod:    reg.PaymentMethod,
		PaymentReference: reg.PaymentReference,

		CreatedAt: reg.CreatedAt,
		UpdatedAt: reg.UpdatedAt,
	}
}

// RegistrationListResponse wraps a page of registrations.
type RegistrationListResponse struct {
	Registrations []RegistrationResponse `json:"registrations"`
	Pagination    repository.Page        `json:"pagination"`
}

// FromRegistrations builds a list response.
func FromRegistrations(regs []domain.Registration, page repository.Page) RegistrationListResponse {
	items := make([]RegistrationResponse, 0, len(regs))
	for i := range regs {
		items = append(items, FromRegistration(&regs[i]))
	}
	return RegistrationListResponse{Registrations: items, Pagination: page}
}
