package domain

import (
	"time"

	"github.com/fairgrounds/registration-service/pkg/util"
)

// RegistrationStatus enumerates lifecycle states for registrations.
type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "pending"
	StatusApproved RegistrationStatus = "approved"
	StatusRejected RegistrationStatus = "rejected"
	StatusPaid     RegistrationStatus = "paid"
)

// ApplicantType classifies who is applying for a booth.
type ApplicantType string

const (
	ApplicantCompany     ApplicantType = "company"
	ApplicantAssociation ApplicantType = "association"
	ApplicantPrivate     ApplicantType = "private"
)

// StandType enumerates physical booth configurations.
type StandType string

const (
	StandTent         StandType = "tent"
	StandCar          StandType = "carStand"
	StandCarTrailer   StandType = "carTrailerStand"
	StandSalesVehicle StandType = "salesVehicle"
)

// Minimum stand lengths imposed by vehicle footprints.
const (
	minCarStandLength        = 6.0
	minCarTrailerStandLength = 9.0
)

// ElectricityType enumerates supported hookups.
type ElectricityType string

const (
	Electricity240vLighting ElectricityType = "240v-lighting"
	Electricity240vHigh     ElectricityType = "240v-high"
	Electricity400v         ElectricityType = "400v"
)

// ProductCategory splits flea-market vendors from artisans.
type ProductCategory string

const (
	CategoryFleaMarket ProductCategory = "fleaMarket"
	CategoryArtisanal  ProductCategory = "artisanal"
)

// PaymentMethod enumerates manually recorded payment channels.
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
	PaymentCheck        PaymentMethod = "check"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentPaypal       PaymentMethod = "paypal"
)

// Electricity captures the hookup request for a stand. Type is required when
// Needed is set; Watts is required for high-draw hookups.
type Electricity struct {
	Needed bool
	Type   *ElectricityType
	Watts  *int
}

// Registration is the aggregate for booth applications.
type Registration struct {
	ID string

	ApplicantType ApplicantType
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
	StandType   StandType

	Electricity Electricity
	Water       bool

	ProductCategory ProductCategory
	ArtisanalType   *string
	Demonstration   bool
	Remarks         *string

	Status      RegistrationStatus
	StandNumber *string
	TotalFee    float64

	PaymentDate      *time.Time
	PaymentMethod    *PaymentMethod
	PaymentReference *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StandArea returns the footprint in square meters.
func (r *Registration) StandArea() float64 {
	return r.StandLength * r.StandDepth
}

// Validate checks structural invariants and returns a field-keyed
// validation error covering every violated field at once.
func (r *Registration) Validate() error {
	fields := map[string]any{}

	switch r.ApplicantType {
	case ApplicantCompany:
		if r.CompanyName == nil || *r.CompanyName == "" {
			fields["companyName"] = "company name is required for company applicants"
		}
	case ApplicantAssociation, ApplicantPrivate:
	default:
		fields["applicantType"] = "must be one of company, association, private"
	}

	requireString(fields, "firstName", r.FirstName)
	requireString(fields, "lastName", r.LastName)
	requireString(fields, "birthPlace", r.BirthPlace)
	if r.BirthDate.IsZero() {
		fields["birthDate"] = "is required"
	}
	requireString(fields, "address", r.Address)
	requireString(fields, "postalCode", r.PostalCode)
	requireString(fields, "city", r.City)
	requireString(fields, "phone", r.Phone)
	requireString(fields, "email", r.Email)
	requireString(fields, "productType", r.ProductType)

	if r.StandLength <= 0 {
		fields["standLength"] = "must be greater than 0"
	}
	if r.StandDepth <= 0 {
		fields["standDepth"] = "must be greater than 0"
	}

	switch r.StandType {
	case StandTent, StandSalesVehicle:
	case StandCar:
		if r.StandLength < minCarStandLength {
			fields["standLength"] = "minimum 6m required for a stand with car"
		}
	case StandCarTrailer:
		if r.StandLength < minCarTrailerStandLength {
			fields["standLength"] = "minimum 9m required for a stand with car and trailer"
		}
	default:
		fields["standType"] = "must be one of tent, carStand, carTrailerStand, salesVehicle"
	}

	if r.Electricity.Needed {
		if r.Electricity.Type == nil {
			fields["electricity.type"] = "is required when electricity is needed"
		} else {
			switch *r.Electricity.Type {
			case Electricity240vLighting:
			case Electricity240vHigh, Electricity400v:
				if r.Electricity.Watts == nil || *r.Electricity.Watts <= 0 {
					fields["electricity.watts"] = "a positive wattage is required for this hookup"
				}
			default:
				fields["electricity.type"] = "must be one of 240v-lighting, 240v-high, 400v"
			}
		}
	}

	switch r.ProductCategory {
	case CategoryFleaMarket:
	case CategoryArtisanal:
		if r.ArtisanalType == nil || *r.ArtisanalType == "" {
			fields["artisanalType"] = "is required for artisanal vendors"
		}
	default:
		fields["productCategory"] = "must be one of fleaMarket, artisanal"
	}

	switch r.Status {
	case StatusPending, StatusApproved, StatusRejected, StatusPaid:
	default:
		fields["status"] = "must be one of pending, approved, rejected, paid"
	}

	if r.PaymentMethod != nil && !validPaymentMethod(*r.PaymentMethod) {
		fields["paymentMethod"] = "must be one of bank_transfer, cash, check, credit_card, paypal"
	}

	if len(fields) > 0 {
		return util.NewValidationError("registration validation failed", fields)
	}
	return nil
}

func requireString(fields map[string]any, name, value string) {
	if value == "" {
		fields[name] = "is required"
	}
}

func validPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentBankTransfer, PaymentCash, PaymentCheck, PaymentCreditCard, PaymentPaypal:
		return true
	}
	return false
}
