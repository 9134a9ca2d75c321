package events

import (
	"time"

	"github.com/fairgrounds/registration-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRegistrationCreated       EventType = "registration_created"
	EventRegistrationUpdated       EventType = "registration_updated"
	EventRegistrationStatusChanged EventType = "registration_status_changed"
	EventRegistrationPaid          EventType = "registration_paid"
	EventRegistrationDeleted       EventType = "registration_deleted"
	EventUserCreated               EventType = "user_created"
	EventUserDeleted               EventType = "user_deleted"
)

// Actor encapsulates actor metadata for an event. A nil UserID means the
// anonymous public (the open submission endpoint).
type Actor struct {
	UserID *string      `json:"user_id,omitempty"`
	Role   *domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RegistrationCreatedPayload payload.
type RegistrationCreatedPayload struct {
	ApplicantType   domain.ApplicantType   `json:"applicant_type"`
	ProductCategory domain.ProductCategory `json:"product_category"`
	Email           string                 `json:"email"`
	TotalFee        float64                `json:"total_fee"`
}

// RegistrationUpdatedPayload payload for writes that leave the status
// untouched (detail corrections, stand assignment, payment metadata).
type RegistrationUpdatedPayload struct {
	TotalFee float64 `json:"total_fee"`
}

// RegistrationStatusChangedPayload payload.
type RegistrationStatusChangedPayload struct {
	OldStatus domain.RegistrationStatus `json:"old_status"`
	NewStatus domain.RegistrationStatus `json:"new_status"`
}

// RegistrationPaidPayload payload.
type RegistrationPaidPayload struct {
	PaymentMethod    domain.PaymentMethod `json:"payment_method"`
	PaymentDate      time.Time            `json:"payment_date"`
	PaymentReference *string              `json:"payment_reference,omitempty"`
	Amount           float64              `json:"amount"`
}

// UserChangedPayload payload for user lifecycle events.
type UserChangedPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}
