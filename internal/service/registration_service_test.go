package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairgrounds/registration-service/internal/domain"
	"github.com/fairgrounds/registration-service/internal/events"
	"github.com/fairgrounds/registration-service/internal/repository"
	"github.com/fairgrounds/registration-service/pkg/util"
)

func newRegistrationService() (*RegistrationService, *fakeRegistrationRepo, *recordingDispatcher) {
	repo := newFakeRegistrationRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewRegistrationService(RegistrationDependencies{
		RegistrationRepo: repo,
		Dispatcher:       dispatcher,
	})
	return svc, repo, dispatcher
}

func sampleInput() RegistrationInput {
	return RegistrationInput{
		ApplicantType:   domain.ApplicantPrivate,
		FirstName:       "Jean",
		LastName:        "Martin",
		BirthDate:       time.Date(1980, 4, 12, 0, 0, 0, 0, time.UTC),
		BirthPlace:      "Lyon",
		Address:         "12 rue des Halles",
		PostalCode:      "69001",
		City:            "Lyon",
		Phone:           "+33600000000",
		Email:           "jean.martin@example.com",
		ProductType:     "vintage books",
		StandLength:     5,
		StandDepth:      2,
		StandType:       domain.StandTent,
		ProductCategory: domain.CategoryFleaMarket,
	}
}

func TestRegistrationCreate(t *testing.T) {
	svc, repo, dispatcher := newRegistrationService()

	reg, err := svc.Create(context.Background(), events.Actor{}, sampleInput())
	require.NoError(t, err)

	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, domain.StatusPending, reg.Status)
	assert.Equal(t, 35.0, reg.TotalFee)
	assert.Nil(t, reg.StandNumber)
	assert.Nil(t, reg.PaymentMethod)

	stored, err := repo.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.TotalFee, stored.TotalFee)

	created := dispatcher.published(events.EventRegistrationCreated)
	require.Len(t, created, 1)
	assert.Equal(t, reg.ID, created[0].EntityID)
	assert.Nil(t, created[0].Actor.UserID)
}

func TestRegistrationCreateTrimsWhitespace(t *testing.T) {
	svc, _, _ := newRegistrationService()

	input := sampleInput()
	input.FirstName = "  Jean "
	input.Email = " jean.martin@example.com "

	reg, err := svc.Create(context.Background(), events.Actor{}, input)
	require.NoError(t, err)
	assert.Equal(t, "Jean", reg.FirstName)
	assert.Equal(t, "jean.martin@example.com", reg.Email)
}

func TestRegistrationCreateRejectsInvalid(t *testing.T) {
	svc, repo, dispatcher := newRegistrationService()

	input := sampleInput()
	input.StandType = domain.StandCar
	input.StandLength = 4 // below the 6m vehicle minimum

	_, err := svc.Create(context.Background(), events.Actor{}, input)
	assert.True(t, util.IsCode(err, "VALIDATION_FAILED"))

	total, err := repo.Count(context.Background(), repository.RegistrationFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, dispatcher.published(events.EventRegistrationCreated))
}

func TestRegistrationUpdateApprove(t *testing.T) {
	svc, _, dispatcher := newRegistrationService()
	reg := mustCreate(t, svc, sampleInput())

	approved := domain.StatusApproved
	standNumber := "A-12"
	updated, err := svc.Update(context.Background(), events.Actor{}, reg.ID, RegistrationUpdate{
		Status:      &approved,
		StandNumber: &standNumber,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	require.NotNil(t, updated.StandNumber)
	assert.Equal(t, "A-12", *updated.StandNumber)

	changes := dispatcher.published(events.EventRegistrationStatusChanged)
	require.Len(t, changes, 1)
	payload, ok := changes[0].Payload.(events.RegistrationStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPending, payload.OldStatus)
	assert.Equal(t, domain.StatusApproved, payload.NewStatus)
}

func TestRegistrationUpdateMarkPaidRequiresPaymentInfo(t *testing.T) {
	svc, repo, _ := newRegistrationService()
	reg := mustCreate(t, svc, sampleInput())

	paid := domain.StatusPaid
	_, err := svc.Update(context.Background(), events.Actor{}, reg.ID, RegistrationUpdate{Status: &paid})
	assert.True(t, util.IsCode(err, "MISSING_PAYMENT_INFO"))

	// The rejected transition leaves the stored registration untouched.
	stored, getErr := repo.GetByID(context.Background(), reg.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestRegistrationUpdateMarkPaid(t *testing.T) {
	svc, _, dispatcher := newRegistrationService()
	reg := mustCreate(t, svc, sampleInput())

	paid := domain.StatusPaid
	method := domain.PaymentBankTransfer
	paymentDate := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	reference := "TRF-2025-001"

	updated, err := svc.Update(context.Background(), events.Actor{}, reg.ID, RegistrationUpdate{
		Status:           &paid,
		PaymentMethod:    &method,
		PaymentDate:      &paymentDate,
		PaymentReference: &reference,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)

	paidEvents := dispatcher.published(events.EventRegistrationPaid)
	require.Len(t, paidEvents, 1)
	payload, ok := paidEvents[0].Payload.(events.RegistrationPaidPayload)
	require.True(t, ok)
	assert.Equal(t, domain.PaymentBankTransfer, payload.PaymentMethod)
	assert.Equal(t, updated.TotalFee, payload.Amount)
}

func TestRegistrationUpdateRecomputesFee(t *testing.T) {
	svc, _, _ := newRegistrationService()
	reg := mustCreate(t, svc, sampleInput())
	assert.Equal(t, 35.0, reg.TotalFee)

	details := sampleInput()
	details.StandLength = 8
	updated, err := svc.Update(context.Background(), events.Actor{}, reg.ID, RegistrationUpdate{Details: &details})
	require.NoError(t, err)
	assert.Equal(t, 56.0, updated.TotalFee)
}

func TestRegistrationDetailsOnlyUpdatePublishesEvent(t *testing.T) {
	svc, _, dispatcher := newRegistrationService()
	reg := mustCreate(t, svc, sampleInput())

	details := sampleInput()
	details.StandLength = 8
	_, err := svc.Update(context.Background(), events.Actor{}, reg.ID, RegistrationUpdate{Details: &details})
	require.NoError(t, err)

	// A fee correction with no status transition still announces itself,
	// so cached statistics are dropped on every write.
	updatedEvents := dispatcher.published(events.EventRegistrationUpdated)
	require.Len(t, updatedEvents, 1)
	payload, ok := updatedEvents[0].Payload.(events.RegistrationUpdatedPayload)
	require.True(t, ok)
	assert.Equal(t, 56.0, payload.TotalFee)
	assert.Empty(t, dispatcher.published(events.EventRegistrationStatusChanged))
}

func TestRegistrationUpdateClearsStandNumber(t *testing.T) {
	svc, _, _ := newRegistrationService()
	reg := mustCreate(t, svc, sampleInput())

	standNumber := "B-7"
	_, err := svc.Update(context.Background(), events.Actor{}, reg.ID, RegistrationUpdate{StandNumber: &standNumber})
	require.NoError(t, err)

	blank := "  "
	updated, err := svc.Update(context.Background(), events.Actor{}, reg.ID, RegistrationUpdate{StandNumber: &blank})
	require.NoError(t, err)
	assert.Nil(t, updated.StandNumber)
}

func TestRegistrationUpdateNotFound(t *testing.T) {
	svc, _, _ := newRegistrationService()
	approved := domain.StatusApproved
	_, err := svc.Update(context.Background(), events.Actor{}, "missing-id", RegistrationUpdate{Status: &approved})
	assert.True(t, util.IsCode(err, "NOT_FOUND"))
}

func TestRegistrationDelete(t *testing.T) {
	svc, _, dispatcher := newRegistrationService()
	reg := mustCreate(t, svc, sampleInput())

	require.NoError(t, svc.Delete(context.Background(), events.Actor{}, reg.ID))
	_, err := svc.Get(context.Background(), reg.ID)
	assert.True(t, util.IsCode(err, "NOT_FOUND"))
	assert.Len(t, dispatcher.published(events.EventRegistrationDeleted), 1)

	err = svc.Delete(context.Background(), events.Actor{}, reg.ID)
	assert.True(t, util.IsCode(err, "NOT_FOUND"))
}

func TestRegistrationListPagination(t *testing.T) {
	svc, _, _ := newRegistrationService()
	for i := 0; i < 25; i++ {
		input := sampleInput()
		input.Email = fmt.Sprintf("vendor%02d@example.com", i)
		mustCreate(t, svc, input)
	}

	items, page, err := svc.List(context.Background(), RegistrationListFilter{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 10)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.Pages)

	items, page, err = svc.List(context.Background(), RegistrationListFilter{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, 3, page.Pages)
}

func TestRegistrationListStatusFilter(t *testing.T) {
	svc, _, _ := newRegistrationService()
	first := mustCreate(t, svc, sampleInput())
	mustCreate(t, svc, sampleInput())

	approved := domain.StatusApproved
	_, err := svc.Update(context.Background(), events.Actor{}, first.ID, RegistrationUpdate{Status: &approved})
	require.NoError(t, err)

	items, page, err := svc.List(context.Background(), RegistrationListFilter{Status: &approved})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, int64(1), page.Total)
}

func TestRegistrationListSearch(t *testing.T) {
	svc, _, _ := newRegistrationService()

	input := sampleInput()
	input.FirstName = "Amelie"
	input.Email = "amelie@example.com"
	target := mustCreate(t, svc, input)
	mustCreate(t, svc, sampleInput())

	search := "AMEL"
	items, _, err := svc.List(context.Background(), RegistrationListFilter{Search: &search})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, target.ID, items[0].ID)
}

func TestRegistrationListEmpty(t *testing.T) {
	svc, _, _ := newRegistrationService()
	items, page, err := svc.List(context.Background(), RegistrationListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.Pages)
}

func TestRegistrationListNewestFirst(t *testing.T) {
	svc, _, _ := newRegistrationService()
	mustCreate(t, svc, sampleInput())
	newer := mustCreate(t, svc, sampleInput())

	items, _, err := svc.List(context.Background(), RegistrationListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, newer.ID, items[0].ID)
}

func mustCreate(t *testing.T, svc *RegistrationService, input RegistrationInput) *domain.Registration {
	t.Helper()
	reg, err := svc.Create(context.Background(), events.Actor{}, input)
	require.NoError(t, err)
	return reg
}
