package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/wizard"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	addr *models.AddressLookup
	err  error
}

func (s stubFinder) LookupCEP(context.Context, string) (*models.AddressLookup, error) {
	return s.addr, s.err
}

// blockingSubmitter holds every submit until release is closed
type blockingSubmitter struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
	result  *models.SubmissionResult
	err     error
}

func (b *blockingSubmitter) Submit(ctx context.Context, _ models.Submission) (*models.SubmissionResult, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	if b.started != nil {
		b.started <- struct{}{}
	}
	if b.release != nil {
		<-b.release
	}
	return b.result, b.err
}

func newTestSessionService(store SessionStore, finder wizard.AddressFinder, submitter wizard.Submitter) *WizardSessionService {
	return NewWizardSessionService(store, time.Hour, wizard.LayoutFour, finder, submitter, logging.Nop())
}

// fillSession sets every field and walks the session to its last step
func fillSession(t *testing.T, svc *WizardSessionService, id string) wizard.State {
	t.Helper()
	sub := testSubmission()
	state, err := svc.SetFields(context.Background(), id, map[string]string{
		"planId": sub.PlanID, "cpf": sub.CPF, "birth": sub.Birth, "name": sub.Name,
		"email": sub.Email, "phone": sub.Phone, "cell": sub.Cell,
		"street": sub.Street, "city": sub.City, "state": sub.State, "district": sub.District,
		"number": sub.Number, "deliveryMethod": string(sub.DeliveryMethod),
	})
	require.NoError(t, err)
	for !state.OnLastStep() {
		state, err = svc.Advance(context.Background(), id)
		require.NoError(t, err)
	}
	state, err = svc.SetFields(context.Background(), id, map[string]string{"cep": "01310930"})
	require.NoError(t, err)
	return state
}

func TestWizardSessionService_CreateAndLoad(t *testing.T) {
	store := newFakeStore()
	svc := newTestSessionService(store, nil, nil)

	created, err := svc.Create(context.Background(), "")
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.LayoutFour, created.Layout)
	assert.Equal(t, time.Hour, store.ttls["wizard:session:"+created.ID])

	loaded, err := svc.Load(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)

	five, err := svc.Create(context.Background(), "five")
	require.NoError(t, err)
	assert.Equal(t, 5, five.TotalSteps())

	_, err = svc.Create(context.Background(), "seven")
	assert.ErrorIs(t, err, wizard.ErrUnknownLayout)
}

func TestWizardSessionService_LoadMissing(t *testing.T) {
	svc := newTestSessionService(newFakeStore(), nil, nil)

	_, err := svc.Load(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	_, err = svc.Load(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestWizardSessionService_StoreFailure(t *testing.T) {
	store := newFakeStore()
	svc := newTestSessionService(store, nil, nil)
	created, err := svc.Create(context.Background(), "")
	require.NoError(t, err)

	store.failWith = errors.New("connection refused")

	_, err = svc.Load(context.Background(), created.ID)
	assert.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, models.ErrSessionNotFound)

	_, err = svc.Create(context.Background(), "")
	assert.Error(t, err)
}

func TestWizardSessionService_SetFieldsTriggersLookup(t *testing.T) {
	finder := stubFinder{addr: &models.AddressLookup{
		Street: "Avenida Paulista", District: "Bela Vista", City: "São Paulo", State: "SP", Found: true,
	}}
	svc := newTestSessionService(newFakeStore(), finder, nil)
	created, err := svc.Create(context.Background(), "")
	require.NoError(t, err)

	state, err := svc.SetFields(context.Background(), created.ID, map[string]string{"cep": "01310930", "cpf": "52998224725"})
	require.NoError(t, err)

	assert.Equal(t, "01310-930", state.Fields.CEP)
	assert.Equal(t, "529.982.247-25", state.Fields.CPF)
	assert.Equal(t, "Avenida Paulista", state.Fields.Street)
	assert.Equal(t, "SP", state.Fields.State)

	loaded, err := svc.Load(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestWizardSessionService_SetFieldsLookupMiss(t *testing.T) {
	svc := newTestSessionService(newFakeStore(), stubFinder{err: models.ErrCEPLookupFailed}, nil)
	created, err := svc.Create(context.Background(), "")
	require.NoError(t, err)

	_, err = svc.SetFields(context.Background(), created.ID, map[string]string{"street": "Rua A", "city": "Recife"})
	require.NoError(t, err)

	state, err := svc.SetFields(context.Background(), created.ID, map[string]string{"cep": "50010000"})
	require.NoError(t, err)
	assert.Equal(t, "Rua A", state.Fields.Street)
	assert.Equal(t, "Recife", state.Fields.City)
}

func TestWizardSessionService_SetFieldsUnknownFieldSavesNothing(t *testing.T) {
	svc := newTestSessionService(newFakeStore(), nil, nil)
	created, err := svc.Create(context.Background(), "")
	require.NoError(t, err)

	_, err = svc.SetFields(context.Background(), created.ID, map[string]string{"name": "Maria", "nickname": "Mari"})
	assert.ErrorIs(t, err, wizard.ErrUnknownField)

	loaded, err := svc.Load(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Fields.Name)
}

func TestWizardSessionService_AdvanceRetreat(t *testing.T) {
	svc := newTestSessionService(newFakeStore(), nil, nil)
	created, err := svc.Create(context.Background(), "")
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), created.ID)
	var verr *wizard.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, wizard.StepPlan, verr.Category)

	_, err = svc.SetFields(context.Background(), created.ID, map[string]string{"planId": "57"})
	require.NoError(t, err)
	state, err := svc.Advance(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, state.CurrentStep)
	assert.Equal(t, models.OperatorClaro, state.Fields.PlanOperator)

	state, err = svc.Retreat(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentStep)

	state, err = svc.Retreat(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentStep)
}

func TestWizardSessionService_Submit(t *testing.T) {
	store := newFakeStore()
	submitter := &blockingSubmitter{result: &models.SubmissionResult{Success: true, Message: MessageRegistrationSent, BillingID: "42"}}
	svc := newTestSessionService(store, nil, submitter)
	created, err := svc.Create(context.Background(), "")
	require.NoError(t, err)
	fillSession(t, svc, created.ID)

	state, err := svc.Submit(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, wizard.StatusSubmitted, state.Status)
	assert.Equal(t, "42", state.Result.BillingID)
	assert.False(t, store.has("wizard:lock:"+created.ID), "lock released")

	_, err = svc.Submit(context.Background(), created.ID)
	assert.ErrorIs(t, err, wizard.ErrAlreadySubmitted)
	assert.Equal(t, 1, submitter.calls)

	reset, err := svc.Reset(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.New(created.ID, wizard.LayoutFour), reset)
}

func TestWizardSessionService_SubmitTransportFailure(t *testing.T) {
	submitter := &blockingSubmitter{
		result: &models.SubmissionResult{Success: false, Error: "connection reset"},
		err:    models.ErrUpstreamTransport,
	}
	svc := newTestSessionService(newFakeStore(), nil, submitter)
	created, err := svc.Create(context.Background(), "")
	require.NoError(t, err)
	fillSession(t, svc, created.ID)

	state, err := svc.Submit(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusIdle, state.Status)
	assert.Equal(t, wizard.MessageRetry, state.LastError)
}

func TestWizardSessionService_SubmitLockContention(t *testing.T) {
	submitter := &blockingSubmitter{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		result:  &models.SubmissionResult{Success: true},
	}
	store := newFakeStore()
	svc := newTestSessionService(store, nil, submitter)
	created, err := svc.Create(context.Background(), "")
	require.NoError(t, err)
	fillSession(t, svc, created.ID)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), created.ID)
		done <- err
	}()
	<-submitter.started

	// the in-flight state is visible to readers
	inFlight, err := svc.Load(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusSubmitting, inFlight.Status)

	_, err = svc.Submit(context.Background(), created.ID)
	assert.ErrorIs(t, err, models.ErrSubmitInProgress)

	close(submitter.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, submitter.calls)
}

func TestWizardSessionService_SubmitNotOnLastStep(t *testing.T) {
	store := newFakeStore()
	svc := newTestSessionService(store, nil, &blockingSubmitter{})
	created, err := svc.Create(context.Background(), "")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), created.ID)
	assert.ErrorIs(t, err, wizard.ErrNotOnLastStep)
	assert.False(t, store.has("wizard:lock:"+created.ID))
}

func TestWizardSessionService_EditsRejectedDuringSubmit(t *testing.T) {
	submitter := &blockingSubmitter{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		result:  &models.SubmissionResult{Success: true, Message: MessageRegistrationSent},
	}
	store := newFakeStore()
	svc := newTestSessionService(store, nil, submitter)
	created, err := svc.Create(context.Background(), "")
	require.NoError(t, err)
	fillSession(t, svc, created.ID)
	assert.False(t, store.has("wizard:lock:"+created.ID), "edits release the lock")

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), created.ID)
		done <- err
	}()
	<-submitter.started

	_, err = svc.SetFields(context.Background(), created.ID, map[string]string{"name": "Outra Pessoa"})
	assert.ErrorIs(t, err, models.ErrSubmitInProgress)
	_, err = svc.Advance(context.Background(), created.ID)
	assert.ErrorIs(t, err, models.ErrSubmitInProgress)
	_, err = svc.Retreat(context.Background(), created.ID)
	assert.ErrorIs(t, err, models.ErrSubmitInProgress)
	_, err = svc.Reset(context.Background(), created.ID)
	assert.ErrorIs(t, err, models.ErrSubmitInProgress)

	inFlight, err := svc.Load(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusSubmitting, inFlight.Status)
	assert.Equal(t, "Maria da Silva", inFlight.Fields.Name)

	close(submitter.release)
	require.NoError(t, <-done)

	final, err := svc.Load(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusSubmitted, final.Status)
	assert.Equal(t, "Maria da Silva", final.Fields.Name)
	assert.False(t, store.has("wizard:lock:"+created.ID))
}

func TestWizardSessionService_EditsInvalidID(t *testing.T) {
	store := newFakeStore()
	svc := newTestSessionService(store, nil, nil)

	_, err := svc.SetFields(context.Background(), "not-a-uuid", map[string]string{"name": "x"})
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	_, err = svc.Advance(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	assert.Empty(t, store.data, "no lock left behind")
}
