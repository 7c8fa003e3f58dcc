package wizard

import (
	"context"
	"fmt"

	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/utils"
)

// Status is the submission lifecycle of a wizard
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
)

// Messages shown when a submission does not go through
const (
	MessageRetry        = "Ocorreu um erro ao processar seu cadastro. Tente novamente."
	MessageNotCompleted = "Não foi possível completar o cadastro."
)

// State is the full wizard state. Every transition takes a State and returns
// the next one; nothing is shared between wizards.
type State struct {
	ID          string                   `json:"id"`
	Layout      Layout                   `json:"layout"`
	CurrentStep int                      `json:"currentStep"`
	Fields      models.Submission        `json:"fields"`
	Status      Status                   `json:"status"`
	Result      *models.SubmissionResult `json:"result,omitempty"`
	LastError   string                   `json:"lastError,omitempty"`
}

// AddressFinder resolves a postal code into an address
type AddressFinder interface {
	LookupCEP(ctx context.Context, cep string) (*models.AddressLookup, error)
}

// Submitter forwards a finished submission. A non-nil error means the
// submission never got a usable answer from the registration endpoint.
type Submitter interface {
	Submit(ctx context.Context, sub models.Submission) (*models.SubmissionResult, error)
}

// New returns a wizard on its first step
func New(id string, layout Layout) State {
	if _, ok := layoutSteps[layout]; !ok {
		layout = LayoutFour
	}
	return State{
		ID:          id,
		Layout:      layout,
		CurrentStep: 1,
		Fields:      models.NewSubmission(),
		Status:      StatusIdle,
	}
}

// TotalSteps returns the number of steps of the wizard's layout
func (s State) TotalSteps() int {
	return s.Layout.TotalSteps()
}

// CurrentKind returns the kind of the current step
func (s State) CurrentKind() StepKind {
	kind, _ := s.Layout.StepAt(s.CurrentStep)
	return kind
}

// OnLastStep reports whether the wizard is on its final step
func (s State) OnLastStep() bool {
	return s.CurrentStep == s.TotalSteps()
}

func (s State) editable() error {
	switch s.Status {
	case StatusSubmitting:
		return ErrSubmissionInProgress
	case StatusSubmitted:
		return ErrAlreadySubmitted
	}
	return nil
}

// SetField formats raw for the field and stores it
func SetField(s State, field, raw string) (State, error) {
	if err := s.editable(); err != nil {
		return s, err
	}
	if !setValue(&s.Fields, field, FormatField(field, raw)) {
		return s, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return s, nil
}

// PostalCodeComplete reports whether the stored postal code has all 8 digits
func PostalCodeComplete(s State) bool {
	return len(utils.OnlyDigits(s.Fields.CEP)) == 8
}

// OnPostalCodeComplete fills the address from the postal code once it is
// complete. Lookup errors and misses leave the state unchanged.
func OnPostalCodeComplete(ctx context.Context, s State, finder AddressFinder) State {
	if finder == nil || s.editable() != nil || !PostalCodeComplete(s) {
		return s
	}

	addr, err := finder.LookupCEP(ctx, utils.OnlyDigits(s.Fields.CEP))
	if err != nil || addr == nil || !addr.Found {
		return s
	}

	s.Fields.Street = addr.Street
	s.Fields.District = addr.District
	s.Fields.City = addr.City
	s.Fields.State = addr.State
	return s
}

// Advance moves to the next step when the current one is complete. On the
// last step a valid advance leaves the step unchanged.
func Advance(s State) (State, error) {
	if err := s.editable(); err != nil {
		return s, err
	}
	if err := ValidateStep(s.Layout, s.CurrentStep, s.Fields); err != nil {
		return s, err
	}
	s.CurrentStep = clamp(s.CurrentStep+1, s.TotalSteps())
	s.LastError = ""
	return s, nil
}

// Retreat moves to the previous step, never below the first
func Retreat(s State) State {
	if s.editable() != nil {
		return s
	}
	s.CurrentStep = clamp(s.CurrentStep-1, s.TotalSteps())
	return s
}

func clamp(step, total int) int {
	if step < 1 {
		return 1
	}
	if step > total {
		return total
	}
	return step
}

// BeginSubmit validates every step and moves the wizard into submitting
func BeginSubmit(s State) (State, error) {
	if err := s.editable(); err != nil {
		return s, err
	}
	if !s.OnLastStep() {
		return s, ErrNotOnLastStep
	}
	if err := validateAll(s.Layout, s.Fields); err != nil {
		return s, err
	}
	s.Status = StatusSubmitting
	s.LastError = ""
	s.Result = nil
	return s, nil
}

// CompleteSubmit records the outcome of a submission started by BeginSubmit.
// A failed submission returns the wizard to its last step with LastError set.
func CompleteSubmit(s State, result *models.SubmissionResult, err error) State {
	if s.Status != StatusSubmitting {
		return s
	}

	s.CurrentStep = s.TotalSteps()
	switch {
	case err != nil:
		s.Status = StatusIdle
		s.Result = nil
		s.LastError = MessageRetry
	case result == nil || !result.Success:
		s.Status = StatusIdle
		s.Result = result
		s.LastError = MessageNotCompleted
		if result != nil && result.Error != "" {
			s.LastError = result.Error
		}
	default:
		s.Status = StatusSubmitted
		s.Result = result
		s.LastError = ""
	}
	return s
}

// Submit runs BeginSubmit, forwards the submission and records the outcome.
// The error is only set when the wizard could not start submitting; upstream
// failures are reported through LastError.
func Submit(ctx context.Context, s State, submitter Submitter) (State, error) {
	s, err := BeginSubmit(s)
	if err != nil {
		return s, err
	}
	result, err := submitter.Submit(ctx, s.Fields)
	return CompleteSubmit(s, result, err), nil
}

// Reset starts a new registration with the same ID and layout
func Reset(s State) State {
	return New(s.ID, s.Layout)
}
