package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/observability"
	"github.com/federal-associados/app-cadastro/internal/wizard"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// submitLockTTL outlives a CSRF fetch plus the post at their default timeouts
const submitLockTTL = time.Minute

// WizardSessionService keeps wizard state in Redis and drives its
// transitions for the HTTP API
type WizardSessionService struct {
	store         SessionStore
	ttl           time.Duration
	defaultLayout wizard.Layout
	finder        wizard.AddressFinder
	submitter     wizard.Submitter
	logger        *logging.SafeLogger
}

// NewWizardSessionService creates a WizardSessionService
func NewWizardSessionService(store SessionStore, ttl time.Duration, defaultLayout wizard.Layout, finder wizard.AddressFinder, submitter wizard.Submitter, logger *logging.SafeLogger) *WizardSessionService {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if defaultLayout == "" {
		defaultLayout = wizard.LayoutFour
	}
	return &WizardSessionService{
		store:         store,
		ttl:           ttl,
		defaultLayout: defaultLayout,
		finder:        finder,
		submitter:     submitter,
		logger:        logger.Named("wizard_sessions"),
	}
}

func sessionKey(id string) string {
	return "wizard:session:" + id
}

func lockKey(id string) string {
	return "wizard:lock:" + id
}

// Create starts a session. An empty layout selects the configured default.
func (s *WizardSessionService) Create(ctx context.Context, layout string) (wizard.State, error) {
	l := s.defaultLayout
	if layout != "" {
		parsed, err := wizard.ParseLayout(layout)
		if err != nil {
			return wizard.State{}, err
		}
		l = parsed
	}

	state := wizard.New(uuid.NewString(), l)
	if err := s.Save(ctx, state); err != nil {
		return wizard.State{}, err
	}

	s.logger.Info("wizard session created",
		zap.String("session_id", state.ID),
		zap.String("layout", string(l)))
	return state, nil
}

// Load reads a session
func (s *WizardSessionService) Load(ctx context.Context, id string) (wizard.State, error) {
	if _, err := uuid.Parse(id); err != nil {
		return wizard.State{}, models.ErrSessionNotFound
	}

	data, err := s.store.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return wizard.State{}, models.ErrSessionNotFound
	}
	if err != nil {
		return wizard.State{}, fmt.Errorf("failed to load wizard session: %w", err)
	}

	var state wizard.State
	if err := json.Unmarshal(data, &state); err != nil {
		return wizard.State{}, fmt.Errorf("failed to decode wizard session: %w", err)
	}
	return state, nil
}

// Save writes a session and refreshes its TTL
func (s *WizardSessionService) Save(ctx context.Context, state wizard.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode wizard session: %w", err)
	}
	if err := s.store.Set(ctx, sessionKey(state.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	return nil
}

// AcquireSubmitLock reports false when another submit holds the session
func (s *WizardSessionService) AcquireSubmitLock(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.SetNX(ctx, lockKey(id), "1", submitLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	return ok, nil
}

// ReleaseSubmitLock frees the session's submit lock
func (s *WizardSessionService) ReleaseSubmitLock(ctx context.Context, id string) error {
	if err := s.store.Del(ctx, lockKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to release submit lock: %w", err)
	}
	return nil
}

// withLock runs fn while holding the session lock. Edits and submits share
// the lock, so an edit never lands in the middle of a submit. A held lock
// yields models.ErrSubmitInProgress.
func (s *WizardSessionService) withLock(ctx context.Context, id, operation string, fn func() (wizard.State, error)) (wizard.State, error) {
	acquired, err := s.AcquireSubmitLock(ctx, id)
	if err != nil {
		return wizard.State{}, err
	}
	if !acquired {
		observability.WizardTransitions.WithLabelValues(operation, "locked").Inc()
		return wizard.State{}, models.ErrSubmitInProgress
	}
	defer func() {
		// the request context may already be done
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.ReleaseSubmitLock(releaseCtx, id); err != nil {
			s.logger.Warn("session lock not released",
				zap.String("session_id", id),
				zap.String("operation", operation),
				zap.Error(err))
		}
	}()

	return fn()
}

// SetFields applies field updates in name order and, when the postal code
// became complete, fills the address from it. Unknown fields reject the
// whole update.
func (s *WizardSessionService) SetFields(ctx context.Context, id string, fields map[string]string) (wizard.State, error) {
	if _, err := uuid.Parse(id); err != nil {
		return wizard.State{}, models.ErrSessionNotFound
	}
	return s.withLock(ctx, id, "set_fields", func() (wizard.State, error) {
		return s.setFields(ctx, id, fields)
	})
}

func (s *WizardSessionService) setFields(ctx context.Context, id string, fields map[string]string) (wizard.State, error) {
	state, err := s.Load(ctx, id)
	if err != nil {
		return wizard.State{}, err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	next := state
	for _, name := range names {
		next, err = wizard.SetField(next, name, fields[name])
		if err != nil {
			return state, err
		}
	}

	if _, ok := fields[wizard.FieldCEP]; ok && wizard.PostalCodeComplete(next) {
		next = wizard.OnPostalCodeComplete(ctx, next, s.finder)
	}

	if err := s.Save(ctx, next); err != nil {
		return state, err
	}
	return next, nil
}

// Advance moves the session forward when the current step is complete
func (s *WizardSessionService) Advance(ctx context.Context, id string) (wizard.State, error) {
	if _, err := uuid.Parse(id); err != nil {
		return wizard.State{}, models.ErrSessionNotFound
	}
	return s.withLock(ctx, id, "advance", func() (wizard.State, error) {
		return s.advance(ctx, id)
	})
}

func (s *WizardSessionService) advance(ctx context.Context, id string) (wizard.State, error) {
	state, err := s.Load(ctx, id)
	if err != nil {
		return wizard.State{}, err
	}

	next, err := wizard.Advance(state)
	if err != nil {
		observability.WizardTransitions.WithLabelValues("advance", "rejected").Inc()
		return next, err
	}
	observability.WizardTransitions.WithLabelValues("advance", "ok").Inc()

	if err := s.Save(ctx, next); err != nil {
		return state, err
	}
	return next, nil
}

// Retreat moves the session back one step
func (s *WizardSessionService) Retreat(ctx context.Context, id string) (wizard.State, error) {
	if _, err := uuid.Parse(id); err != nil {
		return wizard.State{}, models.ErrSessionNotFound
	}
	return s.withLock(ctx, id, "retreat", func() (wizard.State, error) {
		return s.retreat(ctx, id)
	})
}

func (s *WizardSessionService) retreat(ctx context.Context, id string) (wizard.State, error) {
	state, err := s.Load(ctx, id)
	if err != nil {
		return wizard.State{}, err
	}

	next := wizard.Retreat(state)
	observability.WizardTransitions.WithLabelValues("retreat", "ok").Inc()
	if err := s.Save(ctx, next); err != nil {
		return state, err
	}
	return next, nil
}

// Reset starts a new registration in the same session
func (s *WizardSessionService) Reset(ctx context.Context, id string) (wizard.State, error) {
	if _, err := uuid.Parse(id); err != nil {
		return wizard.State{}, models.ErrSessionNotFound
	}
	return s.withLock(ctx, id, "reset", func() (wizard.State, error) {
		return s.reset(ctx, id)
	})
}

func (s *WizardSessionService) reset(ctx context.Context, id string) (wizard.State, error) {
	state, err := s.Load(ctx, id)
	if err != nil {
		return wizard.State{}, err
	}

	next := wizard.Reset(state)
	observability.WizardTransitions.WithLabelValues("reset", "ok").Inc()
	if err := s.Save(ctx, next); err != nil {
		return state, err
	}
	return next, nil
}

// Submit forwards the session's submission. Only one submit per session runs
// at a time; a concurrent call gets models.ErrSubmitInProgress.
func (s *WizardSessionService) Submit(ctx context.Context, id string) (wizard.State, error) {
	if _, err := uuid.Parse(id); err != nil {
		return wizard.State{}, models.ErrSessionNotFound
	}
	return s.withLock(ctx, id, "submit", func() (wizard.State, error) {
		return s.submit(ctx, id)
	})
}

func (s *WizardSessionService) submit(ctx context.Context, id string) (wizard.State, error) {
	state, err := s.Load(ctx, id)
	if err != nil {
		return wizard.State{}, err
	}

	submitting, err := wizard.BeginSubmit(state)
	if err != nil {
		observability.WizardTransitions.WithLabelValues("submit", "rejected").Inc()
		return state, err
	}
	if err := s.Save(ctx, submitting); err != nil {
		return state, err
	}

	result, submitErr := s.submitter.Submit(ctx, submitting.Fields)
	next := wizard.CompleteSubmit(submitting, result, submitErr)

	outcome := "failed"
	if next.Status == wizard.StatusSubmitted {
		outcome = "submitted"
	}
	observability.WizardTransitions.WithLabelValues("submit", outcome).Inc()
	s.logger.Info("wizard submission finished",
		zap.String("session_id", id),
		zap.String("status", string(next.Status)),
		zap.Error(submitErr))

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Save(saveCtx, next); err != nil {
		return next, err
	}
	return next, nil
}
