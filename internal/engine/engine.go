// Package engine implements step checklist sessions: a recipe's directions
// are split into numbered steps which the cook ticks off one by one.
package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/recipebook/internal/directions"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Option configures the engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine manages checklist sessions. It depends only on interfaces and is
// fully testable without a recipe file.
type Engine struct {
	recipes domain.RecipeSource
	store   domain.SessionStore
	log     *logger.Logger
	now     func() time.Time
}

// New creates an engine with the given dependencies and options.
func New(recipes domain.RecipeSource, store domain.SessionStore, log *logger.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logger.New(logger.LevelOff, nil)
	}
	e := &Engine{
		recipes: recipes,
		store:   store,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListRecipes returns all available recipes.
func (e *Engine) ListRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	return e.recipes.List(ctx)
}

// GetRecipe returns a full recipe by ID.
func (e *Engine) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	return e.recipes.Get(ctx, id)
}

// StartSession begins a checklist for the given recipe. The steps are the
// recipe's cleaned, numbered directions.
func (e *Engine) StartSession(ctx context.Context, recipeID string) (*domain.Session, error) {
	recipe, err := e.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}

	steps := directions.Steps(recipe.Directions)
	now := e.now()
	session := &domain.Session{
		ID:         uuid.NewString(),
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
		Steps:      steps,
		StepStates: make([]domain.StepState, len(steps)),
		Status:     domain.SessionActive,
		StartedAt:  now,
		UpdatedAt:  now,
	}

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("started session %s for recipe %q (%d steps)", session.ID, recipe.Name, len(steps))
	return session, nil
}

// Resume returns the newest active session for the recipe, or starts one
// when there is none. A session whose steps no longer match the recipe's
// directions is abandoned and replaced. resumed reports whether an existing
// session was returned.
func (e *Engine) Resume(ctx context.Context, recipeID string) (session *domain.Session, resumed bool, err error) {
	recipe, err := e.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, false, fmt.Errorf("getting recipe: %w", err)
	}
	active, err := e.store.ListActive(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("listing sessions: %w", err)
	}

	steps := directions.Steps(recipe.Directions)
	for i := len(active) - 1; i >= 0; i-- {
		s := active[i]
		if s.RecipeID != recipe.ID {
			continue
		}
		if slices.Equal(s.Steps, steps) {
			e.log.Info("resumed session %s for recipe %q (%d/%d done)", s.ID, recipe.Name, s.Done(), len(s.Steps))
			return s, true, nil
		}
		e.log.Info("directions of %q changed, replacing session %s", recipe.Name, s.ID)
		if err := e.Abandon(ctx, s.ID); err != nil {
			return nil, false, err
		}
	}

	session, err = e.StartSession(ctx, recipe.ID)
	return session, false, err
}

// Status returns the full session state.
func (e *Engine) Status(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.store.Load(ctx, sessionID)
}

// CurrentStep returns the first unchecked step and its index.
func (e *Engine) CurrentStep(ctx context.Context, sessionID string) (int, string, error) {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return 0, "", fmt.Errorf("loading session: %w", err)
	}
	idx := firstPending(session)
	if idx < 0 {
		return 0, "", domain.ErrNoMoreSteps
	}
	return idx, session.Steps[idx], nil
}

// Toggle flips the checked state of one step. Checking the last open step
// completes the session; unchecking a step of a completed session reopens
// it.
func (e *Engine) Toggle(ctx context.Context, sessionID string, index int) (*domain.Session, error) {
	session, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(session.StepStates) {
		return nil, fmt.Errorf("%w: %d of %d", domain.ErrInvalidStep, index, len(session.StepStates))
	}

	now := e.now()
	st := &session.StepStates[index]
	if st.Status == domain.StepDone {
		*st = domain.StepState{Status: domain.StepPending}
	} else {
		*st = domain.StepState{Status: domain.StepDone, CompletedAt: now}
	}
	e.settle(session, now)

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.log.Debug("session %s step %d -> %s", sessionID, index+1, st.Status)
	return session, nil
}

// Advance checks the first unchecked step and returns its index. Once every
// step is checked the session is completed and Advance returns
// ErrNoMoreSteps.
func (e *Engine) Advance(ctx context.Context, sessionID string) (int, error) {
	session, err := e.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	now := e.now()
	idx := firstPending(session)
	if idx < 0 {
		if session.Status != domain.SessionCompleted {
			e.settle(session, now)
			if err := e.store.Save(ctx, session); err != nil {
				return 0, fmt.Errorf("saving session: %w", err)
			}
		}
		return 0, domain.ErrNoMoreSteps
	}

	session.StepStates[idx] = domain.StepState{Status: domain.StepDone, CompletedAt: now}
	e.settle(session, now)

	if err := e.store.Save(ctx, session); err != nil {
		return 0, fmt.Errorf("saving session: %w", err)
	}

	e.log.Debug("session %s advanced past step %d/%d", sessionID, idx+1, len(session.Steps))
	return idx, nil
}

// Reset unchecks every step and reopens the session.
func (e *Engine) Reset(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range session.StepStates {
		session.StepStates[i] = domain.StepState{}
	}
	session.Status = domain.SessionActive
	session.UpdatedAt = e.now()

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("session %s reset", sessionID)
	return session, nil
}

// Progress returns how many steps are checked out of the total.
func (e *Engine) Progress(ctx context.Context, sessionID string) (done, total int, err error) {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return 0, 0, fmt.Errorf("loading session: %w", err)
	}
	return session.Done(), len(session.Steps), nil
}

// Abandon marks a session as abandoned.
func (e *Engine) Abandon(ctx context.Context, sessionID string) error {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	session.Status = domain.SessionAbandoned
	session.UpdatedAt = e.now()

	if err := e.store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("session %s abandoned", sessionID)
	return nil
}

// load fetches a session that can still be changed.
func (e *Engine) load(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if session.Status == domain.SessionAbandoned {
		return nil, domain.ErrSessionNotActive
	}
	return session, nil
}

// settle derives the session status from its steps.
func (e *Engine) settle(session *domain.Session, now time.Time) {
	session.UpdatedAt = now
	if firstPending(session) < 0 {
		if session.Status != domain.SessionCompleted {
			e.log.Info("session %s completed", session.ID)
		}
		session.Status = domain.SessionCompleted
		return
	}
	session.Status = domain.SessionActive
}

func firstPending(session *domain.Session) int {
	for i, st := range session.StepStates {
		if st.Status != domain.StepDone {
			return i
		}
	}
	return -1
}
