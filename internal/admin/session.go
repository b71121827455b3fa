package admin

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"restaurant-admin/internal/model"
	"restaurant-admin/internal/store"

	"github.com/rs/zerolog"
)

// sessionState is the single source of truth of one admin session. It is
// shared by reference between the controller and the orchestrator.
//
// mu guards memory only and is never held across a DataAccess call. The
// one-operation-in-flight rule is the panel.IsLoading flag.
type sessionState struct {
	mu         sync.Mutex
	store      *store.Store
	panel      model.AdminPanelState
	draft      *model.Restaurant
	editBase   *model.Restaurant
	dependents *model.Dependents
}

// guard rejects the call while another operation is in flight. Callers hold mu.
func (s *sessionState) guard() error {
	if s.panel.IsLoading {
		return model.ErrOperationInFlight
	}
	return nil
}

// begin marks an operation in flight. Callers hold mu and have passed guard.
func (s *sessionState) begin() {
	s.panel.IsLoading = true
	s.panel.LastError = nil
}

// finish clears the loading flag and records lastErr. Callers hold mu.
func (s *sessionState) finish(lastErr *model.DomainError) {
	s.panel.IsLoading = false
	s.panel.LastError = lastErr
}

// startEdit opens a scratch buffer on current and remembers current as the
// base Save diffs against. Callers hold mu.
func (s *sessionState) startEdit(current model.Restaurant) {
	draft := current.Clone()
	base := current.Clone()
	s.draft = &draft
	s.editBase = &base
	s.panel.IsEditing = true
}

// endEdit drops the scratch buffer and its base. Callers hold mu.
func (s *sessionState) endEdit() {
	s.draft = nil
	s.editBase = nil
	s.panel.IsEditing = false
}

var errNoResult = errors.New("backend returned no result")

// call runs one DataAccess call. A panic or a nil result without an error is
// turned into an error so the caller always reaches finish.
func call[T any](fn func() (*T, error)) (res *T, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("backend call panicked: %v", r)
		}
	}()

	res, err = fn()
	if err == nil && res == nil {
		err = errNoResult
	}
	return res, err
}

// Snapshot is a consistent copy of a session, suitable for rendering.
type Snapshot struct {
	Entities   []model.Restaurant
	State      model.AdminPanelState
	Draft      *model.Restaurant
	Dependents *model.Dependents
}

// Session bundles the store, state and components of one admin session. Its
// lifetime is that of the admin session; there is no process-wide instance.
type Session struct {
	ID       string
	ClientID string
	OpenedAt time.Time

	Controller   *Controller
	Orchestrator *Orchestrator

	state *sessionState
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	storeOpts []store.Option
	now       func() time.Time
}

// WithStoreOptions passes options to the session's entity store.
func WithStoreOptions(opts ...store.Option) SessionOption {
	return func(o *sessionOptions) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

// WithSessionClock overrides the clock used for OpenedAt.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(o *sessionOptions) {
		o.now = now
	}
}

// NewSession creates a session seeded with the given restaurants.
func NewSession(
	id, clientID string,
	restaurants []model.Restaurant,
	data DataAccess,
	validator FormValidator,
	logger zerolog.Logger,
	opts ...SessionOption,
) *Session {
	o := sessionOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	st := &sessionState{store: store.New(o.storeOpts...)}
	st.store.Replace(restaurants)

	logger = logger.With().Str("session_id", id).Logger()
	orchestrator := newOrchestrator(st, data, validator, logger)

	return &Session{
		ID:           id,
		ClientID:     clientID,
		OpenedAt:     o.now(),
		Controller:   newController(st, data, orchestrator, logger),
		Orchestrator: orchestrator,
		state:        st,
	}
}

// State returns a copy of the admin panel state.
func (s *Session) State() model.AdminPanelState {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.panel.Clone()
}

// Restaurants returns the restaurants known to the session.
func (s *Session) Restaurants() []model.Restaurant {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.store.List()
}

// Restaurant returns one restaurant from the session store.
func (s *Session) Restaurant(id string) (model.Restaurant, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.store.Get(id)
}

// Snapshot returns a consistent copy of everything a view needs.
func (s *Session) Snapshot() Snapshot {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	snap := Snapshot{
		Entities: s.state.store.List(),
		State:    s.state.panel.Clone(),
	}
	if s.state.draft != nil {
		draft := s.state.draft.Clone()
		snap.Draft = &draft
	}
	if s.state.dependents != nil {
		deps := *s.state.dependents
		snap.Dependents = &deps
	}
	return snap
}

// asDomainError converts err into the DomainError recorded as lastError.
// Validation errors pass through; anything else is an operation failure.
func asDomainError(err error) *model.DomainError {
	var de *model.DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case model.ErrCodeValidationFailed, model.ErrCodeOperationFailed:
			return de
		}
		return model.NewOperationError(err, de.Message)
	}
	return model.NewOperationError(err, "")
}
