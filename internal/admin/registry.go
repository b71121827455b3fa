package admin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"restaurant-admin/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RegistryConfig holds configuration for the session registry.
type RegistryConfig struct {
	// MaxOpen is the maximum number of concurrently open sessions. Zero means no limit.
	MaxOpen int
}

// Registry opens, looks up and closes admin sessions.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	data      DataAccess
	validator FormValidator
	cfg       RegistryConfig
	opts      []SessionOption
	logger    zerolog.Logger
}

// NewRegistry creates an empty session registry.
func NewRegistry(
	data DataAccess,
	validator FormValidator,
	cfg RegistryConfig,
	logger zerolog.Logger,
	opts ...SessionOption,
) *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		data:      data,
		validator: validator,
		cfg:       cfg,
		opts:      opts,
		logger:    logger.With().Str("component", "session-registry").Logger(),
	}
}

// Open starts a session for clientID (empty for all tenants), loading its
// restaurants from the backend.
func (r *Registry) Open(ctx context.Context, clientID string) (*Session, error) {
	r.mu.RLock()
	full := r.cfg.MaxOpen > 0 && len(r.sessions) >= r.cfg.MaxOpen
	r.mu.RUnlock()
	if full {
		r.logger.Warn().Int("max_open", r.cfg.MaxOpen).Msg("session limit reached")
		return nil, model.ErrSessionLimitReached
	}

	restaurants, err := r.data.List(ctx, clientID)
	if err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Msg("failed to load restaurants")
		return nil, asDomainError(fmt.Errorf("failed to load restaurants: %w", err))
	}

	id := uuid.NewString()
	session := NewSession(id, clientID, restaurants, r.data, r.validator, r.logger, r.opts...)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg.MaxOpen > 0 && len(r.sessions) >= r.cfg.MaxOpen {
		return nil, model.ErrSessionLimitReached
	}
	r.sessions[id] = session

	r.logger.Info().
		Str("session_id", id).
		Str("client_id", clientID).
		Int("restaurants", len(restaurants)).
		Msg("session opened")

	return session, nil
}

// Get returns the open session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

// Close ends the session with the given id and discards its state.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return model.ErrSessionNotFound
	}
	delete(r.sessions, id)

	r.logger.Info().Str("session_id", id).Msg("session closed")

	return nil
}

// IDs returns the ids of all open sessions, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
