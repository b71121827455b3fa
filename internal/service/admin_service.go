package service

import (
	"context"
	"fmt"

	"restaurant-admin/internal/admin"
	"restaurant-admin/internal/i18n"
	"restaurant-admin/internal/model"
	"restaurant-admin/internal/validation"
	"restaurant-admin/internal/view"

	"github.com/rs/zerolog"
)

// adminService implements AdminService on top of the session registry.
type adminService struct {
	registry   *admin.Registry
	translator *i18n.Translator
	logger     zerolog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(registry *admin.Registry, translator *i18n.Translator, logger zerolog.Logger) AdminService {
	return &adminService{
		registry:   registry,
		translator: translator,
		logger:     logger.With().Str("service", "admin").Logger(),
	}
}

// OpenSession starts a session. A non-empty clientID must be a UUID.
func (s *adminService) OpenSession(ctx context.Context, clientID string) (*model.SessionState, error) {
	if clientID != "" {
		if fe := validation.CheckUUID("clientId", clientID); fe != nil {
			return nil, model.NewValidationError([]model.FieldError{*fe})
		}
	}

	session, err := s.registry.Open(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return stateOf(session), nil
}

func (s *adminService) CloseSession(_ context.Context, sessionID string) error {
	return s.registry.Close(sessionID)
}

func (s *adminService) State(_ context.Context, sessionID string) (*model.SessionState, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return stateOf(session), nil
}

func (s *adminService) Select(ctx context.Context, sessionID, restaurantID string) (*model.SessionState, error) {
	return s.do(sessionID, "select", func(session *admin.Session) error {
		return session.Controller.Select(ctx, restaurantID)
	})
}

func (s *adminService) BeginEdit(_ context.Context, sessionID string) (*model.SessionState, error) {
	return s.do(sessionID, "begin_edit", func(session *admin.Session) error {
		return session.Controller.BeginEdit()
	})
}

func (s *adminService) UpdateField(_ context.Context, sessionID, field, value string) (*model.SessionState, error) {
	return s.do(sessionID, "update_field", func(session *admin.Session) error {
		return session.Controller.UpdateField(field, value)
	})
}

func (s *adminService) CancelEdit(_ context.Context, sessionID string) (*model.SessionState, error) {
	return s.do(sessionID, "cancel_edit", func(session *admin.Session) error {
		return session.Controller.CancelEdit()
	})
}

func (s *adminService) Save(ctx context.Context, sessionID string) (*model.SessionState, error) {
	return s.do(sessionID, "save", func(session *admin.Session) error {
		return session.Controller.Save(ctx)
	})
}

func (s *adminService) CreateRestaurant(ctx context.Context, sessionID string, input model.RestaurantInput) (*model.SessionState, error) {
	return s.do(sessionID, "create", func(session *admin.Session) error {
		// Sessions scoped to one client only create for that client.
		if session.ClientID != "" && input.ClientID == "" {
			input.ClientID = session.ClientID
		}
		_, err := session.Orchestrator.Create(ctx, input)
		return err
	})
}

func (s *adminService) UpdateRestaurant(ctx context.Context, sessionID, restaurantID string, patch model.RestaurantPatch) (*model.SessionState, error) {
	return s.do(sessionID, "update", func(session *admin.Session) error {
		_, err := session.Orchestrator.Update(ctx, restaurantID, patch)
		return err
	})
}

func (s *adminService) ToggleStatus(ctx context.Context, sessionID, restaurantID string) (*model.SessionState, error) {
	return s.do(sessionID, "toggle_status", func(session *admin.Session) error {
		_, err := session.Orchestrator.ToggleStatus(ctx, restaurantID)
		return err
	})
}

// View projects the session onto req.Mode and renders every referenced
// message key in the negotiated locale.
func (s *adminService) View(_ context.Context, sessionID string, req ViewRequest) (*LocalizedView, error) {
	mode, err := view.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}

	session, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}

	snap := session.Snapshot()
	descriptor, err := view.Project(mode, view.Input{
		Entities:   snap.Entities,
		State:      snap.State,
		Draft:      snap.Draft,
		Dependents: snap.Dependents,
	}, view.Options{ShowBack: req.ShowBack})
	if err != nil {
		return nil, err
	}

	tag := s.translator.Match(req.Lang, req.AcceptLanguage)
	messages := make(map[string]string)
	for _, key := range messageKeys(descriptor) {
		messages[key] = s.translator.Text(tag, key)
	}

	return &LocalizedView{
		Locale:   tag.String(),
		View:     descriptor,
		Messages: messages,
	}, nil
}

// do runs op against an open session and returns the session state after
// it. The state is returned alongside a failure too.
func (s *adminService) do(sessionID, op string, fn func(*admin.Session) error) (*model.SessionState, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		s.logger.Debug().
			Err(err).
			Str("session_id", sessionID).
			Str("op", op).
			Msg("session operation failed")
		return stateOf(session), fmt.Errorf("failed to %s: %w", op, err)
	}
	return stateOf(session), nil
}

func stateOf(session *admin.Session) *model.SessionState {
	snap := session.Snapshot()
	return &model.SessionState{
		SessionID:  session.ID,
		ClientID:   session.ClientID,
		OpenedAt:   session.OpenedAt,
		Entities:   snap.Entities,
		State:      snap.State,
		Draft:      snap.Draft,
		Dependents: snap.Dependents,
	}
}

// messageKeys lists the message keys a descriptor references, once each.
func messageKeys(d view.Descriptor) []string {
	seen := map[string]bool{}
	var keys []string
	add := func(key string) {
		if key != "" && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	add(d.TitleKey)
	add(d.PlaceholderKey)
	if d.Empty != nil {
		add(d.Empty.Key)
		add(d.Empty.ActionKey)
	}
	for _, c := range d.Cards {
		add(c.StatusKey)
	}
	if d.Actions.Create {
		add(view.KeyActionCreate)
	}
	if d.Actions.Back {
		add(view.KeyActionBack)
	}
	if d.Loading {
		add(view.KeyLoading)
	}
	if d.Error != nil {
		add(d.Error.Key)
		for _, f := range d.Error.Fields {
			add(f.Key)
		}
	}
	return keys
}
