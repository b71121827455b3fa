package model

// AdminPanelState is the per-session state shared by the admin components.
type AdminPanelState struct {
	SelectedEntityID *string      `json:"selectedEntityId"`
	IsEditing        bool         `json:"isEditing"`
	IsLoading        bool         `json:"isLoading"`
	LastError        *DomainError `json:"lastError"`
}

// Clone returns a copy that shares no pointers with s.
func (s AdminPanelState) Clone() AdminPanelState {
	out := s
	if s.SelectedEntityID != nil {
		id := *s.SelectedEntityID
		out.SelectedEntityID = &id
	}
	if s.LastError != nil {
		e := *s.LastError
		e.Fields = append([]FieldError(nil), s.LastError.Fields...)
		out.LastError = &e
	}
	return out
}
