package studio

import (
	"fmt"

	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

// Settings returns a deep copy of the current render settings
func (s *Store) Settings() types.RenderSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// UpdateSettings merges patch into the current settings. Each field is
// checked against its enumeration; fields are not validated against each
// other. Nothing is applied when any field is invalid.
func (s *Store) UpdateSettings(patch types.SettingsPatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	next := s.settings.Clone()
	if patch.Style != nil {
		next.Style = *patch.Style
	}
	if patch.Quality != nil {
		next.Quality = *patch.Quality
	}
	if patch.Count != nil {
		next.Count = *patch.Count
	}
	if patch.AspectRatio != nil {
		next.AspectRatio = *patch.AspectRatio
	}
	if patch.Strength != nil {
		next.Strength = *patch.Strength
	}
	if patch.Model != nil {
		next.Model = *patch.Model
	}
	if patch.ClearSeed {
		next.Seed = nil
	} else if patch.Seed != nil {
		seed := *patch.Seed
		next.Seed = &seed
	}
	s.settings = next
	ev := s.event(EventSettingsUpdated)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// SetStyle replaces the style only
func (s *Store) SetStyle(style types.DesignStyle) error {
	return s.UpdateSettings(types.SettingsPatch{Style: &style})
}

// SetStyleByID selects a style from the catalog
func (s *Store) SetStyleByID(styleID string) error {
	style, ok := s.catalog.Style(styleID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrStyleNotFound, styleID)
	}
	return s.SetStyle(style)
}

func validatePatch(p types.SettingsPatch) error {
	switch {
	case p.Style != nil && (p.Style.ID == "" || p.Style.Name == ""):
		return fmt.Errorf("%w: style needs an id and a name", ErrInvalidSettings)
	case p.Quality != nil && !p.Quality.Valid():
		return fmt.Errorf("%w: quality %q", ErrInvalidSettings, *p.Quality)
	case p.Count != nil && !types.ValidCount(*p.Count):
		return fmt.Errorf("%w: count %d (want 1, 2 or 4)", ErrInvalidSettings, *p.Count)
	case p.AspectRatio != nil && !p.AspectRatio.Valid():
		return fmt.Errorf("%w: aspect ratio %q", ErrInvalidSettings, *p.AspectRatio)
	case p.Strength != nil && !types.ValidStrength(*p.Strength):
		return fmt.Errorf("%w: strength %d (want 0-100)", ErrInvalidSettings, *p.Strength)
	case p.Model != nil && !p.Model.Valid():
		return fmt.Errorf("%w: model %q", ErrInvalidSettings, *p.Model)
	}
	return nil
}
