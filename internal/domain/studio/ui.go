package studio

import (
	"fmt"

	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

// UI returns the front-end toggles
func (s *Store) UI() types.UIState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui
}

// UpdateUI applies a partial toggle update
func (s *Store) UpdateUI(patch types.UIPatch) error {
	if patch.RightPanelTab != nil {
		switch *patch.RightPanelTab {
		case types.PanelChat, types.PanelSettings:
		default:
			return fmt.Errorf("%w: panel tab %q", ErrInvalidUI, *patch.RightPanelTab)
		}
	}
	if patch.ViewMode != nil {
		switch *patch.ViewMode {
		case types.ViewImage, types.ViewVideo, types.View3D:
		default:
			return fmt.Errorf("%w: view mode %q", ErrInvalidUI, *patch.ViewMode)
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if patch.RightPanelOpen != nil {
		s.ui.RightPanelOpen = *patch.RightPanelOpen
	}
	if patch.RightPanelTab != nil {
		s.ui.RightPanelTab = *patch.RightPanelTab
	}
	if patch.CommandPaletteOpen != nil {
		s.ui.CommandPaletteOpen = *patch.CommandPaletteOpen
	}
	if patch.ViewMode != nil {
		s.ui.ViewMode = *patch.ViewMode
	}
	ev := s.event(EventUIUpdated)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}
