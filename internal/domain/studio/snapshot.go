package studio

import (
	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

// Snapshot is the persisted projection of the store. UI toggles, the active
// session, generation progress and variations are never part of it.
type Snapshot struct {
	Sessions             []types.ChatSession   `json:"sessions"`
	Collections          []types.Collection    `json:"collections"`
	RecentRenders        []types.Render        `json:"recentRenders"`
	Settings             *types.RenderSettings `json:"settings"`
	RendersUsedThisMonth int                   `json:"rendersUsedThisMonth"`
}

// Snapshot returns a deep copy of the persisted fields
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := s.settings.Clone()
	return Snapshot{
		Sessions:             cloneSessions(s.sessions),
		Collections:          cloneCollections(s.collections),
		RecentRenders:        cloneRenders(s.recentRenders),
		Settings:             &settings,
		RendersUsedThisMonth: s.rendersUsed,
	}
}

// restore seeds persisted fields from snap. A nil list or settings keeps
// the default; an empty list is restored as empty. Caller owns s.
func (s *Store) restore(snap Snapshot) {
	if snap.Sessions != nil {
		s.sessions = cloneSessions(snap.Sessions)
	}
	if snap.Collections != nil {
		s.collections = cloneCollections(snap.Collections)
		for i := range s.collections {
			if s.collections[i].RenderIDs == nil {
				s.collections[i].RenderIDs = []string{}
			}
		}
	}
	if snap.RecentRenders != nil {
		renders := cloneRenders(snap.RecentRenders)
		if len(renders) > MaxRecentRenders {
			renders = renders[:MaxRecentRenders]
		}
		s.recentRenders = renders
	}
	if snap.Settings != nil && snap.Settings.Style.ID != "" {
		s.settings = snap.Settings.Clone()
	}
	if snap.RendersUsedThisMonth > 0 {
		s.rendersUsed = snap.RendersUsedThisMonth
	}
}
