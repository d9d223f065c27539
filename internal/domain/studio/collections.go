package studio

import (
	"fmt"
	"strings"

	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

const defaultCollectionIcon = "folder"

// Collections returns deep copies of all collections in creation order
func (s *Store) Collections() []types.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCollections(s.collections)
}

// Collection returns a deep copy of one collection
func (s *Store) Collection(collectionID string) (types.Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOfCollection(collectionID)
	if idx < 0 {
		return types.Collection{}, false
	}
	return s.collections[idx].Clone(), true
}

// CreateCollection appends an empty collection
func (s *Store) CreateCollection(name string) (types.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Collection{}, fmt.Errorf("%w: collection", ErrInvalidName)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return types.Collection{}, ErrClosed
	}
	c := types.Collection{
		ID:        s.ids.Collection(),
		Name:      name,
		Icon:      defaultCollectionIcon,
		RenderIDs: []string{},
		CreatedAt: s.clock.Now(),
	}
	s.collections = append(s.collections, c)
	s.metrics.SetCollections(len(s.collections))
	ev := s.event(EventCollectionsUpdated)
	s.mu.Unlock()

	s.emit(ev)
	return c.Clone(), nil
}

// AddToCollection appends renderID to a collection. The same render may be
// added more than once. It reports whether the collection exists and the
// store is open.
func (s *Store) AddToCollection(collectionID, renderID string) bool {
	s.mu.Lock()
	idx := s.indexOfCollection(collectionID)
	if s.closed || idx < 0 {
		s.mu.Unlock()
		return false
	}
	c := &s.collections[idx]
	c.RenderIDs = append(c.RenderIDs, renderID)
	ev := s.event(EventCollectionsUpdated)
	s.mu.Unlock()

	ev.RenderID = renderID
	s.emit(ev)
	return true
}

// RemoveFromCollection removes every occurrence of renderID. It reports
// whether the collection exists and the store is open.
func (s *Store) RemoveFromCollection(collectionID, renderID string) bool {
	s.mu.Lock()
	idx := s.indexOfCollection(collectionID)
	if s.closed || idx < 0 {
		s.mu.Unlock()
		return false
	}
	c := &s.collections[idx]
	kept := make([]string, 0, len(c.RenderIDs))
	for _, id := range c.RenderIDs {
		if id != renderID {
			kept = append(kept, id)
		}
	}
	c.RenderIDs = kept
	ev := s.event(EventCollectionsUpdated)
	s.mu.Unlock()

	ev.RenderID = renderID
	s.emit(ev)
	return true
}

// DeleteCollection removes a collection. Renders it referenced are kept.
func (s *Store) DeleteCollection(collectionID string) bool {
	s.mu.Lock()
	idx := s.indexOfCollection(collectionID)
	if s.closed || idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.collections = append(s.collections[:idx:idx], s.collections[idx+1:]...)
	s.metrics.SetCollections(len(s.collections))
	ev := s.event(EventCollectionsUpdated)
	s.mu.Unlock()

	s.emit(ev)
	return true
}

// indexOfCollection returns the index of collectionID or -1. Caller holds mu.
func (s *Store) indexOfCollection(collectionID string) int {
	for i := range s.collections {
		if s.collections[i].ID == collectionID {
			return i
		}
	}
	return -1
}
