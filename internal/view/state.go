package view

import (
	"sync"

	"repograph/internal/infographic"
)

// ExpandState is the set of node ids currently shown "open". It starts empty
// (fully collapsed) and is discarded with the document it belongs to; it is
// never persisted.
//
// Ids are plain strings, so nodes rebuilt on every render pass keep their
// state, and toggling an id absent from the current tree is a harmless no-op.
// Two nodes sharing an id alias the same state.
type ExpandState struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewExpandState() *ExpandState {
	return &ExpandState{ids: make(map[string]struct{})}
}

// Toggle flips the expanded flag for id.
func (s *ExpandState) Toggle(id string) {
	if s == nil || id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// ExpandAll marks every node reachable from the document root as expanded,
// leaves included. The walk is stack-based, so tree depth is unbounded.
func (s *ExpandState) ExpandAll(doc *infographic.Document) {
	if s == nil || doc == nil || doc.Root == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.Root.Walk(func(n *infographic.Node) {
		s.ids[n.ID] = struct{}{}
	})
}

// CollapseAll clears the set.
func (s *ExpandState) CollapseAll() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}

// IsExpanded reports membership. Ids never toggled default to collapsed.
func (s *ExpandState) IsExpanded(id string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of expanded ids.
func (s *ExpandState) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
