// Package session owns the user-facing viewer state: the currently displayed
// document and its expansion set. Both are confined to the session; the only
// suspending operation is a generation call, which rejoins through Publish
// guarded by a monotonically increasing request token so a late result from a
// superseded request never overwrites a newer one.
package session

import (
	"context"
	"errors"
	"sync"

	"repograph/internal/generate"
	"repograph/internal/infographic"
	"repograph/internal/view"
)

// ErrSuperseded is returned when a generation result arrives after a newer
// request was issued. The caller should discard it silently.
var ErrSuperseded = errors.New("session: result superseded by a newer request")

type Session struct {
	client generate.Client

	mu    sync.Mutex
	seq   uint64
	doc   *infographic.Document
	state *view.ExpandState
}

func New(client generate.Client) *Session {
	return &Session{client: client}
}

// Generate requests a document for the locator. Issuing a new request
// implicitly supersedes interest in any in-flight one. On failure the
// previously displayed document is left untouched.
func (s *Session) Generate(ctx context.Context, repoLocator string) (*infographic.Document, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("session: no generation client")
	}

	s.mu.Lock()
	s.seq++
	token := s.seq
	s.mu.Unlock()

	doc, err := s.client.Generate(ctx, repoLocator)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	s.showLocked(doc)
	return doc, nil
}

// Show displays an already-decoded document (file import, bundled resource,
// local build). It resets the expansion state to fully collapsed.
func (s *Session) Show(doc *infographic.Document) {
	if s == nil || doc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++ // retire any in-flight generation
	s.showLocked(doc)
}

func (s *Session) showLocked(doc *infographic.Document) {
	s.doc = doc
	s.state = view.NewExpandState()
}

// Document returns the currently displayed document, or nil.
func (s *Session) Document() *infographic.Document {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// State returns the expansion state bound to the current document, or nil
// when nothing is displayed.
func (s *Session) State() *view.ExpandState {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
