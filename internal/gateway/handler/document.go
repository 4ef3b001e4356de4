package handler

import (
	"errors"
	"net/http"

	"repograph/internal/docstore"
	"repograph/internal/infographic"
	"repograph/internal/resource"
	"repograph/internal/view"
)

func (s *Service) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": ids})
}

func (s *Service) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.loadDocumentBytes(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

// handleOutline renders a stored document as a fully expanded text outline.
func (s *Service) handleOutline(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.loadDocumentBytes(w, r)
	if !ok {
		return
	}
	doc, err := infographic.Decode(raw)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "stored document is corrupt"})
		return
	}
	st := view.NewExpandState()
	st.ExpandAll(doc)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(view.RenderText(doc, st) + "\n"))
}

func (s *Service) loadDocumentBytes(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	id := r.PathValue("id")
	raw, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "document not found"})
		} else {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
		return nil, false
	}
	return raw, true
}

func (s *Service) handleListResources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"resources": s.resources.Names()})
}

func (s *Service) handleGetResource(w http.ResponseWriter, r *http.Request) {
	doc, err := s.resources.Load(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "resource not found"})
		} else {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
