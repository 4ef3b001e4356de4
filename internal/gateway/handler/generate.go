package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"repograph/internal/docstore"
	"repograph/internal/generate"
	"repograph/internal/infographic"
)

type generateRequest struct {
	RepoURL string `json:"repo_url"`
	Model   string `json:"model,omitempty"`
}

// handleGenerate runs a generation synchronously. The connection stays open
// for the duration of the upstream call, so clients that cannot hold a
// request that long should use the async endpoint instead.
func (s *Service) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "request body must be JSON with a repo_url field",
		})
		return
	}

	doc, err := s.client.Generate(r.Context(), req.RepoURL)
	if err != nil {
		writeGenerateError(w, err)
		return
	}

	id := s.persist(r.Context(), req.RepoURL, doc)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"documentId": id,
		"data":       doc,
	})
}

// handleGenerateAsync starts the generation in the background and returns a
// run id for the watch endpoints.
func (s *Service) handleGenerateAsync(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "request body must be JSON with a repo_url field",
		})
		return
	}
	// Fail fast before spawning anything; locator problems should surface on
	// this request, not on the watch stream.
	if err := generate.ValidateLocator(req.RepoURL); err != nil {
		writeGenerateError(w, err)
		return
	}

	runID := s.runs.newRun()
	go s.runGeneration(runID, req.RepoURL)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"runId":   runID,
	})
}

func (s *Service) runGeneration(runID, repoURL string) {
	// The run outlives the initiating request, so it gets its own context.
	ctx := context.Background()
	s.runs.publish(runID, Event{Type: EventStarted, Message: "generation started"})

	doc, err := s.client.Generate(ctx, repoURL)
	if err != nil {
		log.Printf("run %s: generation failed: %v", runID, err)
		s.runs.publish(runID, Event{
			Type:    EventError,
			Message: generate.MessageOf(err),
			Kind:    generate.KindOf(err).String(),
		})
		s.runs.close(runID)
		return
	}

	id := s.persist(ctx, repoURL, doc)
	s.runs.publish(runID, Event{
		Type:       EventComplete,
		Message:    "generation complete",
		DocumentID: id,
	})
	s.runs.close(runID)
}

// persist stores the encoded document and returns its id; storage failures
// are logged but never turn a successful generation into a client error.
func (s *Service) persist(ctx context.Context, repoURL string, doc *infographic.Document) string {
	id := docstore.DocumentID(firstNonEmptyString(doc.SourceLocator, repoURL))
	raw, err := doc.Encode()
	if err != nil {
		log.Printf("encode document %s: %v", id, err)
		return id
	}
	if err := s.store.Put(ctx, id, raw); err != nil {
		log.Printf("store document %s: %v", id, err)
	}
	return id
}

func firstNonEmptyString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
