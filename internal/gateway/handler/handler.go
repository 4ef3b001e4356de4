package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"repograph/internal/docstore"
	"repograph/internal/gateway/middleware"
	"repograph/internal/generate"
	"repograph/internal/resource"
)

// Service bundles the gateway's dependencies: the upstream generator client,
// the document store, and the bundled resources.
type Service struct {
	client    generate.Client
	store     docstore.Store
	resources *resource.Store
	runs      *runRegistry
}

func NewService(client generate.Client, store docstore.Store, resources *resource.Store) *Service {
	return &Service{
		client:    client,
		store:     store,
		resources: resources,
		runs:      newRunRegistry(),
	}
}

// BuildMux registers every route and wraps the mux with CORS.
func BuildMux(s *Service) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/generate/async", s.handleGenerateAsync)
	mux.HandleFunc("GET /api/watch/{runId}", s.handleWatchSSE)
	mux.HandleFunc("GET /api/ws/watch", s.handleWatchWS)
	mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", s.handleGetDocument)
	mux.HandleFunc("GET /api/documents/{id}/outline", s.handleOutline)
	mux.HandleFunc("GET /api/resources", s.handleListResources)
	mux.HandleFunc("GET /api/resources/{name}", s.handleGetResource)
	return middleware.CORS(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeGenerateError maps the generation error taxonomy onto HTTP statuses.
func writeGenerateError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch generate.KindOf(err) {
	case generate.KindInvalidLocator:
		status = http.StatusBadRequest
	case generate.KindRateLimited:
		status = http.StatusTooManyRequests
	case generate.KindServiceUnavailable:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   generate.MessageOf(err),
		"kind":    generate.KindOf(err).String(),
	})
}
