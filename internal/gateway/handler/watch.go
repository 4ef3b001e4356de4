package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one progress update on a generation run.
type Event struct {
	Type       string `json:"type"`
	Message    string `json:"message,omitempty"`
	Kind       string `json:"kind,omitempty"`
	DocumentID string `json:"documentId,omitempty"`
}

const (
	EventStarted  = "started"
	EventComplete = "complete"
	EventError    = "error"
)

// runRegistry tracks in-flight generation runs and their event channels.
// Events are buffered so a publisher never blocks on a slow watcher.
type runRegistry struct {
	mu   sync.RWMutex
	runs map[string]chan Event
}

func newRunRegistry() *runRegistry {
	return &runRegistry{runs: make(map[string]chan Event)}
}

func (r *runRegistry) newRun() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	runID := "run-" + hex.EncodeToString(buf)
	r.mu.Lock()
	r.runs[runID] = make(chan Event, 16)
	r.mu.Unlock()
	return runID
}

func (r *runRegistry) channel(runID string) (chan Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.runs[runID]
	return ch, ok
}

func (r *runRegistry) publish(runID string, ev Event) {
	ch, ok := r.channel(runID)
	if !ok {
		return
	}
	select {
	case ch <- ev:
	default:
		log.Printf("run %s: event buffer full, dropping %s", runID, ev.Type)
	}
}

func (r *runRegistry) close(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.runs[runID]; ok {
		close(ch)
		delete(r.runs, runID)
	}
}

// handleWatchSSE streams run events as Server-Sent Events.
func (s *Service) handleWatchSSE(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimSpace(r.PathValue("runId"))
	eventCh, ok := s.runs.channel(runID)
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-eventCh:
			if !ok {
				fmt.Fprintf(w, "event: close\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
			if ev.Type == EventComplete || ev.Type == EventError {
				return
			}
		}
	}
}

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// handleWatchWS streams run events over a websocket with ping/pong keepalive.
func (s *Service) handleWatchWS(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimSpace(r.URL.Query().Get("run_id"))
	if runID == "" {
		http.Error(w, "run_id is required", http.StatusBadRequest)
		return
	}
	eventCh, ok := s.runs.channel(runID)
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		log.Printf("watch ws set read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	// Reader goroutine: drains control frames and detects a closed peer.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(watchWSPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, ok := <-eventCh:
			_ = conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run finished"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
			if ev.Type == EventComplete || ev.Type == EventError {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run finished"))
				return
			}
		}
	}
}
