package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/editor"
	"github.com/aretw0/flowboard/pkg/store"
)

// StreamManager fans graph events out to the SSE clients of each session.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for sessionID. The returned func removes and closes it.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 32)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[sessionID]; ok {
				if _, live := subs[ch]; live {
					delete(subs, ch)
					close(ch)
				}
				if len(subs) == 0 {
					delete(sm.subscribers, sessionID)
				}
			}
		})
	}
}

// Subscribers returns how many clients listen on sessionID.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast sends msg to every subscriber of sessionID without blocking.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// CloseSession disconnects every subscriber of sessionID.
func (sm *StreamManager) CloseSession(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for ch := range sm.subscribers[sessionID] {
		close(ch)
	}
	delete(sm.subscribers, sessionID)
}

type attachment struct {
	store       *store.Store
	unsubscribe func()
}

// attach forwards the session's store events to its stream, once per store.
func (s *Server) attach(sessionID string, sess *editor.Session) {
	s.attachMu.Lock()
	defer s.attachMu.Unlock()
	if s.attached == nil {
		s.attached = make(map[string]attachment)
	}
	st := sess.Store()
	if a, ok := s.attached[sessionID]; ok {
		if a.store == st {
			return
		}
		a.unsubscribe()
	}

	unsubscribe := st.Subscribe(func(ev domain.Event) {
		s.metrics.ObserveEvent(ev)
		b, err := json.Marshal(ev)
		if err != nil {
			return
		}
		s.Streams.Broadcast(sessionID, string(b))
	})
	s.attached[sessionID] = attachment{store: st, unsubscribe: unsubscribe}
}

func (s *Server) detach(sessionID string) {
	s.attachMu.Lock()
	a, ok := s.attached[sessionID]
	delete(s.attached, sessionID)
	s.attachMu.Unlock()
	if ok {
		a.unsubscribe()
	}
	s.Streams.CloseSession(sessionID)
}

// SubscribeEvents handles GET /api/sessions/{sid}/events (SSE).
// The optional "watch" query parameter is a comma separated list of event types to forward.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	_, sessionID, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	watch := make(map[domain.EventType]bool)
	if q := r.URL.Query().Get("watch"); q != "" {
		for _, t := range strings.Split(q, ",") {
			watch[domain.EventType(strings.TrimSpace(t))] = true
		}
	}

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()
	s.logger.Info("SSE: Subscribing to session updates", "session_id", sessionID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 {
				var ev domain.Event
				if err := json.Unmarshal([]byte(msg), &ev); err == nil && !watch[ev.Type] {
					continue
				}
			}
			fmt.Fprintf(w, "event: graph\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
