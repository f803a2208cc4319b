package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	sseChannelBuffer = 16
	sseHeartbeat     = 30 * time.Second
)

// client is a single SSE connection.
type client struct {
	ch         chan string
	templateID string
}

// Broadcaster fans save notifications out to the SSE clients watching a
// template.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[*client]struct{}),
	}
}

// Register adds a client for a template and returns it.
func (b *Broadcaster) Register(templateID string) *client {
	c := &client{
		ch:         make(chan string, sseChannelBuffer),
		templateID: templateID,
	}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	return c
}

// Unregister removes a client and closes its channel.
func (b *Broadcaster) Unregister(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// Broadcast sends a message to every client of a template. Slow clients
// whose buffer is full miss the message.
func (b *Broadcaster) Broadcast(templateID, data string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for c := range b.clients {
		if c.templateID != templateID {
			continue
		}
		select {
		case c.ch <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients for a template.
func (b *Broadcaster) ClientCount(templateID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for c := range b.clients {
		if c.templateID == templateID {
			n++
		}
	}
	return n
}

// ServeSSE streams a template's messages until the request ends.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, templateID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Registered before the headers go out: once connected, no event is missed.
	c := b.Register(templateID)
	defer b.Unregister(c)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
