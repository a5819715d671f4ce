package web

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
	ch chan string
}

// offer queues msg without blocking and reports whether it fit.
func (c *client) offer(msg string) bool {
	select {
	case c.ch <- msg:
		return true
	default:
		return false
	}
}

// Broadcaster fans state events out to every connected stream.
type Broadcaster struct {
	mu        sync.RWMutex
	clients   map[*client]struct{}
	heartbeat time.Duration
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients:   make(map[*client]struct{}),
		heartbeat: sseHeartbeat,
	}
}

func (b *Broadcaster) Register() *client {
	c := &client{ch: make(chan string, sseChannelBuffer)}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	return c
}

// Unregister removes c and closes its channel.
func (b *Broadcaster) Unregister(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// Broadcast queues data for every client. A client whose buffer is full
// misses the event; the next one carries the whole state anyway.
func (b *Broadcaster) Broadcast(data string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		c.offer(data)
	}
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// ServeSSE streams events to w until the request ends. onConnect runs after
// registration, so nothing broadcast in between is lost.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, onConnect func(c *client)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := b.Register()
	defer b.Unregister(c)

	if onConnect != nil {
		onConnect(c)
	}

	ticker := time.NewTicker(b.heartbeat)
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
