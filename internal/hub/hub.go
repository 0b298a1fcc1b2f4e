// Package hub fans out events to browsers over Server-Sent Events.
//
// Every message is written as a named event, so a browser subscribes with
// addEventListener("domain_renamed", ...) rather than the generic onmessage:
//
//	id: 7
//	event: domain_renamed
//	data: {"domain_id":"squad","name":"Guilds"}
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"domainverse/internal/logger"
	"domainverse/internal/metrics"
)

// KeepAliveInterval is how often an idle stream receives a comment line
var KeepAliveInterval = 30 * time.Second

// unregisterTimeout bounds how long a closing stream waits for Run
const unregisterTimeout = time.Second

// message is one queued broadcast
type message struct {
	event   string
	payload interface{}
}

// subscriber is one open event stream
type subscriber struct {
	id     string
	frames chan []byte
}

// Hub tracks open event streams and relays broadcasts to them
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	seq         uint64

	join     chan *subscriber
	leave    chan *subscriber
	messages chan message
	metrics  *metrics.Registry
}

// New creates a new Hub. reg may be nil.
func New(reg *metrics.Registry) *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		join:        make(chan *subscriber),
		leave:       make(chan *subscriber),
		messages:    make(chan message, 256),
		metrics:     reg,
	}
}

// Run owns the subscriber set until ctx is done, then closes every stream
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case s := <-h.join:
			total := h.add(s)
			logger.Info(ctx, "event stream opened", zap.String("client_id", s.id), zap.Int("total", total))
		case s := <-h.leave:
			total := h.remove(s)
			logger.Info(ctx, "event stream closed", zap.String("client_id", s.id), zap.Int("total", total))
		case m := <-h.messages:
			h.fanOut(ctx, m)
		}
	}
}

// Broadcast queues a named event for every open stream. It never blocks;
// when the queue is full the event is dropped.
func (h *Hub) Broadcast(event string, payload interface{}) {
	select {
	case h.messages <- message{event: event, payload: payload}:
	default:
		logger.Warn(context.Background(), "event queue full, dropping event", zap.String("event", event))
	}
}

// ClientCount returns the number of open streams
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) add(s *subscriber) int {
	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	total := len(h.subscribers)
	h.mu.Unlock()

	h.observe(total)
	return total
}

func (h *Hub) remove(s *subscriber) int {
	h.mu.Lock()
	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		close(s.frames)
	}
	total := len(h.subscribers)
	h.mu.Unlock()

	h.observe(total)
	return total
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for s := range h.subscribers {
		delete(h.subscribers, s)
		close(s.frames)
	}
	h.mu.Unlock()

	h.observe(0)
}

// fanOut encodes m once and offers it to every stream. Slow streams miss it.
func (h *Hub) fanOut(ctx context.Context, m message) {
	data, err := json.Marshal(m.payload)
	if err != nil {
		logger.Error(ctx, "failed to marshal event", zap.String("event", m.event), zap.Error(err))
		return
	}

	h.seq++
	frame := encodeFrame(h.seq, m.event, data)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subscribers {
		select {
		case s.frames <- frame:
		default:
			logger.Warn(ctx, "event stream is slow, skipping event",
				zap.String("client_id", s.id),
				zap.String("event", m.event),
			)
		}
	}
}

func (h *Hub) observe(total int) {
	if h.metrics != nil {
		h.metrics.EventClients.Set(float64(total))
	}
}

// encodeFrame renders one SSE event. data is single-line JSON.
func encodeFrame(id uint64, event string, data []byte) []byte {
	var b bytes.Buffer
	b.WriteString("id: ")
	b.WriteString(strconv.FormatUint(id, 10))
	b.WriteString("\nevent: ")
	b.WriteString(event)
	b.WriteString("\ndata: ")
	b.Write(data)
	b.WriteString("\n\n")
	return b.Bytes()
}

// ServeHTTP streams events to one client until it disconnects or the hub stops
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	s := &subscriber{id: uuid.NewString(), frames: make(chan []byte, 64)}

	select {
	case h.join <- s:
	case <-r.Context().Done():
		return
	}
	defer func() {
		// Run may already have stopped and closed the stream
		select {
		case h.leave <- s:
		case <-time.After(unregisterTimeout):
		}
	}()

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	if !writeFlush(w, flusher, []byte(": connected "+s.id+"\n\n")) {
		return
	}

	keepAlive := time.NewTicker(KeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case frame, open := <-s.frames:
			if !open || !writeFlush(w, flusher, frame) {
				return
			}
		case <-keepAlive.C:
			if !writeFlush(w, flusher, []byte(": keepalive\n\n")) {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

func writeFlush(w http.ResponseWriter, flusher http.Flusher, b []byte) bool {
	if _, err := w.Write(b); err != nil {
		return false
	}
	flusher.Flush()
	return true
}
