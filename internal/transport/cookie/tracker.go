package cookie

import (
	"bufio"
	"net"
	"net/http"
	"sync/atomic"
)

// Tracker wraps an http.ResponseWriter and records whether the header
// has been written, which is the point past which the cookie medium
// refuses writes.
type Tracker struct {
	http.ResponseWriter
	wrote atomic.Bool
}

// NewTracker wraps w.
func NewTracker(w http.ResponseWriter) *Tracker {
	return &Tracker{ResponseWriter: w}
}

// HeaderWritten reports whether the response header has been flushed.
func (t *Tracker) HeaderWritten() bool {
	return t.wrote.Load()
}

// WriteHeader implements http.ResponseWriter.
func (t *Tracker) WriteHeader(status int) {
	t.wrote.Store(true)
	t.ResponseWriter.WriteHeader(status)
}

// Write implements http.ResponseWriter. The first body write flushes
// the header implicitly.
func (t *Tracker) Write(p []byte) (int, error) {
	t.wrote.Store(true)
	return t.ResponseWriter.Write(p)
}

// Flush implements http.Flusher when the underlying writer does.
func (t *Tracker) Flush() {
	if f, ok := t.ResponseWriter.(http.Flusher); ok {
		t.wrote.Store(true)
		f.Flush()
	}
}

// Hijack implements http.Hijacker when the underlying writer does.
func (t *Tracker) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := t.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}
