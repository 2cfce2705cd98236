// Package testutil provides a stub upstream for exercising outbound calls
// in tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Response is a canned reply for one path.
type Response struct {
	StatusCode int
	Body       any
	Headers    map[string]string
	Delay      time.Duration
}

// Recorded is a request received by the stub.
type Recorded struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Upstream is an httptest server that replies with canned responses and
// records every request it receives.
type Upstream struct {
	server *httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	requests  []Recorded
}

// NewUpstream starts a stub server. Call Close when done.
func NewUpstream() *Upstream {
	u := &Upstream{responses: make(map[string]Response)}
	u.server = httptest.NewServer(http.HandlerFunc(u.handle))
	return u
}

// URL returns the stub's base URL.
func (u *Upstream) URL() string {
	return u.server.URL
}

// Close shuts the stub down.
func (u *Upstream) Close() {
	u.server.Close()
}

// Respond sets the reply for path.
func (u *Upstream) Respond(path string, resp Response) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.responses[path] = resp
}

// Requests returns a copy of the requests received so far.
func (u *Upstream) Requests() []Recorded {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]Recorded, len(u.requests))
	copy(out, u.requests)
	return out
}

// Count returns the number of requests received.
func (u *Upstream) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

// Last returns the most recent request.
func (u *Upstream) Last() (Recorded, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		return Recorded{}, false
	}
	return u.requests[len(u.requests)-1], true
}

func (u *Upstream) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	u.mu.Lock()
	u.requests = append(u.requests, Recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	resp, ok := u.responses[r.URL.Path]
	u.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	switch v := resp.Body.(type) {
	case nil:
		w.WriteHeader(status)
	case string:
		w.WriteHeader(status)
		_, _ = io.WriteString(w, v)
	case []byte:
		w.WriteHeader(status)
		_, _ = w.Write(v)
	default:
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}
