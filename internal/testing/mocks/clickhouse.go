package mocks

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/dl-alexandre/chspool/internal/types"
)

// Request is what MockServer recorded about one query
type Request struct {
	Method   string
	Query    string
	QueryID  string
	Username string
	Password string
	HasAuth  bool
}

// MockServer is an httptest server answering like the ClickHouse HTTP
// interface. By default it lists Tables in TabSeparated format.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request

	// Tables are returned as "<identifier>\t<path>" rows
	Tables []types.TableEntry
	// Body, when set, replaces the generated rows verbatim
	Body string
	// StatusCode, when >= 400, makes the server fail with ErrorBody
	StatusCode int
	ErrorBody  string
}

// NewMockServer starts a server; call Close when done
func NewMockServer(tables ...types.TableEntry) *MockServer {
	m := &MockServer{Tables: tables}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serveHTTP))
	return m
}

func (m *MockServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	user, pass, ok := r.BasicAuth()

	m.mu.Lock()
	m.requests = append(m.requests, Request{
		Method:   r.Method,
		Query:    string(body),
		QueryID:  r.URL.Query().Get("query_id"),
		Username: user,
		Password: pass,
		HasAuth:  ok,
	})
	status, errBody, raw, tables := m.StatusCode, m.ErrorBody, m.Body, m.Tables
	m.mu.Unlock()

	if status >= 400 {
		w.Header().Set("X-ClickHouse-Exception-Code", "999")
		w.WriteHeader(status)
		io.WriteString(w, errBody)
		return
	}

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=UTF-8")
	if raw != "" {
		io.WriteString(w, raw)
		return
	}
	var sb strings.Builder
	for _, t := range tables {
		sb.WriteString(t.Identifier)
		sb.WriteByte('\t')
		sb.WriteString(t.Path)
		sb.WriteByte('\n')
	}
	io.WriteString(w, sb.String())
}

// Requests returns the queries received so far
func (m *MockServer) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent query, or false if none arrived
func (m *MockServer) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return Request{}, false
	}
	return m.requests[len(m.requests)-1], true
}
