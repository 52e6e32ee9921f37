// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
)

// Recorder is an [http.RoundTripper] that answers from a route table and records every request
type Recorder struct {
	mu       sync.Mutex
	routes   map[string]func(*http.Request) (*http.Response, error)
	Requests []*http.Request
	Bodies   []string
}

func NewRecorder() *Recorder {
	return &Recorder{routes: make(map[string]func(*http.Request) (*http.Response, error))}
}

// Handle registers a responder for "METHOD /path". Unregistered routes answer 404.
func (rec *Recorder) Handle(route string, fn func(*http.Request) *http.Response) *Recorder {
	return rec.HandleErr(route, func(r *http.Request) (*http.Response, error) { return fn(r), nil })
}

// HandleErr registers a responder that may fail the exchange instead of answering.
func (rec *Recorder) HandleErr(route string, fn func(*http.Request) (*http.Response, error)) *Recorder {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.routes[route] = fn
	return rec
}

// JSON registers a fixed JSON response for route.
func (rec *Recorder) JSON(route string, status int, body string) *Recorder {
	return rec.Handle(route, func(*http.Request) *http.Response { return NewJSONResponse(status, body) })
}

func (rec *Recorder) RoundTrip(r *http.Request) (*http.Response, error) {
	var body string
	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		body = string(data)
	}

	rec.mu.Lock()
	rec.Requests = append(rec.Requests, r)
	rec.Bodies = append(rec.Bodies, body)
	fn, ok := rec.routes[r.Method+" "+r.URL.Path]
	rec.mu.Unlock()

	if !ok {
		return NewJSONResponse(http.StatusNotFound, `{"message":"not found"}`), nil
	}
	resp, err := fn(r)
	if err != nil {
		return nil, err
	}
	resp.Request = r
	return resp, nil
}

// Last returns the most recent request and its body.
func (rec *Recorder) Last() (*http.Request, string) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.Requests) == 0 {
		return nil, ""
	}
	n := len(rec.Requests) - 1
	return rec.Requests[n], rec.Bodies[n]
}

// Count returns how many requests hit "METHOD /path".
func (rec *Recorder) Count(route string) int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	n := 0
	for _, r := range rec.Requests {
		if r.Method+" "+r.URL.Path == route {
			n++
		}
	}
	return n
}

// NewJSONResponse builds an [http.Response] with a JSON body
func NewJSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
