package nightscout

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// fakeRemote is a stand-in for the remote store. Each route answers with
// the configured responses in turn, repeating the last one.
type fakeRemote struct {
	t      *testing.T
	server *httptest.Server
	router *mux.Router

	mu       sync.Mutex
	requests []recordedRequest
}

type reply struct {
	status int
	body   string
}

func newFakeRemote(t *testing.T) *fakeRemote {
	t.Helper()
	f := &fakeRemote{t: t, router: mux.NewRouter()}
	f.server = httptest.NewServer(f.router)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRemote) on(method, path string, replies ...reply) {
	var (
		mu sync.Mutex
		n  int
	)
	f.router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		f.mu.Unlock()

		mu.Lock()
		rep := replies[min(n, len(replies)-1)]
		n++
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.status)
		_, _ = w.Write([]byte(rep.body))
	}).Methods(method)
}

func (f *fakeRemote) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeRemote) client(secret string, opts ...Option) *Client {
	f.t.Helper()
	e, err := NewEndpoint(f.server.URL, secret)
	require.NoError(f.t, err)
	return NewClient(e, opts...)
}

// scriptedTransport answers from a fixed list of outcomes without any
// network, counting the calls it receives.
type scriptedTransport struct {
	mu       sync.Mutex
	outcomes []outcome
	calls    []*Request
}

type outcome struct {
	resp *Response
	err  error
}

func (s *scriptedTransport) Execute(_ context.Context, req *Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.outcomes[min(len(s.calls), len(s.outcomes)-1)]
	s.calls = append(s.calls, req)
	return o.resp, o.err
}

type memStorage struct {
	mu    sync.Mutex
	saved map[string]any
}

func (m *memStorage) Save(_ context.Context, key string, entity any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = map[string]any{}
	}
	m.saved[key] = entity
	return nil
}

// values returns every value recorded under name, in order.
func (q Query) values(name string) []string {
	var out []string
	for _, p := range q {
		if p.Name == name {
			out = append(out, p.Value)
		}
	}
	return out
}
