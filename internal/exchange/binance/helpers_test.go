package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "test-api-key"
	testSecretKey = "test-secret-key"
)

// fakeExchange routes requests by path and records what it received.
type fakeExchange struct {
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	hits     map[string]int
	requests []recordedRequest
}

type recordedRequest struct {
	Method      string
	Path        string
	Query       string
	Body        string
	APIKey      string
	ContentType string
}

func newFakeExchange() *fakeExchange {
	return &fakeExchange{
		handlers: make(map[string]http.HandlerFunc),
		hits:     make(map[string]int),
	}
}

func (f *fakeExchange) handle(path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = h
}

func (f *fakeExchange) respond(path string, status int, body string) {
	f.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (f *fakeExchange) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeExchange) lastRequest(path string) recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Path == path {
			return f.requests[i]
		}
	}
	return recordedRequest{}
}

func (f *fakeExchange) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.RawQuery,
		Body:        string(body),
		APIKey:      r.Header.Get(APIKeyHeader),
		ContentType: r.Header.Get("Content-Type"),
	})
	h, ok := f.handlers[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

// newTestClient returns a client pointed at a fake exchange, with a logger
// hook capturing every entry and a local clock fixed at *localMillis.
func newTestClient(t *testing.T, localMillis *int64) (*Client, *fakeExchange, *test.Hook) {
	t.Helper()

	exchange := newFakeExchange()
	server := httptest.NewServer(exchange)
	t.Cleanup(server.Close)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	client, err := NewClient(Config{
		Credentials: Credentials{APIKey: testAPIKey, SecretKey: testSecretKey},
		BaseURL:     server.URL,
		Timeout:     5 * time.Second,
		Logger:      log,
	})
	require.NoError(t, err)

	client.now = func() time.Time { return time.UnixMilli(*localMillis) }
	hook.Reset()

	return client, exchange, hook
}

func errorEntries(hook *test.Hook) []logrus.Entry {
	var out []logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			out = append(out, *e)
		}
	}
	return out
}

// splitSignature separates a signed payload into the signed prefix and the
// trailing signature value.
func splitSignature(t *testing.T, payload string) (string, string) {
	t.Helper()
	idx := strings.LastIndex(payload, "&signature=")
	require.NotEqual(t, -1, idx, "payload has no trailing signature: %s", payload)
	return payload[:idx], payload[idx+len("&signature="):]
}

func hmacHex(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
