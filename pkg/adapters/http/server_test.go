package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tendero/internal/runtime"
	"github.com/aretw0/tendero/pkg/adapters/memory"
	"github.com/aretw0/tendero/pkg/observability"
	"github.com/aretw0/tendero/pkg/runner"
	"github.com/aretw0/tendero/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(opts ...runner.Option) (*runner.Dispatcher, *memory.Store) {
	store := memory.NewStore()
	return runner.NewDispatcher(runtime.NewEngine(), session.NewManager(store), memory.NewLedger(), opts...), store
}

func postMessage(t *testing.T, h http.Handler, identity, text string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(MessageRequest{Identity: identity, Text: text})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeReplies(t *testing.T, rr *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp MessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Replies
}

func TestGetHealth(t *testing.T) {
	d, _ := newDispatcher()
	handler := NewHandler(d)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestGetInfo(t *testing.T) {
	d, _ := newDispatcher()
	handler := NewHandler(d)

	req := httptest.NewRequest(http.MethodGet, "/info", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp InfoResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "tendero-http", resp.App)
	assert.NotEmpty(t, resp.Version)
}

func TestPostMessage_Conversation(t *testing.T) {
	d, store := newDispatcher()
	handler := NewHandler(d)

	rr := postMessage(t, handler, "51999", "nueva venta")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, []string{"Por favor, ingrese el nombre del cliente:"}, decodeReplies(t, rr))

	for _, in := range []string{"Acme", "Widget", "1", "3"} {
		require.Equal(t, http.StatusOK, postMessage(t, handler, "51999", in).Code)
	}
	rr = postMessage(t, handler, "51999", "10")
	replies := decodeReplies(t, rr)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Subtotal: S/.30")

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"51999"}, ids)
}

func TestPostMessage_BadRequests(t *testing.T) {
	d, _ := newDispatcher()
	handler := NewHandler(d)

	send := func(contentType, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"malformed json", "application/json", "{not json"},
		{"missing text", "application/json", `{"identity":"51999"}`},
		{"empty identity", "application/json", `{"identity":"","text":"hola"}`},
		{"identity not a string", "application/json", `{"identity":51999,"text":"hola"}`},
		{"form body", "application/x-www-form-urlencoded", "identity=51999&text=hola"},
		{"no content type", "", `{"identity":"51999","text":"hola"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := send(tt.contentType, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}

	rr := postMessage(t, handler, "  ", "hola")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "identity is required")
}

type stubDispatcher struct {
	err      error
	resetErr error
	reset    []string
}

func (s *stubDispatcher) Handle(ctx context.Context, in runner.Inbound) ([]string, error) {
	return nil, s.err
}

func (s *stubDispatcher) Reset(ctx context.Context, identity string) error {
	if s.resetErr != nil {
		return s.resetErr
	}
	if identity == "" {
		return runner.ErrEmptyIdentity
	}
	s.reset = append(s.reset, identity)
	return nil
}

func TestPostMessage_DispatcherErrors(t *testing.T) {
	handler := NewHandler(&stubDispatcher{err: context.Canceled})
	assert.Equal(t, http.StatusServiceUnavailable, postMessage(t, handler, "51999", "hola").Code)

	handler = NewHandler(&stubDispatcher{err: errors.New("boom")})
	rr := postMessage(t, handler, "51999", "hola")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "boom")
}

func TestDeleteSession(t *testing.T) {
	d, store := newDispatcher()
	handler := NewHandler(d)
	postMessage(t, handler, "51999", "nueva venta")

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/51999", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)

	stub := &stubDispatcher{resetErr: errors.New("redis down")}
	req = httptest.NewRequest(http.MethodDelete, "/v1/sessions/51999", nil)
	rr = httptest.NewRecorder()
	NewHandler(stub).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	d, _ := newDispatcher(runner.WithLifecycleHooks(metrics.Hooks()))
	handler := NewHandler(d, WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	for _, in := range []string{"nueva venta", "Acme", "Widget", "1", "3", "10", "3", "1", "si"} {
		require.Equal(t, http.StatusOK, postMessage(t, handler, "51999", in).Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `tendero_commits_total{result="ok"} 1`)
}

func TestMetricsEndpoint_NotMountedByDefault(t *testing.T) {
	d, _ := newDispatcher()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	NewHandler(d).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSubscribeEvents(t *testing.T) {
	d, _ := newDispatcher()
	handler := NewHandler(d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest(http.MethodGet, "/v1/sessions/51999/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(wSub, reqSub)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for subscription to register

	require.Equal(t, http.StatusOK, postMessage(t, handler, "51999", "nueva venta").Code)
	require.Equal(t, http.StatusOK, postMessage(t, handler, "other", "nueva venta").Code)

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `data: {"replies":["Por favor, ingrese el nombre del cliente:"]}`)
	assert.Equal(t, 1, strings.Count(output, "data: {"))
}

func TestStreamManager_Unsubscribe(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("a")
	sm.Broadcast("a", "one")
	assert.Equal(t, "one", <-ch)

	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Empty(t, sm.subscribers)

	sm.Broadcast("a", "two")
}

func preflight(h http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/v1/messages", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCORS_AllowedOrigins(t *testing.T) {
	d, _ := newDispatcher()
	handler := NewHandler(d, WithAllowedOrigins("https://panel.bodega.pe"))

	rr := preflight(handler, "https://panel.bodega.pe")
	assert.Less(t, rr.Code, 300)
	assert.Equal(t, "https://panel.bodega.pe", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	rr = preflight(handler, "https://evil.example.com")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisabledByDefault(t *testing.T) {
	d, _ := newDispatcher()
	handler := NewHandler(d)

	rr := preflight(handler, "https://evil.example.com")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestOpenAPISpec(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)
	require.NoError(t, swagger.Validate(context.Background()))
	for _, p := range []string{"/healthz", "/info", "/v1/messages", "/v1/sessions/{identity}", "/v1/sessions/{identity}/events"} {
		assert.NotNil(t, swagger.Paths.Find(p), "path %s", p)
	}

	d, _ := newDispatcher()
	handler := NewHandler(d)

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/yaml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "postMessage")

	req = httptest.NewRequest(http.MethodGet, "/swagger", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/openapi.yaml")
}

func TestDeleteSession_EscapedIdentity(t *testing.T) {
	stub := &stubDispatcher{}
	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/bodega%20rosa", nil)
	rr := httptest.NewRecorder()
	NewHandler(stub).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, []string{"bodega rosa"}, stub.reset)
}
