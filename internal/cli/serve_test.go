package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/termdiag/pkg/cache"
	terr "github.com/matzehuels/termdiag/pkg/errors"
	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/observability"
	"github.com/matzehuels/termdiag/pkg/pipeline"
)

type apiResult struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Output   string `json:"output"`
	Key      string `json:"key"`
	CacheHit bool   `json:"cache_hit"`
}

type apiError struct {
	Error struct {
		Code    terr.Code `json:"code"`
		Message string    `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := pipeline.NewRunner(fc, cache.NewScopedKeyer(nil, "api:"), log.New(io.Discard))
	srv := httptest.NewServer(newServer(runner, graph.DefaultRenderOptions(), 5*time.Second))
	t.Cleanup(srv.Close)
	return srv
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServeHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestServeRender(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/render?ascii=true", "application/json", strings.NewReader(flowchartJSON))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	res := decode[apiResult](t, resp)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "flowchart", res.Kind)
	assert.Contains(t, res.Output, "Start")
	assert.Contains(t, res.Output, "+")
	assert.True(t, strings.HasPrefix(res.Key, "api:"), "key %q", res.Key)
	assert.False(t, res.CacheHit)

	again, err := http.Post(srv.URL+"/v1/render?ascii=true", "application/json", strings.NewReader(flowchartJSON))
	require.NoError(t, err)
	second := decode[apiResult](t, again)
	assert.True(t, second.CacheHit)
	assert.Equal(t, res.Output, second.Output)
	assert.NotEqual(t, res.ID, second.ID, "every response gets its own id")
}

func TestServeRenderTOML(t *testing.T) {
	srv := newTestServer(t)
	body := "type = \"pie\"\n[[slices]]\nlabel = \"Dogs\"\nvalue = 1.0\n"

	resp, err := http.Post(srv.URL+"/v1/render", "application/toml", strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[apiResult](t, resp)
	assert.Equal(t, "pie", res.Kind)
	assert.Contains(t, res.Output, "100.0%")

	resp, err = http.Post(srv.URL+"/v1/render?format=toml", "text/plain", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestServeResultByKey(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/render", "application/json", strings.NewReader(pieJSON))
	require.NoError(t, err)
	rendered := decode[apiResult](t, resp)

	resp, err = http.Get(srv.URL + "/v1/render/" + rendered.Key)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decode[apiResult](t, resp)
	assert.Equal(t, rendered.Output, fetched.Output)
	assert.True(t, fetched.CacheHit)

	resp, err = http.Get(srv.URL + "/v1/render/api:render:pie:missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, terr.ErrCodeNotFound, decode[apiError](t, resp).Error.Code)
}

func TestServeErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   terr.Code
	}{
		{"empty body", "", "", http.StatusBadRequest, terr.ErrCodeEmptyInput},
		{"parse error", "", `{"nodes": [`, http.StatusBadRequest, terr.ErrCodeParse},
		{"unknown type", "", `{"type": "gantt"}`, http.StatusBadRequest, terr.ErrCodeInvalidFormat},
		{"bad format", "?format=yaml", flowchartJSON, http.StatusBadRequest, terr.ErrCodeInvalidFormat},
		{"bad bool", "?ascii=maybe", flowchartJSON, http.StatusBadRequest, terr.ErrCodeInvalidOptions},
		{"bad int", "?max_width=wide", flowchartJSON, http.StatusBadRequest, terr.ErrCodeInvalidOptions},
		{"negative width", "?max_width=-3", flowchartJSON, http.StatusBadRequest, terr.ErrCodeInvalidOptions},
		{"huge padding", "?padding_x=1099511627776", flowchartJSON, http.StatusBadRequest, terr.ErrCodeInvalidOptions},
		{"padding over limit", "?padding_y=1025", flowchartJSON, http.StatusBadRequest, terr.ErrCodeInvalidOptions},
		{"bad refresh", "?refresh=sometimes", flowchartJSON, http.StatusBadRequest, terr.ErrCodeInvalidOptions},
		{"too large", "", strings.Repeat(" ", terr.MaxInputSize+10), http.StatusBadRequest, terr.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/v1/render"+tt.query, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[apiError](t, resp)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

type countingServerHooks struct {
	observability.NoopServerHooks
	requests  atomic.Int32
	responses atomic.Int32
	lastCode  atomic.Int32
}

func (h *countingServerHooks) OnRequest(context.Context, string, string) {
	h.requests.Add(1)
}

func (h *countingServerHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.responses.Add(1)
	h.lastCode.Store(int32(status))
}

func TestServeHooks(t *testing.T) {
	hooks := &countingServerHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	resp, err = http.Get(srv.URL + "/v1/render/nope")
	require.NoError(t, err)
	resp.Body.Close()

	assert.EqualValues(t, 2, hooks.requests.Load())
	assert.EqualValues(t, 2, hooks.responses.Load())
	assert.EqualValues(t, http.StatusNotFound, hooks.lastCode.Load())
}

func TestListenAndServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- listenAndServe(ctx, srv, log.New(io.Discard)) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestDisplayAddr(t *testing.T) {
	assert.Equal(t, "localhost:8080", displayAddr(":8080"))
	assert.Equal(t, "0.0.0.0:9000", displayAddr("0.0.0.0:9000"))
}

func TestCacheLabel(t *testing.T) {
	assert.Equal(t, cache.BackendNone, cacheLabel(cache.BackendRedis, true))
	assert.Equal(t, cache.BackendFile, cacheLabel("", false))
	assert.Equal(t, cache.BackendMongo, cacheLabel(cache.BackendMongo, false))
}
