package reqtiming_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servicebond/pkg/reqtiming"
	"github.com/dmitrymomot/servicebond/pkg/requestid"
)

type line struct {
	Msg    string `json:"msg"`
	Path   string `json:"path"`
	Result string `json:"result"`
	Timing struct {
		ID   string `json:"id"`
		Pass int    `json:"pass"`
	} `json:"timing"`
}

func capture(t *testing.T, h http.Handler, req *http.Request) []line {
	t.Helper()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reqtiming.Middleware(true, log)(h).ServeHTTP(httptest.NewRecorder(), req)

	var lines []line
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var l line
		require.NoError(t, dec.Decode(&l))
		lines = append(lines, l)
	}
	return lines
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("body size", func(t *testing.T) {
		t.Parallel()

		h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "hello")
		})
		lines := capture(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/shop", nil))

		require.Len(t, lines, 2)
		assert.Equal(t, "request", lines[0].Msg)
		assert.Equal(t, "response", lines[1].Msg)
		assert.Equal(t, 1, lines[0].Timing.Pass)
		assert.Equal(t, 2, lines[1].Timing.Pass)
		assert.Equal(t, lines[0].Timing.ID, lines[1].Timing.ID)
		assert.Equal(t, "/api/v1/shop", lines[1].Path)
		assert.Equal(t, "200 (5b)", lines[1].Result)
	})

	t.Run("redirect shows location", func(t *testing.T) {
		t.Parallel()

		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/ui-panel", http.StatusFound)
		})
		lines := capture(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Len(t, lines, 2)
		assert.Equal(t, "302 => /ui-panel", lines[1].Result)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		lines := capture(t, h, httptest.NewRequest(http.MethodDelete, "/x", nil))
		require.Len(t, lines, 2)
		assert.Equal(t, "204", lines[1].Result)
	})

	t.Run("uses request id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(requestid.WithContext(req.Context(), "req-1"))
		lines := capture(t, http.NotFoundHandler(), req)
		require.Len(t, lines, 2)
		assert.Equal(t, "req-1", lines[0].Timing.ID)
		assert.Equal(t, "404 (19b)", lines[1].Result)
	})
}

func TestMiddleware_Disabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := reqtiming.Middleware(false, log)(http.NotFoundHandler())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, buf.String())
}

func TestLog_WithoutMark(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reqtiming.Log(httptest.NewRequest(http.MethodGet, "/", nil).Context(), log, "view", "/", "")
	assert.Empty(t, buf.String())
}
