package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-ensemble/internal/config"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "prop-ensemble", Version: "1.2.3", Commit: "abc"})
	h := s.Handler()

	rec := get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.NotEmpty(t, resp.Timestamp)

	rec = get(t, h, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReflectsStateAndChecks(t *testing.T) {
	failing := errors.New("self-check failed")
	var err error
	s := NewServer(Config{
		ServiceName: "prop-ensemble",
		Checks: map[string]Check{
			"ensemble": func(context.Context) error { return err },
		},
	})
	h := s.Handler()

	rec := get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = get(t, h, "/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Checks["ensemble"])

	err = failing
	rec = get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Contains(t, resp.Checks["ensemble"], "self-check failed")
}

func TestMountedHandlers(t *testing.T) {
	s := NewServer(Config{
		Handlers: map[string]http.Handler{
			"/metrics": http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			}),
		},
	})

	rec := get(t, s.Handler(), "/metrics")
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestShutdownWithoutStart(t *testing.T) {
	s := NewServer(Config{})
	assert.NoError(t, s.Shutdown())
	assert.False(t, s.IsReady())
}

func TestMountedHandlerCannotShadowProbes(t *testing.T) {
	teapot := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	s := NewServer(Config{
		Logger: quietLogger(),
		Handlers: map[string]http.Handler{
			"/health":    teapot,
			"GET /live/": teapot,
			"/metrics":   teapot,
		},
	})
	h := s.Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/health").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/live").Code)
	assert.Equal(t, http.StatusTeapot, get(t, h, "/metrics").Code)
}

func TestBuiltinPathsAreReservedInConfig(t *testing.T) {
	for _, path := range BuiltinPaths() {
		assert.Contains(t, config.ReservedPaths, path)
	}
}

func TestReadyRunsEveryCheck(t *testing.T) {
	s := NewServer(Config{
		Logger: quietLogger(),
		Checks: map[string]Check{
			"first":  func(context.Context) error { return nil },
			"second": func(context.Context) error { return nil },
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		},
	})
	s.SetReady(true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil).WithContext(ctx))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Checks["first"])
	assert.Equal(t, "ok", resp.Checks["second"])
	assert.Contains(t, resp.Checks["slow"], "context canceled")
}

func TestStartReportsBindFailure(t *testing.T) {
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer busy.Close()

	s := NewServer(Config{Logger: quietLogger(), Port: busy.Addr().(*net.TCPAddr).Port})
	err = s.Start(context.Background())
	assert.Error(t, err)
	assert.NoError(t, s.Shutdown())
}
