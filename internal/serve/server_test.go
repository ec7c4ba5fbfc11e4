package serve

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
	"git.home.luguber.info/inful/sphinxkit/internal/metrics"
)

func builtTree(t *testing.T, packages ...string) string {
	t.Helper()
	buildPath := t.TempDir()
	for _, pkg := range packages {
		require.NoError(t, os.MkdirAll(filepath.Join(buildPath, pkg, "latest"), 0o750))
	}
	require.NoError(t, os.WriteFile(filepath.Join(buildPath, "index.html"), []byte("redirect"), 0o644))
	return buildPath
}

func TestNewRejectsMissingOutput(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "_build"), Options{Host: "127.0.0.1", Port: 0})
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryServe))
}

func TestNewRejectsEmptyOutput(t *testing.T) {
	_, err := New(t.TempDir(), Options{Host: "127.0.0.1", Port: 0})
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryServe))
}

func TestNewAcceptsBuiltTree(t *testing.T) {
	srv, err := New(builtTree(t, "ape"), Options{Host: "127.0.0.1", Port: 1337})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1337", srv.Addr())
	assert.Equal(t, "http://127.0.0.1:1337/", srv.URL())
}

func TestBrowseURLSinglePackage(t *testing.T) {
	buildPath := builtTree(t, "ape")
	assert.Equal(t, "http://127.0.0.1:1337/ape/latest", BrowseURL("http://127.0.0.1:1337/", buildPath))
}

func TestBrowseURLMultiplePackages(t *testing.T) {
	buildPath := builtTree(t, "ape", "ape-vyper")
	assert.Equal(t, "http://127.0.0.1:1337/", BrowseURL("http://127.0.0.1:1337/", buildPath))
}

func TestBrowseURLHiddenDirsIgnored(t *testing.T) {
	buildPath := builtTree(t, "ape")
	require.NoError(t, os.MkdirAll(filepath.Join(buildPath, ".doctrees"), 0o750))
	assert.Equal(t, "http://127.0.0.1:1337/ape/latest", BrowseURL("http://127.0.0.1:1337/", buildPath))
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestListenAndServeOnReady(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())

	ready := make(chan struct{})
	srv, err := New(builtTree(t, "ape"), Options{
		Host: "127.0.0.1",
		Port: port,
		OnReady: func() {
			// The listener must accept connections by the time this runs.
			conn, dialErr := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
			assert.NoError(t, dialErr)
			if conn != nil {
				_ = conn.Close()
			}
			close(ready)
		},
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx)
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("OnReady never fired")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop on cancel")
	}
}

func TestLoggingMiddlewareCountsRequests(t *testing.T) {
	rec := metrics.NewPrometheusRecorder(nil)
	handler := loggingMiddleware(rec, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	handler := panicRecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
