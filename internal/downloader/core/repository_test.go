package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"CWU/internal/logger"

	"github.com/stretchr/testify/require"
)

type progressEvent struct {
	current, total int64
}

type recordingReporter struct {
	mu        sync.Mutex
	started   []int64
	progress  []progressEvent
	completed []int64
	aborted   []error
}

func (r *recordingReporter) OnStart(_ string, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, total)
}

func (r *recordingReporter) OnProgress(_ string, current, total int64, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, progressEvent{current, total})
}

func (r *recordingReporter) OnComplete(_ string, written int64, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, written)
}

func (r *recordingReporter) OnAbort(_ string, _ int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aborted = append(r.aborted, err)
}

func testManifest() *Manifest {
	return &Manifest{
		UserAgent: "ClamWin-Updater/1.0",
		Timeout:   5 * time.Second,
		ChunkSize: 8192,
		Targets:   []Target{{Name: "main.cvd", URL: "http://unused"}},
	}
}

func newTestRepository(t *testing.T, opts ...RepositoryOption) *Repository {
	t.Helper()
	repo, err := NewRepository(testManifest(), logger.NewMockLogger(), opts...)
	require.NoError(t, err)
	return repo
}

func payload(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i * 7)
	}
	return data
}

func TestFetchWritesBodyAndReportsChunks(t *testing.T) {
	body := payload(20000)
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	reporter := &recordingReporter{}
	repo := newTestRepository(t, WithProgressReporter(reporter))
	dest := filepath.Join(t.TempDir(), "main.cvd")

	res := repo.Fetch(context.Background(), Target{Name: "main.cvd", URL: srv.URL}, dest)
	require.True(t, res.OK(), "%v", res.Err)
	require.Equal(t, FailureNone, res.Failure())
	require.Equal(t, int64(len(body)), res.Bytes)
	require.Equal(t, "ClamWin-Updater/1.0", gotUA)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, body, got)

	require.Equal(t, []int64{int64(len(body))}, reporter.started)
	require.NotEmpty(t, reporter.progress)
	last := reporter.progress[len(reporter.progress)-1]
	require.Equal(t, progressEvent{int64(len(body)), int64(len(body))}, last)
	for i := 1; i < len(reporter.progress); i++ {
		step := reporter.progress[i].current - reporter.progress[i-1].current
		require.LessOrEqual(t, step, int64(8192))
	}
	require.Equal(t, []int64{int64(len(body))}, reporter.completed)
	require.Empty(t, reporter.aborted)
}

func TestFetchWithoutContentLengthSkipsProgress(t *testing.T) {
	body := payload(30000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.(http.Flusher).Flush() // forces chunked encoding, no Content-Length
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	reporter := &recordingReporter{}
	repo := newTestRepository(t, WithProgressReporter(reporter))
	dest := filepath.Join(t.TempDir(), "daily.cvd")

	res := repo.Fetch(context.Background(), Target{Name: "daily.cvd", URL: srv.URL}, dest)
	require.True(t, res.OK(), "%v", res.Err)
	require.Empty(t, reporter.progress)
	require.Equal(t, []int64{-1}, reporter.started)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, body, got)
}

func TestFetchForbiddenIsBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "bytecode.cvd")
	require.NoError(t, os.WriteFile(dest, []byte("previous"), 0o644))

	reporter := &recordingReporter{}
	repo := newTestRepository(t, WithProgressReporter(reporter))
	res := repo.Fetch(context.Background(), Target{Name: "bytecode.cvd", URL: srv.URL}, dest)

	require.False(t, res.OK())
	require.Equal(t, FailureHTTP, res.Failure())
	require.Equal(t, http.StatusForbidden, res.StatusCode())
	require.True(t, res.Blocked())
	require.Equal(t, "Forbidden", res.Err.Message)
	require.Len(t, reporter.aborted, 1)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "previous", string(got), "an HTTP error must not touch the destination")
}

func TestFetchServerErrorIsNotBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	repo := newTestRepository(t)
	res := repo.Fetch(context.Background(), Target{Name: "main.cvd", URL: srv.URL}, filepath.Join(t.TempDir(), "main.cvd"))
	require.Equal(t, FailureHTTP, res.Failure())
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode())
	require.False(t, res.Blocked())
	require.Equal(t, "Service Unavailable", res.Err.Message)
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	repo := newTestRepository(t)
	res := repo.Fetch(context.Background(), Target{Name: "main.cvd", URL: url}, filepath.Join(t.TempDir(), "main.cvd"))
	require.Equal(t, FailureNetwork, res.Failure())
	require.Zero(t, res.StatusCode())
	require.NotEmpty(t, res.Err.Cause())
	require.NotContains(t, res.Err.Cause(), "Get \"", "url.Error envelope should be stripped")
}

func TestFetchInterruptedLeavesPartialFile(t *testing.T) {
	body := payload(16384)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)*2))
		_, _ = w.Write(body)
		w.(http.Flusher).Flush()
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			_ = conn.Close()
		}
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "main.cvd")
	repo := newTestRepository(t)
	res := repo.Fetch(context.Background(), Target{Name: "main.cvd", URL: srv.URL}, dest)
	require.Equal(t, FailureNetwork, res.Failure())

	info, err := os.Stat(dest)
	require.NoError(t, err)
	require.Equal(t, res.Bytes, info.Size())
	require.Less(t, info.Size(), int64(len(body)*2))
}

type failingCreateFS struct {
	OSFileSystem
}

func (failingCreateFS) Create(string) (io.WriteCloser, error) {
	return nil, errors.New("disk full")
}

func TestFetchLocalWriteFailureIsUnexpected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	repo := newTestRepository(t, WithFileSystem(failingCreateFS{}))
	res := repo.Fetch(context.Background(), Target{Name: "main.cvd", URL: srv.URL}, "ignored")
	require.Equal(t, FailureUnexpected, res.Failure())
	require.Equal(t, "disk full", res.Err.Cause())
}

func TestFetchInvalidURLIsUnexpected(t *testing.T) {
	repo := newTestRepository(t)
	res := repo.Fetch(context.Background(), Target{Name: "main.cvd", URL: "://bad"}, filepath.Join(t.TempDir(), "x"))
	require.Equal(t, FailureUnexpected, res.Failure())
}

func TestNewRepositoryValidatesInputs(t *testing.T) {
	_, err := NewRepository(nil, logger.NewMockLogger())
	require.Error(t, err)

	_, err = NewRepository(testManifest(), nil)
	require.Error(t, err)

	repo, err := NewRepository(&Manifest{Targets: []Target{{Name: "a", URL: "u"}}}, logger.NewMockLogger())
	require.NoError(t, err)
	m := repo.Manifest()
	require.Equal(t, 300*time.Second, m.Timeout)
	require.Equal(t, 8192, m.ChunkSize)
	require.Equal(t, "ClamWin-Updater/1.0", m.UserAgent)
}

func TestConsoleProgressReporterOutput(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewConsoleProgressReporter(&buf)

	reporter.OnStart("main.cvd", 200)
	reporter.OnProgress("main.cvd", 50, 200, 1024)
	reporter.OnProgress("main.cvd", 200, 200, 2048)
	reporter.OnComplete("main.cvd", 200, time.Second)

	out := buf.String()
	require.Contains(t, out, "\rProgress: 25.0% (50/200 bytes, 1.0 kB/s)")
	require.Contains(t, out, "\rProgress: 100.0% (200/200 bytes, 2.0 kB/s)")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))

	buf.Reset()
	reporter.OnStart("daily.cvd", -1)
	reporter.OnProgress("daily.cvd", 10, -1, 1)
	reporter.OnAbort("daily.cvd", 10, errors.New("x"))
	require.Empty(t, buf.String())
}
