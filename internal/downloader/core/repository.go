package core

import (
	"context"
	stdErrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "CWU/internal/errors"
	"CWU/internal/errors/logging"
	"CWU/internal/logger"
)

const moduleName = "downloader.core"

// HTTPClient represents the subset of http.Client methods required by the repository.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Repository fetches definition files, one attempt per target.
type Repository struct {
	manifest *Manifest
	logger   logger.Logger
	client   HTTPClient
	fs       FileSystem
	reporter ProgressReporter
}

// RepositoryOption customises Repository construction.
type RepositoryOption func(*Repository)

// WithHTTPClient overrides the HTTP client used for downloads.
func WithHTTPClient(client HTTPClient) RepositoryOption {
	return func(r *Repository) {
		r.client = client
	}
}

// WithFileSystem overrides the filesystem implementation.
func WithFileSystem(fs FileSystem) RepositoryOption {
	return func(r *Repository) {
		r.fs = fs
	}
}

// WithProgressReporter overrides the progress reporter implementation.
func WithProgressReporter(reporter ProgressReporter) RepositoryOption {
	return func(r *Repository) {
		r.reporter = reporter
	}
}

// NewRepository constructs a Repository using the provided manifest, logger and options.
func NewRepository(m *Manifest, log logger.Logger, opts ...RepositoryOption) (*Repository, error) {
	if m == nil {
		return nil, apperrors.ConfigError(apperrors.CodeConfigGeneric, "target manifest must not be nil", nil).
			WithModule(moduleName).
			WithOperation("NewRepository")
	}
	if log == nil {
		return nil, apperrors.SystemError(apperrors.CodeSystemGeneric, "logger must not be nil", nil).
			WithModule(moduleName).
			WithOperation("NewRepository")
	}

	copyManifest := *m
	copyManifest.Targets = append([]Target(nil), m.Targets...)
	if err := copyManifest.normalize(); err != nil {
		return nil, apperrors.ConfigError(apperrors.CodeConfigGeneric, "invalid target manifest", err).
			WithModule(moduleName).
			WithOperation("NewRepository")
	}

	repo := &Repository{
		manifest: &copyManifest,
		logger:   log,
	}
	for _, opt := range opts {
		opt(repo)
	}

	if repo.client == nil {
		repo.client = defaultHTTPClient(copyManifest.Timeout)
	}
	if repo.fs == nil {
		repo.fs = OSFileSystem{}
	}
	if repo.reporter == nil {
		repo.reporter = NoopProgressReporter{}
	}

	return repo, nil
}

// Manifest returns the manifest the repository was built with.
func (r *Repository) Manifest() Manifest {
	return *r.manifest
}

// Fetch downloads target into destination with a single attempt. The destination is
// truncated and written in place, so a failure mid-stream leaves a partial file behind.
// Errors never escape: they are classified into the returned Result.
func (r *Repository) Fetch(ctx context.Context, target Target, destination string) Result {
	ctx = logger.WithTarget(ctx, target.Name)
	started := time.Now()

	written, err := r.fetch(ctx, target, destination, started)

	result := Result{
		Target:  target,
		Path:    destination,
		Bytes:   written,
		Elapsed: time.Since(started),
	}
	if err != nil {
		result.Err = err.WithModule(moduleName).WithOperation("Fetch").
			WithFields(apperrors.Metadata{"url": target.URL, "path": destination})
		r.reporter.OnAbort(target.Name, written, err)
		logging.Debug(ctx, r.logger, "fetch failed", result.Err, logger.Int64("bytes", written))
		return result
	}

	r.reporter.OnComplete(target.Name, written, result.Elapsed)
	r.logger.DebugContext(ctx, "fetch completed",
		logger.Int64("bytes", written),
		logger.String("elapsed", result.Elapsed.String()))
	return result
}

func (r *Repository) fetch(ctx context.Context, target Target, destination string, started time.Time) (int64, *apperrors.AppError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return 0, apperrors.UnexpectedError(apperrors.CodeUnexpectedGeneric, "failed to create download request", err)
	}
	req.Header.Set("User-Agent", r.manifest.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, apperrors.NetworkError(apperrors.CodeNetworkGeneric, "download request failed", transportCause(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := apperrors.CodeHTTPGeneric
		if resp.StatusCode == http.StatusForbidden {
			code = apperrors.CodeHTTPForbidden
		}
		return 0, apperrors.HTTPError(code, statusReason(resp), resp.StatusCode)
	}

	file, err := r.fs.Create(destination)
	if err != nil {
		return 0, apperrors.UnexpectedError(apperrors.CodeUnexpectedGeneric, "failed to open destination file", err)
	}

	total := resp.ContentLength
	r.reporter.OnStart(target.Name, total)

	written, copyErr := r.copyChunks(target.Name, file, resp.Body, total, started)
	closeErr := file.Close()
	if copyErr != nil {
		return written, copyErr
	}
	if closeErr != nil {
		return written, apperrors.UnexpectedError(apperrors.CodeUnexpectedGeneric, "failed to close destination file", closeErr)
	}
	return written, nil
}

// copyChunks streams body into dst in fixed-size chunks, reporting progress after each one.
func (r *Repository) copyChunks(name string, dst io.Writer, body io.Reader, total int64, started time.Time) (int64, *apperrors.AppError) {
	buf := make([]byte, r.manifest.ChunkSize)
	var written int64

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, apperrors.UnexpectedError(apperrors.CodeUnexpectedGeneric, "failed to write file to disk", err)
			}
			written += int64(n)
			if total > 0 {
				r.reporter.OnProgress(name, written, total, transferSpeed(written, started))
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, apperrors.NetworkError(apperrors.CodeNetworkGeneric, "download interrupted", transportCause(readErr))
		}
	}
}

// transportCause strips the *url.Error envelope so the reason reads like "connection refused".
func transportCause(err error) error {
	var urlErr *url.Error
	if stdErrors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func statusReason(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func defaultHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableCompression:    true,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
