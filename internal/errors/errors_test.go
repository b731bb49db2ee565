package errors

import (
	stdErrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorFormatting(t *testing.T) {
	err := SystemError(CodeDirectoryPrepare, "failed to create directory", io.ErrUnexpectedEOF)
	require.Equal(t, "[SYSTEM:SYS-001] failed to create directory: unexpected EOF", err.Error())
	require.Equal(t, "unexpected EOF", err.Cause())
	require.True(t, stdErrors.Is(err, io.ErrUnexpectedEOF))

	bare := HTTPError(CodeHTTPForbidden, "Forbidden", 403)
	require.Equal(t, "[HTTP:HTTP-403] Forbidden", bare.Error())
	require.Equal(t, "Forbidden", bare.Cause())

	status, ok := bare.Field("status")
	require.True(t, ok)
	require.Equal(t, 403, status)
}

func TestAsUnwrapsWrappedAppError(t *testing.T) {
	inner := NetworkError(CodeNetworkGeneric, "request failed", io.EOF).
		WithModule("downloader.core").
		WithOperation("Fetch")
	wrapped := stdErrors.Join(stdErrors.New("outer"), inner)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	require.Same(t, inner, appErr)
	require.Equal(t, ErrCategoryNetwork, appErr.Category)

	_, ok = As(io.EOF)
	require.False(t, ok)
}

func TestOrigin(t *testing.T) {
	err := ConfigError(CodeConfigGeneric, "bad manifest", nil)
	require.Empty(t, err.Origin())

	err.WithModule("downloader.core")
	require.Equal(t, "downloader.core", err.Origin())

	err.WithOperation("NewRepository")
	require.Equal(t, "downloader.core.NewRepository", err.Origin())

	require.Equal(t, "Rotate", SystemError(CodeBackupDirectory, "x", nil).WithOperation("Rotate").Origin())
}

func TestWithFieldsMerges(t *testing.T) {
	err := UnexpectedError(CodeUnexpectedGeneric, "write failed", nil).
		WithField("path", "/db/main.cvd").
		WithFields(Metadata{"url": "https://mirror/main.cvd", "path": "/db/daily.cvd"})

	require.Equal(t, Metadata{"url": "https://mirror/main.cvd", "path": "/db/daily.cvd"}, err.Metadata)
	_, ok := (*AppError)(nil).Field("path")
	require.False(t, ok)
}
