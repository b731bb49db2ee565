package core

import (
	"testing"
	"time"

	apperrors "CWU/internal/errors"

	"github.com/stretchr/testify/require"
)

func TestBaseManifestTargets(t *testing.T) {
	m, err := BaseManifest()
	require.NoError(t, err)
	require.Equal(t, "ClamWin-Updater/1.0", m.UserAgent)
	require.Equal(t, 300*time.Second, m.Timeout)
	require.Equal(t, 8192, m.ChunkSize)
	require.Equal(t, "ClamAV Database Servers", m.Source)

	require.Equal(t, []Target{
		{Name: "main.cvd", URL: "https://database.clamav.net/main.cvd"},
		{Name: "daily.cvd", URL: "https://database.clamav.net/daily.cvd"},
		{Name: "bytecode.cvd", URL: "https://database.clamav.net/bytecode.cvd"},
	}, m.Targets)
}

func TestDefaultTargetsAreIndependentCopies(t *testing.T) {
	a, err := DefaultTargets()
	require.NoError(t, err)
	a[0].URL = "mutated"

	b, err := DefaultTargets()
	require.NoError(t, err)
	require.Equal(t, "https://database.clamav.net/main.cvd", b[0].URL)
	require.Equal(t, []string{"main.cvd", "daily.cvd", "bytecode.cvd"}, TargetNames(b))
}

func TestParseManifestRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"syntax":    "targets: [",
		"empty":     "source: x",
		"no name":   "targets:\n  - url: http://a\n",
		"no url":    "targets:\n  - name: a.cvd\n",
		"path name": "targets:\n  - name: ../a.cvd\n    url: http://a\n",
		"duplicate": "targets:\n  - name: a.cvd\n    url: http://a\n  - name: a.cvd\n    url: http://b\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseManifest([]byte(data))
			require.Error(t, err)
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			require.Equal(t, apperrors.ErrCategoryConfig, appErr.Category)
		})
	}
}
