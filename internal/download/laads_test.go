package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func orderServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/100000001.json", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"name": "VNP46A2.A2016153.h30v05.001.h5", "size": 5},
			{"name": "VNP46A2.A2016154.h30v05.001.h5", "size": 5}
		]`))
	})
	mux.HandleFunc("/100000001/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("hdf5!"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloadOrder(t *testing.T) {
	srv := orderServer(t)
	dest := t.TempDir()
	client := NewClient(srv.URL, "test-token")

	fetched, err := client.DownloadOrder(context.Background(), 100000001, dest)
	require.NoError(t, err)
	require.Equal(t, 2, fetched)

	data, err := os.ReadFile(filepath.Join(dest, "VNP46A2.A2016153.h30v05.001.h5"))
	require.NoError(t, err)
	require.Equal(t, "hdf5!", string(data))

	// No stray .part files remain.
	parts, err := filepath.Glob(filepath.Join(dest, "*.part"))
	require.NoError(t, err)
	require.Empty(t, parts)
}

func TestDownloadOrderSkipsCompleteFiles(t *testing.T) {
	srv := orderServer(t)
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dest, "VNP46A2.A2016153.h30v05.001.h5"), []byte("hdf5!"), 0o644))

	client := NewClient(srv.URL, "test-token")
	fetched, err := client.DownloadOrder(context.Background(), 100000001, dest)
	require.NoError(t, err)
	require.Equal(t, 1, fetched, "the already-complete file must be skipped")
}

func TestDownloadOrderUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "bad-token")
	_, err := client.DownloadOrder(context.Background(), 100000001, t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}
