package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veristat-labs/veristat/pkg/dataset"
)

var landingTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestIngestor(t *testing.T) (*Ingestor, string) {
	t.Helper()
	rawDir := t.TempDir()
	i := New(Config{
		RawDir: rawDir,
		Now:    func() time.Time { return landingTime },
	})
	return i, rawDir
}

func TestFromFile(t *testing.T) {
	i, rawDir := newTestIngestor(t)

	src := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(src, []byte("id,amount\n1,9.99\n"), 0o644))

	dest, err := i.FromFile(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(rawDir, "2026-03-14", "transactions.csv"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "id,amount\n1,9.99\n", string(data))
}

func TestFromFileMissingSource(t *testing.T) {
	i, _ := newTestIngestor(t)

	_, err := i.FromFile("/nowhere/data.csv")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromAPIArrayResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`[{"id": 1, "status": "open"}, {"id": 2, "status": "closed"}]`))
	}))
	defer srv.Close()

	i, rawDir := newTestIngestor(t)
	dest, err := i.FromAPI(context.Background(), APIRequest{Name: "orders", URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(rawDir, "2026-03-14", "orders.json"), dest)

	// The landed file is loadable as a dataset.
	ds, err := dataset.Load(context.Background(), dest)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, []string{"id", "status"}, ds.ColumnNames())
}

func TestFromAPIEnvelopedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 1, "data": [{"id": 1}]}`))
	}))
	defer srv.Close()

	i, _ := newTestIngestor(t)
	dest, err := i.FromAPI(context.Background(), APIRequest{
		Name: "events", URL: srv.URL, RecordsKey: "data",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": 1}]`, string(data))
}

func TestFromAPIEnvelopeWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 0}`))
	}))
	defer srv.Close()

	i, _ := newTestIngestor(t)
	_, err := i.FromAPI(context.Background(), APIRequest{Name: "events", URL: srv.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "records_key")
}

func TestFromAPIBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "svc" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	i, _ := newTestIngestor(t)

	_, err := i.FromAPI(context.Background(), APIRequest{Name: "d", URL: srv.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = i.FromAPI(context.Background(), APIRequest{
		Name: "d", URL: srv.URL,
		Auth: &Auth{Type: "basic", Username: "svc", Password: "secret"},
	})
	require.NoError(t, err)
}

func TestFromAPIBearerAuthAndPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`[{"id": 1}]`))
	}))
	defer srv.Close()

	i, _ := newTestIngestor(t)
	_, err := i.FromAPI(context.Background(), APIRequest{
		Name: "d", URL: srv.URL,
		Body: map[string]any{"since": "2026-03-01"},
		Auth: &Auth{Type: "bearer", Token: "tok-123"},
	})
	require.NoError(t, err)
}

func TestFromQuerySQLite(t *testing.T) {
	i, rawDir := newTestIngestor(t)

	dest, err := i.FromQuery(context.Background(), QueryRequest{
		Name:   "accounts",
		Driver: "sqlite",
		DSN:    ":memory:",
		Query:  "SELECT 1 AS id, 'alice' AS owner UNION ALL SELECT 2, 'bob' ORDER BY id",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(rawDir, "2026-03-14", "accounts.csv"), dest)

	ds, err := dataset.Load(context.Background(), dest)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, []string{"id", "owner"}, ds.ColumnNames())

	col, ok := ds.Column("owner")
	require.True(t, ok)
	assert.Equal(t, []any{"alice", "bob"}, col.Values)
}

func TestFromQueryBadSQL(t *testing.T) {
	i, _ := newTestIngestor(t)

	_, err := i.FromQuery(context.Background(), QueryRequest{
		Name:   "broken",
		Driver: "sqlite",
		DSN:    ":memory:",
		Query:  "SELECT FROM nothing",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingestion query")
}
