package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/httpclient"
)

func newTestClient(maxEntries int) *Client {
	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {})
	return NewClient(httpclient.NewClient(httpclient.DefaultConfig(), logger), logger, maxEntries)
}

func TestExportURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		gid      string
		expected string
		wantErr  bool
	}{
		{
			name:     "google sheets document url",
			url:      "https://docs.google.com/spreadsheets/d/1AbC_dEf123/edit#gid=0",
			gid:      "42",
			expected: "https://docs.google.com/spreadsheets/d/1AbC_dEf123/export?format=csv&gid=42",
		},
		{
			name:     "google sheets url without gid",
			url:      "https://docs.google.com/spreadsheets/d/1AbC_dEf123/edit",
			expected: "https://docs.google.com/spreadsheets/d/1AbC_dEf123/export?format=csv",
		},
		{
			name:     "plain csv url passes through",
			url:      "https://example.com/lists/missing.csv",
			gid:      "42",
			expected: "https://example.com/lists/missing.csv",
		},
		{
			name:    "non-http scheme rejected",
			url:     "ftp://example.com/missing.csv",
			wantErr: true,
		},
		{
			name:    "google sheets url without document id",
			url:     "https://docs.google.com/spreadsheets/d/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExportURL(tt.url, tt.gid)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFetchNames(t *testing.T) {
	t.Run("reads the configured column", func(t *testing.T) {
		csv := "Set,Missing,Owned\nBase,Pikachu,Raichu\nBase,Charizard VSTAR,\nJungle, Mewtwo ,Snorlax\n"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			w.Write([]byte(csv))
		}))
		defer srv.Close()

		names, err := newTestClient(0).FetchNames(context.Background(), Source{URL: srv.URL, Column: "Missing"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pikachu", "Charizard VSTAR", "Mewtwo"}, names)
	})

	t.Run("header lookup is case-insensitive", func(t *testing.T) {
		csv := "missing\nPikachu\n"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(csv))
		}))
		defer srv.Close()

		names, err := newTestClient(0).FetchNames(context.Background(), Source{URL: srv.URL, Column: "Missing"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pikachu"}, names)
	})

	t.Run("headerless sheet falls back to the first column", func(t *testing.T) {
		csv := "Pikachu\nMewtwo\n\nEevee\n"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(csv))
		}))
		defer srv.Close()

		names, err := newTestClient(0).FetchNames(context.Background(), Source{URL: srv.URL, Column: "Missing"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pikachu", "Mewtwo", "Eevee"}, names)
	})

	t.Run("blank cells and short rows are skipped", func(t *testing.T) {
		csv := "Set,Missing\nBase,Pikachu\nBase\nBase,\nBase,Eevee\n"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(csv))
		}))
		defer srv.Close()

		names, err := newTestClient(0).FetchNames(context.Background(), Source{URL: srv.URL, Column: "Missing"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pikachu", "Eevee"}, names)
	})

	t.Run("entry cap is enforced", func(t *testing.T) {
		csv := "Missing\nPikachu\nMewtwo\nEevee\n"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(csv))
		}))
		defer srv.Close()

		names, err := newTestClient(2).FetchNames(context.Background(), Source{URL: srv.URL, Column: "Missing"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pikachu", "Mewtwo"}, names)
	})

	t.Run("empty sheet yields an empty list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(""))
		}))
		defer srv.Close()

		names, err := newTestClient(0).FetchNames(context.Background(), Source{URL: srv.URL, Column: "Missing"})
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("non-200 responses fail the fetch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := newTestClient(0).FetchNames(context.Background(), Source{URL: srv.URL, Column: "Missing"})
		require.Error(t, err)
	})
}
