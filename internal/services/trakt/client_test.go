package trakt

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/trendarr/internal/config"
	"github.com/amaumene/trendarr/internal/models"
	"github.com/amaumene/trendarr/internal/services"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client, err := NewClient(&config.Config{
		TraktClientID:     "client-id",
		TraktClientSecret: "client-secret",
		TraktBaseURL:      serverURL,
		TokenFile:         filepath.Join(t.TempDir(), "token.json"),
		HTTPTimeout:       2 * time.Second,
	}, logger)
	require.NoError(t, err)
	return client
}

func saveValidToken(t *testing.T, c *Client) {
	t.Helper()
	require.NoError(t, c.tokenStore.SaveToken(&Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(30 * 24 * time.Hour),
	}))
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	store, err := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, err)

	_, err = store.GetToken()
	assert.True(t, errors.Is(err, ErrNoToken))

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, store.SaveToken(&Token{AccessToken: "a", RefreshToken: "r", ExpiresAt: expires}))

	token, err := store.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "a", token.AccessToken)
	assert.True(t, expires.Equal(token.ExpiresAt))
}

func TestListEntriesWithoutTokenIsUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).ListEntries(context.Background(), models.MediaTypeMovie)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrUnauthorized))
}

func TestListEntriesPaginates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sync/watchlist/movies", r.URL.Path)
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		assert.Equal(t, "client-id", r.Header.Get("trakt-api-key"))

		w.Header().Set("X-Pagination-Page-Count", "2")
		switch r.URL.Query().Get("page") {
		case "1":
			w.Write([]byte(`[{"type":"movie","movie":{"title":"Nope","year":2022,"ids":{"trakt":1,"tmdb":762504}}}]`))
		case "2":
			w.Write([]byte(`[{"type":"movie","movie":{"title":"Dune","year":2021,"ids":{"trakt":2}}}]`))
		default:
			t.Errorf("unexpected page %s", r.URL.Query().Get("page"))
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	saveValidToken(t, client)

	entries, err := client.ListEntries(context.Background(), models.MediaTypeMovie)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.WatchlistEntry{
		ExternalID: "1",
		SourceID:   "762504",
		Title:      "Nope",
		Year:       2022,
		MediaType:  models.MediaTypeMovie,
	}, entries[0])
	assert.Equal(t, "", entries[1].SourceID)
}

func TestSearchMapsShows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/show", r.URL.Path)
		assert.Equal(t, "Severance", r.URL.Query().Get("query"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[{"type":"show","show":{"title":"Severance","year":2022,"ids":{"trakt":154997,"tmdb":95396}}},{"type":"show","show":{"title":"Broken"}}]`))
	}))
	defer server.Close()

	candidates, err := newTestClient(t, server.URL).Search(context.Background(), "Severance", models.MediaTypeShow)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "154997", candidates[0].ExternalID)
	assert.Equal(t, "95396", candidates[0].SourceID)
	assert.Equal(t, models.MediaTypeShow, candidates[0].MediaType)
}

func TestAppendPostsShowIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sync/watchlist", r.URL.Path)

		var req syncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, req.Movies)
		require.Len(t, req.Shows, 1)
		assert.Equal(t, 154997, req.Shows[0].IDs.Trakt)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"added":{"shows":1},"existing":{"shows":0},"not_found":{"movies":[],"shows":[]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	saveValidToken(t, client)

	err := client.Append(context.Background(), models.CandidateMatch{
		ExternalID: "154997",
		Title:      "Severance",
		MediaType:  models.MediaTypeShow,
	})
	require.NoError(t, err)
}

func TestAppendReportsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"added":{"movies":0},"not_found":{"movies":[{"ids":{"trakt":9}}]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	saveValidToken(t, client)

	err := client.Append(context.Background(), models.CandidateMatch{ExternalID: "9", Title: "Ghost", MediaType: models.MediaTypeMovie})
	assert.Error(t, err)
}

func TestExpiringTokenIsRefreshed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "old-refresh", req["refresh_token"])
			w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh","expires_in":7776000}`))
		case "/sync/watchlist/shows":
			assert.Equal(t, "Bearer new-access", r.Header.Get("Authorization"))
			w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	require.NoError(t, client.tokenStore.SaveToken(&Token{
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	_, err := client.ListEntries(context.Background(), models.MediaTypeShow)
	require.NoError(t, err)

	token, err := client.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "new-access", token.AccessToken)
}

func TestAuthenticateKeepsPollingWhilePending(t *testing.T) {
	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/device/code":
			w.Write([]byte(`{"device_code":"dev","user_code":"ABCD","verification_url":"https://trakt.tv/activate","expires_in":60,"interval":0}`))
		case "/oauth/device/token":
			polls++
			if polls < 2 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Write([]byte(`{"access_token":"a","refresh_token":"r","expires_in":3600}`))
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.pollInterval = 10 * time.Millisecond

	var shownCode string
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := client.Authenticate(ctx, func(_, userCode string) { shownCode = userCode })
	require.NoError(t, err)
	assert.Equal(t, "ABCD", shownCode)
	assert.Equal(t, 2, polls)

	token, err := client.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "a", token.AccessToken)
}
