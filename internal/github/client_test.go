// internal/github/client_test.go
package github

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scm-collector/internal/model"
)

const apiPrefix = "/api/v3"

var testRepo = model.Repository{ID: 7, URL: "https://ghe.example.com/test/repo", Branch: "main"}

// setupTestClient creates a httptest server and a client whose every host resolves to it.
func setupTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := NewClient(logger, 14*24*time.Hour)
	client.baseURL = server.URL
	client.retryInterval = time.Millisecond

	return client, server
}

func TestClient_FetchCommits(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first run pages back the configured history on the tracked branch", func(t *testing.T) {
		var sinceParam, shaParam string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, apiPrefix+"/repos/test/repo/commits", r.URL.Path)
			sinceParam = r.URL.Query().Get("since")
			shaParam = r.URL.Query().Get("sha")
			fmt.Fprintln(w, `[
				{"sha": "c1", "html_url": "u1", "commit": {"message": "newest", "author": {"name": "a", "email": "a@x", "date": "2024-02-29T10:00:00Z"}}},
				{"sha": "c2", "html_url": "u2", "commit": {"message": "older", "author": {"name": "b", "email": "b@x", "date": "2024-02-28T10:00:00Z"}}}
			]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()
		client.now = func() time.Time { return now }

		commits, err := client.FetchCommits(context.Background(), testRepo, true, model.Credentials{})

		require.NoError(t, err)
		require.Len(t, commits, 2)
		assert.Equal(t, "c1", commits[0].SHA)
		assert.Equal(t, "newest", commits[0].Message)
		assert.Equal(t, "a@x", commits[0].AuthorEmail)
		assert.Equal(t, "main", shaParam)
		assert.Equal(t, now.Add(-14*24*time.Hour).Format(time.RFC3339), sinceParam)
	})

	t.Run("later runs look back the history window before the last update time", func(t *testing.T) {
		last := time.Date(2024, 2, 27, 8, 30, 0, 0, time.UTC)
		var sinceParam string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sinceParam = r.URL.Query().Get("since")
			fmt.Fprintln(w, `[]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		repo := testRepo
		repo.LastUpdateTime = sql.NullTime{Time: last, Valid: true}
		commits, err := client.FetchCommits(context.Background(), repo, false, model.Credentials{})

		require.NoError(t, err)
		assert.Empty(t, commits)
		assert.Equal(t, last.Add(-14*24*time.Hour).Format(time.RFC3339), sinceParam)
	})

	t.Run("later runs stop at the recorded head", func(t *testing.T) {
		var serverURL string
		var pages int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&pages, 1)
			switch r.URL.Query().Get("page") {
			case "3":
				fmt.Fprintln(w, `[{"sha": "ancient"}]`)
			case "2":
				w.Header().Set("Link", fmt.Sprintf(`<%s%s/repos/test/repo/commits?page=3>; rel="next"`, serverURL, apiPrefix))
				fmt.Fprintln(w, `[{"sha": "c0"}, {"sha": "older"}]`)
			default:
				w.Header().Set("Link", fmt.Sprintf(`<%s%s/repos/test/repo/commits?page=2>; rel="next"`, serverURL, apiPrefix))
				fmt.Fprintln(w, `[{"sha": "c2"}, {"sha": "c1"}]`)
			}
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()
		serverURL = server.URL

		repo := testRepo
		repo.LastUpdateTime = sql.NullTime{Time: time.Date(2024, 2, 27, 8, 30, 0, 0, time.UTC), Valid: true}
		repo.LastUpdateCommit = "c0"
		commits, err := client.FetchCommits(context.Background(), repo, false, model.Credentials{})

		require.NoError(t, err)
		require.Len(t, commits, 2)
		assert.Equal(t, "c2", commits[0].SHA)
		assert.Equal(t, "c1", commits[1].SHA)
		assert.Equal(t, int32(2), atomic.LoadInt32(&pages), "paging stops at the page holding the head")
	})

	t.Run("returns nothing when the head is unchanged", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `[{"sha": "c0"}, {"sha": "older"}]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		repo := testRepo
		repo.LastUpdateTime = sql.NullTime{Time: time.Date(2024, 2, 27, 8, 30, 0, 0, time.UTC), Valid: true}
		repo.LastUpdateCommit = "c0"
		commits, err := client.FetchCommits(context.Background(), repo, false, model.Credentials{})

		require.NoError(t, err)
		assert.Empty(t, commits)
	})

	t.Run("follows pagination", func(t *testing.T) {
		var serverURL string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprintln(w, `[{"sha": "c2"}]`)
				return
			}
			w.Header().Set("Link", fmt.Sprintf(`<%s%s/repos/test/repo/commits?page=2>; rel="next"`, serverURL, apiPrefix))
			fmt.Fprintln(w, `[{"sha": "c1"}]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()
		serverURL = server.URL

		commits, err := client.FetchCommits(context.Background(), testRepo, true, model.Credentials{})

		require.NoError(t, err)
		require.Len(t, commits, 2)
		assert.Equal(t, "c1", commits[0].SHA)
		assert.Equal(t, "c2", commits[1].SHA)
	})

	t.Run("sends basic auth credentials", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "bot", user)
			assert.Equal(t, "s3cret", pass)
			fmt.Fprintln(w, `[]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.FetchCommits(context.Background(), testRepo, true, model.Credentials{Username: "bot", Password: "s3cret"})
		require.NoError(t, err)
	})

	t.Run("sends a bearer token when no username is configured", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			fmt.Fprintln(w, `[]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.FetchCommits(context.Background(), testRepo, true, model.Credentials{Password: "tok"})
		require.NoError(t, err)
	})

	t.Run("rejects a url without owner and name", func(t *testing.T) {
		client := NewClient(slog.Default(), time.Hour)
		_, err := client.FetchCommits(context.Background(), model.Repository{URL: "https://github.com/only-owner"}, true, model.Credentials{})
		assert.Error(t, err)
	})
}

func TestClient_FetchPullRequests(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	last := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)

	var query map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiPrefix+"/repos/test/repo/pulls", r.URL.Path)
		query = map[string]string{
			"state":     r.URL.Query().Get("state"),
			"base":      r.URL.Query().Get("base"),
			"sort":      r.URL.Query().Get("sort"),
			"direction": r.URL.Query().Get("direction"),
		}
		fmt.Fprintln(w, `[
			{"number": 3, "title": "open one", "state": "open", "user": {"login": "dev"}, "created_at": "2024-02-25T00:00:00Z", "updated_at": "2024-02-29T00:00:00Z"},
			{"number": 2, "title": "merged", "state": "closed", "merged_at": "2024-02-22T00:00:00Z", "closed_at": "2024-02-22T00:00:00Z", "created_at": "2024-02-21T00:00:00Z", "updated_at": "2024-02-22T00:00:00Z"},
			{"number": 1, "title": "stale", "state": "closed", "created_at": "2024-01-01T00:00:00Z", "updated_at": "2024-01-02T00:00:00Z"}
		]`)
	})
	client, server := setupTestClient(t, handler)
	defer server.Close()
	client.now = func() time.Time { return now }

	repo := testRepo
	repo.LastUpdateTime = sql.NullTime{Time: last, Valid: true}
	pulls, err := client.FetchPullRequests(context.Background(), repo, model.PullRequestStateAll, model.Credentials{})

	require.NoError(t, err)
	require.Len(t, pulls, 2, "pull requests updated before the last sync are not returned")
	assert.Equal(t, 3, pulls[0].Number)
	assert.Equal(t, "dev", pulls[0].Author)
	assert.Equal(t, "open", pulls[0].State)
	assert.Equal(t, "merged", pulls[1].State)
	assert.True(t, pulls[1].MergedAt.Valid)
	assert.Equal(t, map[string]string{"state": "all", "base": "main", "sort": "updated", "direction": "desc"}, query)
}

func TestClient_Retry(t *testing.T) {
	t.Run("succeeds on first try", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			fmt.Fprintln(w, `[]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.FetchCommits(context.Background(), testRepo, true, model.Credentials{})

		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
	})

	t.Run("retries on 503 server error and succeeds", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			if count == 1 {
				w.WriteHeader(http.StatusServiceUnavailable) // Fail first time
				return
			}
			fmt.Fprintln(w, `[{"sha": "c1"}]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		commits, err := client.FetchCommits(context.Background(), testRepo, true, model.Credentials{})

		require.NoError(t, err)
		assert.Len(t, commits, 1)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount), "should have made two requests")
	})

	t.Run("handles rate limit error", func(t *testing.T) {
		var requestCount int32
		resetTime := time.Now().Add(time.Second)
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			if count == 1 {
				w.Header().Set("X-RateLimit-Limit", "60")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))
				w.WriteHeader(http.StatusForbidden) // RateLimitError is a 403
				fmt.Fprintln(w, `{"message": "API rate limit exceeded"}`)
				return
			}
			fmt.Fprintln(w, `[]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.FetchCommits(context.Background(), testRepo, true, model.Credentials{})

		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.FetchCommits(context.Background(), testRepo, true, model.Credentials{})

		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
	})

	t.Run("fails after max retries on persistent server error", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusInternalServerError)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.FetchCommits(context.Background(), testRepo, true, model.Credentials{})

		require.Error(t, err)
		var ghErr *github.ErrorResponse
		assert.ErrorAs(t, err, &ghErr)
		assert.Equal(t, http.StatusInternalServerError, ghErr.Response.StatusCode)
		assert.Equal(t, int32(maxRetries), atomic.LoadInt32(&requestCount))
	})
}

func TestClient_clientFor(t *testing.T) {
	client := NewClient(slog.Default(), time.Hour)

	gh, err := client.clientFor("https://github.com/org/repo", model.Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/", gh.BaseURL.String())

	gh, err = client.clientFor("https://ghe.example.com/org/repo", model.Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", gh.BaseURL.String())
}
