package test

// helper functions for writing tests

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// APIResponse is a canned GitHub API reply.
type APIResponse struct {
	Code int    // defaults to 200
	Body string // raw JSON
}

// GithubServer is a stub GitHub API backed by canned responses. Responses
// are keyed by resource path without a leading slash ("repos/octo/demo");
// the /api/v3 prefix the enterprise client prepends is stripped before
// lookup.
type GithubServer struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]APIResponse
	hits      map[string]int
}

// NewGithubServer starts a stub API server that is closed when the test
// finishes. Unregistered paths get a GitHub-shaped 404.
func NewGithubServer(t *testing.T, responses map[string]APIResponse) *GithubServer {
	gs := &GithubServer{
		responses: responses,
		hits:      make(map[string]int),
	}
	gs.Server = httptest.NewServer(http.HandlerFunc(gs.serveHTTP))
	t.Cleanup(gs.Close)
	return gs
}

func (gs *GithubServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v3/")
	path = strings.TrimPrefix(path, "/")

	gs.mu.Lock()
	gs.hits[path]++
	resp, ok := gs.responses[path]
	gs.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Ratelimit-Limit", "5000")
	w.Header().Set("X-Ratelimit-Remaining", "4999")

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
		return
	}

	code := resp.Code
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	fmt.Fprint(w, resp.Body)
}

// Hits reports how many times the given resource path was requested.
func (gs *GithubServer) Hits(path string) int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.hits[path]
}
