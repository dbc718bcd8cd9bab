package dependency

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSet_CreateGithubClient(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			fmt.Fprint(w, `{"name": "demo", "stargazers_count": 1}`)
		}))
	defer ts.Close()

	cs := NewClientSet()
	err := cs.CreateGithubClient(&CreateClientInput{
		Address:    ts.URL,
		Token:      "ghp_testtoken",
		HttpClient: ts.Client(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cs.Stop()

	if cs.Github() == nil {
		t.Fatal("GitHub client failed to load.")
	}

	_, _, err = cs.Github().Repositories.Get(context.Background(), "octo", "demo")
	if err != nil {
		t.Fatal(err)
	}

	// custom addresses get the enterprise API prefix
	if exp := "/api/v3/repos/octo/demo"; gotPath != exp {
		t.Errorf("expected path %q, got %q", exp, gotPath)
	}
	if exp := "Bearer ghp_testtoken"; gotAuth != exp {
		t.Errorf("expected authorization %q, got %q", exp, gotAuth)
	}
}

func TestClientSet_anonymous(t *testing.T) {
	t.Parallel()

	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			fmt.Fprint(w, `{"name": "demo"}`)
		}))
	defer ts.Close()

	cs := NewClientSet()
	err := cs.CreateGithubClient(&CreateClientInput{
		Address:    ts.URL,
		HttpClient: ts.Client(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cs.Stop()

	if _, _, err := cs.Github().Repositories.Get(
		context.Background(), "octo", "demo"); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("expected no authorization header, got %q", gotAuth)
	}
}

func TestClientSet_Stop_empty(t *testing.T) {
	t.Parallel()

	// stopping a set with no clients must not panic
	cs := NewClientSet()
	cs.Stop()
}

func TestClientSet_nil_Github(t *testing.T) {
	t.Parallel()

	cs := NewClientSet()
	if cs.Github() != nil {
		t.Fatal("expected nil client before creation")
	}
}
