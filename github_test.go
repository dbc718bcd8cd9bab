package readmecat

import (
	"fmt"
	"strings"
	"testing"

	"github.com/readmecat/readmecat/dep"
	"github.com/stretchr/testify/assert"
)

// fakeFetcher serves canned data keyed by resource path, recording every
// fetched path.
type fakeFetcher struct {
	data  map[string]interface{}
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(d dep.Dependency) (interface{}, error) {
	id := d.ID()
	f.calls = append(f.calls, id)
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	return f.data[id], nil
}

func demoFetcher() *fakeFetcher {
	return &fakeFetcher{
		data: map[string]interface{}{
			"repos/octo/demo": &dep.Repository{
				Description: "A demo repository",
				Language:    "Go",
				Stars:       42,
				Forks:       5,
				Watchers:    7,
			},
			"repos/octo/demo/releases": &dep.ReleaseStats{
				Downloads: 18,
			},
			"repos/octo/demo/traffic/views": &dep.TrafficViews{
				Count:   14850,
				Uniques: 3782,
			},
		},
	}
}

func TestGithubFunc(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		param   string
		props   PropertySet
		exp     string
		degrade bool
	}{
		{
			"stars",
			"repo,octo,demo,starsCount",
			DefaultProperties(),
			"42",
			false,
		},
		{
			"forks",
			"repo,octo,demo,forksCount",
			DefaultProperties(),
			"5",
			false,
		},
		{
			"watching",
			"repo,octo,demo,watchingCount",
			DefaultProperties(),
			"7",
			false,
		},
		{
			"description",
			"repo,octo,demo,description",
			DefaultProperties(),
			"A demo repository",
			false,
		},
		{
			"language",
			"repo,octo,demo,language",
			DefaultProperties(),
			"Go",
			false,
		},
		{
			"downloads",
			"repo,octo,demo,downloadCount",
			DefaultProperties(),
			"18",
			false,
		},
		{
			"downloads_alias",
			"repo,octo,demo,downloadsCount",
			DefaultProperties(),
			"18",
			false,
		},
		{
			"traffic_views",
			"repo,octo,demo,totalViews",
			DefaultProperties().WithTraffic(),
			"14850",
			false,
		},
		{
			"traffic_uniques",
			"repo,octo,demo,uniqueVisitors",
			DefaultProperties().WithTraffic(),
			"3782",
			false,
		},
		{
			"traffic_disabled",
			"repo,octo,demo,totalViews",
			DefaultProperties(),
			`N/A: github: unknown property "totalViews"`,
			true,
		},
		{
			"unknown_property",
			"repo,octo,demo,stars",
			DefaultProperties(),
			`N/A: github: unknown property "stars"`,
			true,
		},
		{
			"unknown_api",
			"user,octo,demo,starsCount",
			DefaultProperties(),
			`N/A: github: unknown api "user"`,
			true,
		},
		{
			"too_few_fields",
			"repo,octo,demo",
			DefaultProperties(),
			`N/A: github: want 4 comma separated fields, got 3: "repo,octo,demo"`,
			true,
		},
		{
			"too_many_fields",
			"repo,octo,demo,starsCount,extra",
			DefaultProperties(),
			`N/A: github: want 4 comma separated fields, got 5: "repo,octo,demo,starsCount,extra"`,
			true,
		},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("%d_%s", i, tc.name), func(t *testing.T) {
			fn := githubFunc(demoFetcher(), tc.props)
			res := fn(tc.param)
			assert.Equal(t, tc.degrade, res.Failed())
			assert.Equal(t, tc.exp, res.String())
		})
	}
}

func TestGithubFunc_fetchError(t *testing.T) {
	t.Parallel()

	f := demoFetcher()
	f.errs = map[string]error{
		"repos/octo/demo/releases": fmt.Errorf(
			"repos/octo/demo/releases: 403 rate limit exceeded"),
	}
	fn := githubFunc(f, DefaultProperties())

	// a failing endpoint degrades
	res := fn("repo,octo,demo,downloadCount")
	if !res.Failed() {
		t.Fatal("expected a degraded resolution")
	}
	if !strings.HasPrefix(res.String(), "N/A: ") {
		t.Errorf("degraded value %q should carry the sentinel prefix", res)
	}
	assert.Contains(t, res.Reason(), "rate limit exceeded")

	// siblings on a healthy endpoint still resolve
	res = fn("repo,octo,demo,starsCount")
	if res.Failed() {
		t.Fatalf("expected success, got %q", res)
	}
	assert.Equal(t, "42", res.String())
}

func TestGithubFunc_invalidRepo(t *testing.T) {
	t.Parallel()

	fn := githubFunc(demoFetcher(), DefaultProperties())

	res := fn("repo,octo,bad repo,starsCount")
	if !res.Failed() {
		t.Fatal("expected a degraded resolution")
	}
	assert.Contains(t, res.Reason(), "invalid format")
}

func TestServiceMap(t *testing.T) {
	t.Parallel()

	services := serviceMap(&serviceMapInput{
		fetcher:    demoFetcher(),
		properties: DefaultProperties(),
	})
	if _, ok := services["github"]; !ok {
		t.Fatal("expected a github handler")
	}
}
