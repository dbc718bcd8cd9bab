package dependency

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"
	"github.com/readmecat/readmecat/dep"
)

var (
	// Ensure implements
	_ isDependency = (*ReleasesQuery)(nil)

	// ReleasesQueryRe is the regular expression to use.
	ReleasesQueryRe = regexp.MustCompile(`\A` + ownerRe + `/` + repoRe + `\z`)
)

// defaultReleasePageSize is the page size used when listing releases. The
// API caps per_page at 100; repositories beyond that keep their most recent
// hundred releases in the sum.
const defaultReleasePageSize = 100

// ReleasesQuery aggregates download statistics over every published release
// of a repository.
type ReleasesQuery struct {
	isGithub
	stopCh chan struct{}

	owner string
	repo  string
	opts  QueryOptions
}

// NewReleasesQuery parses the given "owner/name" string into a dependency.
func NewReleasesQuery(s string) (*ReleasesQuery, error) {
	if !ReleasesQueryRe.MatchString(s) {
		return nil, fmt.Errorf("releases: invalid format: %q", s)
	}

	m := regexpMatch(ReleasesQueryRe, s)
	return &ReleasesQuery{
		owner:  m["owner"],
		repo:   m["repo"],
		stopCh: make(chan struct{}, 1),
	}, nil
}

// Fetch lists the repository's releases and returns a ReleaseStats object
// with the summed asset download counts. Draft releases are skipped; their
// assets are only visible to uploaders and would skew the total.
func (d *ReleasesQuery) Fetch(clients dep.Clients) (interface{}, *dep.ResponseMetadata, error) {
	select {
	case <-d.stopCh:
		return nil, nil, ErrStopped
	default:
	}

	defaults := QueryOptions{PerPage: defaultReleasePageSize}
	opts := defaults.Merge(&d.opts)

	releases, resp, err := clients.Github().Repositories.ListReleases(
		opts.GetContext(), d.owner, d.repo, opts.listOptions())
	if err != nil {
		return nil, rateLimitMeta(resp), errors.Wrap(err, d.ID())
	}

	var stats dep.ReleaseStats
	for _, release := range releases {
		if release.GetDraft() {
			continue
		}
		for _, asset := range release.Assets {
			stats.Downloads += asset.GetDownloadCount()
		}
	}

	return &stats, rateLimitMeta(resp), nil
}

func (d *ReleasesQuery) SetOptions(opts QueryOptions) { d.opts = opts }

// String returns the human-friendly version of this dependency.
func (d *ReleasesQuery) String() string {
	return fmt.Sprintf("github.releases(%s/%s)", d.owner, d.repo)
}

// ID returns the resource path this dependency is cached under.
func (d *ReleasesQuery) ID() string {
	return fmt.Sprintf("repos/%s/%s/releases", d.owner, d.repo)
}

// Stop halts the dependency's fetch function.
func (d *ReleasesQuery) Stop() { close(d.stopCh) }
