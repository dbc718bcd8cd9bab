package dependency

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"
	"github.com/readmecat/readmecat/dep"
)

var (
	// Ensure implements
	_ isDependency = (*RepoQuery)(nil)

	// RepoQueryRe is the regular expression to use.
	RepoQueryRe = regexp.MustCompile(`\A` + ownerRe + `/` + repoRe + `\z`)
)

// RepoQuery represents a single repository's metadata: description, primary
// language and the headline counters.
type RepoQuery struct {
	isGithub
	stopCh chan struct{}

	owner string
	repo  string
	opts  QueryOptions
}

// NewRepoQuery parses the given "owner/name" string into a dependency.
func NewRepoQuery(s string) (*RepoQuery, error) {
	if !RepoQueryRe.MatchString(s) {
		return nil, fmt.Errorf("repo: invalid format: %q", s)
	}

	m := regexpMatch(RepoQueryRe, s)
	return &RepoQuery{
		owner:  m["owner"],
		repo:   m["repo"],
		stopCh: make(chan struct{}, 1),
	}, nil
}

// Fetch queries the GitHub API defined by the given clients and returns a
// Repository object.
func (d *RepoQuery) Fetch(clients dep.Clients) (interface{}, *dep.ResponseMetadata, error) {
	select {
	case <-d.stopCh:
		return nil, nil, ErrStopped
	default:
	}

	repo, resp, err := clients.Github().Repositories.Get(
		d.opts.GetContext(), d.owner, d.repo)
	if err != nil {
		return nil, rateLimitMeta(resp), errors.Wrap(err, d.ID())
	}

	// The subscribers count is what the web UI presents as watchers; the
	// watchers_count field is a legacy alias for stargazers.
	r := &dep.Repository{
		Description: repo.GetDescription(),
		Language:    repo.GetLanguage(),
		Stars:       repo.GetStargazersCount(),
		Forks:       repo.GetForksCount(),
		Watchers:    repo.GetSubscribersCount(),
	}

	return r, rateLimitMeta(resp), nil
}

func (d *RepoQuery) SetOptions(opts QueryOptions) { d.opts = opts }

// String returns the human-friendly version of this dependency.
func (d *RepoQuery) String() string {
	return fmt.Sprintf("github.repo(%s/%s)", d.owner, d.repo)
}

// ID returns the resource path this dependency is cached under.
func (d *RepoQuery) ID() string {
	return fmt.Sprintf("repos/%s/%s", d.owner, d.repo)
}

// Stop halts the dependency's fetch function.
func (d *RepoQuery) Stop() { close(d.stopCh) }
