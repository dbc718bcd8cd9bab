package dependency

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"
	"github.com/readmecat/readmecat/dep"
)

var (
	// Ensure implements
	_ isDependency = (*TrafficQuery)(nil)

	// TrafficQueryRe is the regular expression to use.
	TrafficQueryRe = regexp.MustCompile(`\A` + ownerRe + `/` + repoRe + `\z`)
)

// TrafficQuery represents a repository's view counters over the trailing
// fourteen days. The API only serves this to callers with push access, so
// anonymous runs will see this query fail while the others succeed.
type TrafficQuery struct {
	isGithub
	stopCh chan struct{}

	owner string
	repo  string
	opts  QueryOptions
}

// NewTrafficQuery parses the given "owner/name" string into a dependency.
func NewTrafficQuery(s string) (*TrafficQuery, error) {
	if !TrafficQueryRe.MatchString(s) {
		return nil, fmt.Errorf("traffic: invalid format: %q", s)
	}

	m := regexpMatch(TrafficQueryRe, s)
	return &TrafficQuery{
		owner:  m["owner"],
		repo:   m["repo"],
		stopCh: make(chan struct{}, 1),
	}, nil
}

// Fetch queries the GitHub API defined by the given clients and returns a
// TrafficViews object.
func (d *TrafficQuery) Fetch(clients dep.Clients) (interface{}, *dep.ResponseMetadata, error) {
	select {
	case <-d.stopCh:
		return nil, nil, ErrStopped
	default:
	}

	views, resp, err := clients.Github().Repositories.ListTrafficViews(
		d.opts.GetContext(), d.owner, d.repo, nil)
	if err != nil {
		return nil, rateLimitMeta(resp), errors.Wrap(err, d.ID())
	}

	tv := &dep.TrafficViews{
		Count:   views.GetCount(),
		Uniques: views.GetUniques(),
	}

	return tv, rateLimitMeta(resp), nil
}

func (d *TrafficQuery) SetOptions(opts QueryOptions) { d.opts = opts }

// String returns the human-friendly version of this dependency.
func (d *TrafficQuery) String() string {
	return fmt.Sprintf("github.traffic(%s/%s)", d.owner, d.repo)
}

// ID returns the resource path this dependency is cached under.
func (d *TrafficQuery) ID() string {
	return fmt.Sprintf("repos/%s/%s/traffic/views", d.owner, d.repo)
}

// Stop halts the dependency's fetch function.
func (d *TrafficQuery) Stop() { close(d.stopCh) }
