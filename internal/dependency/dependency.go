package dependency

import (
	"context"
	"regexp"

	"github.com/google/go-github/v68/github"
	"github.com/readmecat/readmecat/dep"
)

// Regexp fragments shared by the query constructors. GitHub logins allow
// word characters and hyphens; repository names additionally allow dots.
const (
	ownerRe = `(?P<owner>[[:word:]\-]+)`
	repoRe  = `(?P<repo>[[:word:]\.\-\_]+)`
)

type isGithub struct{}

func (isGithub) Github() {}

// This specifies all the fields internally required by dependencies.
// The public ones + private ones used internally by the fetcher.
// Used to validate interface implementations in each dependency file.
type isDependency interface {
	dep.Dependency
	QueryOptionsSetter
}

// QueryOptionsSetter is implemented by queries that accept caller supplied
// options (page size, context) before Fetch is called.
type QueryOptionsSetter interface {
	SetOptions(QueryOptions)
}

// QueryOptions is a list of options to send with the query. These options
// are query-agnostic, and each query determines which, if any, of the
// options to use.
type QueryOptions struct {
	PerPage int

	ctx context.Context
}

// Merge returns a new QueryOptions with the values of the argument taking
// precedence over the receiver's.
func (q *QueryOptions) Merge(o *QueryOptions) *QueryOptions {
	var r QueryOptions

	if q == nil {
		if o == nil {
			return &QueryOptions{}
		}
		r = *o
		return &r
	}

	r = *q

	if o == nil {
		return &r
	}

	if o.PerPage != 0 {
		r.PerPage = o.PerPage
	}

	if o.ctx != nil {
		r.ctx = o.ctx
	}

	return &r
}

// SetContext returns a copy with the context set, used for cancellation of
// in-flight API calls.
func (q QueryOptions) SetContext(ctx context.Context) QueryOptions {
	q2 := q
	q2.ctx = ctx
	return q2
}

// GetContext returns the context for API calls, defaulting to the
// background context when none was injected.
func (q *QueryOptions) GetContext() context.Context {
	if q.ctx != nil {
		return q.ctx
	}
	return context.Background()
}

// listOptions converts the query options to the paging options the GitHub
// client understands.
func (q *QueryOptions) listOptions() *github.ListOptions {
	return &github.ListOptions{PerPage: q.PerPage}
}

// rateLimitMeta extracts the rate limit headers from a GitHub API response.
// The response may be nil when the transport itself failed.
func rateLimitMeta(resp *github.Response) *dep.ResponseMetadata {
	if resp == nil {
		return &dep.ResponseMetadata{}
	}
	return &dep.ResponseMetadata{
		RateLimit:     resp.Rate.Limit,
		RateRemaining: resp.Rate.Remaining,
		RateReset:     resp.Rate.Reset.Time,
	}
}

// regexpMatch matches the given regexp and extracts the match groups into a
// named map.
func regexpMatch(re *regexp.Regexp, q string) map[string]string {
	names := re.SubexpNames()
	match := re.FindAllStringSubmatch(q, -1)

	if len(match) == 0 {
		return map[string]string{}
	}

	m := map[string]string{}
	for i, n := range match[0] {
		if names[i] != "" {
			m[names[i]] = n
		}
	}

	return m
}
