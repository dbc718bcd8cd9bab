package readmecat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/readmecat/readmecat/dep"
	idep "github.com/readmecat/readmecat/internal/dependency"
)

// Fetcherer is the subset of the Fetcher's API that providers need.
// It is used primarily to enable testing.
type Fetcherer interface {
	Fetch(d dep.Dependency) (interface{}, error)
}

// serviceFunc resolves one placeholder's parameter text to a value.
type serviceFunc func(param string) Resolution

// serviceMapInput is input to the serviceMap, which builds the provider
// handlers.
type serviceMapInput struct {
	fetcher    Fetcherer
	properties PropertySet
}

// serviceMap is the map of service names to their respective handlers.
func serviceMap(i *serviceMapInput) map[string]serviceFunc {
	return map[string]serviceFunc{
		"github": githubFunc(i.fetcher, i.properties),
	}
}

// PropertySet selects the property vocabulary available to the github
// provider. The zero value carries the base vocabulary; profile documents
// additionally enable the traffic-view properties.
type PropertySet struct {
	traffic bool
}

// DefaultProperties returns the base vocabulary: repository metadata and
// release download counts.
func DefaultProperties() PropertySet {
	return PropertySet{}
}

// WithTraffic returns a copy of the set extended with the traffic-view
// properties. Those need push access to the repository to resolve, so they
// are opt-in.
func (p PropertySet) WithTraffic() PropertySet {
	p.traffic = true
	return p
}

// githubFunc builds the github provider handler. The parameter text holds
// four comma-separated fields: api, owner, repo, property. The api field
// selects an endpoint group, of which only "repo" exists today.
func githubFunc(f Fetcherer, props PropertySet) serviceFunc {
	properties := repoProperties(props)

	return func(param string) Resolution {
		fields := strings.Split(param, ",")
		if len(fields) != 4 {
			return Degraded(fmt.Sprintf(
				"github: want 4 comma separated fields, got %d: %q",
				len(fields), param))
		}
		api, owner, repo, property := fields[0], fields[1], fields[2], fields[3]

		if api != "repo" {
			return Degraded(fmt.Sprintf("github: unknown api %q", api))
		}

		prop, ok := properties[property]
		if !ok {
			return Degraded(fmt.Sprintf("github: unknown property %q", property))
		}

		return prop(f, owner, repo)
	}
}

// propertyFunc resolves one property of an owner/repo pair.
type propertyFunc func(f Fetcherer, owner, repo string) Resolution

// repoProperties builds the property table for the repo endpoint group.
// downloadCount and downloadsCount are permanent aliases of the same value.
// The traffic properties are absent when disabled, so asking for them
// degrades with the same unknown-property reason as a misspelling.
func repoProperties(props PropertySet) map[string]propertyFunc {
	table := map[string]propertyFunc{
		"description": metadataProp(func(r *dep.Repository) string {
			return r.Description
		}),
		"language": metadataProp(func(r *dep.Repository) string {
			return r.Language
		}),
		"starsCount": metadataProp(func(r *dep.Repository) string {
			return strconv.Itoa(r.Stars)
		}),
		"forksCount": metadataProp(func(r *dep.Repository) string {
			return strconv.Itoa(r.Forks)
		}),
		"watchingCount": metadataProp(func(r *dep.Repository) string {
			return strconv.Itoa(r.Watchers)
		}),
		"downloadCount":  downloadsProp,
		"downloadsCount": downloadsProp,
	}

	if props.traffic {
		table["totalViews"] = trafficProp(func(v *dep.TrafficViews) string {
			return strconv.Itoa(v.Count)
		})
		table["uniqueVisitors"] = trafficProp(func(v *dep.TrafficViews) string {
			return strconv.Itoa(v.Uniques)
		})
	}

	return table
}

// metadataProp resolves a property backed by the repository metadata
// endpoint.
func metadataProp(pick func(*dep.Repository) string) propertyFunc {
	return func(f Fetcherer, owner, repo string) Resolution {
		d, err := idep.NewRepoQuery(owner + "/" + repo)
		if err != nil {
			return Degraded(err.Error())
		}
		data, err := f.Fetch(d)
		if err != nil {
			return Degraded(err.Error())
		}
		r, ok := data.(*dep.Repository)
		if !ok {
			return Degraded(fmt.Sprintf("unexpected repository data (%T)", data))
		}
		return Resolved(pick(r))
	}
}

// downloadsProp resolves the summed release download count.
func downloadsProp(f Fetcherer, owner, repo string) Resolution {
	d, err := idep.NewReleasesQuery(owner + "/" + repo)
	if err != nil {
		return Degraded(err.Error())
	}
	data, err := f.Fetch(d)
	if err != nil {
		return Degraded(err.Error())
	}
	s, ok := data.(*dep.ReleaseStats)
	if !ok {
		return Degraded(fmt.Sprintf("unexpected release data (%T)", data))
	}
	return Resolved(strconv.Itoa(s.Downloads))
}

// trafficProp resolves a property backed by the traffic-views endpoint.
func trafficProp(pick func(*dep.TrafficViews) string) propertyFunc {
	return func(f Fetcherer, owner, repo string) Resolution {
		d, err := idep.NewTrafficQuery(owner + "/" + repo)
		if err != nil {
			return Degraded(err.Error())
		}
		data, err := f.Fetch(d)
		if err != nil {
			return Degraded(err.Error())
		}
		v, ok := data.(*dep.TrafficViews)
		if !ok {
			return Degraded(fmt.Sprintf("unexpected traffic data (%T)", data))
		}
		return Resolved(pick(v))
	}
}
