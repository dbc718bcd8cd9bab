package readmecat

import (
	"fmt"
	"log"

	"github.com/readmecat/readmecat/events"
)

// Resolver is responsible for resolving a template's placeholders and
// producing the substituted document.
type Resolver struct {
	services map[string]serviceFunc
	event    events.EventHandler
}

// ResolveEvent captures the outcome of resolving a template.
type ResolveEvent struct {
	// Complete is true if every placeholder has a substitution value and
	// the contents are fully rendered.
	Complete bool

	// Contents is the rendered contents from the template.
	// Only returned when Complete is true.
	Contents []byte

	// Degraded lists the tokens that resolved to a sentinel value instead
	// of real data, in first-appearance order.
	Degraded []string
}

// ResolverInput is used as input to NewResolver.
type ResolverInput struct {
	// Fetcher resolves dependencies for the provider handlers.
	Fetcher Fetcherer

	// Properties selects the github property vocabulary. The zero value is
	// the base vocabulary.
	Properties PropertySet

	// EventHandler is the callback for resolution events. Optional.
	EventHandler events.EventHandler
}

// NewResolver creates a Resolver with the full provider registry.
func NewResolver(i ResolverInput) *Resolver {
	r := &Resolver{
		services: serviceMap(&serviceMapInput{
			fetcher:    i.Fetcher,
			properties: i.Properties,
		}),
		event: i.EventHandler,
	}
	if r.event == nil {
		r.event = func(events.Event) {}
	}
	return r
}

// Templater is the interface the Template provides.
// It is used primarily to enable testing.
type Templater interface {
	Placeholders() []string
	Execute(Recaller) ([]byte, error)
	ID() string
}

// Run resolves every placeholder of the template and executes it once.
// Unresolvable placeholders degrade to sentinel values rather than failing
// the run, so after a successful Run the event is always Complete; the
// error return covers template execution itself.
func (r *Resolver) Run(tmpl Templater) (ResolveEvent, error) {
	tokens := tmpl.Placeholders()
	r.event(events.Trace{ID: tmpl.ID(),
		Message: fmt.Sprintf("resolving %d placeholders", len(tokens))})

	values := make(map[string]string, len(tokens))
	degraded := make([]string, 0, len(tokens))

	for _, token := range tokens {
		res := r.resolve(token)
		if res.Failed() {
			log.Printf("[WARN] (resolver) %q could not be resolved: %s",
				token, res.Reason())
			r.event(events.Unresolved{ID: token, Reason: res.Reason()})
			degraded = append(degraded, token)
		}
		values[token] = res.String()
	}

	contents, err := tmpl.Execute(func(token string) (string, bool) {
		value, ok := values[token]
		return value, ok
	})
	if err != nil {
		return ResolveEvent{}, err
	}

	return ResolveEvent{
		Complete: true,
		Contents: contents,
		Degraded: degraded,
	}, nil
}

// resolve routes one token through the two-level dispatch: service name
// first, then whatever routing the provider does with the parameter text.
func (r *Resolver) resolve(token string) Resolution {
	ph := ParsePlaceholder(token)
	service, ok := r.services[ph.Service]
	if !ok {
		return Degraded(fmt.Sprintf("unknown service %q", ph.Service))
	}
	return service(ph.Param)
}
