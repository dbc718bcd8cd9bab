package readmecat

import (
	"context"
	"log"
	"sync"

	"github.com/readmecat/readmecat/dep"
	"github.com/readmecat/readmecat/events"
	idep "github.com/readmecat/readmecat/internal/dependency"
)

// Fetcher is the run-scoped manager for dependency fetches. Each distinct
// resource path is fetched at most once per run; later fetches for the same
// path are served from the store. A failed fetch is cached the same way a
// successful one is, so a broken resource costs one API call no matter how
// many placeholders reference it.
type Fetcher struct {
	sync.Mutex

	// clients is the collection of API clients to talk to upstreams.
	clients Looker

	// store caches fetch outcomes by resource path.
	store *Store

	// depMap tracks the dependencies fetched this run, keyed by resource
	// path, so Stop can halt them all.
	depMap map[string]dep.Dependency

	// ctx is injected into each dependency before fetching. The Fetcher is
	// a single-run object, so carrying the run's context here mirrors its
	// lifetime.
	ctx context.Context

	// event is called for each notable fetch lifecycle point.
	event events.EventHandler
}

// FetcherInput is used as input to NewFetcher.
type FetcherInput struct {
	// Clients is the client set to communicate with upstreams.
	Clients Looker

	// Context cancels in-flight API calls. Defaults to the background
	// context.
	Context context.Context

	// EventHandler is the callback for fetch lifecycle events. Optional.
	EventHandler events.EventHandler
}

// lowRateRemaining is the remaining-call count below which each fetch
// logs a warning. Anonymous access only gets 60 calls an hour, so this
// trips early enough to explain a burst of degraded values.
const lowRateRemaining = 10

// fetchResult is the cached outcome of one dependency fetch.
type fetchResult struct {
	data interface{}
	err  error
}

// NewFetcher creates a new Fetcher with an empty store.
func NewFetcher(i FetcherInput) *Fetcher {
	f := &Fetcher{
		clients: i.Clients,
		store:   NewStore(),
		depMap:  make(map[string]dep.Dependency),
		ctx:     i.Context,
		event:   i.EventHandler,
	}
	if f.ctx == nil {
		f.ctx = context.Background()
	}
	if f.event == nil {
		f.event = func(events.Event) {}
	}
	return f
}

// Fetch returns the data for the given dependency, contacting the upstream
// only the first time its resource path is seen this run. The error return
// reproduces the original fetch error on every recall.
func (f *Fetcher) Fetch(d dep.Dependency) (interface{}, error) {
	f.Lock()
	defer f.Unlock()

	id := d.ID()
	if value, ok := f.store.Recall(id); ok {
		log.Printf("[TRACE] (fetcher) %s already fetched, using cache", d)
		f.event(events.CacheHit{ID: id})
		result := value.(fetchResult)
		return result.data, result.err
	}

	log.Printf("[DEBUG] (fetcher) fetching %s", d)
	f.event(events.TrackStart{ID: id})
	f.depMap[id] = d

	if s, ok := d.(idep.QueryOptionsSetter); ok {
		var opts idep.QueryOptions
		s.SetOptions(opts.SetContext(f.ctx))
	}

	data, meta, err := d.Fetch(f.clients)
	if err != nil {
		log.Printf("[WARN] (fetcher) %s failed: %s", d, err)
		f.event(events.ServerError{ID: id, Error: err})
	} else {
		f.event(events.ServerContacted{ID: id})
		f.event(events.NewData{ID: id, Data: data})
	}
	if meta != nil && meta.RateLimit > 0 {
		log.Printf("[TRACE] (fetcher) rate limit %d/%d, resets %s",
			meta.RateRemaining, meta.RateLimit, meta.RateReset)
		if meta.RateRemaining <= lowRateRemaining {
			log.Printf("[WARN] (fetcher) rate limit nearly exhausted, "+
				"%d of %d remaining", meta.RateRemaining, meta.RateLimit)
		}
		f.event(events.RateLimit{
			ID:        id,
			Limit:     meta.RateLimit,
			Remaining: meta.RateRemaining,
			Reset:     meta.RateReset,
		})
	}

	f.store.Save(id, fetchResult{data: data, err: err})
	return data, err
}

// Recall returns the cached data for a resource path without fetching.
func (f *Fetcher) Recall(id string) (interface{}, bool) {
	value, ok := f.store.Recall(id)
	if !ok {
		return nil, false
	}
	result := value.(fetchResult)
	if result.err != nil {
		return nil, false
	}
	return result.data, true
}

// Stop halts all tracked dependencies and clears the store. The Fetcher is
// not usable afterwards.
func (f *Fetcher) Stop() {
	f.Lock()
	defer f.Unlock()

	log.Printf("[DEBUG] (fetcher) stopping all dependencies")
	for id, d := range f.depMap {
		log.Printf("[TRACE] (fetcher) stopping %s", d)
		d.Stop()
		f.event(events.TrackStop{ID: id})
		delete(f.depMap, id)
	}
	f.store.Reset()
}
