package dep

import (
	"fmt"
	"time"

	"github.com/google/go-github/v68/github"
)

// Dependency is an interface for one remote resource a template needs.
// Its ID doubles as the cache key in the per-run store, so any number of
// placeholders naming the same resource path share a single fetch.
type Dependency interface {
	Fetch(Clients) (interface{}, *ResponseMetadata, error)
	ID() string
	Stop()
	fmt.Stringer
}

// Clients interface for the API clients used for external dependency calls.
type Clients interface {
	Github() *github.Client
}

// Metadata returned by external dependency Fetch-ing.
// Carries the API's rate-limit accounting so callers can see how much of
// the hourly quota remains after a call.
type ResponseMetadata struct {
	RateLimit     int
	RateRemaining int
	RateReset     time.Time
}
