package events

import "time"

// EventHandler is the interface of the call back function for receiveing events.
type EventHandler func(Event)

// Event is used to type restrict the Events
type Event interface {
	isEvent()
}

// Trace is useful to see some details of what's going on
type Trace struct {
	ID      string
	Message string
	event
}

// TrackStart indicates that a new resource is being tracked.
type TrackStart struct {
	ID string
	event
}

// TrackStop indicates that a resource is no longer being tracked.
type TrackStop struct {
	ID string
	event
}

// CacheHit indicates that a resource was served from the run's cache and no
// API call was made.
type CacheHit struct {
	ID string
	event
}

// ServerContacted indicates that the remote API has been successfully
// contacted (received a non-error response).
type ServerContacted struct {
	ID string
	event
}

// ServerError indicates that the remote API has been contacted but with an
// error returned.
type ServerError struct {
	ID    string
	Error error
	event
}

// NewData indicates that fresh/new data has been retrieved from the API.
type NewData struct {
	ID   string
	Data interface{}
	event
}

// RateLimit carries the rate limit headers returned with an API response.
type RateLimit struct {
	ID        string
	Limit     int
	Remaining int
	Reset     time.Time
	event
}

// Unresolved indicates that a placeholder could not be resolved and will be
// rendered as a degraded value instead.
type Unresolved struct {
	ID     string
	Reason string
	event
}

// Event interface type fulfillment
type event struct{}

func (event) isEvent() {}
