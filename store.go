package readmecat

import (
	"sync"
)

// Store is the run's resource cache. Entries are keyed by the resource path
// of the API call that produced them, so any number of placeholders reading
// the same resource share a single entry.
type Store struct {
	sync.RWMutex

	// data is the map of resource paths to the outcome of the most recent
	// fetch for that resource.
	data map[string]interface{}
}

// NewStore creates a new Store with empty values for each
// of the key structs.
func NewStore() *Store {
	return &Store{
		data: make(map[string]interface{}),
	}
}

// Save accepts a resource path and the data to store associated with that
// resource.
func (s *Store) Save(id string, data interface{}) {
	s.Lock()
	defer s.Unlock()

	s.data[id] = data
}

// Recall gets the current value for the given resource path in the Store.
func (s *Store) Recall(id string) (interface{}, bool) {
	s.RLock()
	defer s.RUnlock()

	data, ok := s.data[id]
	return data, ok
}

// Delete accepts a resource path and removes all data associated with it.
func (s *Store) Delete(id string) {
	s.Lock()
	defer s.Unlock()

	delete(s.data, id)
}

// Reset clears all stored data.
func (s *Store) Reset() {
	s.Lock()
	defer s.Unlock()

	for k := range s.data {
		delete(s.data, k)
	}
}

// forceSet is used to force set the value for a given resource path.
// Used in testing.
func (s *Store) forceSet(id string, data interface{}) {
	s.Lock()
	defer s.Unlock()

	s.data[id] = data
}
