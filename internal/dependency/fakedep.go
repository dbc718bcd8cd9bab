package dependency

import (
	"fmt"
	"sync"
	"time"

	"github.com/readmecat/readmecat/dep"
)

// FakeDep is a fake dependency that does not actually speak to a server.
type FakeDep struct {
	isGithub
	Name string
	Data string
}

func (d *FakeDep) Fetch(clients dep.Clients) (interface{}, *dep.ResponseMetadata, error) {
	time.Sleep(time.Millisecond)
	data := d.Data
	if data == "" {
		data = "this is some data"
	}
	rm := &dep.ResponseMetadata{RateLimit: 5000, RateRemaining: 4999}
	return data, rm, nil
}

func (d *FakeDep) SetOptions(opts QueryOptions) {}

func (d *FakeDep) String() string {
	return fmt.Sprintf("test_dep(%s)", d.Name)
}

func (d *FakeDep) ID() string {
	return fmt.Sprintf("test/%s", d.Name)
}

func (d *FakeDep) Stop() {}

// FakeDepFetchError is a fake dependency that returns an error while fetching.
type FakeDepFetchError struct {
	isGithub
	Name string
}

func (d *FakeDepFetchError) Fetch(clients dep.Clients) (interface{}, *dep.ResponseMetadata, error) {
	time.Sleep(time.Millisecond)
	return nil, nil, fmt.Errorf("failed to contact server")
}

func (d *FakeDepFetchError) SetOptions(opts QueryOptions) {}

func (d *FakeDepFetchError) String() string {
	return fmt.Sprintf("test_dep_fetch_error(%s)", d.Name)
}

func (d *FakeDepFetchError) ID() string {
	return fmt.Sprintf("test/%s/error", d.Name)
}

func (d *FakeDepFetchError) Stop() {}

// FakeDepCounter is a fake dependency that counts how many times it has been
// fetched, used to verify request coalescing.
type FakeDepCounter struct {
	isGithub
	sync.Mutex
	Name  string
	Fail  bool
	count int
}

func (d *FakeDepCounter) Fetch(clients dep.Clients) (interface{}, *dep.ResponseMetadata, error) {
	d.Lock()
	defer d.Unlock()

	d.count++
	if d.Fail {
		return nil, nil, fmt.Errorf("failed to contact server")
	}
	return fmt.Sprintf("data-%d", d.count), &dep.ResponseMetadata{}, nil
}

func (d *FakeDepCounter) Count() int {
	d.Lock()
	defer d.Unlock()
	return d.count
}

func (d *FakeDepCounter) SetOptions(opts QueryOptions) {}

func (d *FakeDepCounter) String() string {
	return fmt.Sprintf("test_dep_counter(%s)", d.Name)
}

func (d *FakeDepCounter) ID() string {
	return fmt.Sprintf("test/%s/counter", d.Name)
}

func (d *FakeDepCounter) Stop() {}

var (
	_ isDependency = (*FakeDep)(nil)
	_ isDependency = (*FakeDepFetchError)(nil)
	_ isDependency = (*FakeDepCounter)(nil)
)
