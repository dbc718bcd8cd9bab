package readmecat

import (
	"net/http"
	"time"

	"github.com/readmecat/readmecat/dep"
	idep "github.com/readmecat/readmecat/internal/dependency"
)

// Looker is an interface for looking up the API clients dependencies fetch
// with. The Fetcher holds one for the duration of a run.
type Looker interface {
	dep.Clients
	Stop()
}

// ClientSet is the collection of API clients used for dependency fetches.
// Currently that is only GitHub, but the shape leaves room for other
// source-hosting providers.
type ClientSet struct {
	*idep.ClientSet
}

// NewClientSet is used to create the clients used.
// Fulfills the Looker interface.
func NewClientSet() *ClientSet {
	return &ClientSet{
		ClientSet: idep.NewClientSet(),
	}
}

// AddGithub creates a GitHub client and adds it to the client set.
// Call it once before the first fetch; an empty input configures the public
// API with anonymous access.
func (cs *ClientSet) AddGithub(i GithubInput) error {
	return cs.CreateGithubClient(i.toInternal())
}

// Stop closes all idle connections for any attached clients.
func (cs *ClientSet) Stop() {
	if cs.ClientSet != nil {
		cs.ClientSet.Stop()
	}
}

// Input wrappers around the internal structure, keeping the internal types
// out of the public API.

// GithubInput defines the inputs needed to configure the GitHub client.
type GithubInput struct {
	// Address is the base URL of a GitHub Enterprise instance. Leave empty
	// for the public API.
	Address string
	// Token is the bearer credential. Empty means anonymous access, which
	// works for public repository metadata but not for traffic data.
	Token     string
	Transport TransportInput
	// optional, principally for testing
	HttpClient *http.Client
}

func (i GithubInput) toInternal() *idep.CreateClientInput {
	cci := &idep.CreateClientInput{
		Address: i.Address,
		Token:   i.Token,
	}
	cci.HttpClient = i.HttpClient
	return i.Transport.toInternal(cci)
}

// TransportInput configures the HTTP transport used to reach the API.
type TransportInput struct {
	// Transport/TLS
	SSLEnabled bool
	SSLVerify  bool
	SSLCert    string
	SSLKey     string
	SSLCACert  string
	SSLCAPath  string
	ServerName string

	DialKeepAlive       time.Duration
	DialTimeout         time.Duration
	DisableKeepAlives   bool
	IdleConnTimeout     time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	TLSHandshakeTimeout time.Duration
}

func (i TransportInput) toInternal(cci *idep.CreateClientInput) *idep.CreateClientInput {
	cci.SSLEnabled = i.SSLEnabled
	cci.SSLVerify = i.SSLVerify
	cci.SSLCert = i.SSLCert
	cci.SSLKey = i.SSLKey
	cci.SSLCACert = i.SSLCACert
	cci.SSLCAPath = i.SSLCAPath
	cci.ServerName = i.ServerName
	cci.TransportDialKeepAlive = i.DialKeepAlive
	cci.TransportDialTimeout = i.DialTimeout
	cci.TransportDisableKeepAlives = i.DisableKeepAlives
	cci.TransportIdleConnTimeout = i.IdleConnTimeout
	cci.TransportMaxIdleConns = i.MaxIdleConns
	cci.TransportMaxIdleConnsPerHost = i.MaxIdleConnsPerHost
	cci.TransportTLSHandshakeTimeout = i.TLSHandshakeTimeout
	return cci
}
