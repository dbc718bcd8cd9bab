package dependency

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/go-github/v68/github"
	rootcerts "github.com/hashicorp/go-rootcerts"
)

// ClientSet is a collection of clients that dependencies use to communicate
// with remote services, currently only the GitHub API.
type ClientSet struct {
	sync.RWMutex

	github *githubClient
}

// githubClient is a wrapper around a real GitHub API client.
type githubClient struct {
	client     *github.Client
	httpClient *http.Client
}

// CreateClientInput is used as input to the CreateClient functions.
type CreateClientInput struct {
	// Address is the base URL of a GitHub Enterprise instance. Leave empty
	// for the public API.
	Address string
	Token   string

	// Transport/TLS
	SSLEnabled bool
	SSLVerify  bool
	SSLCert    string
	SSLKey     string
	SSLCACert  string
	SSLCAPath  string
	ServerName string

	TransportDialKeepAlive       time.Duration
	TransportDialTimeout         time.Duration
	TransportDisableKeepAlives   bool
	TransportIdleConnTimeout     time.Duration
	TransportMaxIdleConns        int
	TransportMaxIdleConnsPerHost int
	TransportTLSHandshakeTimeout time.Duration

	// optional, principally for testing
	HttpClient *http.Client
}

// NewClientSet creates a new client set that is ready to accept clients.
func NewClientSet() *ClientSet {
	return &ClientSet{}
}

// CreateGithubClient creates a new GitHub API client from the given input.
// An empty token is allowed; the public API serves repository metadata to
// anonymous callers, though at a much lower rate limit and without access
// to traffic data.
func (c *ClientSet) CreateGithubClient(i *CreateClientInput) error {
	// set/create our HTTP client
	httpClient, err := httpClient(i)
	if err != nil {
		return err
	}

	// Create the API client
	client := github.NewClient(httpClient)

	if i.Address != "" {
		client, err = client.WithEnterpriseURLs(i.Address, i.Address)
		if err != nil {
			return fmt.Errorf("client set: github: %s", err)
		}
	}

	if i.Token != "" {
		client = client.WithAuthToken(i.Token)
	}

	// Save the data on ourselves
	c.Lock()
	c.github = &githubClient{
		client:     client,
		httpClient: httpClient,
	}
	c.Unlock()

	return nil
}

// Github returns the GitHub client for this set.
func (c *ClientSet) Github() *github.Client {
	c.RLock()
	defer c.RUnlock()
	if c == nil || c.github == nil {
		return nil
	}
	return c.github.client
}

// Stop closes all idle connections for any attached clients.
func (c *ClientSet) Stop() {
	c.Lock()
	defer c.Unlock()

	switch {
	case c.github == nil:
	case c.github.httpClient == nil:
	default:
		c.github.httpClient.CloseIdleConnections()
	}
}

// httpClient returns the http.Client to use with the API client.
// Returns the test one if given, otherwise creates one with default transport.
func httpClient(i *CreateClientInput) (client *http.Client, err error) {
	if i.HttpClient != nil {
		return i.HttpClient, nil
	}
	var transport *http.Transport
	if transport, err = newTransport(i); err == nil {
		client = &http.Client{
			Transport: transport,
		}
	}
	return client, err
}

func newTransport(i *CreateClientInput) (*http.Transport, error) {
	// This transport will attempt to keep connections open to the server.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		Dial: (&net.Dialer{
			Timeout:   i.TransportDialTimeout,
			KeepAlive: i.TransportDialKeepAlive,
		}).Dial,
		DisableKeepAlives:   i.TransportDisableKeepAlives,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        i.TransportMaxIdleConns,
		IdleConnTimeout:     i.TransportIdleConnTimeout,
		MaxIdleConnsPerHost: i.TransportMaxIdleConnsPerHost,
		TLSHandshakeTimeout: i.TransportTLSHandshakeTimeout,
	}

	// Configure SSL
	if i.SSLEnabled {

		var tlsConfig tls.Config

		// Custom certificate or certificate and key
		if i.SSLCert != "" && i.SSLKey != "" {
			cert, err := tls.LoadX509KeyPair(i.SSLCert, i.SSLKey)
			if err != nil {
				return nil, fmt.Errorf("client set: ssl: %s", err)
			}
			tlsConfig.Certificates = []tls.Certificate{cert}
		} else if i.SSLCert != "" {
			cert, err := tls.LoadX509KeyPair(i.SSLCert, i.SSLCert)
			if err != nil {
				return nil, fmt.Errorf("client set: ssl: %s", err)
			}
			tlsConfig.Certificates = []tls.Certificate{cert}
		}

		// Custom CA certificate
		if i.SSLCACert != "" || i.SSLCAPath != "" {
			rootConfig := &rootcerts.Config{
				CAFile: i.SSLCACert,
				CAPath: i.SSLCAPath,
			}
			if err := rootcerts.ConfigureTLS(&tlsConfig, rootConfig); err != nil {
				return nil, fmt.Errorf("client set: configuring TLS failed: %s", err)
			}
		}

		// SSL verification
		if i.ServerName != "" {
			tlsConfig.ServerName = i.ServerName
			tlsConfig.InsecureSkipVerify = false
		}
		if !i.SSLVerify {
			tlsConfig.InsecureSkipVerify = true
		}

		// Save the TLS config on our transport
		transport.TLSClientConfig = &tlsConfig
	}
	return transport, nil
}
