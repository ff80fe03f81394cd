// Package provider holds the configuration of provider apps and the resolver
// used to look them up.
//
// A Config is one connection to the conversational-AI provider: its endpoint,
// credentials and an active flag that gates whether it may be used. Configs are
// persisted through a Store and looked up through a Resolver.
package provider

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// APIVersionSegment is inserted by APIURL between the base URL and the endpoint
const APIVersionSegment = "/v1"

// Config is the configuration of a single provider app.
//
// The id and base URL are only reachable through methods: the id never changes
// after creation and the base URL is normalized on every write.
type Config struct {
	id      string
	baseURL string

	// Name is unique and used for human lookup
	Name string
	// Description is optional free text
	Description string
	// APIKey is the bearer secret sent to the provider
	APIKey string
	// IframeEmbedCode is the chat widget snippet, stored but never used here
	IframeEmbedCode string
	// Active is tri-state: nil means unset. Only an explicit true permits use.
	Active *bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a config with a freshly generated id. Active defaults to true.
func New(name, baseURL, apiKey string) *Config {
	c := NewWithID(uuid.New().String())
	c.Name = name
	c.APIKey = apiKey
	c.SetBaseURL(baseURL)
	return c
}

// NewWithID rebuilds a config whose id was assigned earlier, e.g. by a store.
func NewWithID(id string) *Config {
	return &Config{id: id, Active: Bool(true)}
}

// Bool returns a pointer to b, for setting Active
func Bool(b bool) *bool {
	return &b
}

// ID returns the immutable identifier
func (c *Config) ID() string {
	return c.id
}

// BaseURL returns the normalized base URL
func (c *Config) BaseURL() string {
	return c.baseURL
}

// SetBaseURL stores u with every trailing slash removed
func (c *Config) SetBaseURL(u string) {
	c.baseURL = NormalizeBaseURL(u)
}

// NormalizeBaseURL strips all trailing "/" characters
func NormalizeBaseURL(u string) string {
	return strings.TrimRight(u, "/")
}

// IsActive reports whether Active is explicitly true
func (c *Config) IsActive() bool {
	return c.Active != nil && *c.Active
}

// SetActive sets the active flag; nil clears it
func (c *Config) SetActive(active *bool) {
	c.Active = active
}

// APIURL joins base URL, version segment and endpoint verbatim. No separator is
// added, so endpoint needs its own leading slash: APIURL("x") gives ".../v1x".
func (c *Config) APIURL(endpoint string) string {
	return c.baseURL + APIVersionSegment + endpoint
}

// APIHeaders returns the headers a direct JSON call to the provider needs
func (c *Config) APIHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.APIKey,
		"Content-Type":  "application/json",
	}
}

// String returns the display name
func (c *Config) String() string {
	return c.Name
}
