// Package request describes the outbound operations that can be sent to a
// provider app.
//
// A Descriptor is a declarative value: it names a path, an HTTP method and the
// transport options. It carries no credentials; the dispatcher adds those.
// Adding a new provider endpoint means adding a new Descriptor, nothing else.
package request

import (
	"net/url"
	"sort"
)

// Descriptor describes one outbound operation
type Descriptor interface {
	// Path is appended to the app's base URL, e.g. "/info"
	Path() string
	// Method is the HTTP verb; empty means GET
	Method() string
	// Options are the transport options for the call
	Options() Options
}

// Options are transport options supplied by a Descriptor
type Options struct {
	// Headers sent with the request. The dispatcher layers these over its
	// Authorization header, so a descriptor may override it.
	Headers map[string]string
	// Query is encoded onto the URL
	Query url.Values
	// Body is JSON-encoded when non-nil
	Body any
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// Info fetches the app's basic information
type Info struct{}

func (Info) Path() string     { return "/info" }
func (Info) Method() string   { return "GET" }
func (Info) Options() Options { return Options{Headers: jsonHeaders()} }

// Meta fetches the app's meta information (tool icons and the like)
type Meta struct{}

func (Meta) Path() string     { return "/meta" }
func (Meta) Method() string   { return "GET" }
func (Meta) Options() Options { return Options{Headers: jsonHeaders()} }

// Parameters fetches the app's input parameters and feature switches
type Parameters struct{}

func (Parameters) Path() string     { return "/parameters" }
func (Parameters) Method() string   { return "GET" }
func (Parameters) Options() Options { return Options{Headers: jsonHeaders()} }

// Site fetches the app's WebApp settings
type Site struct{}

func (Site) Path() string     { return "/site" }
func (Site) Method() string   { return "GET" }
func (Site) Options() Options { return Options{Headers: jsonHeaders()} }

var builtin = map[string]Descriptor{
	"info":       Info{},
	"meta":       Meta{},
	"parameters": Parameters{},
	"site":       Site{},
}

// ByName returns the built-in descriptor called name
func ByName(name string) (Descriptor, bool) {
	d, ok := builtin[name]
	return d, ok
}

// Names lists the built-in descriptor names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
