// Package api sends provider requests on behalf of a bound app config.
//
// # Architecture
//
//   - dispatcher.go: Dispatcher, the binding to one provider.Config and Send
//   - transport.go: Transport interface, Response and the net/http implementation
//   - errors.go: ConfigurationError, ProviderError, InfrastructureUnavailableError
//   - retry.go: caller-side exponential backoff for transient provider errors
//
// # Usage
//
//	d := api.NewDispatcher(api.Options{
//	    Transport: api.NewHTTPTransport(api.HTTPTransportOptions{Logger: logger}),
//	    Recorder:  recorder,
//	    Publisher: bus,
//	})
//	if err := d.Bind(cfg); err != nil {
//	    // config is disabled
//	}
//	resp, err := d.Send(ctx, request.Info{})
//
// Send never retries. Wrap it in WithRetry when a caller wants to ride out
// rate limits and gateway errors.
//
// # Interface Design
//
// The transport, recorder, publisher, cache and lock factory are all
// interfaces so tests can substitute in-memory fakes.
package api
