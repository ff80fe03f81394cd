package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/quocvuong92/ai-apps/internal/events"
	"github.com/quocvuong92/ai-apps/internal/lock"
	"github.com/quocvuong92/ai-apps/internal/logging"
	"github.com/quocvuong92/ai-apps/internal/provider"
	"github.com/quocvuong92/ai-apps/internal/request"
)

// Recorder receives one record per dispatched call. Record must not block.
type Recorder interface {
	Record(rec events.CallRecord)
}

// Cache is the key/value capability exposed to callers. go-cache satisfies it.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
}

// Options are the capabilities a Dispatcher is built with. Only Transport is
// needed to send; the rest are optional.
type Options struct {
	Transport   Transport
	Recorder    Recorder
	Publisher   events.Publisher
	Cache       Cache
	LockFactory lock.Factory
	Logger      *logging.Logger
}

// Dispatcher sends request descriptors to the provider app it is bound to
type Dispatcher struct {
	transport   Transport
	recorder    Recorder
	publisher   events.Publisher
	cache       Cache
	lockFactory lock.Factory
	logger      *logging.Logger

	mu      sync.RWMutex
	current *provider.Config
}

// NewDispatcher creates an unbound dispatcher. A nil Transport falls back to
// an HTTPTransport with default settings.
func NewDispatcher(opts Options) *Dispatcher {
	transport := opts.Transport
	if transport == nil {
		transport = NewHTTPTransport(HTTPTransportOptions{Logger: opts.Logger})
	}
	return &Dispatcher{
		transport:   transport,
		recorder:    opts.Recorder,
		publisher:   opts.Publisher,
		cache:       opts.Cache,
		lockFactory: opts.LockFactory,
		logger:      opts.Logger,
	}
}

// Bind makes cfg the target of subsequent sends. Only a config explicitly
// marked active can be bound; on failure the previous binding is kept.
func (d *Dispatcher) Bind(cfg *provider.Config) error {
	if cfg == nil {
		return &ConfigurationError{Err: ErrNilConfig}
	}
	if !cfg.IsActive() {
		return &ConfigurationError{ConfigName: cfg.Name, Err: ErrConfigInactive}
	}

	d.mu.Lock()
	d.current = cfg
	d.mu.Unlock()
	return nil
}

// Current returns the bound config, or nil
func (d *Dispatcher) Current() *provider.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// Send executes desc against the bound config. Responses with status >= 400
// become *ProviderError; transport failures are returned as-is. Send does not
// retry.
func (d *Dispatcher) Send(ctx context.Context, desc request.Descriptor) (*Response, error) {
	cfg := d.Current()
	if cfg == nil {
		return nil, &ConfigurationError{Err: ErrNotBound}
	}

	method := desc.Method()
	if method == "" {
		method = http.MethodGet
	}
	target := cfg.BaseURL() + desc.Path()
	opts := mergeOptions(cfg, desc.Options())

	rec := events.NewCallRecord()
	rec.ConfigID = cfg.ID()
	rec.ConfigName = cfg.Name
	rec.Method = method
	rec.URL = target
	rec.Path = desc.Path()

	log := d.Logger().WithFields(logging.Fields{"app": cfg.Name, "method": method, "path": rec.Path})
	log.Debug("sending provider request")

	start := time.Now()
	resp, err := d.transport.Execute(ctx, method, target, opts)
	rec.Duration = time.Since(start)
	if err != nil {
		rec.Error = err.Error()
		log.Error("provider request failed", err)
		d.emit(rec)
		return nil, err
	}

	rec.StatusCode = resp.StatusCode
	err = formatResponse(desc, resp)

	var perr *ProviderError
	if errors.As(err, &perr) {
		rec.Error = perr.Message
		rec.ErrorCode = perr.Code
		log.Warn("provider returned an error", logging.Fields{"status": perr.Status, "code": perr.Code})
	} else {
		log.Debug("provider request done", logging.Fields{"status": resp.StatusCode, "duration_ms": rec.Duration.Milliseconds()})
	}
	d.emit(rec)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// mergeOptions layers the descriptor's headers over the Authorization header.
// Keys are canonicalized so the descriptor wins regardless of case.
func mergeOptions(cfg *provider.Config, opts request.Options) request.Options {
	headers := make(map[string]string, len(opts.Headers)+1)
	headers["Authorization"] = "Bearer " + cfg.APIKey
	for k, v := range opts.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	opts.Headers = headers
	return opts
}

func formatResponse(desc request.Descriptor, resp *Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	perr := &ProviderError{
		Status:     resp.StatusCode,
		Message:    fallbackMessage,
		Descriptor: desc,
		Response:   resp,
	}
	body, err := resp.BodyAsStructured()
	if err != nil {
		return perr
	}
	if msg, ok := body["message"].(string); ok {
		perr.Message = msg
	}
	switch code := body["code"].(type) {
	case string:
		perr.Code = code
	case float64:
		perr.Code = strconv.FormatFloat(code, 'f', -1, 64)
	}
	return perr
}

// emit hands rec to the recorder and publisher. Neither may fail the call.
func (d *Dispatcher) emit(rec events.CallRecord) {
	if d.recorder != nil {
		d.safely("recorder", func() { d.recorder.Record(rec) })
	}
	if d.publisher != nil {
		ev := events.NewEvent(rec)
		d.safely("publisher", func() { d.publisher.Publish(ev) })
	}
}

func (d *Dispatcher) safely(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.Logger().Warn("call side effect panicked", logging.Fields{"sink": name, "panic": r})
		}
	}()
	fn()
}

// Logger returns the injected logger, or a no-op logger
func (d *Dispatcher) Logger() *logging.Logger {
	if d.logger == nil {
		return logging.Nop()
	}
	return d.logger
}

// Cache returns the injected cache
func (d *Dispatcher) Cache() (Cache, error) {
	if d.cache == nil {
		return nil, &InfrastructureUnavailableError{Capability: CapabilityCache}
	}
	return d.cache, nil
}

// LockFactory returns the injected lock factory
func (d *Dispatcher) LockFactory() (lock.Factory, error) {
	if d.lockFactory == nil {
		return nil, &InfrastructureUnavailableError{Capability: CapabilityLockFactory}
	}
	return d.lockFactory, nil
}
