// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Option keys understood by the built-in "hal" backend.
//
// OptionHALProvider takes a gpucontext.DeviceProvider. Its surface format
// becomes the pipeline target format, and when it also has HalDevice() and
// HalQueue() methods they supply the device and queue. Explicit
// OptionHALDevice and OptionHALQueue values take precedence.
const (
	OptionHALDevice   = "hal.device"
	OptionHALQueue    = "hal.queue"
	OptionHALProvider = "hal.provider"
)

// Factory opens a Surface for the given options.
type Factory func(opts Options) (Surface, error)

// Backend describes a registered surface backend.
type Backend struct {
	// Name identifies the backend ("image", "hal").
	Name string

	// Priority orders automatic selection; higher is tried first.
	Priority int

	// Factory opens surfaces.
	Factory Factory

	// Available reports whether the backend can run at all.
	Available func() bool
}

// Registry holds surface backends. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]*Backend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]*Backend)}
}

var defaultRegistry = NewRegistry()

// Register adds a backend to the default registry. See Registry.Register.
func Register(name string, priority int, factory Factory, available func() bool) {
	defaultRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the default registry.
func Unregister(name string) { defaultRegistry.Unregister(name) }

// Backends lists the default registry's backends, highest priority first.
func Backends() []string { return defaultRegistry.Backends() }

// Available lists the default registry's usable backends.
func Available() []string { return defaultRegistry.Available() }

// Lookup returns a copy of a backend in the default registry.
func Lookup(name string) (Backend, bool) { return defaultRegistry.Lookup(name) }

// Open opens a surface on the best backend of the default registry.
func Open(opts Options) (Surface, error) { return defaultRegistry.Open(opts) }

// OpenBackend opens a surface on the named backend of the default registry.
func OpenBackend(name string, opts Options) (Surface, error) {
	return defaultRegistry.OpenBackend(name, opts)
}

// Register adds or replaces a backend. A nil available function means the
// backend is always available.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	if available == nil {
		available = func() bool { return true }
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backends == nil {
		r.backends = make(map[string]*Backend)
	}
	r.backends[name] = &Backend{Name: name, Priority: priority, Factory: factory, Available: available}
}

// Unregister removes a backend.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.backends, name)
}

// Backends lists every backend, highest priority first. Equal priorities
// are ordered by name.
func (r *Registry) Backends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ordered(false)
}

// Available lists the backends whose Available function reports true.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ordered(true)
}

// Lookup returns a copy of the named backend.
func (r *Registry) Lookup(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	if !ok {
		return Backend{}, false
	}
	return *b, true
}

// Open tries every available backend in priority order and returns the
// first surface that opens. When all fail, the last factory error is
// returned.
func (r *Registry) Open(opts Options) (Surface, error) {
	names := r.Available()
	if len(names) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range names {
		s, err := r.OpenBackend(name, opts)
		if err == nil {
			slogger().Debug("surface: opened backend", "backend", name)
			return s, nil
		}
		slogger().Debug("surface: backend failed", "backend", name, "err", err)
		lastErr = err
	}
	return nil, lastErr
}

// OpenBackend opens a surface on the named backend.
func (r *Registry) OpenBackend(name string, opts Options) (Surface, error) {
	r.mu.RLock()
	b, ok := r.backends[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !b.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return b.Factory(opts)
}

// ordered must be called with r.mu held.
func (r *Registry) ordered(onlyAvailable bool) []string {
	list := make([]*Backend, 0, len(r.backends))
	for _, b := range r.backends {
		if onlyAvailable && !b.Available() {
			continue
		}
		list = append(list, b)
	}
	slices.SortFunc(list, func(a, b *Backend) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.Name
	}
	return names
}

// BackendNotFoundError reports a name that is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError reports a registered backend that cannot run.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}

func openImage(opts Options) (Surface, error) {
	return NewImageSurface(opts.Width, opts.Height), nil
}

// halProvider is the optional HAL access of a device provider.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// openHAL takes its device and queue from OptionHALDevice and
// OptionHALQueue, or from OptionHALProvider.
func openHAL(opts Options) (Surface, error) {
	device, _ := opts.Custom[OptionHALDevice].(hal.Device)
	queue, _ := opts.Custom[OptionHALQueue].(hal.Queue)
	format := gputypes.TextureFormatUndefined

	if v, set := opts.Custom[OptionHALProvider]; set && v != nil {
		p, ok := v.(gpucontext.DeviceProvider)
		if !ok {
			return nil, fmt.Errorf("%w: %q holds %T", ErrInvalidProvider, OptionHALProvider, v)
		}
		format = p.SurfaceFormat()
		info := p.AdapterInfo()
		slogger().Debug("surface: hal provider",
			slog.String("adapter", info.Name),
			slog.String("type", info.Type.String()))
		if hp, ok := p.(halProvider); ok {
			if device == nil {
				device, _ = hp.HalDevice().(hal.Device)
			}
			if queue == nil {
				queue, _ = hp.HalQueue().(hal.Queue)
			}
		}
	}
	if device == nil || queue == nil {
		return nil, fmt.Errorf("surface: hal backend needs %q and %q options or a HAL provider: %w",
			OptionHALDevice, OptionHALQueue, ErrNilDevice)
	}
	return NewHALSurface(device, queue, HALConfig{
		Format: format,
		Width:  max(opts.Width, 1),
		Height: max(opts.Height, 1),
	})
}

func init() {
	Register("hal", 100, openHAL, nil)
	Register("image", 10, openImage, nil)
}
