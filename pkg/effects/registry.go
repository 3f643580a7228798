// Package effects is the catalog of named image effects and the registry
// that dispatches them onto the raster engines.
//
// Every effect is one of three kinds: a per-pixel transform run through
// raster.Apply, a sequence of kernels run through raster.Convolve, or a
// custom pass that composes the two. Arguments arrive as strings (the way a
// host UI collects them), are validated against the effect's Spec and parsed
// before any pixel is touched, so a rejected call never leaves a
// half-processed buffer behind.
package effects

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Fepozopo/filtr/pkg/fxerr"
	"github.com/Fepozopo/filtr/pkg/raster"
)

// Kind tags how a Definition is executed.
type Kind int

const (
	PerPixel Kind = iota
	Convolution
	Custom
)

func (k Kind) String() string {
	switch k {
	case PerPixel:
		return "per-pixel"
	case Convolution:
		return "convolution"
	case Custom:
		return "custom"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Definition describes one effect. Only the function matching Kind is used.
type Definition struct {
	Kind Kind
	Spec Spec

	// Pixel builds the per-pixel transform for the given arguments.
	Pixel func(Args) (raster.Transform, error)
	// Kernels builds the kernels applied in order, each on the previous result.
	Kernels func(Args) ([]raster.Kernel, error)
	// Run performs a custom pass. It must not leave buf partially modified
	// when it returns an error.
	Run func(buf *raster.Buffer, args Args) error
}

func (d Definition) validate() error {
	switch d.Kind {
	case PerPixel:
		if d.Pixel == nil {
			return fmt.Errorf("%w: per-pixel effect without a transform builder", fxerr.ErrInvalidArgument)
		}
	case Convolution:
		if d.Kernels == nil {
			return fmt.Errorf("%w: convolution effect without a kernel builder", fxerr.ErrInvalidArgument)
		}
	case Custom:
		if d.Run == nil {
			return fmt.Errorf("%w: custom effect without a run function", fxerr.ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unknown effect kind %v", fxerr.ErrInvalidArgument, d.Kind)
	}
	return nil
}

// Registry maps effect names to definitions. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds def under name. Names are unique: registering an existing
// name fails.
func (r *Registry) Register(name string, def Definition) error {
	if name == "" {
		return fmt.Errorf("%w: empty effect name", fxerr.ErrInvalidArgument)
	}
	if err := def.validate(); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	if def.Spec.Name == "" {
		def.Spec.Name = name
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[name]; ok {
		return fmt.Errorf("%w: effect %q already registered", fxerr.ErrInvalidArgument, name)
	}
	r.defs[name] = def
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	return d, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.defs))
	for n := range r.defs {
		names = append(names, n)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Specs returns the specs of all effects, sorted by name.
func (r *Registry) Specs() []Spec {
	names := r.Names()
	out := make([]Spec, 0, len(names))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range names {
		out = append(out, r.defs[n].Spec)
	}
	return out
}

// Run applies the named effect to buf and returns buf. Convolution results
// are adopted into buf, so the caller's pointer always holds the result.
func (r *Registry) Run(name string, buf *raster.Buffer, args ...string) (*raster.Buffer, error) {
	def, ok := r.Lookup(name)
	if !ok {
		raster.Logger().Warn("unknown effect", "name", name)
		return nil, fmt.Errorf("%w: unknown effect %q", fxerr.ErrInvalidArgument, name)
	}
	if buf == nil {
		return nil, fmt.Errorf("%w: %s: nil buffer", fxerr.ErrInvalidArgument, name)
	}
	a, err := def.Spec.Parse(args)
	if err != nil {
		raster.Logger().Warn("rejected effect arguments", "name", name, "args", args, "err", err)
		return nil, err
	}
	start := time.Now()
	switch def.Kind {
	case PerPixel:
		fn, err := def.Pixel(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if _, err := raster.Apply(buf, fn); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	case Convolution:
		ks, err := def.Kernels(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for _, k := range ks {
			if err := k.Validate(); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		for _, k := range ks {
			if err := raster.ConvolveInPlace(buf, k); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
	case Custom:
		if err := def.Run(buf, a); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	raster.Logger().Debug("effect", "name", name, "kind", def.Kind.String(), "size", buf.String(), "elapsed", time.Since(start))
	return buf, nil
}

// Default holds the built-in catalog. Register on it to extend every caller
// of the package-level functions.
var Default = NewRegistry()

func init() {
	for _, d := range builtins() {
		if err := Default.Register(d.Spec.Name, d); err != nil {
			panic(err)
		}
	}
}

// Register adds an effect to the Default registry.
func Register(name string, def Definition) error { return Default.Register(name, def) }

// Run applies a named effect from the Default registry.
func Run(name string, buf *raster.Buffer, args ...string) (*raster.Buffer, error) {
	return Default.Run(name, buf, args...)
}

// Names lists the Default registry.
func Names() []string { return Default.Names() }

// Specs lists the Default registry's specs.
func Specs() []Spec { return Default.Specs() }
