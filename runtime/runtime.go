package runtime

import (
	"context"
	"io"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/slotbridge/boundary"
	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/host"
	"github.com/wippyai/slotbridge/hostmod"
)

// Options configures a Runtime.
type Options struct {
	Logger           *zap.Logger
	Stdout           io.Writer
	Stderr           io.Writer
	MemoryLimitPages uint32
	MaxStringLen     uint32
}

// Option configures a Runtime.
type Option func(*Options)

// WithLogger sets the logger for the boundary surface and host module.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMemoryLimitPages caps guest memory at n 64KiB pages.
func WithMemoryLimitPages(n uint32) Option {
	return func(o *Options) { o.MemoryLimitPages = n }
}

// WithMaxStringLen bounds strings read from guest memory.
func WithMaxStringLen(n uint32) Option {
	return func(o *Options) { o.MaxStringLen = n }
}

// WithStdio sets the writers guest WASI stdout and stderr go to.
func WithStdio(stdout, stderr io.Writer) Option {
	return func(o *Options) {
		o.Stdout = stdout
		o.Stderr = stderr
	}
}

type Runtime struct {
	wazero  wazero.Runtime
	surface *boundary.Surface
	opts    Options
}

// New creates a runtime whose guests import the resonite host module bound
// to world, plus wasi_snapshot_preview1.
func New(ctx context.Context, world host.World, opts ...Option) (*Runtime, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = Logger()
	}

	cfg := wazero.NewRuntimeConfig()
	if o.MemoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(o.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, cfg)

	if err := instantiateWASI(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, errors.Load("instantiate wasi", err)
	}

	surface := boundary.New(world, boundary.WithLogger(o.Logger))
	hm := hostmod.New(surface,
		hostmod.WithLogger(o.Logger),
		hostmod.WithMaxStringLen(o.MaxStringLen))
	if _, err := hm.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, errors.Load("instantiate host module", err)
	}

	return &Runtime{wazero: r, surface: surface, opts: o}, nil
}

// Surface returns the boundary surface guests call through.
func (r *Runtime) Surface() *boundary.Surface {
	return r.surface
}

// Close releases all runtime resources, including open instances.
func (r *Runtime) Close(ctx context.Context) error {
	return r.wazero.Close(ctx)
}

// LoadWASM compiles a core WebAssembly module.
func (r *Runtime) LoadWASM(ctx context.Context, wasm []byte) (*Module, error) {
	compiled, err := r.wazero.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}
	return &Module{runtime: r, compiled: compiled}, nil
}
