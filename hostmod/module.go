package hostmod

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/slotbridge/boundary"
	"github.com/wippyai/slotbridge/errors"
)

// DefaultMaxStringLen bounds how far a guest string is scanned for its NUL.
const DefaultMaxStringLen = 64 << 10

// HostModule serves the resonite import module from a boundary surface.
type HostModule struct {
	surface      *boundary.Surface
	log          *zap.Logger
	maxStringLen uint32
}

// Option configures a HostModule.
type Option func(*HostModule)

// WithLogger sets the logger for guest memory faults and allocation failures.
func WithLogger(l *zap.Logger) Option {
	return func(h *HostModule) {
		if l != nil {
			h.log = l
		}
	}
}

// WithMaxStringLen bounds the length of strings read from guest memory.
func WithMaxStringLen(n uint32) Option {
	return func(h *HostModule) {
		if n > 0 {
			h.maxStringLen = n
		}
	}
}

// New creates a host module over surface.
func New(surface *boundary.Surface, opts ...Option) *HostModule {
	h := &HostModule{
		surface:      surface,
		log:          Logger(),
		maxStringLen: DefaultMaxStringLen,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Surface returns the boundary surface the module calls into.
func (h *HostModule) Surface() *boundary.Surface {
	return h.surface
}

// Instantiate registers the resonite module in r. It must run before any
// guest importing it is instantiated.
func (h *HostModule) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(ModuleName)
	for _, sig := range signatures {
		fn, ok := handlers[sig.Name]
		if !ok {
			return nil, errors.NotFound(errors.PhaseRuntime, "host function handler", sig.Name)
		}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(h.wrap(sig.Name, fn), sig.ParamTypes(), sig.ResultTypes()).
			WithName(sig.Name).
			WithParameterNames(sig.ParamNames()...).
			Export(sig.Name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	return mod, nil
}

type handlerFunc func(c *call, stack []uint64)

func (h *HostModule) wrap(name string, fn handlerFunc) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		fn(&call{ctx: ctx, mod: mod, host: h, op: name}, stack)
	}
}
