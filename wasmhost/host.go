// Package wasmhost provides mbsinit, mbrtoc32 and mbrlen
// as a wazero host module for wasm32 guests.
//
// All pointer arguments are offsets into the calling module's memory,
// with 0 being the null pointer; size_t is 32 bits wide.
// The conversion state is the 4 bytes at ps, so a guest may
// split a sequence over several calls exactly as with a native libc.
package wasmhost

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pchchv/uchar"
	"github.com/pchchv/uchar/abi"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// DefaultModuleName is the import module guests built against a C library use.
const DefaultModuleName = "env"

// WASI errno values stored on illegal sequences.
const (
	ErrnoILSEQ uint32 = 25
	ErrnoINVAL uint32 = 28
)

// Host implements the multibyte conversion functions for guests.
type Host struct {
	moduleName string
	// errnoAddr is the guest address of errno; 0 disables the guest-side errno.
	errnoAddr uint32
	logger    *zap.Logger
	// errno mirrors the last WASI errno stored, for the embedder.
	errno atomic.Uint32
}

// Option configures a Host.
type Option func(*Host)

// WithModuleName overrides the name of the host module.
func WithModuleName(name string) Option {
	return func(h *Host) {
		h.moduleName = name
	}
}

// WithErrnoAddr sets the guest address where errno is stored
// as a little-endian 32-bit integer.
func WithErrnoAddr(addr uint32) Option {
	return func(h *Host) {
		h.errnoAddr = addr
	}
}

// WithLogger sets the logger used for rejected sequences.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// New returns a new Host.
func New(opts ...Option) *Host {
	h := &Host{
		moduleName: DefaultModuleName,
		logger:     Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h
}

// ModuleName returns the name the host module is instantiated under.
func (h *Host) ModuleName() string {
	return h.moduleName
}

// Errno returns the last WASI errno stored by a failing call, or 0.
func (h *Host) Errno() uint32 {
	return h.errno.Load()
}

// ResetErrno clears the host-side errno.
func (h *Host) ResetErrno() {
	h.errno.Store(0)
}

// Instantiate registers the host module in r.
// It must be called before instantiating guests that import it.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	i32 := api.ValueTypeI32
	mod, err := r.NewHostModuleBuilder(h.moduleName).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.mbsinit), []api.ValueType{i32}, []api.ValueType{i32}).
		WithParameterNames("ps").
		Export("mbsinit").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.mbrtoc32), []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}).
		WithParameterNames("pc32", "s", "n", "ps").
		Export("mbrtoc32").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.mbrlen), []api.ValueType{i32, i32, i32}, []api.ValueType{i32}).
		WithParameterNames("s", "n", "ps").
		Export("mbrlen").
		Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("wasmhost: instantiate %q: %w", h.moduleName, err)
	}

	h.logger.Debug("host module instantiated", zap.String("module", h.moduleName))
	return mod, nil
}

// mbsinit(ps) -> int
func (h *Host) mbsinit(_ context.Context, mod api.Module, stack []uint64) {
	ps := api.DecodeU32(stack[0])
	if ps == 0 {
		stack[0] = api.EncodeI32(abi.Mbsinit(nil))
		return
	}

	st := readState(mod, ps)
	stack[0] = api.EncodeI32(abi.Mbsinit(&st))
}

// mbrtoc32(pc32, s, n, ps) -> size_t
func (h *Host) mbrtoc32(_ context.Context, mod api.Module, stack []uint64) {
	pc32 := api.DecodeU32(stack[0])
	s := api.DecodeU32(stack[1])
	n := api.DecodeU32(stack[2])
	ps := api.DecodeU32(stack[3])
	stack[0] = api.EncodeU32(h.convert(mod, pc32, s, n, ps))
}

// mbrlen(s, n, ps) -> size_t
func (h *Host) mbrlen(_ context.Context, mod api.Module, stack []uint64) {
	s := api.DecodeU32(stack[0])
	n := api.DecodeU32(stack[1])
	ps := api.DecodeU32(stack[2])
	stack[0] = api.EncodeU32(h.convert(mod, 0, s, n, ps))
}

func (h *Host) convert(mod api.Module, pc32, s, n, ps uint32) uint32 {
	var st *uchar.State
	if ps != 0 {
		guest := readState(mod, ps)
		st = &guest
	}

	var src []byte
	if s == 0 {
		// mbrtoc32(pc32, NULL, n, ps) behaves as mbrtoc32(NULL, "", 1, ps)
		pc32 = 0
		src = []byte{0}
	} else {
		src = readInput(mod, s, n)
	}

	var c rune
	nbytes, err := uchar.Mbrtoc32(&c, src, st)
	if st != nil {
		writeState(mod, ps, st)
	}
	if err == nil && pc32 != 0 && len(src) > 0 {
		writeUint32(mod, "write code point", pc32, uint32(c))
	}
	if errno, ok := uchar.ErrnoOf(err); ok {
		h.setErrno(mod, errno)
		h.logger.Debug("illegal multibyte sequence",
			zap.String("module", mod.Name()),
			zap.String("input", fmt.Sprintf("% X", src)),
			zap.Stringer("errno", errno),
			zap.Error(err))
	}

	return abi.Encode32(nbytes, err)
}

func (h *Host) setErrno(mod api.Module, errno uchar.Errno) {
	code := ErrnoILSEQ
	if errno == uchar.EINVAL {
		code = ErrnoINVAL
	}

	h.errno.Store(code)
	if h.errnoAddr != 0 {
		writeUint32(mod, "write errno", h.errnoAddr, code)
	}
}
