package wasmhost

import (
	"fmt"

	"github.com/pchchv/uchar"
	"github.com/tetratelabs/wazero/api"
)

// maxInput is the longest prefix of the source buffer a single call can use.
const maxInput = 4

// MemoryError is raised (as a panic, trapping the guest)
// when a guest pointer does not lie within its linear memory.
type MemoryError struct {
	Op     string
	Offset uint32
	Length uint32
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("wasmhost: %s out of bounds; offset %d, length %d", e.Op, e.Offset, e.Length)
}

func guestMemory(mod api.Module, op string, offset uint32) api.Memory {
	mem := mod.Memory()
	if mem == nil {
		panic(&MemoryError{Op: op + " (no memory)", Offset: offset})
	}
	return mem
}

// readState copies the 4-byte conversion state at ps.
func readState(mod api.Module, ps uint32) uchar.State {
	b, ok := guestMemory(mod, "read state", ps).Read(ps, 4)
	if !ok {
		panic(&MemoryError{Op: "read state", Offset: ps, Length: 4})
	}
	var seq [4]byte
	copy(seq[:], b)
	return uchar.StateFromBytes(seq)
}

// writeState stores st at ps.
func writeState(mod api.Module, ps uint32, st *uchar.State) {
	seq := st.Bytes()
	if !guestMemory(mod, "write state", ps).Write(ps, seq[:]) {
		panic(&MemoryError{Op: "write state", Offset: ps, Length: 4})
	}
}

// readInput copies the bytes of s that a decode call may look at:
// at most maxInput bytes, and never past the end of memory.
// A zero n yields an empty, non-nil slice without touching memory.
func readInput(mod api.Module, s, n uint32) []byte {
	if n == 0 {
		return []byte{}
	}

	mem := guestMemory(mod, "read input", s)
	if s >= mem.Size() {
		panic(&MemoryError{Op: "read input", Offset: s, Length: n})
	}

	n = min(n, maxInput, mem.Size()-s)
	b, ok := mem.Read(s, n)
	if !ok {
		panic(&MemoryError{Op: "read input", Offset: s, Length: n})
	}
	return append([]byte(nil), b...)
}

func writeUint32(mod api.Module, op string, offset, v uint32) {
	if !guestMemory(mod, op, offset).WriteUint32Le(offset, v) {
		panic(&MemoryError{Op: op, Offset: offset, Length: 4})
	}
}
