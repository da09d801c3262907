package jbod

import (
	"fmt"

	"github.com/tchajed/marshal"

	"github.com/mit-pdos/go-mdadm/disk"
)

var _ Device = (*Recorder)(nil)

// Recorder logs every command passed to the device it wraps.
type Recorder struct {
	d   Device
	ops []Op
}

func MkRecorder(d Device) *Recorder {
	return &Recorder{d: d}
}

func (r *Recorder) Execute(op Op, buf disk.Block) error {
	r.ops = append(r.ops, op)
	return r.d.Execute(op, buf)
}

// Ops returns the commands executed so far, oldest first.
func (r *Recorder) Ops() []Op {
	ops := make([]Op, len(r.ops))
	copy(ops, r.ops)
	return ops
}

func (r *Recorder) Reset() {
	r.ops = nil
}

// Encode serializes the op log as a count followed by one word per op.
func (r *Recorder) Encode() []byte {
	enc := marshal.NewEnc(8 * uint64(1+len(r.ops)))
	enc.PutInt(uint64(len(r.ops)))
	words := make([]uint64, len(r.ops))
	for i, op := range r.ops {
		words[i] = uint64(op)
	}
	enc.PutInts(words)
	return enc.Finish()
}

// DecodeOps parses an op log produced by Encode.
func DecodeOps(b []byte) ([]Op, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("op log too short (%d bytes)", len(b))
	}
	dec := marshal.NewDec(b)
	n := dec.GetInt()
	if uint64(len(b)-8)/8 < n {
		return nil, fmt.Errorf("op log truncated: %d ops in %d bytes", n, len(b))
	}
	words := dec.GetInts(n)
	ops := make([]Op, n)
	for i, w := range words {
		if w > 1<<32-1 {
			return nil, fmt.Errorf("op %d: word %#x does not fit 32 bits", i, w)
		}
		ops[i] = Op(w)
	}
	return ops, nil
}
