package fusefs

import (
	"io"
	"sync"

	"github.com/mit-pdos/go-mdadm/common"
	"github.com/mit-pdos/go-mdadm/mdadm"
	"github.com/mit-pdos/go-mdadm/util"
)

var _ io.ReaderAt = (*Linear)(nil)
var _ io.WriterAt = (*Linear)(nil)

// Linear adapts a Device to io.ReaderAt and io.WriterAt, clamping to the
// address space and splitting into MaxIOSize transfers.
type Linear struct {
	mu  *sync.Mutex // serializes access to dev
	dev *mdadm.Device
}

func MkLinear(dev *mdadm.Device) *Linear {
	return &Linear{mu: new(sync.Mutex), dev: dev}
}

func (l *Linear) Size() int64 {
	return int64(common.AddrSpaceSize)
}

type transfer func(start uint32, length uint32, buf []byte) (uint32, error)

func (l *Linear) chunked(p []byte, off int64, f transfer) (int, error) {
	if off < 0 {
		return 0, mdadm.ErrOutOfBounds
	}
	if off >= l.Size() {
		return 0, io.EOF
	}
	end := uint64(off) + uint64(len(p))
	short := end > common.AddrSpaceSize
	if short {
		end = common.AddrSpaceSize
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	done := uint64(0)
	for a := uint64(off); a < end; {
		n := util.Min(common.MaxIOSize, end-a)
		if _, err := f(uint32(a), uint32(n), p[done:done+n]); err != nil {
			return int(done), err
		}
		a += n
		done += n
	}
	if short {
		return int(done), io.EOF
	}
	return int(done), nil
}

func (l *Linear) ReadAt(p []byte, off int64) (int, error) {
	return l.chunked(p, off, l.dev.Read)
}

func (l *Linear) WriteAt(p []byte, off int64) (int, error) {
	n, err := l.chunked(p, off, l.dev.Write)
	if err == io.EOF {
		err = io.ErrShortWrite
	}
	return n, err
}

// Close unmounts the device. Closing an unmounted device does nothing.
func (l *Linear) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.dev.Mounted() {
		return nil
	}
	return l.dev.Unmount()
}
