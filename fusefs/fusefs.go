// Package fusefs serves a linear device as a single file over FUSE.
package fusefs

import (
	"context"
	"errors"
	"io"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/mit-pdos/go-mdadm/mdadm"
	"github.com/mit-pdos/go-mdadm/util"
)

// FileName is the name of the device file in the mounted directory.
const FileName = "linear"

type Root struct {
	fs.Inode

	lin *Linear
}

var _ = (fs.NodeOnAdder)((*Root)(nil))

func MkRoot(lin *Linear) *Root {
	return &Root{lin: lin}
}

func (r *Root) OnAdd(ctx context.Context) {
	p := &r.Inode
	child := p.NewPersistentInode(ctx, &file{lin: r.lin}, fs.StableAttr{
		Mode: syscall.S_IFREG,
		Ino:  2,
	})
	p.AddChild(FileName, child, true)
}

type file struct {
	fs.Inode

	lin *Linear
}

var _ = (fs.NodeOpener)((*file)(nil))
var _ = (fs.NodeGetattrer)((*file)(nil))
var _ = (fs.NodeSetattrer)((*file)(nil))

func (f *file) Open(ctx context.Context, openFlags uint32) (fh fs.FileHandle, fuseFlags uint32, errno syscall.Errno) {
	return &handle{lin: f.lin}, fuse.FOPEN_DIRECT_IO, 0
}

func (f *file) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = syscall.S_IFREG | 0644
	out.Size = uint64(f.lin.Size())
	return 0
}

// Setattr accepts everything but a size change; the device cannot shrink
// or grow.
func (f *file) Setattr(ctx context.Context, fh fs.FileHandle, in *fuse.SetAttrIn, out *fuse.AttrOut) syscall.Errno {
	if sz, ok := in.GetSize(); ok && sz != uint64(f.lin.Size()) {
		return syscall.EPERM
	}
	return f.Getattr(ctx, fh, out)
}

type handle struct {
	lin *Linear
}

var _ = (fs.FileReader)((*handle)(nil))
var _ = (fs.FileWriter)((*handle)(nil))

func (h *handle) Read(ctx context.Context, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	n, err := h.lin.ReadAt(dest, off)
	if err != nil && err != io.EOF {
		util.DPrintf(1, "fusefs: read %d at %d: %v\n", len(dest), off, err)
		return nil, toErrno(err)
	}
	return fuse.ReadResultData(dest[:n]), 0
}

func (h *handle) Write(ctx context.Context, data []byte, off int64) (uint32, syscall.Errno) {
	n, err := h.lin.WriteAt(data, off)
	if err != nil {
		util.DPrintf(1, "fusefs: write %d at %d: %v\n", len(data), off, err)
		if n > 0 {
			return uint32(n), 0
		}
		return 0, toErrno(err)
	}
	return uint32(n), 0
}

func toErrno(err error) syscall.Errno {
	switch {
	case errors.Is(err, mdadm.ErrOutOfBounds), err == io.ErrShortWrite:
		return syscall.ENOSPC
	case errors.Is(err, mdadm.ErrNotMounted):
		return syscall.ENODEV
	}
	return syscall.EIO
}

// Mount mounts the device behind lin if needed and serves it at dir.
// Unmounting the server leaves the device mounted; call lin.Close after
// the server exits.
func Mount(dir string, lin *Linear, debug bool) (*fuse.Server, error) {
	lin.mu.Lock()
	var err error
	if !lin.dev.Mounted() {
		err = lin.dev.Mount()
	}
	lin.mu.Unlock()
	if err != nil {
		return nil, err
	}
	opts := &fs.Options{}
	opts.Debug = debug
	return fs.Mount(dir, MkRoot(lin), opts)
}
