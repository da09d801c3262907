// Package jbod is the block-granular device primitive behind the linear
// device: an array of disks driven one command word at a time.
package jbod

import (
	"errors"
	"fmt"

	"github.com/mit-pdos/go-mdadm/common"
	"github.com/mit-pdos/go-mdadm/disk"
	"github.com/mit-pdos/go-mdadm/util"
)

var (
	ErrUnmounted      = errors.New("jbod: not mounted")
	ErrAlreadyMounted = errors.New("jbod: already mounted")
	ErrBadDisk        = errors.New("jbod: invalid disk")
	ErrBadBlock       = errors.New("jbod: invalid block")
	ErrBadCmd         = errors.New("jbod: invalid command")
	ErrNilBuffer      = errors.New("jbod: block buffer required")
)

// Device executes one command word, reading or writing at most one block.
type Device interface {
	Execute(op Op, buf disk.Block) error
}

// Stats counts executed commands by opcode.
type Stats [numCmds]uint64

func (s Stats) Get(c Cmd) uint64 {
	return s[c]
}

// Total is the number of commands executed.
func (s Stats) Total() uint64 {
	var n uint64
	for _, c := range s {
		n += c
	}
	return n
}

var _ Device = (*JBOD)(nil)

// JBOD is a bunch of disks addressed by a current (disk, block) position.
type JBOD struct {
	disks   []disk.Disk
	mounted bool
	curDisk uint64
	curBlk  uint64
	stats   Stats
}

// MkJBOD drives disks, which must each hold BlocksPerDisk blocks.
func MkJBOD(disks []disk.Disk) (*JBOD, error) {
	if uint64(len(disks)) > common.NumDisks {
		return nil, fmt.Errorf("jbod: %d disks, at most %d supported",
			len(disks), common.NumDisks)
	}
	for i, d := range disks {
		sz, err := d.Size()
		if err != nil {
			return nil, fmt.Errorf("jbod: size of disk %d: %w", i, err)
		}
		if sz != common.BlocksPerDisk {
			return nil, fmt.Errorf("jbod: disk %d has %d blocks, want %d",
				i, sz, common.BlocksPerDisk)
		}
	}
	return &JBOD{disks: disks}, nil
}

// MkMemJBOD is a full-size array of in-memory disks.
func MkMemJBOD() *JBOD {
	disks := make([]disk.Disk, common.NumDisks)
	for i := range disks {
		disks[i] = disk.NewMemDisk(common.BlocksPerDisk)
	}
	j, err := MkJBOD(disks)
	if err != nil {
		panic(err)
	}
	return j
}

func (j *JBOD) Stats() Stats {
	return j.stats
}

func (j *JBOD) checkBuf(buf disk.Block) error {
	if buf == nil {
		return ErrNilBuffer
	}
	if uint64(len(buf)) != disk.BlockSize {
		return fmt.Errorf("jbod: buffer of %d bytes is not block-sized", len(buf))
	}
	return nil
}

// advance moves to the next block after a transfer, as the hardware does.
func (j *JBOD) advance() {
	j.curBlk++
	if j.curBlk == common.BlocksPerDisk {
		j.curBlk = 0
		j.curDisk++
	}
}

func (j *JBOD) Execute(op Op, buf disk.Block) error {
	cmd := op.Command()
	util.DPrintf(10, "jbod: %v\n", op)
	if cmd >= numCmds {
		return fmt.Errorf("%w: %d", ErrBadCmd, uint32(cmd))
	}
	if cmd == CmdMount {
		if j.mounted {
			return ErrAlreadyMounted
		}
		j.mounted = true
		j.curDisk, j.curBlk = 0, 0
		j.stats[cmd]++
		return nil
	}
	if !j.mounted {
		return ErrUnmounted
	}
	var err error
	switch cmd {
	case CmdUnmount:
		j.mounted = false
	case CmdSeekToDisk:
		if uint64(op.Disk()) >= uint64(len(j.disks)) {
			return fmt.Errorf("%w: %d", ErrBadDisk, op.Disk())
		}
		j.curDisk = uint64(op.Disk())
	case CmdSeekToBlock:
		if uint64(op.Block()) >= common.BlocksPerDisk {
			return fmt.Errorf("%w: %d", ErrBadBlock, op.Block())
		}
		j.curBlk = uint64(op.Block())
	case CmdReadBlock, CmdWriteBlock:
		if err = j.checkBuf(buf); err != nil {
			return err
		}
		if j.curDisk >= uint64(len(j.disks)) {
			return fmt.Errorf("%w: %d", ErrBadDisk, j.curDisk)
		}
		d := j.disks[j.curDisk]
		if cmd == CmdReadBlock {
			err = d.ReadTo(j.curBlk, buf)
		} else {
			err = d.Write(j.curBlk, buf)
		}
		if err != nil {
			return fmt.Errorf("jbod: %v at %d:%d: %w", cmd, j.curDisk, j.curBlk, err)
		}
		j.advance()
	}
	j.stats[cmd]++
	return nil
}

// Sync flushes every disk.
func (j *JBOD) Sync() error {
	for i, d := range j.disks {
		if err := d.Barrier(); err != nil {
			return fmt.Errorf("jbod: barrier on disk %d: %w", i, err)
		}
	}
	return nil
}

func (j *JBOD) Close() error {
	return disk.CloseAll(j.disks)
}
