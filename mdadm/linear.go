package mdadm

import (
	"github.com/mit-pdos/go-mdadm/addr"
	"github.com/mit-pdos/go-mdadm/common"
	"github.com/mit-pdos/go-mdadm/jbod"
	"github.com/mit-pdos/go-mdadm/util"
)

type block = [common.BlockSize]byte

// step transfers part between the caller and the block at a, whose current
// contents are in blk. len(part) never exceeds a.SpaceLeft().
type step func(a addr.Addr, blk *block, part []byte) error

// split walks [start, start+length) one block at a time, handing each step
// the caller's sub-range for that block.
func (d *Device) split(start uint32, length uint32, buf []byte, f step) error {
	var scratch block
	x := uint64(start)
	y := x + uint64(length)
	consumed := uint64(0)
	for x < y {
		a := addr.MkAddr(x)
		if err := d.seek(a); err != nil {
			return err
		}
		if err := d.exec(jbod.Encode(0, jbod.CmdReadBlock, 0, 0), scratch[:]); err != nil {
			return err
		}
		n := util.Min(a.SpaceLeft(), y-x)
		util.DPrintf(10, "mdadm: block %v at %d: %d bytes\n", a, a.Flatid(), n)
		if err := f(a, &scratch, buf[consumed:consumed+n]); err != nil {
			return err
		}
		consumed += n
		x += n
	}
	return nil
}

func (d *Device) seek(a addr.Addr) error {
	err := d.exec(jbod.Encode(0, jbod.CmdSeekToDisk, 0, uint32(a.Disk)), nil)
	if err != nil {
		return err
	}
	return d.exec(jbod.Encode(0, jbod.CmdSeekToBlock, uint32(a.Block), 0), nil)
}

func (d *Device) readStep(a addr.Addr, blk *block, part []byte) error {
	copy(part, blk[a.Off:])
	return nil
}

// readModifyWrite stores part into the block at a. blk already holds the
// block as read from disk; bytes outside part are written back unchanged.
func (d *Device) readModifyWrite(a addr.Addr, blk *block, part []byte) error {
	patchBlock(blk, a.Off, part)
	if err := d.seek(a); err != nil {
		return err
	}
	return d.exec(jbod.Encode(0, jbod.CmdWriteBlock, 0, 0), blk[:])
}

// patchBlock overwrites blk[off:off+len(part)] with part.
func patchBlock(blk *block, off uint64, part []byte) {
	copy(blk[off:off+uint64(len(part))], part)
}
