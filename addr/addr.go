package addr

import (
	"fmt"

	"github.com/mit-pdos/go-mdadm/common"
)

// Addr identifies a byte of the linear device by its physical location.
//
// Disk is the disk index in the array, Block the block within that disk, and
// Off the byte offset within the block.
type Addr struct {
	Disk  common.Dnum
	Block common.Bnum
	Off   uint64
}

// Flatid is the linear address of a; MkAddr(a.Flatid()) == a.
func (a Addr) Flatid() uint64 {
	return a.Disk*common.DiskSize + a.Block*common.BlockSize + a.Off
}

// SpaceLeft is the number of bytes from a to the end of its block.
func (a Addr) SpaceLeft() uint64 {
	return common.BlockSize - a.Off
}

func (a Addr) String() string {
	return fmt.Sprintf("%d:%d+%d", a.Disk, a.Block, a.Off)
}

// MkAddr translates a linear address.
func MkAddr(linear uint64) Addr {
	inDisk := linear % common.DiskSize
	return Addr{
		Disk:  linear / common.DiskSize,
		Block: inDisk / common.BlockSize,
		Off:   inDisk % common.BlockSize,
	}
}
