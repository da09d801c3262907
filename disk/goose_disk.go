package disk

import (
	"fmt"

	gdisk "github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/go-mdadm/util"
)

// per goose block
const blocksPerGooseBlock = gdisk.BlockSize / BlockSize

var _ Disk = (*gooseDisk)(nil)

// gooseDisk packs small blocks into the 4096-byte blocks of a goose disk.
type gooseDisk struct {
	d         gdisk.Disk
	numBlocks uint64
}

// NewGooseDisk exposes d as a disk of BlockSize blocks.
func NewGooseDisk(d gdisk.Disk) Disk {
	return gooseDisk{d: d, numBlocks: d.Size() * blocksPerGooseBlock}
}

// NewGooseMemDisk backs numBlocks blocks with an in-memory goose disk.
func NewGooseMemDisk(numBlocks uint64) Disk {
	n := util.RoundUp(numBlocks*BlockSize, gdisk.BlockSize)
	return gooseDisk{d: gdisk.NewMemDisk(n), numBlocks: numBlocks}
}

func (d gooseDisk) locate(a uint64) (uint64, uint64) {
	if a >= d.numBlocks {
		panic(fmt.Errorf("out-of-bounds access at %v", a))
	}
	return a / blocksPerGooseBlock, (a % blocksPerGooseBlock) * BlockSize
}

func (d gooseDisk) ReadTo(a uint64, buf Block) error {
	if uint64(len(buf)) != BlockSize {
		panic("buffer is not block-sized")
	}
	gb, off := d.locate(a)
	big := d.d.Read(gb)
	copy(buf, big[off:off+BlockSize])
	return nil
}

func (d gooseDisk) Read(a uint64) (Block, error) {
	buf := make(Block, BlockSize)
	err := d.ReadTo(a, buf)
	return buf, err
}

func (d gooseDisk) Write(a uint64, v Block) error {
	if uint64(len(v)) != BlockSize {
		panic(fmt.Errorf("v is not block-sized (%d bytes)", len(v)))
	}
	gb, off := d.locate(a)
	big := d.d.Read(gb)
	copy(big[off:off+BlockSize], v)
	d.d.Write(gb, big)
	return nil
}

func (d gooseDisk) Size() (uint64, error) {
	return d.numBlocks, nil
}

func (d gooseDisk) Barrier() error {
	d.d.Barrier()
	return nil
}

func (d gooseDisk) Close() error {
	d.d.Close()
	return nil
}
