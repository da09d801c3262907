package jbod

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mit-pdos/go-mdadm/common"
	"github.com/mit-pdos/go-mdadm/disk"
)

func block(b byte) disk.Block {
	blk := make(disk.Block, disk.BlockSize)
	for i := range blk {
		blk[i] = b
	}
	return blk
}

func exec(t *testing.T, d Device, cmd Cmd, blk uint32, dsk uint32, buf disk.Block) {
	t.Helper()
	err := d.Execute(Encode(0, cmd, blk, dsk), buf)
	assert.Nil(t, err, "%v", cmd)
}

func TestJBODMount(t *testing.T) {
	assert := assert.New(t)
	j := MkMemJBOD()

	err := j.Execute(Encode(0, CmdSeekToDisk, 0, 1), nil)
	assert.True(errors.Is(err, ErrUnmounted))

	exec(t, j, CmdMount, 0, 0, nil)
	err = j.Execute(Encode(0, CmdMount, 0, 0), nil)
	assert.Equal(ErrAlreadyMounted, err)

	exec(t, j, CmdUnmount, 0, 0, nil)
	err = j.Execute(Encode(0, CmdUnmount, 0, 0), nil)
	assert.Equal(ErrUnmounted, err)

	assert.Equal(uint64(1), j.Stats().Get(CmdMount))
	assert.Equal(uint64(1), j.Stats().Get(CmdUnmount))
	assert.Equal(uint64(2), j.Stats().Total(), "failed commands are not counted")
}

func TestJBODReadWrite(t *testing.T) {
	assert := assert.New(t)
	j := MkMemJBOD()
	exec(t, j, CmdMount, 0, 0, nil)

	exec(t, j, CmdSeekToDisk, 0, 15, nil)
	exec(t, j, CmdSeekToBlock, 255, 0, nil)
	exec(t, j, CmdWriteBlock, 0, 0, block(7))

	exec(t, j, CmdSeekToDisk, 0, 15, nil)
	exec(t, j, CmdSeekToBlock, 255, 0, nil)
	buf := make(disk.Block, disk.BlockSize)
	exec(t, j, CmdReadBlock, 0, 0, buf)
	assert.Equal(block(7), buf)

	exec(t, j, CmdSeekToDisk, 0, 14, nil)
	exec(t, j, CmdReadBlock, 0, 0, buf)
	assert.Equal(block(0), buf, "same block on another disk is untouched")
}

func TestJBODAdvance(t *testing.T) {
	assert := assert.New(t)
	j := MkMemJBOD()
	exec(t, j, CmdMount, 0, 0, nil)
	exec(t, j, CmdSeekToDisk, 0, 0, nil)
	exec(t, j, CmdSeekToBlock, 255, 0, nil)
	exec(t, j, CmdWriteBlock, 0, 0, block(1))
	// the write moved us to disk 1, block 0
	exec(t, j, CmdWriteBlock, 0, 0, block(2))

	buf := make(disk.Block, disk.BlockSize)
	exec(t, j, CmdSeekToDisk, 0, 1, nil)
	exec(t, j, CmdSeekToBlock, 0, 0, nil)
	exec(t, j, CmdReadBlock, 0, 0, buf)
	assert.Equal(block(2), buf)
}

func TestJBODErrors(t *testing.T) {
	assert := assert.New(t)
	disks := []disk.Disk{disk.NewMemDisk(common.BlocksPerDisk)}
	j, err := MkJBOD(disks)
	assert.Nil(err)
	exec(t, j, CmdMount, 0, 0, nil)

	err = j.Execute(Encode(0, CmdSeekToDisk, 0, 1), nil)
	assert.True(errors.Is(err, ErrBadDisk))
	err = j.Execute(Encode(0, CmdReadBlock, 0, 0), nil)
	assert.Equal(ErrNilBuffer, err)
	err = j.Execute(Encode(0, CmdWriteBlock, 0, 0), make(disk.Block, 10))
	assert.NotNil(err)
	err = j.Execute(Encode(0, Cmd(42), 0, 0), nil)
	assert.True(errors.Is(err, ErrBadCmd))

	_, err = MkJBOD([]disk.Disk{disk.NewMemDisk(3)})
	assert.NotNil(err, "wrong disk size")
}

func TestRecorder(t *testing.T) {
	assert := assert.New(t)
	r := MkRecorder(MkMemJBOD())
	exec(t, r, CmdMount, 0, 0, nil)
	exec(t, r, CmdSeekToDisk, 0, 3, nil)
	exec(t, r, CmdSeekToBlock, 9, 0, nil)
	exec(t, r, CmdReadBlock, 0, 0, make(disk.Block, disk.BlockSize))

	want := []Op{
		Encode(0, CmdMount, 0, 0),
		Encode(0, CmdSeekToDisk, 0, 3),
		Encode(0, CmdSeekToBlock, 9, 0),
		Encode(0, CmdReadBlock, 0, 0),
	}
	assert.Equal(want, r.Ops())

	ops, err := DecodeOps(r.Encode())
	assert.Nil(err)
	assert.Equal(want, ops)

	_, err = DecodeOps(r.Encode()[:20])
	assert.NotNil(err, "truncated log")

	r.Reset()
	assert.Equal(0, len(r.Ops()))
}
