package jbod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	var tests = []struct {
		reserved uint32
		cmd      Cmd
		block    uint32
		disk     uint32
		word     uint32
	}{
		{0, CmdMount, 0, 0, 0},
		{0, CmdUnmount, 0, 0, 1 << 14},
		{0, CmdSeekToDisk, 0, 15, 2<<14 | 15<<28},
		{0, CmdSeekToBlock, 255, 0, 3<<14 | 255<<20},
		{0, CmdWriteBlock, 0, 0, 5 << 14},
		{1<<14 - 1, CmdReadBlock, 7, 3, 1<<14 - 1 | 4<<14 | 7<<20 | 3<<28},
	}
	for _, tt := range tests {
		op := Encode(tt.reserved, tt.cmd, tt.block, tt.disk)
		assert.Equal(t, tt.word, uint32(op), "%v", op)
		assert.Equal(t, tt.reserved, op.Reserved())
		assert.Equal(t, tt.cmd, op.Command())
		assert.Equal(t, tt.block, op.Block())
		assert.Equal(t, tt.disk, op.Disk())
	}
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "SEEK_TO_DISK(3)", Encode(0, CmdSeekToDisk, 0, 3).String())
	assert.Equal(t, "SEEK_TO_BLOCK(9)", Encode(0, CmdSeekToBlock, 9, 0).String())
	assert.Equal(t, "READ_BLOCK", Encode(0, CmdReadBlock, 0, 0).String())
	assert.Equal(t, "CMD(42)", Encode(0, Cmd(42), 0, 0).String())
}
