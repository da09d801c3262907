package jbod

import (
	"fmt"

	"github.com/mit-pdos/go-mdadm/common"
)

// Cmd is a JBOD opcode.
type Cmd uint32

const (
	CmdMount Cmd = iota
	CmdUnmount
	CmdSeekToDisk
	CmdSeekToBlock
	CmdReadBlock
	CmdWriteBlock
	numCmds
)

var cmdNames = [...]string{
	CmdMount:       "MOUNT",
	CmdUnmount:     "UNMOUNT",
	CmdSeekToDisk:  "SEEK_TO_DISK",
	CmdSeekToBlock: "SEEK_TO_BLOCK",
	CmdReadBlock:   "READ_BLOCK",
	CmdWriteBlock:  "WRITE_BLOCK",
}

func (c Cmd) String() string {
	if c < numCmds {
		return cmdNames[c]
	}
	return fmt.Sprintf("CMD(%d)", uint32(c))
}

const (
	cmdShift   = common.ReservedBits
	blockShift = cmdShift + common.CmdBits
	diskShift  = blockShift + common.BlockBits

	reservedMask = 1<<common.ReservedBits - 1
	cmdMask      = 1<<common.CmdBits - 1
	blockMask    = 1<<common.BlockBits - 1
	diskMask     = 1<<common.DiskBits - 1
)

// Op is a packed command word: reserved in bits [0,14), command in [14,20),
// block in [20,28) and disk in [28,32).
type Op uint32

// Encode packs a command word. Values must fit their fields; wider values
// are not checked and corrupt neighboring fields.
func Encode(reserved uint32, cmd Cmd, block uint32, disk uint32) Op {
	return Op(reserved | uint32(cmd)<<cmdShift | block<<blockShift | disk<<diskShift)
}

func (op Op) Reserved() uint32 { return uint32(op) & reservedMask }
func (op Op) Command() Cmd     { return Cmd(uint32(op) >> cmdShift & cmdMask) }
func (op Op) Block() uint32    { return uint32(op) >> blockShift & blockMask }
func (op Op) Disk() uint32     { return uint32(op) >> diskShift & diskMask }

func (op Op) String() string {
	switch op.Command() {
	case CmdSeekToDisk:
		return fmt.Sprintf("%v(%d)", op.Command(), op.Disk())
	case CmdSeekToBlock:
		return fmt.Sprintf("%v(%d)", op.Command(), op.Block())
	}
	return op.Command().String()
}
