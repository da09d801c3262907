package common

import (
	"fmt"
)

// Geometry of the disk array behind the linear device.
const (
	NumDisks      uint64 = 16
	DiskSize      uint64 = 65536 // bytes per disk
	BlockSize     uint64 = 256   // bytes per block
	BlocksPerDisk        = DiskSize / BlockSize
	AddrSpaceSize        = NumDisks * DiskSize

	// MaxIOSize bounds a single linear read or write.
	MaxIOSize uint64 = 1024
)

// Field widths of the command word, low to high.
const (
	ReservedBits uint64 = 14
	CmdBits      uint64 = 6
	BlockBits    uint64 = 8
	DiskBits     uint64 = 4
)

type Dnum = uint64
type Bnum = uint64

// CheckGeometry reports a configuration error if the geometry does not fit
// the command word.
func CheckGeometry() error {
	if BlockSize == 0 || DiskSize%BlockSize != 0 {
		return fmt.Errorf("block size %d does not divide disk size %d",
			BlockSize, DiskSize)
	}
	if BlocksPerDisk > 1<<BlockBits {
		return fmt.Errorf("%d blocks per disk overflow a %d-bit block field",
			BlocksPerDisk, BlockBits)
	}
	if NumDisks > 1<<DiskBits {
		return fmt.Errorf("%d disks overflow a %d-bit disk field",
			NumDisks, DiskBits)
	}
	if ReservedBits+CmdBits+BlockBits+DiskBits != 32 {
		return fmt.Errorf("command word fields do not add up to 32 bits")
	}
	return nil
}
