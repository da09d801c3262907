package disk

import (
	"fmt"
	"path/filepath"
)

// Open creates n disks of numBlocks blocks each on the named backend
// ("mem", "file" or "goose"). dir is only used by the file backend.
func Open(backend string, dir string, n uint64, numBlocks uint64) ([]Disk, error) {
	var disks []Disk
	for i := uint64(0); i < n; i++ {
		var d Disk
		var err error
		switch backend {
		case "mem":
			d = NewMemDisk(numBlocks)
		case "goose":
			d = NewGooseMemDisk(numBlocks)
		case "file":
			d, err = NewFileDisk(filepath.Join(dir, fmt.Sprintf("disk%02d.img", i)), numBlocks)
		default:
			err = fmt.Errorf("unknown disk backend %q", backend)
		}
		if err != nil {
			CloseAll(disks)
			return nil, err
		}
		disks = append(disks, d)
	}
	return disks, nil
}

// CloseAll closes every disk and returns the first error.
func CloseAll(disks []Disk) error {
	var first error
	for _, d := range disks {
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
