// Package mdadm presents a JBOD disk array as one linear, byte-addressable
// device.
//
// A Device must be mounted before it transfers data. Reads and writes of at
// most MaxIOSize bytes at any linear address are split into per-block
// commands; writes read-modify-write each block they touch. A Device is not
// safe for concurrent use: callers share the JBOD seek position and must
// serialize externally.
package mdadm

import (
	"errors"
	"fmt"

	"github.com/mit-pdos/go-mdadm/common"
	"github.com/mit-pdos/go-mdadm/jbod"
	"github.com/mit-pdos/go-mdadm/util"
)

var (
	ErrNotMounted       = errors.New("mdadm: device not mounted")
	ErrAlreadyMounted   = errors.New("mdadm: device already mounted")
	ErrAlreadyUnmounted = errors.New("mdadm: device already unmounted")
	ErrTransferTooLarge = errors.New("mdadm: transfer too large")
	ErrOutOfBounds      = errors.New("mdadm: address out of bounds")
	ErrNullBuffer       = errors.New("mdadm: missing buffer")
	ErrShortBuffer      = errors.New("mdadm: buffer shorter than transfer")
)

// Device is a linear device over a JBOD.
type Device struct {
	jbod    jbod.Device
	mounted bool
}

func Mk(d jbod.Device) *Device {
	return &Device{jbod: d}
}

func (d *Device) Mounted() bool {
	return d.mounted
}

func (d *Device) Mount() error {
	if d.mounted {
		return ErrAlreadyMounted
	}
	if err := d.exec(jbod.Encode(0, jbod.CmdMount, 0, 0), nil); err != nil {
		return err
	}
	d.mounted = true
	util.DPrintf(1, "mdadm: mounted\n")
	return nil
}

func (d *Device) Unmount() error {
	if !d.mounted {
		return ErrAlreadyUnmounted
	}
	if err := d.exec(jbod.Encode(0, jbod.CmdUnmount, 0, 0), nil); err != nil {
		return err
	}
	d.mounted = false
	util.DPrintf(1, "mdadm: unmounted\n")
	return nil
}

func (d *Device) exec(op jbod.Op, buf []byte) error {
	if err := d.jbod.Execute(op, buf); err != nil {
		return fmt.Errorf("mdadm: %v: %w", op, err)
	}
	return nil
}

// validate rejects a transfer before any command is issued.
func (d *Device) validate(start uint32, length uint32, buf []byte) error {
	if !d.mounted {
		return ErrNotMounted
	}
	if uint64(length) > common.MaxIOSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrTransferTooLarge,
			length, common.MaxIOSize)
	}
	// start > AddrSpaceSize alone is implied by the sum check; kept as a guard.
	end := uint64(start) + uint64(length)
	if uint64(start) > common.AddrSpaceSize || end > common.AddrSpaceSize {
		return fmt.Errorf("%w: [%d, %d) outside [0, %d)", ErrOutOfBounds,
			start, end, common.AddrSpaceSize)
	}
	if buf == nil && length > 0 {
		return ErrNullBuffer
	}
	if uint64(len(buf)) < uint64(length) {
		return fmt.Errorf("%w: %d < %d", ErrShortBuffer, len(buf), length)
	}
	return nil
}

// Read reads length bytes at linear address start into buf.
func (d *Device) Read(start uint32, length uint32, buf []byte) (uint32, error) {
	if err := d.validate(start, length, buf); err != nil {
		return 0, err
	}
	util.DPrintf(5, "mdadm: read [%d, %d)\n", start, uint64(start)+uint64(length))
	err := d.split(start, length, buf, d.readStep)
	if err != nil {
		return 0, err
	}
	return length, nil
}

// Write writes length bytes of buf at linear address start.
func (d *Device) Write(start uint32, length uint32, buf []byte) (uint32, error) {
	if err := d.validate(start, length, buf); err != nil {
		return 0, err
	}
	util.DPrintf(5, "mdadm: write [%d, %d)\n", start, uint64(start)+uint64(length))
	err := d.split(start, length, buf, d.readModifyWrite)
	if err != nil {
		return 0, err
	}
	return length, nil
}
