// Package workload replays text workloads against a linear device.
//
// A workload has one command per line:
//
//	MOUNT
//	UNMOUNT
//	READ <addr> <len>
//	WRITE <addr> <len> <fill byte>
//	SIGNALL
//
// Blank lines and lines starting with # are ignored.
package workload

import (
	"bufio"
	"fmt"
	"hash/crc32"
	"io"
	"strconv"
	"strings"

	"github.com/mit-pdos/go-mdadm/common"
	"github.com/mit-pdos/go-mdadm/mdadm"
	"github.com/mit-pdos/go-mdadm/util"
)

type Kind int

const (
	Mount Kind = iota
	Unmount
	Read
	Write
	SignAll
)

var kinds = map[string]Kind{
	"MOUNT":   Mount,
	"UNMOUNT": Unmount,
	"READ":    Read,
	"WRITE":   Write,
	"SIGNALL": SignAll,
}

// number of arguments after the keyword
var arity = map[Kind]int{Mount: 0, Unmount: 0, Read: 2, Write: 3, SignAll: 0}

type Cmd struct {
	Line int
	Kind Kind
	Addr uint32
	Len  uint32
	Fill byte
}

func (c Cmd) String() string {
	switch c.Kind {
	case Read:
		return fmt.Sprintf("READ %d %d", c.Addr, c.Len)
	case Write:
		return fmt.Sprintf("WRITE %d %d %d", c.Addr, c.Len, c.Fill)
	}
	for name, k := range kinds {
		if k == c.Kind {
			return name
		}
	}
	return fmt.Sprintf("Kind(%d)", int(c.Kind))
}

// ParseLine parses one workload line. ok is false for blank and comment
// lines.
func ParseLine(line string) (cmd Cmd, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Cmd{}, false, nil
	}
	f := strings.Fields(line)
	kind, found := kinds[strings.ToUpper(f[0])]
	if !found {
		return Cmd{}, false, fmt.Errorf("unknown command %q", f[0])
	}
	if len(f)-1 != arity[kind] {
		return Cmd{}, false, fmt.Errorf("%s takes %d arguments, got %d",
			f[0], arity[kind], len(f)-1)
	}
	cmd = Cmd{Kind: kind}
	if kind == Read || kind == Write {
		a, err := strconv.ParseUint(f[1], 0, 32)
		if err != nil {
			return Cmd{}, false, fmt.Errorf("address: %w", err)
		}
		n, err := strconv.ParseUint(f[2], 0, 32)
		if err != nil {
			return Cmd{}, false, fmt.Errorf("length: %w", err)
		}
		cmd.Addr, cmd.Len = uint32(a), uint32(n)
	}
	if kind == Write {
		b, err := strconv.ParseUint(f[3], 0, 8)
		if err != nil {
			return Cmd{}, false, fmt.Errorf("fill byte: %w", err)
		}
		cmd.Fill = byte(b)
	}
	return cmd, true, nil
}

// Parse reads a whole workload.
func Parse(r io.Reader) ([]Cmd, error) {
	var cmds []Cmd
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		cmd, ok, err := ParseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if ok {
			cmd.Line = n
			cmds = append(cmds, cmd)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

// TransferBuf allocates a buffer for an n-byte transfer, refusing lengths
// the device would reject anyway.
func TransferBuf(n uint32) ([]byte, error) {
	if uint64(n) > common.MaxIOSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", mdadm.ErrTransferTooLarge,
			n, common.MaxIOSize)
	}
	return make([]byte, n), nil
}

// Apply runs cmd against dev, reporting READ and SIGNALL results to out.
func (c Cmd) Apply(dev *mdadm.Device, out io.Writer) error {
	switch c.Kind {
	case Mount:
		return dev.Mount()
	case Unmount:
		return dev.Unmount()
	case Read:
		buf, err := TransferBuf(c.Len)
		if err != nil {
			return err
		}
		n, err := dev.Read(c.Addr, c.Len, buf)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%v: %d bytes crc32 %08x\n", c, n, crc32.ChecksumIEEE(buf))
		return err
	case Write:
		buf, err := TransferBuf(c.Len)
		if err != nil {
			return err
		}
		for i := range buf {
			buf[i] = c.Fill
		}
		_, err = dev.Write(c.Addr, c.Len, buf)
		return err
	case SignAll:
		sums, err := Sign(dev)
		if err != nil {
			return err
		}
		for i, s := range sums {
			if _, err := fmt.Fprintf(out, "disk %2d crc32 %08x\n", i, s); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown command kind %d", c.Kind)
}

// Sign checksums each disk's share of the linear address space.
func Sign(dev *mdadm.Device) ([]uint32, error) {
	sums := make([]uint32, common.NumDisks)
	buf := make([]byte, common.MaxIOSize)
	for i := range sums {
		h := crc32.NewIEEE()
		base := uint64(i) * common.DiskSize
		for off := uint64(0); off < common.DiskSize; off += common.MaxIOSize {
			n := util.Min(common.MaxIOSize, common.DiskSize-off)
			if _, err := dev.Read(uint32(base+off), uint32(n), buf); err != nil {
				return nil, err
			}
			h.Write(buf[:n])
		}
		sums[i] = h.Sum32()
	}
	return sums, nil
}

// Exec parses and applies a single line.
func Exec(dev *mdadm.Device, line string, out io.Writer) error {
	cmd, ok, err := ParseLine(line)
	if err != nil || !ok {
		return err
	}
	return cmd.Apply(dev, out)
}

// Run applies every command in order. A failing command is reported to out
// and does not stop the run; Run returns how many commands failed.
func Run(dev *mdadm.Device, cmds []Cmd, out io.Writer) (int, error) {
	failed := 0
	for _, c := range cmds {
		err := c.Apply(dev, out)
		if err == nil {
			continue
		}
		failed++
		util.DPrintf(1, "workload: line %d: %v: %v\n", c.Line, c, err)
		if _, werr := fmt.Fprintf(out, "line %d: %v: %v\n", c.Line, c, err); werr != nil {
			return failed, werr
		}
	}
	return failed, nil
}
