package main

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/mit-pdos/go-mdadm/mdadm"
	"github.com/mit-pdos/go-mdadm/workload"
)

var commands = []struct {
	name string
	help string
}{
	{"mount", "mount the linear device"},
	{"unmount", "unmount the linear device"},
	{"read", "read <addr> <len>: checksum a range"},
	{"write", "write <addr> <len> <byte>: fill a range"},
	{"signall", "checksum every disk"},
}

func runShell(dev *mdadm.Device) {
	shell := ishell.New()
	shell.Println("linear device console, 'help' lists commands")

	for _, cmd := range commands {
		name := cmd.name
		shell.AddCmd(&ishell.Cmd{
			Name: name,
			Help: cmd.help,
			Func: func(c *ishell.Context) {
				var out bytes.Buffer
				line := name + " " + strings.Join(c.Args, " ")
				if err := workload.Exec(dev, line, &out); err != nil {
					c.Println("error:", err)
					return
				}
				c.Print(out.String())
			},
		})
	}

	shell.AddCmd(&ishell.Cmd{
		Name: "dump",
		Help: "dump <addr> <len>: hex dump a range",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Println("usage: dump <addr> <len>")
				return
			}
			a, err := strconv.ParseUint(c.Args[0], 0, 32)
			if err != nil {
				c.Println("error:", err)
				return
			}
			n, err := strconv.ParseUint(c.Args[1], 0, 32)
			if err != nil {
				c.Println("error:", err)
				return
			}
			buf, err := workload.TransferBuf(uint32(n))
			if err != nil {
				c.Println("error:", err)
				return
			}
			if _, err := dev.Read(uint32(a), uint32(n), buf); err != nil {
				c.Println("error:", err)
				return
			}
			c.Print(hex.Dump(buf))
		},
	})

	shell.Run()
}
