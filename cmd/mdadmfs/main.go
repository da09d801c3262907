package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/mit-pdos/go-mdadm/common"
	"github.com/mit-pdos/go-mdadm/disk"
	"github.com/mit-pdos/go-mdadm/fusefs"
	"github.com/mit-pdos/go-mdadm/jbod"
	"github.com/mit-pdos/go-mdadm/mdadm"
)

func main() {
	backend := flag.String("backend", "file", "disk backend (mem|file|goose)")
	dir := flag.String("dir", ".", "directory holding disk images for -backend=file")
	debug := flag.Bool("debug", false, "print FUSE debug information")
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 1 {
		fmt.Printf("Usage:\n  mdadmfs [options] <mount point>\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	disks, err := disk.Open(*backend, *dir, common.NumDisks, common.BlocksPerDisk)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	j, err := jbod.MkJBOD(disks)
	if err != nil {
		disk.CloseAll(disks)
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	defer j.Close()

	lin := fusefs.MkLinear(mdadm.Mk(j))
	server, err := fusefs.Mount(flag.Arg(0), lin, *debug)
	if err != nil {
		glog.Errorf("mount %s: %v", flag.Arg(0), err)
		fmt.Printf("ERROR: %s\n", err)
		return
	}
	fmt.Printf("serving %s/%s (%d bytes)\n", flag.Arg(0), fusefs.FileName, common.AddrSpaceSize)

	server.Wait()

	if err := j.Sync(); err != nil {
		glog.Errorf("sync: %v", err)
	}
	if err := lin.Close(); err != nil {
		glog.Errorf("unmount: %v", err)
	}
}
