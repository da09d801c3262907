package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/mit-pdos/go-mdadm/common"
	"github.com/mit-pdos/go-mdadm/disk"
	"github.com/mit-pdos/go-mdadm/jbod"
	"github.com/mit-pdos/go-mdadm/mdadm"
	"github.com/mit-pdos/go-mdadm/workload"
)

func main() {
	backend := flag.String("backend", "mem", "disk backend (mem|file|goose)")
	dir := flag.String("dir", ".", "directory holding disk images for -backend=file")
	workloadPath := flag.String("workload", "", "replay the workload file")
	tracePath := flag.String("trace", "", "write the encoded JBOD op log here on exit")
	shell := flag.Bool("shell", false, "start an interactive console")
	flag.Parse()
	defer glog.Flush()

	if *workloadPath == "" && !*shell {
		fmt.Printf("Usage:\n  mdadm [options] -workload <file> | -shell\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if err := run(*backend, *dir, *workloadPath, *tracePath, *shell); err != nil {
		glog.Errorf("mdadm: %v", err)
		glog.Flush()
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
}

func run(backend, dir, workloadPath, tracePath string, shell bool) error {
	if err := common.CheckGeometry(); err != nil {
		return err
	}
	disks, err := disk.Open(backend, dir, common.NumDisks, common.BlocksPerDisk)
	if err != nil {
		return err
	}
	j, err := jbod.MkJBOD(disks)
	if err != nil {
		disk.CloseAll(disks)
		return err
	}
	defer j.Close()

	rec := jbod.MkRecorder(j)
	dev := mdadm.Mk(rec)

	if workloadPath != "" {
		f, err := os.Open(workloadPath)
		if err != nil {
			return err
		}
		cmds, err := workload.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", workloadPath, err)
		}
		failed, err := workload.Run(dev, cmds, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Printf("%d commands, %d failed, %d device ops\n",
			len(cmds), failed, len(rec.Ops()))
	}
	if shell {
		runShell(dev)
	}
	if err := j.Sync(); err != nil {
		return err
	}
	if tracePath != "" {
		if err := os.WriteFile(tracePath, rec.Encode(), 0644); err != nil {
			return err
		}
	}
	return nil
}
