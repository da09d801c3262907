package util

import (
	"github.com/golang/glog"
)

// DPrintf logs at glog verbosity level; run with -v=N to see levels <= N.
func DPrintf(level uint64, format string, a ...interface{}) {
	glog.V(glog.Level(level)).Infof(format, a...)
}

func RoundUp(n uint64, sz uint64) uint64 {
	return (n + sz - 1) / sz
}

func Min(n uint64, m uint64) uint64 {
	if n < m {
		return n
	} else {
		return m
	}
}
