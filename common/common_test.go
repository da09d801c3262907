package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeometry(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(CheckGeometry())
	assert.Equal(uint64(256), BlocksPerDisk)
	assert.Equal(uint64(1<<20), AddrSpaceSize)
	assert.Equal(uint64(0), DiskSize%BlockSize, "blocks tile a disk exactly")
}
