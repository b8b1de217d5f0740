//go:build linux

package table

import (
	"os"

	"golang.org/x/sys/unix"
)

func adviseSequential(f *os.File, size int64) error {
	return unix.Fadvise(int(f.Fd()), 0, size, unix.FADV_SEQUENTIAL)
}
