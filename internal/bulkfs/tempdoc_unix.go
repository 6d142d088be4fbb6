//go:build unix

package bulkfs

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// unlinkViaHeldDescriptor removes path, first confirming via fstat/lstat
// that path still refers to the same inode the held descriptor was opened
// against. This avoids a TOCTOU race with another process that may have
// created a new file of the same name in between.
func unlinkViaHeldDescriptor(path string, f *os.File) error {
	var heldStat unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &heldStat); err != nil {
		// Descriptor is already gone; best effort by path.
		return removeIfSameOrMissing(path, nil)
	}
	return removeIfSameOrMissing(path, &heldStat)
}

func removeIfSameOrMissing(path string, heldStat *unix.Stat_t) error {
	var onDisk unix.Stat_t
	err := unix.Lstat(path, &onDisk)
	switch {
	case err == nil:
		if heldStat != nil && (onDisk.Dev != heldStat.Dev || onDisk.Ino != heldStat.Ino) {
			// A different file now occupies this name; nothing of ours to
			// remove, so leave it alone rather than unlinking a stranger.
			return nil
		}
		if rmErr := unix.Unlink(path); rmErr != nil && rmErr != syscall.ENOENT {
			return fmt.Errorf("unlinking temp document: %w", rmErr)
		}
		return nil
	case err == syscall.ENOENT:
		return nil
	default:
		return fmt.Errorf("stat temp document before unlink: %w", err)
	}
}
