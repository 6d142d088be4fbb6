//go:build !unix

package bulkfs

import (
	"os"
)

// unlinkViaHeldDescriptor falls back to a plain path-based remove on
// platforms without POSIX *at()/inode-comparison semantics.
func unlinkViaHeldDescriptor(path string, _ *os.File) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
