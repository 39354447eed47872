//go:build !windows

package snapshot

import (
	"os"
	"syscall"
)

// openFileNoFollow opens path with O_NOFOLLOW so a planted symlink at the
// temp location cannot redirect the write. O_CLOEXEC prevents FD leaks across exec.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, uint32(perm))
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return os.NewFile(uintptr(fd), path), nil
}

// replaceFile renames src over dst. POSIX rename replaces atomically.
func replaceFile(src, dst string) error {
	return os.Rename(src, dst)
}
