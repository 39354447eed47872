//go:build windows

package snapshot

import "os"

// openFileNoFollow opens path for writing. O_NOFOLLOW is not available on
// Windows; the destination symlink check in copyFile still applies.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}

// replaceFile renames src over dst (MoveFileEx with MOVEFILE_REPLACE_EXISTING).
func replaceFile(src, dst string) error {
	return os.Rename(src, dst)
}
