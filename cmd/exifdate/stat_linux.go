//go:build linux

package main

import (
	"os"
	"syscall"
	"time"
)

// fileCreationTime returns the inode change time, the closest thing POSIX
// offers to a creation timestamp.
func fileCreationTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return info.ModTime()
}
