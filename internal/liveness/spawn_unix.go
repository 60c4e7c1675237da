//go:build unix

package liveness

import "syscall"

// detachedProcAttr starts the watcher in its own session so killing the
// hook's process group doesn't take the watcher with it.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
