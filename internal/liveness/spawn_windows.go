//go:build windows

package liveness

import "syscall"

const createNewProcessGroup = 0x00000200

// detachedProcAttr starts the watcher in its own process group
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}
