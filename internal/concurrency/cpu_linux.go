//go:build linux

// File: internal/concurrency/cpu_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// platformCurrentCPUID resolves the current CPU via getcpu(2).
func platformCurrentCPUID() int {
	var cpu uint32
	_, _, errno := unix.Syscall(unix.SYS_GETCPU, uintptr(unsafe.Pointer(&cpu)), 0, 0)
	if errno != 0 {
		return 0
	}
	return int(cpu)
}
