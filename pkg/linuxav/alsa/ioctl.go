//go:build linux

package alsa

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

// IoctlError is returned when the kernel rejects a request. Err is the
// errno, so errors.Is(err, unix.EBUSY) works through it.
type IoctlError struct {
	Op  string
	Err unix.Errno
}

func (e *IoctlError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *IoctlError) Unwrap() error { return e.Err }

// ioctl issues req on fd, restarting after signal interruption.
func ioctl(fd int, op string, req uintptr, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
		switch errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		default:
			return &IoctlError{Op: op, Err: errno}
		}
	}
}

// IsBusy reports whether err means another process holds the device.
func IsBusy(err error) bool {
	return errors.Is(err, unix.EBUSY) || errors.Is(err, unix.EAGAIN)
}
