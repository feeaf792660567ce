//go:build windows

package sysock

import (
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const (
	fionbio  = 0x8004667e
	fionread = 0x4004667f
	soError  = 0x1007
)

func ioctl(fd uintptr, code uint32, arg *uint32) error {
	var returned uint32
	return windows.WSAIoctl(windows.Handle(fd), code,
		(*byte)(unsafe.Pointer(arg)), uint32(unsafe.Sizeof(*arg)),
		(*byte)(unsafe.Pointer(arg)), uint32(unsafe.Sizeof(*arg)),
		&returned, nil, 0)
}

// recvNonblock turns FIONBIO on for a single synchronous WSARecv and turns it
// back off before returning. It yields WSAEWOULDBLOCK when nothing is queued
// and (0, nil) on an orderly close.
func recvNonblock(fd uintptr, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	on := uint32(1)
	if err := ioctl(fd, fionbio, &on); err != nil {
		return 0, errors.Wrap(err, "ioctlsocket FIONBIO")
	}
	defer func() {
		off := uint32(0)
		_ = ioctl(fd, fionbio, &off)
	}()

	buf := windows.WSABuf{Len: uint32(len(p)), Buf: &p[0]}
	var received, flags uint32
	if err := windows.WSARecv(windows.Handle(fd), &buf, 1, &received, &flags, nil, nil); err != nil {
		return 0, errors.Wrap(err, "WSARecv")
	}
	return int(received), nil
}

// readable reports whether FIONREAD sees queued bytes.
func readable(fd uintptr) bool {
	var avail uint32
	if err := ioctl(fd, fionread, &avail); err != nil {
		return true
	}
	return avail > 0
}

func pendingError(fd uintptr) error {
	var code int32
	size := int32(unsafe.Sizeof(code))
	err := windows.Getsockopt(windows.Handle(fd), windows.SOL_SOCKET, soError,
		(*byte)(unsafe.Pointer(&code)), &size)
	if err != nil {
		return errors.Wrap(err, "getsockopt SO_ERROR")
	}
	if code != 0 {
		return syscall.Errno(code)
	}
	return nil
}

func shutdown(fd uintptr) error {
	if err := windows.Shutdown(windows.Handle(fd), windows.SHUT_RDWR); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
