//go:build linux

package procfs

import (
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/sys/unix"

	"i8kctl/internal/decimal"
)

// Generic _IOWR('i', nr, size_t) encoding from linux/i8k.h.
var (
	ioctlGetFan = iowr('i', 0x86, unsafe.Sizeof(uintptr(0)))
	ioctlSetFan = iowr('i', 0x87, unsafe.Sizeof(uintptr(0)))
)

func iowr(typ, nr, size uintptr) uintptr {
	const dirReadWrite = 3
	return dirReadWrite<<30 | size<<16 | typ<<8 | nr
}

// Device is an open handle on the i8k proc device.
//
// Not safe for concurrent use.
type Device struct {
	fd   int
	path string
}

func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("procfs: open %s: %w: %w", path, ErrUnavailable, err)
	}
	return &Device{fd: fd, path: path}, nil
}

func (d *Device) Close() error {
	if d == nil || d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

// FanState returns the raw state code the driver reports for fan.
func (d *Device) FanState(fan int) (int, error) {
	if fan < math.MinInt32 || fan > math.MaxInt32 {
		return 0, fmt.Errorf("procfs: fan %d: %w", fan, decimal.ErrOutOfRange)
	}
	args := [2]int32{int32(fan)}
	if err := d.ioctl(ioctlGetFan, &args); err != nil {
		return 0, fmt.Errorf("procfs: get fan %d: %w: %w", fan, ErrDeviceError, err)
	}
	return int(args[0]), nil
}

// SetFanState passes state through unvalidated; the driver decides which
// codes it accepts.
func (d *Device) SetFanState(fan, state int) error {
	if fan < math.MinInt32 || fan > math.MaxInt32 || state < math.MinInt32 || state > math.MaxInt32 {
		return fmt.Errorf("procfs: fan %d state %d: %w", fan, state, decimal.ErrOutOfRange)
	}
	args := [2]int32{int32(fan), int32(state)}
	if err := d.ioctl(ioctlSetFan, &args); err != nil {
		return fmt.Errorf("procfs: set fan %d: %w: %w", fan, ErrDeviceError, err)
	}
	return nil
}

func (d *Device) ioctl(req uintptr, args *[2]int32) error {
	if d == nil || d.fd < 0 {
		return unix.EBADF
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(unsafe.Pointer(args)))
	if errno != 0 {
		return errno
	}
	return nil
}
