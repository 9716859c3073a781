// Package procfs talks to the legacy i8k driver through its /proc device.
//
// The device answers two ioctls, both taking a small int array: I8K_GET_FAN
// with [fan] in and [state] out, and I8K_SET_FAN with [fan, state] in. Newer
// kernels no longer register the device; Open then fails with ErrUnavailable,
// which callers treat as a cue to use sysfs instead.
package procfs

import "errors"

const DefaultPath = "/proc/i8k"

var (
	ErrUnavailable = errors.New("interface unavailable")
	ErrDeviceError = errors.New("device control failed")
)
