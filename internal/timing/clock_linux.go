//go:build linux

package timing

import (
	"fmt"

	"golang.org/x/sys/unix"
)

var clockGettime = unix.ClockGettime

func now() (float64, error) {
	var ts unix.Timespec
	if err := clockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, fmt.Errorf("clock_gettime: %w: %w", ErrClockUnavailable, err)
	}
	sec, nsec := ts.Unix()
	return float64(sec) + float64(nsec)/1e9, nil
}
