//go:build !linux

package timing

import "time"

var epoch = time.Now()

// Stub for non-Linux platforms: time.Since reads the runtime monotonic clock.
func now() (float64, error) {
	return time.Since(epoch).Seconds(), nil
}
