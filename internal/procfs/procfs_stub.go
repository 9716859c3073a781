//go:build !linux

package procfs

import "fmt"

type Device struct{}

func Open(path string) (*Device, error) {
	return nil, fmt.Errorf("procfs: open %s: %w (need linux)", path, ErrUnavailable)
}

func (d *Device) Close() error { return nil }

func (d *Device) FanState(fan int) (int, error) {
	return 0, fmt.Errorf("procfs: %w (need linux)", ErrUnavailable)
}

func (d *Device) SetFanState(fan, state int) error {
	return fmt.Errorf("procfs: %w (need linux)", ErrUnavailable)
}
