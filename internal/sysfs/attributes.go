package sysfs

import (
	"fmt"
	"path/filepath"

	"i8kctl/internal/decimal"
)

const (
	curStateAttr = "cur_state"

	// Sized for a signed 64-bit value plus newline.
	valueLength = decimal.MaxDigitsPerLong + 1

	// Fan states are 32-bit in the driver.
	stateLength = decimal.MaxDigitsPerInt + 1
)

// FanState reads cur_state from a cooling device directory.
func (d *Dir) FanState() (int, error) {
	return d.readInt(curStateAttr)
}

// SetFanState writes state to cur_state. The text is built before the
// attribute is opened, so a formatting failure has no side effect.
func (d *Dir) SetFanState(state int) error {
	var buf [stateLength]byte
	n, err := decimal.Format(state, buf[:])
	if err != nil {
		return fmt.Errorf("sysfs: fan state: %w", err)
	}
	return d.WriteAttribute(curStateAttr, string(buf[:n]))
}

// FanSpeed reads the tachometer of the zero-based fan in RPM.
func (d *Dir) FanSpeed(fan int) (int, error) {
	return d.readInt(fmt.Sprintf("fan%d_input", fan+1))
}

// Temperature reads the zero-based channel in whole degrees Celsius. The
// kernel reports millidegrees; the remainder is truncated toward zero.
func (d *Dir) Temperature(channel int) (int, error) {
	milli, err := d.readInt(fmt.Sprintf("temp%d_input", channel+1))
	if err != nil {
		return 0, err
	}
	return milli / 1000, nil
}

func (d *Dir) readInt(name string) (int, error) {
	s, err := d.ReadAttribute(name, valueLength)
	if err != nil {
		return 0, err
	}
	v, err := decimal.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("sysfs: %s: %w", d.attrPath(name), err)
	}
	return v, nil
}

func (d *Dir) attrPath(name string) string {
	return filepath.Join(d.path, name)
}
