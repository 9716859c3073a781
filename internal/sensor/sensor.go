// Package sensor dispatches fan, tachometer and temperature reads and writes to
// the first backend that can serve them.
package sensor

import (
	"errors"
	"fmt"

	"i8kctl/internal/decimal"
	"i8kctl/internal/procfs"
	"i8kctl/internal/sysfs"
	"i8kctl/internal/timing"
)

type Kind int

const (
	Fan Kind = iota + 1
	Tachometer
	Temperature
)

var kindNames = []struct {
	name string
	kind Kind
}{
	{"fan", Fan},
	{"tacho", Tachometer},
	{"temp", Temperature},
}

func (k Kind) String() string {
	for _, kn := range kindNames {
		if kn.kind == k {
			return kn.name
		}
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Writable reports whether values of this kind can be set. Only fan state is.
func (k Kind) Writable() bool { return k == Fan }

func (k Kind) valid() bool { return k >= Fan && k <= Temperature }

// ParseKind maps the command-line names "fan", "tacho" and "temp".
func ParseKind(s string) (Kind, error) {
	for _, kn := range kindNames {
		if kn.name == s {
			return kn.kind, nil
		}
	}
	return 0, fmt.Errorf("invalid sensor type %q: %w", s, ErrUnknownKind)
}

var (
	// ErrUnavailable tells the dispatcher to move on to the next backend.
	ErrUnavailable      = procfs.ErrUnavailable
	ErrDeviceError      = procfs.ErrDeviceError
	ErrNotFound         = sysfs.ErrNotFound
	ErrIO               = sysfs.ErrIO
	ErrShortWrite       = sysfs.ErrShortWrite
	ErrInvalidFormat    = decimal.ErrInvalidFormat
	ErrOutOfRange       = decimal.ErrOutOfRange
	ErrBufferTooSmall   = decimal.ErrBufferTooSmall
	ErrClockUnavailable = timing.ErrClockUnavailable
	ErrInvalidOperation = errors.New("read-only sensor kind")
	ErrUnknownKind      = errors.New("unknown sensor kind")
)

// Backend is one way of reaching the sensors. Returning an error that wraps
// ErrUnavailable means the backend cannot serve this request on this machine;
// any other error is final.
type Backend interface {
	Name() string
	Read(kind Kind, index int) (int, error)
	Write(kind Kind, index, value int) error
}

// Dispatcher tries its backends in order for every call. It keeps no state
// between calls.
type Dispatcher struct {
	backends []Backend
	tracer   *timing.Tracer
}

func NewDispatcher(tracer *timing.Tracer, backends ...Backend) *Dispatcher {
	return &Dispatcher{backends: backends, tracer: tracer}
}

func (d *Dispatcher) Read(kind Kind, index int) (int, error) {
	if err := checkArgs(kind, index); err != nil {
		return 0, err
	}
	var v int
	err := d.each(kind, index, "read", func(b Backend) error {
		var err error
		v, err = b.Read(kind, index)
		return err
	})
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Write sets a fan state. Other kinds fail with ErrInvalidOperation before
// any backend is touched.
func (d *Dispatcher) Write(kind Kind, index, value int) error {
	if err := checkArgs(kind, index); err != nil {
		return err
	}
	if !kind.Writable() {
		return fmt.Errorf("write %s %d: %w", kind, index+1, ErrInvalidOperation)
	}
	return d.each(kind, index, "write", func(b Backend) error {
		return b.Write(kind, index, value)
	})
}

func (d *Dispatcher) each(kind Kind, index int, op string, call func(Backend) error) error {
	err := fmt.Errorf("%s %s %d: no backends: %w", op, kind, index+1, ErrUnavailable)
	for _, b := range d.backends {
		done := d.tracer.Track(fmt.Sprintf("%s %s %d via %s", op, kind, index+1, b.Name()))
		err = call(b)
		done()
		if err == nil || !errors.Is(err, ErrUnavailable) {
			return err
		}
	}
	return err
}

func checkArgs(kind Kind, index int) error {
	if !kind.valid() {
		return fmt.Errorf("%s: %w", kind, ErrUnknownKind)
	}
	if index < 0 {
		return fmt.Errorf("%s index %d: %w", kind, index, ErrOutOfRange)
	}
	return nil
}
