package sensor

import (
	"fmt"

	"i8kctl/internal/procfs"
	"i8kctl/internal/sysfs"
)

type fanDevice interface {
	FanState(fan int) (int, error)
	SetFanState(fan, state int) error
	Close() error
}

var openProcfsFn = func(path string) (fanDevice, error) {
	dev, err := procfs.Open(path)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

// ProcfsBackend serves fan state through the legacy i8k device. Once the
// device opens, it is authoritative: control failures are not retried on
// another backend.
type ProcfsBackend struct {
	path string
}

func NewProcfsBackend(path string) *ProcfsBackend {
	if path == "" {
		path = procfs.DefaultPath
	}
	return &ProcfsBackend{path: path}
}

func (b *ProcfsBackend) Name() string { return "procfs" }

func (b *ProcfsBackend) Read(kind Kind, index int) (int, error) {
	if kind != Fan {
		return 0, fmt.Errorf("procfs: no %s sensors: %w", kind, ErrUnavailable)
	}
	dev, err := openProcfsFn(b.path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = dev.Close() }()
	return dev.FanState(index)
}

func (b *ProcfsBackend) Write(kind Kind, index, value int) error {
	if kind != Fan {
		return fmt.Errorf("procfs: no %s sensors: %w", kind, ErrUnavailable)
	}
	dev, err := openProcfsFn(b.path)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()
	return dev.SetFanState(index, value)
}

// SysfsBackend serves fan state through thermal cooling devices and fan speed
// and temperature through hwmon.
type SysfsBackend struct {
	scanner *sysfs.Scanner
}

func NewSysfsBackend(scanner *sysfs.Scanner) *SysfsBackend {
	if scanner == nil {
		scanner = sysfs.NewScanner(sysfs.Config{})
	}
	return &SysfsBackend{scanner: scanner}
}

func (b *SysfsBackend) Name() string { return "sysfs" }

func (b *SysfsBackend) Read(kind Kind, index int) (int, error) {
	if kind == Fan {
		dir, err := b.scanner.DiscoverFanCoolingDevice(index)
		if err != nil {
			return 0, err
		}
		defer func() { _ = dir.Close() }()
		return dir.FanState()
	}

	dir, err := b.scanner.DiscoverHwmon()
	if err != nil {
		return 0, err
	}
	defer func() { _ = dir.Close() }()

	switch kind {
	case Tachometer:
		return dir.FanSpeed(index)
	case Temperature:
		return dir.Temperature(index)
	default:
		return 0, fmt.Errorf("sysfs: %s: %w", kind, ErrUnknownKind)
	}
}

func (b *SysfsBackend) Write(kind Kind, index, value int) error {
	if kind != Fan {
		return fmt.Errorf("sysfs: write %s: %w", kind, ErrInvalidOperation)
	}
	dir, err := b.scanner.DiscoverFanCoolingDevice(index)
	if err != nil {
		return err
	}
	defer func() { _ = dir.Close() }()
	return dir.SetFanState(value)
}
