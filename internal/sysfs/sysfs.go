// Package sysfs reads and writes dell_smm_hwmon attributes through the thermal
// and hwmon class trees.
//
// hwmonN and cooling_deviceN numbering is assigned by the kernel at probe time,
// so the right entry is found by scanning the class directory and comparing a
// marker attribute (name for hwmon, type for cooling devices).
package sysfs

import (
	"errors"
	"fmt"
	"sync"
)

const (
	DefaultHwmonRoot     = "/sys/class/hwmon"
	DefaultThermalRoot   = "/sys/class/thermal"
	DefaultHwmonName     = "dell_smm"
	DefaultFanTypePrefix = "dell-smm-fan"

	// NameLength bounds marker attribute reads.
	NameLength = 64
)

var (
	ErrNotFound   = errors.New("no matching device")
	ErrIO         = errors.New("attribute i/o failed")
	ErrShortWrite = errors.New("short write")
)

type Config struct {
	HwmonRoot     string
	ThermalRoot   string
	HwmonName     string
	FanTypePrefix string
	// Memoize remembers which entry matched so later lookups skip the scan.
	Memoize bool
}

// Scanner locates dell_smm devices under the configured class roots.
type Scanner struct {
	cfg Config

	mu   sync.Mutex
	memo map[memoKey]string
}

type memoKey struct {
	root, marker, want string
}

func NewScanner(cfg Config) *Scanner {
	if cfg.HwmonRoot == "" {
		cfg.HwmonRoot = DefaultHwmonRoot
	}
	if cfg.ThermalRoot == "" {
		cfg.ThermalRoot = DefaultThermalRoot
	}
	if cfg.HwmonName == "" {
		cfg.HwmonName = DefaultHwmonName
	}
	if cfg.FanTypePrefix == "" {
		cfg.FanTypePrefix = DefaultFanTypePrefix
	}
	s := &Scanner{cfg: cfg}
	if cfg.Memoize {
		s.memo = make(map[memoKey]string)
	}
	return s
}

// DiscoverHwmon returns the hwmon directory whose name matches the driver.
// The caller owns the returned Dir and must Close it.
func (s *Scanner) DiscoverHwmon() (*Dir, error) {
	return s.find(s.cfg.HwmonRoot, "name", s.cfg.HwmonName)
}

// DiscoverFanCoolingDevice returns the cooling device for the zero-based fan.
// The kernel names them from 1.
func (s *Scanner) DiscoverFanCoolingDevice(fan int) (*Dir, error) {
	return s.find(s.cfg.ThermalRoot, "type", fmt.Sprintf("%s%d", s.cfg.FanTypePrefix, fan+1))
}

// Rescan forgets every memoized match.
func (s *Scanner) Rescan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memo != nil {
		s.memo = make(map[memoKey]string)
	}
}

func (s *Scanner) find(root, marker, want string) (*Dir, error) {
	key := memoKey{root: root, marker: marker, want: want}
	if name, ok := s.recall(key); ok {
		if d, ok := reopen(root, name, marker, want); ok {
			return d, nil
		}
		s.forget(key)
	}

	d, name, err := search(root, marker, want)
	if err != nil {
		return nil, err
	}
	s.remember(key, name)
	return d, nil
}

func (s *Scanner) recall(key memoKey) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.memo[key]
	return name, ok
}

func (s *Scanner) remember(key memoKey, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memo != nil {
		s.memo[key] = name
	}
}

func (s *Scanner) forget(key memoKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memo, key)
}
