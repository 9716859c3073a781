package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"i8kctl/internal/procfs"
	"i8kctl/internal/sysfs"
)

type Config struct {
	Verbose bool         `yaml:"verbose"`
	Procfs  ProcfsConfig `yaml:"procfs"`
	Sysfs   SysfsConfig  `yaml:"sysfs"`
	Report  ReportConfig `yaml:"report"`
}

type ProcfsConfig struct {
	// Enable is a pointer so an absent key keeps the default of true.
	Enable *bool  `yaml:"enable"`
	Path   string `yaml:"path"`
}

func (c ProcfsConfig) Enabled() bool {
	return c.Enable == nil || *c.Enable
}

type SysfsConfig struct {
	HwmonRoot        string `yaml:"hwmon_root"`
	ThermalRoot      string `yaml:"thermal_root"`
	HwmonName        string `yaml:"hwmon_name"`
	FanTypePrefix    string `yaml:"fan_type_prefix"`
	MemoizeDiscovery bool   `yaml:"memoize_discovery"`
}

// ScannerConfig converts to the sysfs package's settings.
func (c SysfsConfig) ScannerConfig() sysfs.Config {
	return sysfs.Config{
		HwmonRoot:     c.HwmonRoot,
		ThermalRoot:   c.ThermalRoot,
		HwmonName:     c.HwmonName,
		FanTypePrefix: c.FanTypePrefix,
		Memoize:       c.MemoizeDiscovery,
	}
}

// ReportConfig bounds the overview printed when no sensor is selected.
type ReportConfig struct {
	Fans  int `yaml:"fans"`
	Temps int `yaml:"temps"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	cfg := Config{Report: defaultReport()}
	applyDefaults(&cfg)
	return cfg
}

// dell_smm_hwmon exposes up to three fans and ten temperature channels.
func defaultReport() ReportConfig {
	return ReportConfig{Fans: 3, Temps: 10}
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	// Report counts are prefilled so an explicit 0 survives decoding.
	cfg := Config{Report: defaultReport()}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Report.Fans < 0 {
		return Config{}, fmt.Errorf("report.fans must be >= 0")
	}
	if cfg.Report.Temps < 0 {
		return Config{}, fmt.Errorf("report.temps must be >= 0")
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Procfs.Path == "" {
		cfg.Procfs.Path = procfs.DefaultPath
	}

	if cfg.Sysfs.HwmonRoot == "" {
		cfg.Sysfs.HwmonRoot = sysfs.DefaultHwmonRoot
	}
	if cfg.Sysfs.ThermalRoot == "" {
		cfg.Sysfs.ThermalRoot = sysfs.DefaultThermalRoot
	}
	if cfg.Sysfs.HwmonName == "" {
		cfg.Sysfs.HwmonName = sysfs.DefaultHwmonName
	}
	if cfg.Sysfs.FanTypePrefix == "" {
		cfg.Sysfs.FanTypePrefix = sysfs.DefaultFanTypePrefix
	}
}
