package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Verbose {
		t.Fatalf("verbose should default to false")
	}
	if !cfg.Procfs.Enabled() || cfg.Procfs.Path != "/proc/i8k" {
		t.Fatalf("procfs=%+v", cfg.Procfs)
	}
	if cfg.Sysfs.HwmonRoot != "/sys/class/hwmon" || cfg.Sysfs.ThermalRoot != "/sys/class/thermal" {
		t.Fatalf("sysfs roots=%+v", cfg.Sysfs)
	}
	if cfg.Sysfs.HwmonName != "dell_smm" || cfg.Sysfs.FanTypePrefix != "dell-smm-fan" {
		t.Fatalf("sysfs names=%+v", cfg.Sysfs)
	}
	if cfg.Report.Fans != 3 || cfg.Report.Temps != 10 {
		t.Fatalf("report=%+v", cfg.Report)
	}
}

func TestLoad_EmptyFileGetsDefaults(t *testing.T) {
	path := writeTempConfig(t, "{}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Sysfs != Default().Sysfs || cfg.Report != Default().Report || cfg.Procfs.Path != Default().Procfs.Path {
		t.Fatalf("cfg=%+v want defaults", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeTempConfig(t, `
verbose: true
procfs:
  enable: false
  path: /tmp/i8k
sysfs:
  hwmon_root: /tmp/hwmon
  thermal_root: /tmp/thermal
  hwmon_name: dell_ddv
  fan_type_prefix: dell-ddv-fan
  memoize_discovery: true
report:
  fans: 2
  temps: 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Verbose {
		t.Fatalf("verbose=false want true")
	}
	if cfg.Procfs.Enabled() || cfg.Procfs.Path != "/tmp/i8k" {
		t.Fatalf("procfs=%+v", cfg.Procfs)
	}
	sc := cfg.Sysfs.ScannerConfig()
	if sc.HwmonRoot != "/tmp/hwmon" || sc.ThermalRoot != "/tmp/thermal" || sc.HwmonName != "dell_ddv" || sc.FanTypePrefix != "dell-ddv-fan" || !sc.Memoize {
		t.Fatalf("scanner config=%+v", sc)
	}
	if cfg.Report.Fans != 2 || cfg.Report.Temps != 4 {
		t.Fatalf("report=%+v", cfg.Report)
	}
}

func TestLoad_ZeroReportCounts(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "report:\n  fans: 0\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Report.Fans != 0 || cfg.Report.Temps != 10 {
		t.Fatalf("report=%+v want fans=0 temps=10", cfg.Report)
	}

	cfg, err = Load(writeTempConfig(t, "report:\n  fans: 1\n  temps: 0\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Report.Fans != 1 || cfg.Report.Temps != 0 {
		t.Fatalf("report=%+v want fans=1 temps=0", cfg.Report)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"NegativeFans", "report:\n  fans: -1\n", "report.fans must be >= 0"},
		{"NegativeTemps", "report:\n  temps: -2\n", "report.temps must be >= 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.yaml))
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Fatalf("err=%v want not-exist", err)
	}
	if _, err := Load(writeTempConfig(t, "report: [\n")); err == nil {
		t.Fatalf("expected yaml error")
	}
}
