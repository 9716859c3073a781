//go:build linux

package sensor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"i8kctl/internal/logger"
	"i8kctl/internal/sysfs"
	"i8kctl/internal/timing"
)

type fakeTree struct {
	procfs  string
	hwmon   string
	thermal string
}

func newFakeTree(t *testing.T) fakeTree {
	t.Helper()
	tmp := t.TempDir()
	tree := fakeTree{
		procfs:  filepath.Join(tmp, "proc", "i8k"),
		hwmon:   filepath.Join(tmp, "class", "hwmon"),
		thermal: filepath.Join(tmp, "class", "thermal"),
	}
	write := func(dir string, attrs map[string]string) {
		require.NoError(t, os.MkdirAll(dir, 0o755))
		for k, v := range attrs {
			require.NoError(t, os.WriteFile(filepath.Join(dir, k), []byte(v), 0o644))
		}
	}
	write(filepath.Join(tree.hwmon, "hwmon0"), map[string]string{"name": "acpi\n", "temp1_input": "99000\n"})
	write(filepath.Join(tree.hwmon, "hwmon1"), map[string]string{
		"name":        "dell_smm\n",
		"fan1_input":  "2650\n",
		"fan2_input":  "0\n",
		"temp1_input": "36999\n",
		"temp2_input": "-1500\n",
	})
	write(filepath.Join(tree.thermal, "cooling_device0"), map[string]string{"type": "Processor\n", "cur_state": "0\n"})
	write(filepath.Join(tree.thermal, "cooling_device1"), map[string]string{"type": "dell-smm-fan1\n", "cur_state": "2\n"})
	return tree
}

func (tree fakeTree) dispatcher(tracer *timing.Tracer) *Dispatcher {
	scanner := sysfs.NewScanner(sysfs.Config{HwmonRoot: tree.hwmon, ThermalRoot: tree.thermal})
	return NewDispatcher(tracer, NewProcfsBackend(tree.procfs), NewSysfsBackend(scanner))
}

func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	require.NoError(t, err)
	return len(entries)
}

func TestDispatcher_SysfsFallback(t *testing.T) {
	d := newFakeTree(t).dispatcher(nil)

	v, err := d.Read(Fan, 0)
	require.NoError(t, err)
	require.Equal(t, 2, v)

	v, err = d.Read(Tachometer, 0)
	require.NoError(t, err)
	require.Equal(t, 2650, v)

	v, err = d.Read(Temperature, 0)
	require.NoError(t, err)
	require.Equal(t, 36, v)

	v, err = d.Read(Temperature, 1)
	require.NoError(t, err)
	require.Equal(t, -1, v)

	require.NoError(t, d.Write(Fan, 0, 1))
	v, err = d.Read(Fan, 0)
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestDispatcher_Failures(t *testing.T) {
	tree := newFakeTree(t)
	d := tree.dispatcher(nil)

	_, err := d.Read(Fan, 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = d.Read(Temperature, 5)
	require.ErrorIs(t, err, ErrIO)

	err = d.Write(Fan, 2, 1)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(tree.hwmon, "hwmon1", "name"), []byte("other\n"), 0o644))
	_, err = d.Read(Tachometer, 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDispatcher_WriteTemperatureTouchesNothing(t *testing.T) {
	tree := newFakeTree(t)
	// Point both roots at nowhere: any I/O attempt would surface ErrNotFound.
	scanner := sysfs.NewScanner(sysfs.Config{HwmonRoot: "/nonexistent", ThermalRoot: "/nonexistent"})
	d := NewDispatcher(nil, NewProcfsBackend(tree.procfs), NewSysfsBackend(scanner))

	err := d.Write(Temperature, 0, 40)
	require.ErrorIs(t, err, ErrInvalidOperation)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestDispatcher_NoDescriptorLeaks(t *testing.T) {
	d := newFakeTree(t).dispatcher(nil)
	before := openFDs(t)

	for i := 0; i < 3; i++ {
		_, _ = d.Read(Fan, 0)
		_, _ = d.Read(Fan, 2)
		_, _ = d.Read(Tachometer, 1)
		_, _ = d.Read(Tachometer, 7)
		_, _ = d.Read(Temperature, 0)
		_, _ = d.Read(Temperature, 9)
		_ = d.Write(Fan, 0, 2)
		_ = d.Write(Fan, 5, 2)
		_ = d.Write(Temperature, 0, 2)
	}

	require.Equal(t, before, openFDs(t))
}

func TestDispatcher_VerboseTiming(t *testing.T) {
	var buf bytes.Buffer
	tracer := timing.NewTracer(true, logger.NewWithWriter(&buf, true))
	d := newFakeTree(t).dispatcher(tracer)

	_, err := d.Read(Fan, 0)
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.Contains(out, "read fan 1 via procfs took"), out)
	require.True(t, strings.Contains(out, "read fan 1 via sysfs took"), out)
}
