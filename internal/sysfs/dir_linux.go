//go:build linux

package sysfs

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// scanBatch is how many directory entries are fetched per getdents round.
const scanBatch = 32

var (
	readFn  = unix.Read
	writeFn = unix.Write
)

// Dir is an open descriptor on one discovered device directory. Attribute
// files are opened relative to it.
type Dir struct {
	fd   int
	path string
}

func (d *Dir) Path() string { return d.path }

func (d *Dir) Close() error {
	if d == nil || d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

// ReadAttribute reads at most maxLength bytes of name and strips one trailing
// newline.
func (d *Dir) ReadAttribute(name string, maxLength int) (string, error) {
	fd, err := unix.Openat(d.fd, name, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return "", fmt.Errorf("sysfs: open %s: %w: %w", d.attrPath(name), ErrIO, err)
	}
	if maxLength < 0 {
		maxLength = 0
	}
	buf := make([]byte, maxLength)
	n, err := readFn(fd, buf)
	_ = unix.Close(fd)
	if err != nil {
		return "", fmt.Errorf("sysfs: read %s: %w: %w", d.attrPath(name), ErrIO, err)
	}

	// Output can be newline-terminated.
	b := buf[:n]
	if n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	return string(b), nil
}

// WriteAttribute writes text with a single write call. The open uses O_WRONLY
// alone; some attributes reject O_TRUNC.
func (d *Dir) WriteAttribute(name, text string) error {
	fd, err := unix.Openat(d.fd, name, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("sysfs: open %s: %w: %w", d.attrPath(name), ErrIO, err)
	}
	n, err := writeFn(fd, []byte(text))
	_ = unix.Close(fd)
	if err != nil {
		return fmt.Errorf("sysfs: write %s: %w: %w", d.attrPath(name), ErrIO, err)
	}
	if n != len(text) {
		return fmt.Errorf("sysfs: write %s: %d of %d bytes: %w", d.attrPath(name), n, len(text), ErrShortWrite)
	}
	return nil
}

// search walks root once and returns the first entry whose marker attribute
// equals want. Entries that cannot be opened or lack a readable marker are
// skipped.
func search(root, marker, want string) (*Dir, string, error) {
	f, err := os.Open(root)
	if err != nil {
		return nil, "", fmt.Errorf("sysfs: open %s: %w: %w", root, ErrNotFound, err)
	}
	defer f.Close()
	rootFD := int(f.Fd())

	for {
		names, rerr := f.Readdirnames(scanBatch)
		for _, name := range names {
			if d, ok := matchEntry(rootFD, root, name, marker, want); ok {
				return d, name, nil
			}
		}
		// io.EOF at the end; any other error also ends the scan.
		if rerr != nil {
			break
		}
	}
	return nil, "", fmt.Errorf("sysfs: no entry in %s with %s %q: %w", root, marker, want, ErrNotFound)
}

// reopen checks a remembered entry still carries the expected marker.
func reopen(root, name, marker, want string) (*Dir, bool) {
	rootFD, err := unix.Open(root, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, false
	}
	defer unix.Close(rootFD)
	return matchEntry(rootFD, root, name, marker, want)
}

func matchEntry(parentFD int, root, name, marker, want string) (*Dir, bool) {
	fd, err := unix.Openat(parentFD, name, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, false
	}
	d := &Dir{fd: fd, path: filepath.Join(root, name)}
	got, err := d.ReadAttribute(marker, NameLength)
	if err != nil || got != want {
		_ = d.Close()
		return nil, false
	}
	return d, true
}
