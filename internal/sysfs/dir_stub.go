//go:build !linux

package sysfs

import "fmt"

type Dir struct {
	path string
}

func (d *Dir) Path() string { return d.path }

func (d *Dir) Close() error { return nil }

func (d *Dir) ReadAttribute(name string, maxLength int) (string, error) {
	return "", fmt.Errorf("sysfs: %w (need linux)", ErrIO)
}

func (d *Dir) WriteAttribute(name, text string) error {
	return fmt.Errorf("sysfs: %w (need linux)", ErrIO)
}

func search(root, marker, want string) (*Dir, string, error) {
	return nil, "", fmt.Errorf("sysfs: %s: %w (need linux)", root, ErrNotFound)
}

func reopen(root, name, marker, want string) (*Dir, bool) { return nil, false }
