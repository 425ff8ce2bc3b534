package grf

import (
	"errors"
	"fmt"
)

// Set is an ordered list of archives searched front to back.
type Set []*Archive

// OpenSet opens every archive in paths. On error the already opened ones
// are closed.
func OpenSet(paths []string) (Set, error) {
	set := make(Set, 0, len(paths))
	for _, p := range paths {
		a, err := Open(p)
		if err != nil {
			set.Close()
			return nil, fmt.Errorf("opening %s: %w", p, err)
		}
		set = append(set, a)
	}
	return set, nil
}

// Read returns path from the first archive containing it.
func (s Set) Read(path string) ([]byte, error) {
	for _, a := range s {
		if a.Contains(path) {
			return a.Read(path)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
}

// Contains reports whether any archive holds path.
func (s Set) Contains(path string) bool {
	for _, a := range s {
		if a.Contains(path) {
			return true
		}
	}
	return false
}

// Close closes every archive.
func (s Set) Close() error {
	var errs []error
	for _, a := range s {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
