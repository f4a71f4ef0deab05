//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package mmfile

import (
	"fmt"
	"os"
)

// Anon allocates size zeroed bytes on the Go heap when mmap is not available.
func Anon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmfile: invalid size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}

// Map reads the file into memory, padded to size, and writes it back on cleanup.
func Map(path string, size int) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, err
	}
	if size == 0 {
		size = len(data)
	}
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmfile: %s is empty and no size was given", path)
	}
	if len(data) < size {
		data = append(data, make([]byte, size-len(data))...)
	}
	data = data[:size]
	return data, func() error { return os.WriteFile(path, data, 0o644) }, nil
}
