//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package mmfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Anon maps size bytes of zeroed, private, anonymous memory.
func Anon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmfile: invalid size %d", size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: anonymous map of %d bytes: %w", size, err)
	}
	return data, unmapper(data, false), nil
}

// Map maps the file at path read-write and shared, so writes into the returned
// slice reach the file. The file is created if missing and extended to size
// bytes; size 0 maps the file at its current length.
func Map(path string, size int) ([]byte, func() error, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if size == 0 {
		if info.Size() > int64(^uint(0)>>1) {
			return nil, nil, fmt.Errorf("mmfile: file too large to map (%d bytes)", info.Size())
		}
		size = int(info.Size())
	}
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmfile: %s is empty and no size was given", path)
	}
	if info.Size() < int64(size) {
		if err := f.Truncate(int64(size)); err != nil {
			return nil, nil, err
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: map %s: %w", path, err)
	}
	return data, unmapper(data, true), nil
}

func unmapper(data []byte, sync bool) func() error {
	done := false
	return func() error {
		if done {
			return nil
		}
		done = true
		if sync {
			if err := unix.Msync(data, unix.MS_SYNC); err != nil {
				_ = unix.Munmap(data)
				return err
			}
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
}
