//go:build !linux
// +build !linux

package gotty

import "errors"

func openTTYInternal(path string, config Config) (Port, error) {
	return nil, errors.New("Raw TTY access is only implemented on Linux")
}
