package msphal

import (
	"errors"
	"fmt"
)

var (
	ErrorNotInitialized = errors.New("UART has not been initialized")
	ErrorAlignment      = errors.New("address alignment has been violated")
	ErrorOutOfRange     = errors.New("Address is outside of the region")
	ErrorNoSpace        = errors.New("Not enough space left in region")
	ErrorUnknownSymbol  = errors.New("Symbol is not in the image")
	ErrorUnknownRegion  = errors.New("Invalid memory region")
	ErrorBadBaud        = errors.New("Baud rate cannot be generated from SMCLK")
)

/* Errno mirrors the newlib errno values the write hook can report */
type Errno int

const (
	EIO   Errno = 5
	EBADF Errno = 9
)

func (e Errno) Error() string {
	switch e {
	case EIO:
		return "input/output error"
	case EBADF:
		return "bad file descriptor"
	}
	return fmt.Sprintf("errno %d", int(e))
}
