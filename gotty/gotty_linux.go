//go:build linux
// +build linux

package gotty

import (
	"os"

	"golang.org/x/sys/unix"
)

type TTYRaw struct {
	dev *os.File
}

var baudRates = map[int]uint32{
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

func openTTYInternal(path string, config Config) (Port, error) {
	speed, ok := baudRates[config.Baud]
	if !ok {
		return nil, ErrorUnsupportedBaud
	}

	dev, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, err
	}

	if err := setRaw(int(dev.Fd()), speed, config); err != nil {
		dev.Close()
		return nil, err
	}

	return &TTYRaw{
		dev: dev,
	}, nil
}

/* Same as cfmakeraw(3), plus speed and character format */
func setRaw(fd int, speed uint32, config Config) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return os.NewSyscallError("TCGETS", err)
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB | unix.CBAUD
	t.Cflag |= unix.CREAD | unix.CLOCAL | speed

	switch config.DataBits {
	case 7:
		t.Cflag |= unix.CS7
	case 8:
		t.Cflag |= unix.CS8
	default:
		return ErrorUnsupportedFrame
	}

	switch config.Parity {
	case 'N':
	case 'E':
		t.Cflag |= unix.PARENB
	case 'O':
		t.Cflag |= unix.PARENB | unix.PARODD
	default:
		return ErrorUnsupportedFrame
	}

	switch config.StopBits {
	case 1:
	case 2:
		t.Cflag |= unix.CSTOPB
	default:
		return ErrorUnsupportedFrame
	}

	t.Ispeed = speed
	t.Ospeed = speed
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return os.NewSyscallError("TCSETS", err)
	}
	return nil
}

func (h *TTYRaw) Read(b []byte) (int, error) {
	return h.dev.Read(b)
}

func (h *TTYRaw) Write(b []byte) (int, error) {
	return h.dev.Write(b)
}

func (h *TTYRaw) Close() error {
	return h.dev.Close()
}
