package gotty

import (
	"errors"
	"io"
)

var (
	ErrorUnsupportedBaud  = errors.New("Baud rate is not supported")
	ErrorUnsupportedFrame = errors.New("Character format is not supported")
)

type Port interface {
	io.ReadWriteCloser
}

type Config struct {
	Baud     int
	DataBits int
	/* 'N', 'E' or 'O' */
	Parity   byte
	StopBits int
}

func (c Config) withDefaults() Config {
	if c.DataBits == 0 {
		c.DataBits = 8
	}
	if c.Parity == 0 {
		c.Parity = 'N'
	}
	if c.StopBits == 0 {
		c.StopBits = 1
	}
	return c
}

func Open(path string, config Config) (Port, error) {
	return openTTYInternal(path, config.withDefaults())
}
