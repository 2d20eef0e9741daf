//go:build !puregoserial
// +build !puregoserial

package main

import (
	"io"
	"os"

	"go.bug.st/serial"
)

func openSerial(port string, baud int, frame string) (io.ReadCloser, error) {
	f, err := parseFrame(frame)
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: f.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	switch ttyParity(f.Parity) {
	case 'E':
		mode.Parity = serial.EvenParity
	case 'O':
		mode.Parity = serial.OddParity
	}
	if f.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}

	return serial.Open(port, mode)
}

type MonitorCmd struct {
	Port string `arg:"" name:"port" help:"Serial device the board is connected to."`
}

func (m *MonitorCmd) Run(c *Context) error {
	p, err := openSerial(m.Port, CLI.Baud, CLI.Frame)
	if err != nil {
		return err
	}
	defer p.Close()

	_, err = io.Copy(os.Stdout, p)
	return err
}
