//go:build puregoserial
// +build puregoserial

package main

import (
	"io"
	"os"

	"github.com/BertoldVdb/msp430-tools/gotty"
)

func openSerial(port string, baud int, frame string) (io.ReadCloser, error) {
	f, err := parseFrame(frame)
	if err != nil {
		return nil, err
	}

	return gotty.Open(port, gotty.Config{
		Baud:     baud,
		DataBits: f.DataBits,
		Parity:   ttyParity(f.Parity),
		StopBits: f.StopBits,
	})
}

type MonitorCmd struct {
	Port string `arg:"" name:"port" help:"TTY device the board is connected to."`
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
