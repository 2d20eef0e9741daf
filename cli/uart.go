package main

import (
	"encoding/hex"
	"fmt"

	"github.com/BertoldVdb/msp430-tools/msphal"
)

type UARTTx struct {
	Data string `arg:"" name:"data" help:"Hex string to write."`
	FD   int    `optional:"" name:"fd" help:"Stream handle passed to write()." default:"1"`
}

func (l *UARTTx) Run(c *Context) error {
	buf, err := hex.DecodeString(l.Data)
	if err != nil {
		return err
	}

	if err := c.hal.UARTInit(); err != nil {
		return err
	}

	r := c.hal.Write(l.FD, buf)
	if !r.OK() {
		return fmt.Errorf("write(%d) = %d: %w", l.FD, r.N, r.Err)
	}

	fmt.Printf("write(%d) = %d\n", l.FD, r.N)
	fmt.Print(hexdump(0, c.target.Line(), nil))
	return nil
}

type DemoCmd struct {
	Hexdump bool `optional:"" help:"Dump the line contents instead of printing them."`
}

func (d *DemoCmd) Run(c *Context) error {
	if err := msphal.RunDemo(c.hal, c.layout); err != nil {
		return err
	}

	line := c.target.Line()
	if d.Hexdump {
		/* Mark line endings so the \n-only output of newlib is easy to spot */
		mark := make([]bool, len(line))
		for i, m := range line {
			mark[i] = m == '\n'
		}
		fmt.Print(hexdump(0, line, mark))
	} else {
		fmt.Print(string(line))
	}

	s := c.target.LineSettings()
	fmt.Printf("-- %d baud %s (divisor %d, modulation 0x%02x), %d overruns\n",
		s.Baud, s.Frame, s.Divisor, s.Modulation, c.target.Overruns())

	return nil
}

type MapCmd struct {
}

func (m *MapCmd) Run(c *Context) error {
	p := c.layout.Placement
	fmt.Printf("FORCE_HIGHMEM=%v code-region=%s data-region=%s\n", p.ForceHighMem, p.CodeRegion, p.DataRegion)
	fmt.Printf("Symbol                 | Kind  | Section        | Address | Size\n")

	for _, s := range c.layout.Symbols {
		fmt.Printf("%-23s| %-6s| %-15s| 0x%05X | %d\n", s.Name, s.Kind, s.Section, s.Addr, len(s.Data))
	}
	return nil
}
