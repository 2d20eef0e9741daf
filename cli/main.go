package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BertoldVdb/msp430-tools/msphal"
	"github.com/BertoldVdb/msp430-tools/msphal/sim"
	"github.com/alecthomas/kong"
)

type Context struct {
	target *sim.Target
	hal    *msphal.HAL
	layout *msphal.Layout
}

var CLI struct {
	Clock      int    `optional:"" type:"int" help:"SMCLK frequency in Hz (F_CPU)." default:"25000000"`
	Baud       int    `optional:"" help:"UART data rate in bits per second." default:"9600"`
	Frame      string `optional:"" help:"Character format, e.g. 8N1 or 7E2." default:"8N1"`
	ShiftPolls int    `optional:"" help:"Polls of UCA0IFG a simulated character takes to send." default:"2"`
	LogLevel   int    `optional:"" help:"Higher values give more output."`

	NoHighMem  bool   `optional:"" name:"no-highmem" help:"Build without FORCE_HIGHMEM."`
	CodeRegion string `optional:"" help:"Code placement (lower, upper, either)." default:"either"`
	DataRegion string `optional:"" help:"Data placement (lower, upper, either)." default:"either"`

	ListRegions MEMIOListRegions  `cmd:"" help:"List available memory regions."`
	Read        MEMIOReadCmd      `cmd:"" help:"Read and dump memory."`
	Write       MEMIOWriteCmd     `cmd:"" help:"Write value to memory."`
	WriteFile   MEMIOWriteFileCmd `cmd:"" help:"Write file to memory."`
	CRC         CRCCmd            `cmd:"" name:"crc" help:"Calculate the BSL CRC of a memory range."`

	Map  MapCmd  `cmd:"" help:"Show where the demo symbols were placed."`
	Demo DemoCmd `cmd:"" help:"Run the demo firmware and show what it printed."`

	UARTTx  UARTTx     `cmd:"" name:"uart-tx" help:"Send data through the write hook."`
	Monitor MonitorCmd `cmd:"" help:"Show what a real board sends on its UART."`
}

func placementFromCLI() (msphal.Placement, error) {
	p := msphal.Placement{ForceHighMem: !CLI.NoHighMem}

	var err error
	if p.CodeRegion, err = msphal.ParseRegionPolicy(CLI.CodeRegion); err != nil {
		return p, err
	}
	p.DataRegion, err = msphal.ParseRegionPolicy(CLI.DataRegion)
	return p, err
}

func main() {
	k, err := kong.New(&CLI,
		kong.NamedMapper("int", intMapper{}),
		kong.NamedMapper("hex", intMapper{base: 16}))
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx, err := k.Parse(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		return
	}

	frame, err := parseFrame(CLI.Frame)
	if err != nil {
		fmt.Println(err)
		return
	}

	logFunc := func(level int, format string, param ...interface{}) {
		if level > CLI.LogLevel {
			return
		}
		str := fmt.Sprintf(format, param...)
		fmt.Printf("HAL(%d): %s\n", level, str)
	}

	c := &Context{}
	if !strings.HasPrefix(ctx.Command(), "monitor") {
		c.target = sim.NewTarget(sim.TargetConfig{
			ClockHz:    CLI.Clock,
			ShiftPolls: CLI.ShiftPolls,
			LogFunc:    logFunc,
		})

		config := msphal.HALConfig{
			ClockHz: CLI.Clock,
			Baud:    CLI.Baud,
			Frame:   frame,

			LogFunc: logFunc,
		}

		c.hal, err = msphal.New(c.target, config)
		if err != nil {
			fmt.Println("Failed to create HAL", err)
			return
		}

		placement, err := placementFromCLI()
		if err != nil {
			fmt.Println(err)
			return
		}

		c.layout, err = c.hal.Link(placement, msphal.DemoSymbols())
		if err != nil {
			fmt.Println("Failed to link demo", err)
			return
		}
	}

	err = ctx.Run(c)
	ctx.FatalIfErrorf(err)
}
