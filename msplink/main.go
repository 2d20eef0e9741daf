package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/BertoldVdb/msp430-tools/msphal"
	"github.com/BertoldVdb/msp430-tools/msphal/image"
	"github.com/BertoldVdb/msp430-tools/msphal/sim"
)

func link(p msphal.Placement) (*msphal.HAL, *msphal.Layout, error) {
	hal, err := msphal.New(sim.NewTarget(sim.TargetConfig{}), msphal.HALConfig{})
	if err != nil {
		return nil, nil, err
	}

	layout, err := hal.Link(p, msphal.DemoSymbols())
	return hal, layout, err
}

/* verify reads the image back through the HAL and compares the BSL CRCs */
func verify(hal *msphal.HAL, segs []image.Segment) error {
	all := hal.MemoryRegionGet(msphal.MemoryRegionALL)
	for _, seg := range segs {
		crc, err := hal.RegionCRC(all, seg.Addr, len(seg.Data))
		if err != nil {
			return err
		}
		if want := image.CRC(seg.Data); crc != want {
			return fmt.Errorf("segment @%05X: CRC 0x%04X != 0x%04X", seg.Addr, crc, want)
		}
	}
	return nil
}

func main() {
	output := flag.String("output", "/tmp/hirom.txt", "Output filename (TI-TXT)")
	noHighMem := flag.Bool("no-highmem", false, "Link without FORCE_HIGHMEM")
	codeRegion := flag.String("code-region", "either", "Code placement: lower, upper or either")
	dataRegion := flag.String("data-region", "either", "Data placement: lower, upper or either")
	flag.Parse()

	p := msphal.Placement{ForceHighMem: !*noHighMem}

	var err error
	if p.CodeRegion, err = msphal.ParseRegionPolicy(*codeRegion); err != nil {
		log.Fatalln("Invalid code region:", err)
	}
	if p.DataRegion, err = msphal.ParseRegionPolicy(*dataRegion); err != nil {
		log.Fatalln("Invalid data region:", err)
	}

	hal, layout, err := link(p)
	if err != nil {
		log.Fatalln("Failed to link:", err)
	}

	for _, s := range layout.Symbols {
		log.Printf("%-22s %-14s 0x%05X", s.Name, s.Section, s.Addr)
	}

	segs := layout.Segments()
	if err := verify(hal, segs); err != nil {
		log.Fatalln("Failed to verify image:", err)
	}

	var out bytes.Buffer
	if err := image.WriteTITXT(&out, segs); err != nil {
		log.Fatalln("Failed to encode image:", err)
	}

	/* Make sure what we write can be loaded again */
	if _, err := image.ReadTITXT(bytes.NewReader(out.Bytes())); err != nil {
		log.Fatalln("Failed to parse image:", err)
	}

	for _, seg := range segs {
		log.Printf("Segment @%05X: %d bytes, CRC 0x%04X", seg.Addr, len(seg.Data), image.CRC(seg.Data))
	}

	if err := os.WriteFile(*output, out.Bytes(), 0644); err != nil {
		log.Fatalln("Failed to write output:", err)
	}
}
