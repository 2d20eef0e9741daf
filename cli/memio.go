package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BertoldVdb/msp430-tools/msphal"
	"github.com/inancgumus/screen"
)

type MEMIOListRegions struct {
}

func (l *MEMIOListRegions) Run(c *Context) error {
	var regions []msphal.MemoryRegion
	for _, m := range c.hal.MemoryRegionList() {
		regions = append(regions, c.hal.MemoryRegionGet(m))
	}

	fmt.Printf("Region       |     Length | Address (%s)\n", c.hal.GetDeviceType())

	for _, m := range regions {
		_, offset := msphal.RecursiveGetParentAddress(m, 0)
		fmt.Printf("%-13s|    %7d | 0x%05X-0x%05X\n", m.GetName(), m.GetLength(), offset, offset+m.GetLength()-1)
	}
	return nil
}

type Region struct {
	Region string `arg:"" name:"region" help:"Memory region to access."`
	Addr   int    `arg:"" name:"addr" help:"Offset inside the region." type:"int"`
}

func (r Region) get(c *Context) (msphal.MemoryRegion, error) {
	region := c.hal.MemoryRegionGet(msphal.MemoryRegionNameType(r.Region))
	if region == nil {
		return nil, msphal.ErrorUnknownRegion
	}
	return region, nil
}

type MEMIOReadCmd struct {
	Loop     int    `optional:"" help:"0=Perform once, 1=Mark changes since start, 2=Mark changes since previous iteration."`
	Filename string `optional:"" help:"File to write dump to."`

	Region Region `embed:""`
	Amount int    `arg:"" name:"amount" help:"Number of bytes to read, omit for maximum." optional:"" default:"0"`
}

func (l *MEMIOReadCmd) Run(c *Context) error {
	if l.Loop < 0 || l.Loop > 2 {
		return errors.New("Loop flag out of range")
	}

	region, err := l.Region.get(c)
	if err != nil {
		return err
	}

	if l.Amount == 0 {
		l.Amount = region.GetLength() - l.Region.Addr
	}
	if l.Amount <= 0 {
		return msphal.ErrorOutOfRange
	}

	var oldBuf []byte
	var mark []bool
	for {
		startTime := time.Now()
		if l.Loop == 2 || mark == nil {
			mark = make([]bool, l.Amount)
		}

		buf := make([]byte, l.Amount)
		n, err := region.Access(false, l.Region.Addr, buf)
		if err != nil {
			return fmt.Errorf("Read error: %w", err)
		}
		buf = buf[:n]

		if l.Filename != "" {
			return os.WriteFile(l.Filename, buf, 0644)
		}

		if l.Amount == 1 {
			if len(buf) < 1 {
				return errors.New("0 bytes returned")
			}
			fmt.Printf("0x%02x\n", buf[0])
		} else {
			if l.Loop != 0 {
				screen.Clear()
				screen.MoveTopLeft()
				if oldBuf != nil {
					for i, m := range oldBuf {
						if i < len(buf) && m != buf[i] {
							mark[i] = true
						}
					}
				}
			}
			fmt.Println(hexdump(l.Region.Addr, buf, mark[:len(buf)]))
		}

		oldBuf = buf

		if l.Loop == 0 {
			break
		}
		d := time.Since(startTime)
		td := 200 * time.Millisecond
		if d < td {
			time.Sleep(td - d)
		}
	}

	return nil
}

type MEMIOWriteCmd struct {
	Zone  Region `embed:""`
	Value int    `arg:"" name:"value" help:"Value to write." type:"int"`
}

func (w MEMIOWriteCmd) Run(c *Context) error {
	region, err := w.Zone.get(c)
	if err != nil {
		return err
	}

	return msphal.WriteByte(region, w.Zone.Addr, byte(w.Value))
}

type MEMIOWriteFileCmd struct {
	Region   Region `embed:""`
	Filename string `arg:"" name:"filename" help:"File to read data from."`

	Verify bool `optional:"" name:"verify" help:"Read and verify written file."`
}

func (w MEMIOWriteFileCmd) Run(c *Context) error {
	data, err := os.ReadFile(w.Filename)
	if err != nil {
		return err
	}

	region, err := w.Region.get(c)
	if err != nil {
		return err
	}

	if err := msphal.AccessFull(region, true, w.Region.Addr, data); err != nil {
		return err
	}
	fmt.Printf("Wrote %d bytes to %s:%04x.\n", len(data), w.Region.Region, w.Region.Addr)

	if w.Verify {
		readback := make([]byte, len(data))
		if err := msphal.AccessFull(region, false, w.Region.Addr, readback); err != nil {
			return err
		}

		if !bytes.Equal(readback, data) {
			return errors.New("Failed to verify write")
		}

		fmt.Println("Verification OK.")
	}

	return nil
}

type CRCCmd struct {
	Region Region `embed:""`
	Length int    `arg:"" name:"length" help:"Number of bytes to check." type:"int"`
}

func (l *CRCCmd) Run(c *Context) error {
	region, err := l.Region.get(c)
	if err != nil {
		return err
	}

	crc, err := c.hal.RegionCRC(region, l.Region.Addr, l.Length)
	if err != nil {
		return err
	}

	fmt.Printf("CRC %s:%04x+%d: 0x%04X\n", l.Region.Region, l.Region.Addr, l.Length, crc)
	return nil
}
