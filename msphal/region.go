package msphal

import (
	"encoding/binary"
	"fmt"
)

type MemoryRegion interface {
	GetLength() int
	Access(write bool, addr int, buf []byte) (int, error)
	GetParent() (MemoryRegion, int)
	GetName() MemoryRegionNameType
	GetAlignment() int
}

type regionCompleteIO struct {
	MemoryRegion
}

func regionWrapCompleteIO(parent MemoryRegion) MemoryRegion {
	return regionCompleteIO{
		MemoryRegion: parent,
	}
}

func (m regionCompleteIO) Access(write bool, addr int, buf []byte) (int, error) {
	align := m.GetAlignment()
	if addr&(align-1) != 0 {
		return 0, ErrorAlignment
	} else if write && len(buf)%align != 0 {
		return 0, ErrorAlignment
	}

	total := 0
	for len(buf) > 0 {
		n, err := m.MemoryRegion.Access(write, addr+total, buf)
		total += n
		buf = buf[n:]

		if err != nil || n == 0 {
			return total, err
		}
	}

	return total, nil
}

/* AccessFull moves all of buf or fails, a window that ends early is ErrorOutOfRange */
func AccessFull(m MemoryRegion, write bool, addr int, buf []byte) error {
	n, err := m.Access(write, addr, buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("%s: %d of %d bytes at 0x%x: %w", m.GetName(), n, len(buf), addr, ErrorOutOfRange)
	}
	return nil
}

func WriteByte(m MemoryRegion, addr int, value byte) error {
	return AccessFull(m, true, addr, []byte{value})
}

func ReadByte(m MemoryRegion, addr int) (byte, error) {
	var buf [1]byte
	err := AccessFull(m, false, addr, buf[:])
	return buf[0], err
}

/* MSP430 is little endian, word registers sit on even addresses */
func WriteWord(m MemoryRegion, addr int, value uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], value)
	return AccessFull(m, true, addr, buf[:])
}

func ReadWord(m MemoryRegion, addr int) (uint16, error) {
	var buf [2]byte
	err := AccessFull(m, false, addr, buf[:])
	return binary.LittleEndian.Uint16(buf[:]), err
}

type regionPartial struct {
	parent MemoryRegion
	offset int
	length int
	name   MemoryRegionNameType
}

func regionWrapPartial(name MemoryRegionNameType, parent MemoryRegion, offset int, length int) MemoryRegion {
	return regionPartial{
		parent: parent,
		offset: offset,
		length: length,
		name:   name,
	}
}

func (h regionPartial) GetName() MemoryRegionNameType {
	return h.name
}

func (h regionPartial) GetLength() int {
	return h.length
}

func (h regionPartial) GetParent() (MemoryRegion, int) {
	return h.parent, h.offset
}

func (h regionPartial) GetAlignment() int {
	return h.parent.GetAlignment()
}

func (h regionPartial) Access(write bool, addr int, buf []byte) (int, error) {
	if addr < 0 {
		return 0, ErrorOutOfRange
	}
	if len(buf)+addr > h.length {
		if addr >= h.length {
			return 0, nil
		}
		buf = buf[:h.length-addr]
	}

	return h.parent.Access(write, h.offset+addr, buf)
}

func RecursiveGetParentAddress(region MemoryRegion, offset int) (MemoryRegion, int) {
	for {
		var parentOffset int
		prevRegion := region
		region, parentOffset = region.GetParent()

		offset += parentOffset

		if region == nil {
			return prevRegion, offset
		}
	}
}
