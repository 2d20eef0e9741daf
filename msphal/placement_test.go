package msphal_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/BertoldVdb/msp430-tools/msphal"
)

func TestPlacement_SectionFor(t *testing.T) {
	fn := msphal.Symbol{Name: "f", Kind: msphal.KindFunc, Size: 2}
	hiFn := msphal.Symbol{Name: "hf", Kind: msphal.KindFunc, Size: 2, HighMem: true}
	hiConst := msphal.Symbol{Name: "hc", Kind: msphal.KindConst, Size: 2, HighMem: true}

	cases := []struct {
		p    msphal.Placement
		sym  msphal.Symbol
		want msphal.Section
	}{
		{msphal.Placement{ForceHighMem: true}, hiFn, msphal.SectionUpperText},
		{msphal.Placement{ForceHighMem: true}, hiConst, msphal.SectionUpperRodata},
		{msphal.Placement{ForceHighMem: true}, fn, msphal.SectionText},
		{msphal.Placement{}, hiFn, msphal.SectionText},
		{msphal.Placement{}, hiConst, msphal.SectionRodata},
		{msphal.Placement{CodeRegion: msphal.RegionUpper}, fn, msphal.SectionUpperText},
		{msphal.Placement{DataRegion: msphal.RegionUpper}, hiConst, msphal.SectionUpperRodata},
		{msphal.Placement{CodeRegion: msphal.RegionEither}, fn, msphal.SectionText},
	}

	for i, c := range cases {
		if got := c.p.SectionFor(c.sym); got != c.want {
			t.Errorf("case %d: SectionFor(%s) = %s; want %s", i, c.sym.Name, got, c.want)
		}
	}
}

func TestParseRegionPolicy(t *testing.T) {
	for _, name := range []string{"lower", "upper", "either"} {
		p, err := msphal.ParseRegionPolicy(name)
		if err != nil {
			t.Fatalf("ParseRegionPolicy(%s): %v", name, err)
		}
		if p.String() != name {
			t.Fatalf("round trip %s -> %s", name, p)
		}
	}
	if _, err := msphal.ParseRegionPolicy("middle"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLink_ForceHighMemAddresses(t *testing.T) {
	h, _ := newSimHAL(t)

	layout, err := h.Link(msphal.Placement{ForceHighMem: true}, msphal.DemoSymbols())
	if err != nil {
		t.Fatalf("Link: %v", err)
	}

	for _, name := range []string{msphal.SymbolHiromFunction, msphal.SymbolHiromConstant} {
		s, err := layout.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", name, err)
		}
		if s.Addr < 0x10000 || !s.Section.IsUpper() {
			t.Errorf("%s at 0x%x in %s; want high ROM", name, s.Addr, s.Section)
		}
	}

	main, _ := layout.Lookup(msphal.SymbolMain)
	if main.Addr != 0x4400 || main.Section != msphal.SectionText {
		t.Errorf("main at 0x%x in %s", main.Addr, main.Section)
	}

	/* The constant must really be in target memory */
	c, _ := layout.Lookup(msphal.SymbolHiromConstant)
	v, err := msphal.ReadWord(h.MemoryRegionGet(msphal.MemoryRegionALL), c.Addr)
	if err != nil || v != msphal.HiromConstantValue {
		t.Fatalf("constant reads %d, %v", v, err)
	}
}

func TestLink_AlignsToWords(t *testing.T) {
	h, _ := newSimHAL(t)

	layout, err := h.Link(msphal.Placement{}, []msphal.Symbol{
		{Name: "a", Kind: msphal.KindConst, Data: []byte{1, 2, 3}},
		{Name: "b", Kind: msphal.KindConst, Data: []byte{4}},
	})
	if err != nil {
		t.Fatalf("Link: %v", err)
	}

	b, _ := layout.Lookup("b")
	if b.Addr != 0x4404 {
		t.Fatalf("b at 0x%x; want 0x4404", b.Addr)
	}

	segs := layout.Segments()
	if len(segs) != 2 {
		t.Fatalf("got %d segments; want 2", len(segs))
	}
}

func TestLink_EitherSpillsToUpper(t *testing.T) {
	h, _ := newSimHAL(t)
	flashLen := h.MemoryRegionGet(msphal.MemoryRegionFLASH).GetLength()

	p := msphal.Placement{CodeRegion: msphal.RegionEither}
	layout, err := h.Link(p, []msphal.Symbol{
		{Name: "big", Kind: msphal.KindFunc, Size: flashLen - 2},
		{Name: "spill", Kind: msphal.KindFunc, Size: 4},
	})
	if err != nil {
		t.Fatalf("Link: %v", err)
	}

	s, _ := layout.Lookup("spill")
	if s.Addr != 0x10000 || s.Section != msphal.SectionUpperText {
		t.Fatalf("spill at 0x%x in %s", s.Addr, s.Section)
	}
}

func TestLink_LowerFullIsAnError(t *testing.T) {
	h, _ := newSimHAL(t)
	flashLen := h.MemoryRegionGet(msphal.MemoryRegionFLASH).GetLength()

	_, err := h.Link(msphal.Placement{}, []msphal.Symbol{
		{Name: "big", Kind: msphal.KindFunc, Size: flashLen - 2},
		{Name: "next", Kind: msphal.KindFunc, Size: 4},
	})
	if !errors.Is(err, msphal.ErrorNoSpace) {
		t.Fatalf("err = %v; want ErrorNoSpace", err)
	}
}

func TestLayout_LookupUnknown(t *testing.T) {
	l := &msphal.Layout{}
	if _, err := l.Lookup("nope"); !errors.Is(err, msphal.ErrorUnknownSymbol) {
		t.Fatalf("err = %v", err)
	}
}

func TestRegionCRC(t *testing.T) {
	h, _ := newSimHAL(t)
	ram := h.MemoryRegionGet(msphal.MemoryRegionRAM)

	if _, err := ram.Access(true, 0x10, []byte("123456789")); err != nil {
		t.Fatalf("Access: %v", err)
	}

	crc, err := h.RegionCRC(ram, 0x10, 9)
	if err != nil {
		t.Fatalf("RegionCRC: %v", err)
	}
	if crc != 0x29B1 {
		t.Fatalf("crc = 0x%04x; want 0x29b1", crc)
	}

	if _, err := h.RegionCRC(ram, ram.GetLength()-4, 8); !errors.Is(err, msphal.ErrorOutOfRange) {
		t.Fatalf("err = %v; want ErrorOutOfRange", err)
	}
}

func TestRegions(t *testing.T) {
	h, _ := newSimHAL(t)

	if h.MemoryRegionGet("bogus") != nil {
		t.Fatal("unknown region returned non-nil")
	}

	hirom := h.MemoryRegionGet("hirom")
	if hirom == nil || hirom.GetName() != msphal.MemoryRegionHIROM {
		t.Fatal("HIROM lookup is not case insensitive")
	}

	parent, offset := msphal.RecursiveGetParentAddress(hirom, 0x20)
	if parent.GetName() != msphal.MemoryRegionALL || offset != 0x10020 {
		t.Fatalf("parent %s.%x", parent.GetName(), offset)
	}

	/* Windows clip at their end */
	info := h.MemoryRegionGet(msphal.MemoryRegionINFO)
	buf := make([]byte, 8)
	n, err := info.Access(false, info.GetLength()-4, buf)
	if err != nil || n != 4 {
		t.Fatalf("clipped read = %d, %v", n, err)
	}

	if err := msphal.WriteWord(info, 0, 0x1234); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	lo, _ := msphal.ReadByte(info, 0)
	hi, _ := msphal.ReadByte(info, 1)
	if !bytes.Equal([]byte{lo, hi}, []byte{0x34, 0x12}) {
		t.Fatalf("word stored as %02x %02x", lo, hi)
	}

	/* Writes that leave the window fail instead of being clipped */
	flash := h.MemoryRegionGet(msphal.MemoryRegionFLASH)
	if err := msphal.WriteByte(flash, flash.GetLength()+10, 0x55); !errors.Is(err, msphal.ErrorOutOfRange) {
		t.Fatalf("WriteByte past end err = %v; want ErrorOutOfRange", err)
	}
	if err := msphal.WriteWord(flash, flash.GetLength()-1, 0xBEEF); !errors.Is(err, msphal.ErrorOutOfRange) {
		t.Fatalf("WriteWord across end err = %v; want ErrorOutOfRange", err)
	}
	if _, err := msphal.ReadWord(flash, flash.GetLength()-1); !errors.Is(err, msphal.ErrorOutOfRange) {
		t.Fatalf("ReadWord across end err = %v; want ErrorOutOfRange", err)
	}
	if err := msphal.AccessFull(info, true, info.GetLength()-2, make([]byte, 4)); !errors.Is(err, msphal.ErrorOutOfRange) {
		t.Fatalf("AccessFull across end err = %v; want ErrorOutOfRange", err)
	}

	for _, name := range h.MemoryRegionList() {
		if h.MemoryRegionGet(name) == nil {
			t.Errorf("listed region %s cannot be opened", name)
		}
	}
}
