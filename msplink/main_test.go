package main

import (
	"testing"

	"github.com/BertoldVdb/msp430-tools/msphal"
)

func TestLinkAndVerify(t *testing.T) {
	hal, layout, err := link(msphal.Placement{ForceHighMem: true})
	if err != nil {
		t.Fatalf("link: %v", err)
	}

	segs := layout.Segments()
	if len(segs) != 2 {
		t.Fatalf("got %d segments; want low and high", len(segs))
	}
	if segs[1].Addr != 0x10000 {
		t.Fatalf("high segment at 0x%x", segs[1].Addr)
	}

	if err := verify(hal, segs); err != nil {
		t.Fatalf("verify: %v", err)
	}

	/* Corrupt one byte and make sure verify notices */
	if err := msphal.WriteByte(hal.MemoryRegionGet(msphal.MemoryRegionALL), 0x10000, 0xAA); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if err := verify(hal, segs); err == nil {
		t.Fatal("verify accepted corrupted image")
	}
}
