package msphal

import (
	"fmt"
	"strings"

	"github.com/BertoldVdb/msp430-tools/msphal/image"
)

type Section string

const (
	SectionText        Section = ".text"
	SectionRodata      Section = ".rodata"
	SectionUpperText   Section = ".upper.text"
	SectionUpperRodata Section = ".upper.rodata"
)

func (s Section) IsUpper() bool {
	return strings.HasPrefix(string(s), ".upper.")
}

type SymbolKind int

const (
	KindFunc SymbolKind = iota
	KindConst
)

func (k SymbolKind) String() string {
	if k == KindFunc {
		return "func"
	}
	return "const"
}

type Symbol struct {
	Name string
	Kind SymbolKind

	/* Size is only used when Data is empty, the space is then zero filled */
	Size int
	Data []byte

	/* Declared with the HIROM attribute */
	HighMem bool
}

func (s Symbol) size() int {
	if len(s.Data) > 0 {
		return len(s.Data)
	}
	return s.Size
}

/* RegionPolicy matches msp430-gcc -mcode-region / -mdata-region */
type RegionPolicy int

const (
	RegionLower RegionPolicy = iota
	RegionUpper
	RegionEither
)

func (r RegionPolicy) String() string {
	switch r {
	case RegionUpper:
		return "upper"
	case RegionEither:
		return "either"
	}
	return "lower"
}

func ParseRegionPolicy(s string) (RegionPolicy, error) {
	switch strings.ToLower(s) {
	case "lower", "":
		return RegionLower, nil
	case "upper":
		return RegionUpper, nil
	case "either":
		return RegionEither, nil
	}
	return RegionLower, fmt.Errorf("unknown region policy %q", s)
}

/* Placement decides where symbols end up. ForceHighMem corresponds to building with FORCE_HIGHMEM. */
type Placement struct {
	ForceHighMem bool
	CodeRegion   RegionPolicy
	DataRegion   RegionPolicy
}

func (p Placement) policy(sym Symbol) RegionPolicy {
	if sym.Kind == KindFunc {
		return p.CodeRegion
	}
	return p.DataRegion
}

func sectionPair(kind SymbolKind) (Section, Section) {
	if kind == KindFunc {
		return SectionText, SectionUpperText
	}
	return SectionRodata, SectionUpperRodata
}

/* SectionFor returns the output section for sym. With RegionEither the linker may still
 * move a lower section symbol up when low ROM is full. */
func (p Placement) SectionFor(sym Symbol) Section {
	lower, upper := sectionPair(sym.Kind)

	if p.ForceHighMem && sym.HighMem {
		return upper
	}

	if p.policy(sym) == RegionUpper {
		return upper
	}
	return lower
}

type Placed struct {
	Symbol
	Section Section
	Addr    int
}

type Layout struct {
	Placement Placement
	Symbols   []Placed
}

func (l *Layout) Lookup(name string) (Placed, error) {
	for _, m := range l.Symbols {
		if m.Name == name {
			return m, nil
		}
	}
	return Placed{}, fmt.Errorf("%s: %w", name, ErrorUnknownSymbol)
}

func (l *Layout) Segments() []image.Segment {
	var segs []image.Segment
	for _, m := range l.Symbols {
		data := m.Data
		if len(data) == 0 {
			data = make([]byte, m.Size)
		}
		segs = append(segs, image.Segment{Addr: m.Addr, Data: data})
	}
	return image.Merge(segs)
}

type linkCursor struct {
	next int
	end  int
}

func (c *linkCursor) alloc(size int) (int, bool) {
	addr := (c.next + 1) &^ 1
	if addr+size > c.end {
		return 0, false
	}
	c.next = addr + size
	return addr, true
}

/* Link allocates every symbol in FLASH or HIROM and writes its contents into the target */
func (h *HAL) Link(p Placement, syms []Symbol) (*Layout, error) {
	low := &linkCursor{next: flashBase, end: flashBase + flashLen}
	high := &linkCursor{next: hiromBase, end: hiromBase + hiromLen}

	layout := &Layout{Placement: p}

	for _, sym := range syms {
		section := p.SectionFor(sym)

		cursor := low
		if section.IsUpper() {
			cursor = high
		}

		addr, ok := cursor.alloc(sym.size())
		if !ok && !section.IsUpper() && p.policy(sym) == RegionEither {
			_, section = sectionPair(sym.Kind)
			addr, ok = high.alloc(sym.size())
		}
		if !ok {
			return nil, fmt.Errorf("%s (%d bytes in %s): %w", sym.Name, sym.size(), section, ErrorNoSpace)
		}

		if len(sym.Data) > 0 {
			if _, err := h.mem.Access(true, addr, sym.Data); err != nil {
				return nil, err
			}
		}

		h.log(1, "Placed %s %s in %s at 0x%05x", sym.Kind, sym.Name, section, addr)
		layout.Symbols = append(layout.Symbols, Placed{Symbol: sym, Section: section, Addr: addr})
	}

	return layout, nil
}

/* RegionCRC computes the BSL CRC over n bytes of region starting at addr */
func (h *HAL) RegionCRC(region MemoryRegion, addr int, n int) (uint16, error) {
	buf := make([]byte, n)
	if err := AccessFull(region, false, addr, buf); err != nil {
		return 0, err
	}
	return image.CRC(buf), nil
}
