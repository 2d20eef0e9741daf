// Package sim is a register level model of an MSP430F5529 that is just detailed
// enough to run the UART transmit path: watchdog password, pin select, USCI_A0
// reset/baud/modulation registers and a TX shift register driven by UCA0IFG polls.
package sim

import (
	"io"
	"sync"

	"github.com/BertoldVdb/msp430-tools/msphal"
)

type TargetConfig struct {
	/* SMCLK the target actually runs at, used to report the effective baud rate */
	ClockHz int

	/* Number of UCA0IFG reads a character takes to shift out. 0 selects 2. */
	ShiftPolls int

	/* Every character that leaves the shift register is also written here */
	Line io.Writer

	/* Never finish shifting, as if the peripheral hung */
	Stuck bool

	LogFunc msphal.LogFunc
}

type Target struct {
	mu sync.Mutex

	mem    []byte
	config TargetConfig

	line []byte

	shifting   bool
	shiftByte  byte
	shiftPolls int

	resets   int
	overruns int
	dropped  int
}

const (
	wdtctlReset  = 0x6904
	wdtctlReadPW = 0x69
)

func NewTarget(config TargetConfig) *Target {
	if config.ShiftPolls <= 0 {
		config.ShiftPolls = 2
	}
	if config.ClockHz == 0 {
		config.ClockHz = msphal.DefaultClockHz
	}

	t := &Target{
		mem:    make([]byte, msphal.MemoryTop),
		config: config,
	}
	t.reset()

	/* Unprogrammed flash */
	for i := 0x4400; i < len(t.mem); i++ {
		t.mem[i] = 0xFF
	}

	return t
}

func (t *Target) log(level int, format string, param ...interface{}) {
	if t.config.LogFunc != nil {
		t.config.LogFunc(level, format, param...)
	}
}

/* reset is a PUC: only the peripheral registers go back to their defaults */
func (t *Target) reset() {
	t.mem[msphal.RegWDTCTL] = byte(wdtctlReset & 0xff)
	t.mem[msphal.RegWDTCTL+1] = byte(wdtctlReset >> 8)
	t.mem[msphal.RegP1SEL] = 0
	t.mem[msphal.RegP2SEL] = 0
	t.mem[msphal.RegUCA0CTL1] = msphal.UCSWRST
	t.mem[msphal.RegUCA0CTL0] = 0
	t.mem[msphal.RegUCA0BR0] = 0
	t.mem[msphal.RegUCA0BR1] = 0
	t.mem[msphal.RegUCA0MCTL] = 0
	t.mem[msphal.RegUCA0TXBUF] = 0
	t.mem[msphal.RegUCA0IFG] = msphal.UCTXIFG

	t.shifting = false
}

func (t *Target) GetLength() int {
	return len(t.mem)
}

func (t *Target) GetParent() (msphal.MemoryRegion, int) {
	return nil, 0
}

func (t *Target) GetName() msphal.MemoryRegionNameType {
	return msphal.MemoryRegionALL
}

func (t *Target) GetAlignment() int {
	return 1
}

func (t *Target) Access(write bool, addr int, buf []byte) (int, error) {
	if addr < 0 {
		return 0, msphal.ErrorOutOfRange
	}
	if addr >= len(t.mem) {
		return 0, nil
	}
	if addr+len(buf) > len(t.mem) {
		buf = buf[:len(t.mem)-addr]
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if write {
		t.write(addr, buf)
	} else {
		for i := range buf {
			buf[i] = t.readByte(addr + i)
		}
	}

	return len(buf), nil
}

func (t *Target) readByte(addr int) byte {
	switch addr {
	case msphal.RegWDTCTL + 1:
		return wdtctlReadPW
	case msphal.RegUCA0IFG:
		t.tick()
	}
	return t.mem[addr]
}

func (t *Target) write(addr int, buf []byte) {
	/* WDTCTL is only accepted as a full word carrying the password */
	if addr <= msphal.RegWDTCTL+1 && addr+len(buf) > msphal.RegWDTCTL {
		lo := msphal.RegWDTCTL - addr
		hi := lo + 1
		if lo < 0 || hi >= len(buf) || buf[hi] != byte(msphal.WDTPW>>8) {
			t.resets++
			t.log(1, "WDTCTL password violation, PUC")
			t.reset()
			return
		}
	}

	for i, m := range buf {
		a := addr + i
		switch a {
		case msphal.RegWDTCTL + 1:
			/* Password byte is not stored */
		case msphal.RegUCA0TXBUF:
			t.transmit(m)
		default:
			t.mem[a] = m
		}
	}
}

func (t *Target) transmit(b byte) {
	t.mem[msphal.RegUCA0TXBUF] = b

	if t.mem[msphal.RegUCA0CTL1]&msphal.UCSWRST != 0 {
		t.dropped++
		return
	}

	if t.shifting {
		t.overruns++
		t.log(1, "UCA0TXBUF written while busy, 0x%02x lost", t.shiftByte)
	}

	t.shifting = true
	t.shiftByte = b
	t.shiftPolls = 0
	t.mem[msphal.RegUCA0IFG] &^= msphal.UCTXIFG
}

/* tick is one poll worth of time passing for the shift register */
func (t *Target) tick() {
	if !t.shifting || t.config.Stuck {
		return
	}

	t.shiftPolls++
	if t.shiftPolls >= t.config.ShiftPolls {
		t.shiftOut()
	}
}

func (t *Target) shiftOut() {
	t.shifting = false
	t.line = append(t.line, t.shiftByte)
	t.mem[msphal.RegUCA0IFG] |= msphal.UCTXIFG

	if t.config.Line != nil {
		if _, err := t.config.Line.Write([]byte{t.shiftByte}); err != nil {
			t.log(1, "Line writer failed on 0x%02x: %v", t.shiftByte, err)
		}
	}
}

/* Drain lets the last character finish shifting out */
func (t *Target) Drain() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.shifting && !t.config.Stuck {
		t.shiftOut()
	}
}

/* Line returns everything that appeared on the TX pin, including a character still in flight */
func (t *Target) Line() []byte {
	t.Drain()

	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]byte(nil), t.line...)
}

func (t *Target) Resets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resets
}

func (t *Target) Overruns() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overruns
}

/* Dropped counts TXBUF writes while the USCI was held in reset */
func (t *Target) Dropped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}

type LineSettings struct {
	Enabled     bool
	PinsRouted  bool
	WatchdogOn  bool
	ClockSource msphal.ClockSource
	Divisor     uint16
	Modulation  byte
	Baud        int
	Frame       msphal.Frame
}

/* LineSettings decodes the register state into what a receiver has to be set to */
func (t *Target) LineSettings() LineSettings {
	t.mu.Lock()
	defer t.mu.Unlock()

	pins := byte(msphal.BIT1 | msphal.BIT2)
	s := LineSettings{
		Enabled:     t.mem[msphal.RegUCA0CTL1]&msphal.UCSWRST == 0,
		PinsRouted:  t.mem[msphal.RegP1SEL]&pins == pins && t.mem[msphal.RegP2SEL]&pins == pins,
		WatchdogOn:  t.mem[msphal.RegWDTCTL]&msphal.WDTHOLD == 0,
		ClockSource: msphal.ClockSource(t.mem[msphal.RegUCA0CTL1] & 0xC0),
		Divisor:     uint16(t.mem[msphal.RegUCA0BR0]) | uint16(t.mem[msphal.RegUCA0BR1])<<8,
		Modulation:  t.mem[msphal.RegUCA0MCTL],
		Frame:       msphal.FrameFromCTL0(t.mem[msphal.RegUCA0CTL0]),
	}
	if s.Divisor != 0 {
		s.Baud = t.config.ClockHz / int(s.Divisor)
	}
	return s
}
