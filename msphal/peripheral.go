package msphal

import "fmt"

/* Register addresses (MSP430F5529, SLAS590) */
const (
	RegWDTCTL    = 0x015C
	RegP1SEL     = 0x020A
	RegP2SEL     = 0x020B
	RegUCA0CTL1  = 0x05C0
	RegUCA0CTL0  = 0x05C1
	RegUCA0BR0   = 0x05C6
	RegUCA0BR1   = 0x05C7
	RegUCA0MCTL  = 0x05C8
	RegUCA0TXBUF = 0x05CE
	RegUCA0IFG   = 0x05DD
)

/* Register bits (SLAU208) */
const (
	WDTPW   = 0x5A00
	WDTHOLD = 0x0080

	UCSWRST = 0x01
	UCTXIFG = 0x02
	UCBRS0  = 0x02

	UCPEN  = 0x80
	UCPAR  = 0x40
	UCMSB  = 0x20
	UC7BIT = 0x10
	UCSPB  = 0x08

	BIT1 = 0x02
	BIT2 = 0x04
)

type ClockSource byte

const (
	ClockUCLK  ClockSource = 0x00
	ClockACLK  ClockSource = 0x40
	ClockSMCLK ClockSource = 0x80
)

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

/* Frame is the character format of the UART */
type Frame struct {
	DataBits int
	Parity   Parity
	StopBits int
}

/* Frame8N1 is what USCI_A0 does out of reset */
var Frame8N1 = Frame{DataBits: 8, Parity: ParityNone, StopBits: 1}

func (f Frame) validate() error {
	if f.DataBits != 7 && f.DataBits != 8 {
		return fmt.Errorf("unsupported data bits: %d", f.DataBits)
	}
	if f.StopBits != 1 && f.StopBits != 2 {
		return fmt.Errorf("unsupported stop bits: %d", f.StopBits)
	}
	if f.Parity > ParityOdd {
		return fmt.Errorf("unsupported parity: %d", f.Parity)
	}
	return nil
}

func (f Frame) String() string {
	p := "N"
	switch f.Parity {
	case ParityEven:
		p = "E"
	case ParityOdd:
		p = "O"
	}
	return fmt.Sprintf("%d%s%d", f.DataBits, p, f.StopBits)
}

/* CTL0 returns the UCA0CTL0 value for this frame in asynchronous UART mode */
func (f Frame) CTL0() byte {
	var v byte
	switch f.Parity {
	case ParityEven:
		v |= UCPEN | UCPAR
	case ParityOdd:
		v |= UCPEN
	}
	if f.DataBits == 7 {
		v |= UC7BIT
	}
	if f.StopBits == 2 {
		v |= UCSPB
	}
	return v
}

/* FrameFromCTL0 decodes UCA0CTL0 */
func FrameFromCTL0(v byte) Frame {
	f := Frame{DataBits: 8, StopBits: 1}
	if v&UCPEN != 0 {
		if v&UCPAR != 0 {
			f.Parity = ParityEven
		} else {
			f.Parity = ParityOdd
		}
	}
	if v&UC7BIT != 0 {
		f.DataBits = 7
	}
	if v&UCSPB != 0 {
		f.StopBits = 2
	}
	return f
}

/* Peripheral is the set of hardware operations the UART code needs */
type Peripheral interface {
	HoldWatchdog() error
	SetPinFunction(port int, mask byte) error
	SetClockSource(src ClockSource) error
	SetBaudDivisor(div uint16) error
	SetModulation(m byte) error
	SetFrame(f Frame) error
	ReleaseReset() error
	TxReady() (bool, error)
	WriteTxBuf(b byte) error
}

type RegisterPeripheral struct {
	regs MemoryRegion
}

/* NewRegisterPeripheral drives USCI_A0 through a region where offset == bus address */
func NewRegisterPeripheral(regs MemoryRegion) *RegisterPeripheral {
	return &RegisterPeripheral{regs: regs}
}

func (p *RegisterPeripheral) HoldWatchdog() error {
	return WriteWord(p.regs, RegWDTCTL, WDTPW|WDTHOLD)
}

func (p *RegisterPeripheral) SetPinFunction(port int, mask byte) error {
	switch port {
	case 1:
		return WriteByte(p.regs, RegP1SEL, mask)
	case 2:
		return WriteByte(p.regs, RegP2SEL, mask)
	}
	return fmt.Errorf("port %d has no UART function", port)
}

func (p *RegisterPeripheral) SetClockSource(src ClockSource) error {
	return p.update(RegUCA0CTL1, byte(src), 0)
}

func (p *RegisterPeripheral) SetBaudDivisor(div uint16) error {
	if err := WriteByte(p.regs, RegUCA0BR0, byte(div&0xff)); err != nil {
		return err
	}
	return WriteByte(p.regs, RegUCA0BR1, byte(div>>8))
}

func (p *RegisterPeripheral) SetModulation(m byte) error {
	return WriteByte(p.regs, RegUCA0MCTL, m)
}

func (p *RegisterPeripheral) SetFrame(f Frame) error {
	return WriteByte(p.regs, RegUCA0CTL0, f.CTL0())
}

func (p *RegisterPeripheral) ReleaseReset() error {
	return p.update(RegUCA0CTL1, 0, UCSWRST)
}

func (p *RegisterPeripheral) TxReady() (bool, error) {
	ifg, err := ReadByte(p.regs, RegUCA0IFG)
	return ifg&UCTXIFG != 0, err
}

func (p *RegisterPeripheral) WriteTxBuf(b byte) error {
	return WriteByte(p.regs, RegUCA0TXBUF, b)
}

func (p *RegisterPeripheral) update(addr int, set byte, clear byte) error {
	v, err := ReadByte(p.regs, addr)
	if err != nil {
		return err
	}
	return WriteByte(p.regs, addr, (v|set)&^clear)
}
