package sim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/BertoldVdb/msp430-tools/msphal"
)

func newTestHAL(t *testing.T, tc TargetConfig, hc msphal.HALConfig) (*msphal.HAL, *Target) {
	t.Helper()
	target := NewTarget(tc)
	h, err := msphal.New(target, hc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h, target
}

func TestTarget_ResetState(t *testing.T) {
	_, target := newTestHAL(t, TargetConfig{}, msphal.HALConfig{})

	s := target.LineSettings()
	if s.Enabled || s.PinsRouted || !s.WatchdogOn {
		t.Fatalf("unexpected reset state: %+v", s)
	}
	if s.Frame != msphal.Frame8N1 {
		t.Fatalf("reset frame = %s; want 8N1", s.Frame)
	}

	wdt, err := msphal.ReadWord(target, msphal.RegWDTCTL)
	if err != nil || wdt != 0x6904 {
		t.Fatalf("WDTCTL = 0x%04x, %v; want 0x6904", wdt, err)
	}
}

func TestUARTInit_Registers(t *testing.T) {
	h, target := newTestHAL(t, TargetConfig{}, msphal.HALConfig{})
	if err := h.UARTInit(); err != nil {
		t.Fatalf("UARTInit: %v", err)
	}

	sfr := h.MemoryRegionGet(msphal.MemoryRegionSFR)
	regs := []struct {
		addr int
		want byte
	}{
		{msphal.RegP1SEL, 0x06},
		{msphal.RegP2SEL, 0x06},
		{msphal.RegUCA0CTL1, 0x80},
		{msphal.RegUCA0CTL0, 0x00},
		{msphal.RegUCA0BR0, 0x2C},
		{msphal.RegUCA0BR1, 0x0A},
		{msphal.RegUCA0MCTL, msphal.UCBRS0},
	}
	for _, r := range regs {
		got, err := msphal.ReadByte(sfr, r.addr)
		if err != nil {
			t.Fatalf("ReadByte(0x%04x): %v", r.addr, err)
		}
		if got != r.want {
			t.Errorf("reg 0x%04x = 0x%02x; want 0x%02x", r.addr, got, r.want)
		}
	}

	wdt, err := msphal.ReadWord(sfr, msphal.RegWDTCTL)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if wdt != 0x6980 {
		t.Errorf("WDTCTL = 0x%04x; want 0x6980", wdt)
	}

	s := target.LineSettings()
	if !s.Enabled || !s.PinsRouted || s.WatchdogOn {
		t.Fatalf("line not set up: %+v", s)
	}
	if s.ClockSource != msphal.ClockSMCLK || s.Divisor != 2604 || s.Baud != 9600 {
		t.Fatalf("clock=%02x div=%d baud=%d", s.ClockSource, s.Divisor, s.Baud)
	}
	if target.Resets() != 0 {
		t.Fatalf("init caused %d resets", target.Resets())
	}
}

func TestWrite_OKOnTheLine(t *testing.T) {
	var sink bytes.Buffer
	h, target := newTestHAL(t, TargetConfig{Line: &sink, ShiftPolls: 5}, msphal.HALConfig{})
	if err := h.UARTInit(); err != nil {
		t.Fatalf("UARTInit: %v", err)
	}

	r := h.Write(1, []byte("OK\n"))
	if r.N != 3 || !r.OK() {
		t.Fatalf("write = %d, %v; want 3, ok", r.N, r.Err)
	}

	if got := string(target.Line()); got != "OK\n" {
		t.Fatalf("line = %q; want \"OK\\n\"", got)
	}
	if sink.String() != "OK\n" {
		t.Fatalf("sink = %q", sink.String())
	}
	if target.Overruns() != 0 || target.Dropped() != 0 {
		t.Fatalf("overruns=%d dropped=%d", target.Overruns(), target.Dropped())
	}
}

type brokenLine struct{}

func (brokenLine) Write(p []byte) (int, error) { return 0, errors.New("cable unplugged") }

func TestTarget_LineWriterFailureLogged(t *testing.T) {
	var logged []string
	tc := TargetConfig{
		Line: brokenLine{},
		LogFunc: func(level int, format string, param ...interface{}) {
			logged = append(logged, fmt.Sprintf(format, param...))
		},
	}
	h, target := newTestHAL(t, tc, msphal.HALConfig{})
	if err := h.UARTInit(); err != nil {
		t.Fatalf("UARTInit: %v", err)
	}

	if r := h.Write(1, []byte("x")); !r.OK() {
		t.Fatalf("write: %v", r.Err)
	}
	if got := string(target.Line()); got != "x" {
		t.Fatalf("line = %q; want \"x\"", got)
	}

	found := false
	for _, l := range logged {
		if strings.Contains(l, "cable unplugged") {
			found = true
		}
	}
	if !found {
		t.Fatalf("line writer error not logged: %q", logged)
	}
}

func TestWrite_BadDescriptorSendsNothing(t *testing.T) {
	h, target := newTestHAL(t, TargetConfig{}, msphal.HALConfig{})
	if err := h.UARTInit(); err != nil {
		t.Fatalf("UARTInit: %v", err)
	}

	r := h.Write(5, []byte("x"))
	if r.N != -1 || r.Err != msphal.EBADF {
		t.Fatalf("write = %d, %v; want -1, EBADF", r.N, r.Err)
	}
	if len(target.Line()) != 0 {
		t.Fatalf("line = %q; want nothing", target.Line())
	}
}

func TestWrite_LongBufferInOrder(t *testing.T) {
	h, target := newTestHAL(t, TargetConfig{ShiftPolls: 3}, msphal.HALConfig{})
	if err := h.UARTInit(); err != nil {
		t.Fatalf("UARTInit: %v", err)
	}

	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i * 7)
	}
	if r := h.Write(msphal.StderrFileno, data); r.N != len(data) {
		t.Fatalf("write = %d, %v", r.N, r.Err)
	}
	if !bytes.Equal(target.Line(), data) {
		t.Fatal("line does not match buffer")
	}
	if target.Overruns() != 0 {
		t.Fatalf("%d overruns", target.Overruns())
	}
}

func TestTarget_ExplicitFrame(t *testing.T) {
	frame := msphal.Frame{DataBits: 8, Parity: msphal.ParityOdd, StopBits: 2}
	h, target := newTestHAL(t, TargetConfig{ClockHz: 1048576}, msphal.HALConfig{ClockHz: 1048576, Frame: frame})
	if err := h.UARTInit(); err != nil {
		t.Fatalf("UARTInit: %v", err)
	}

	s := target.LineSettings()
	if s.Frame != frame {
		t.Fatalf("frame = %s; want %s", s.Frame, frame)
	}
	if s.Divisor != 109 {
		t.Fatalf("divisor = %d; want 109", s.Divisor)
	}
}

func TestTarget_TXBUFWhileInReset(t *testing.T) {
	target := NewTarget(TargetConfig{})
	if err := msphal.WriteByte(target, msphal.RegUCA0TXBUF, 'x'); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if target.Dropped() != 1 || len(target.Line()) != 0 {
		t.Fatalf("dropped=%d line=%q", target.Dropped(), target.Line())
	}
}

func TestTarget_WatchdogPasswordViolation(t *testing.T) {
	h, target := newTestHAL(t, TargetConfig{}, msphal.HALConfig{})
	if err := h.UARTInit(); err != nil {
		t.Fatalf("UARTInit: %v", err)
	}

	/* Byte access to WDTCTL, the password never arrives */
	if err := msphal.WriteByte(target, msphal.RegWDTCTL, msphal.WDTHOLD); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}

	if target.Resets() != 1 {
		t.Fatalf("resets = %d; want 1", target.Resets())
	}
	if target.LineSettings().Enabled {
		t.Fatal("USCI still enabled after PUC")
	}
}

func TestTarget_OverrunWithoutPolling(t *testing.T) {
	target := NewTarget(TargetConfig{})
	if err := msphal.WriteByte(target, msphal.RegUCA0CTL1, 0x80); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}

	target.Access(true, msphal.RegUCA0TXBUF, []byte{'a'})
	target.Access(true, msphal.RegUCA0TXBUF, []byte{'b'})

	if target.Overruns() != 1 {
		t.Fatalf("overruns = %d; want 1", target.Overruns())
	}
}

func TestStuckTarget_ContextEndsSpin(t *testing.T) {
	h, target := newTestHAL(t, TargetConfig{Stuck: true}, msphal.HALConfig{})
	if err := h.UARTInit(); err != nil {
		t.Fatalf("UARTInit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := h.UARTWriteBytesContext(ctx, []byte("ab"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v; want DeadlineExceeded", err)
	}

	/* 'a' went into the shift register and never came out */
	if len(target.Line()) != 0 {
		t.Fatalf("line = %q", target.Line())
	}
}

func TestTarget_AccessBounds(t *testing.T) {
	target := NewTarget(TargetConfig{})

	buf := make([]byte, 4)
	n, err := target.Access(false, msphal.MemoryTop-2, buf)
	if err != nil || n != 2 {
		t.Fatalf("Access at end = %d, %v; want 2, nil", n, err)
	}
	if n, _ := target.Access(false, msphal.MemoryTop, buf); n != 0 {
		t.Fatalf("Access past end = %d", n)
	}
	if _, err := target.Access(false, -1, buf); !errors.Is(err, msphal.ErrorOutOfRange) {
		t.Fatalf("err = %v; want ErrorOutOfRange", err)
	}
}
