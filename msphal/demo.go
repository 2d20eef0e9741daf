package msphal

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	SymbolMain          = "main"
	SymbolHiromFunction = "my_function_in_hirom"
	SymbolHiromConstant = "constant_in_hirom"

	HiromConstantValue = 123
)

/* RETA, so the placed function bodies are at least executable */
var stubBody = []byte{0x10, 0x01}

/* DemoSymbols is what the demo firmware links */
func DemoSymbols() []Symbol {
	constant := make([]byte, 2)
	binary.LittleEndian.PutUint16(constant, HiromConstantValue)

	return []Symbol{
		{Name: SymbolMain, Kind: KindFunc, Data: stubBody},
		{Name: SymbolHiromFunction, Kind: KindFunc, Data: stubBody, HighMem: true},
		{Name: SymbolHiromConstant, Kind: KindConst, Data: constant, HighMem: true},
	}
}

type demo struct {
	stdout io.Writer
}

func (d *demo) functionInHirom(a int, b int) (int, error) {
	if _, err := fmt.Fprintf(d.stdout, "Entry params: %d, %d\n", a, b); err != nil {
		return 0, err
	}
	return a + b, nil
}

/* RunDemo runs the demo firmware main() on the target behind h. layout must come from
 * linking DemoSymbols. */
func RunDemo(h *HAL, layout *Layout) error {
	d := &demo{stdout: h.Stream(StdoutFileno)}

	fn, err := layout.Lookup(SymbolHiromFunction)
	if err != nil {
		return err
	}
	constant, err := layout.Lookup(SymbolHiromConstant)
	if err != nil {
		return err
	}

	if err := h.UARTInit(); err != nil {
		return err
	}

	sum, err := d.functionInHirom(1, 2)
	if err != nil {
		return err
	}
	h.log(2, "%s returned %d", SymbolHiromFunction, sum)

	if layout.Placement.ForceHighMem {
		_, err = fmt.Fprintf(d.stdout, "FORCE_HIGHMEM is activated. The following functions and constants should be in high-ROM >= 0x10000.\n")
	} else {
		_, err = fmt.Fprintf(d.stdout, "FORCE_HIGHMEM is deactivated. The following functions and constants will probably be placed in low-ROM, depending on compiler settings.\n")
	}
	if err != nil {
		return err
	}

	/* Read the constant back from where it was placed, like the volatile access does */
	value, err := ReadWord(h.mem, constant.Addr)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(d.stdout, "Constant test: value %d, address 0x%x\n", int16(value), constant.Addr); err != nil {
		return err
	}

	_, err = fmt.Fprintf(d.stdout, "%s address: 0x%x\n", SymbolHiromFunction, fn.Addr)
	return err
}
