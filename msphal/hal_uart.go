package msphal

import "context"

/* BaudDivisor truncates like the firmware does: (uint16)(F_CPU / baud) */
func BaudDivisor(clockHz int, baud int) uint16 {
	return uint16(int64(clockHz) / int64(baud))
}

/* UARTInit puts P1.1/P1.2 on USCI_A0 and starts it at the configured rate.
 * It has to run once before anything is transmitted. */
func (h *HAL) UARTInit() error {
	if err := h.periph.HoldWatchdog(); err != nil {
		return err
	}

	if err := h.periph.SetPinFunction(1, BIT1|BIT2); err != nil {
		return err
	}
	if err := h.periph.SetPinFunction(2, BIT1|BIT2); err != nil {
		return err
	}

	if err := h.periph.SetClockSource(ClockSMCLK); err != nil {
		return err
	}

	div := BaudDivisor(h.config.ClockHz, h.config.Baud)
	if err := h.periph.SetBaudDivisor(div); err != nil {
		return err
	}
	if err := h.periph.SetModulation(UCBRS0); err != nil {
		return err
	}

	/* Out of reset the USCI is already 8N1 */
	if h.config.Frame != Frame8N1 {
		if err := h.periph.SetFrame(h.config.Frame); err != nil {
			return err
		}
	}

	if err := h.periph.ReleaseReset(); err != nil {
		return err
	}

	h.uartInitialized = true
	h.log(1, "UART initialized: divisor=%d (BR0=0x%02x BR1=0x%02x)", div, byte(div), byte(div>>8))

	return nil
}

func (h *HAL) UARTWriteChar(c byte) error {
	return h.uartWriteChar(context.Background(), c)
}

func (h *HAL) UARTWriteBytes(data []byte) error {
	return h.UARTWriteBytesContext(context.Background(), data)
}

/* UARTWriteBytesContext is UARTWriteBytes with a way out of the ready spin.
 * Without a deadline it spins forever, like the firmware. */
func (h *HAL) UARTWriteBytesContext(ctx context.Context, data []byte) error {
	h.log(2, "UART TX %d bytes", len(data))

	for _, m := range data {
		if err := h.uartWriteChar(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (h *HAL) uartWriteChar(ctx context.Context, c byte) error {
	if !h.uartInitialized {
		return ErrorNotInitialized
	}

	for {
		ready, err := h.periph.TxReady()
		if err != nil {
			return err
		}
		if ready {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	h.log(3, "UCA0TXBUF <- 0x%02x", c)
	return h.periph.WriteTxBuf(c)
}
