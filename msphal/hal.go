package msphal

import "fmt"

type HAL struct {
	mem    MemoryRegion
	periph Peripheral

	uartInitialized bool

	config HALConfig
}

type LogFunc func(level int, format string, param ...interface{})

type HALConfig struct {
	/* Frequency of SMCLK, the UART input clock */
	ClockHz int
	Baud    int
	Frame   Frame

	/* If nil, the USCI_A0 registers inside the SFR region are used */
	Peripheral Peripheral

	LogFunc LogFunc
}

const (
	DefaultClockHz = 25000000
	DefaultBaud    = 9600
)

/* New creates a HAL on top of the flat 20-bit address space of the target */
func New(mem MemoryRegion, config HALConfig) (*HAL, error) {
	if config.ClockHz == 0 {
		config.ClockHz = DefaultClockHz
	}
	if config.Baud == 0 {
		config.Baud = DefaultBaud
	}
	if config.Frame == (Frame{}) {
		config.Frame = Frame8N1
	}

	if err := config.Frame.validate(); err != nil {
		return nil, err
	}

	if config.ClockHz <= 0 || config.Baud <= 0 {
		return nil, fmt.Errorf("clock %dHz, %d baud: %w", config.ClockHz, config.Baud, ErrorBadBaud)
	}
	if div := config.ClockHz / config.Baud; div < 1 || div > 0xFFFF {
		return nil, fmt.Errorf("divisor %d for %d baud at %dHz: %w", div, config.Baud, config.ClockHz, ErrorBadBaud)
	}

	if mem.GetLength() < memoryTop {
		return nil, ErrorOutOfRange
	}

	h := &HAL{
		mem:    mem,
		config: config,
	}

	h.periph = config.Peripheral
	if h.periph == nil {
		h.periph = NewRegisterPeripheral(h.MemoryRegionGet(MemoryRegionSFR))
	}

	h.log(1, "HAL for %s, SMCLK=%dHz, %d baud %s", h.GetDeviceType(), config.ClockHz, config.Baud, config.Frame)

	return h, nil
}

func (h *HAL) log(level int, format string, param ...interface{}) {
	if h.config.LogFunc != nil {
		h.config.LogFunc(level, format, param...)
	}
}

type MemoryRegionNameType string

const (
	MemoryRegionSFR     MemoryRegionNameType = "SFR"
	MemoryRegionBSL     MemoryRegionNameType = "BSL"
	MemoryRegionINFO    MemoryRegionNameType = "INFO"
	MemoryRegionRAM     MemoryRegionNameType = "RAM"
	MemoryRegionFLASH   MemoryRegionNameType = "FLASH"
	MemoryRegionVECTORS MemoryRegionNameType = "VECTORS"
	MemoryRegionHIROM   MemoryRegionNameType = "HIROM"
	MemoryRegionALL     MemoryRegionNameType = "ALL"
)

func (h *HAL) GetDeviceType() string {
	return "MSP430F5529"
}

func (h *HAL) Config() HALConfig {
	return h.config
}
