package msphal

import "strings"

/* MSP430F5529 memory map */
const (
	sfrBase     = 0x00000
	sfrLen      = 0x01000
	bslBase     = 0x01000
	bslLen      = 0x00800
	infoBase    = 0x01800
	infoLen     = 0x00200
	ramBase     = 0x02400
	ramLen      = 0x02000
	flashBase   = 0x04400
	flashLen    = 0x0BB80
	vectorsBase = 0x0FF80
	vectorsLen  = 0x00080
	hiromBase   = 0x10000
	hiromLen    = 0x14400

	memoryTop = hiromBase + hiromLen
)

/* MemoryTop is the size of the flat address space the HAL expects */
const MemoryTop = memoryTop

func (h *HAL) MemoryRegionList() []MemoryRegionNameType {
	return []MemoryRegionNameType{
		MemoryRegionSFR,
		MemoryRegionBSL,
		MemoryRegionINFO,
		MemoryRegionRAM,
		MemoryRegionFLASH,
		MemoryRegionVECTORS,
		MemoryRegionHIROM,
	}
}

func (h *HAL) MemoryRegionGet(name MemoryRegionNameType) MemoryRegion {
	region := h.memoryRegionGet(MemoryRegionNameType(strings.ToUpper(string(name))))
	if region == nil {
		return nil
	}
	return regionWrapCompleteIO(region)
}

func (h *HAL) memoryRegionGet(t MemoryRegionNameType) MemoryRegion {
	switch t {
	case MemoryRegionALL:
		return h.mem
	case MemoryRegionSFR:
		return regionWrapPartial(MemoryRegionSFR, h.mem, sfrBase, sfrLen)
	case MemoryRegionBSL:
		return regionWrapPartial(MemoryRegionBSL, h.mem, bslBase, bslLen)
	case MemoryRegionINFO:
		return regionWrapPartial(MemoryRegionINFO, h.mem, infoBase, infoLen)
	case MemoryRegionRAM:
		return regionWrapPartial(MemoryRegionRAM, h.mem, ramBase, ramLen)
	case MemoryRegionFLASH:
		return regionWrapPartial(MemoryRegionFLASH, h.mem, flashBase, flashLen)
	case MemoryRegionVECTORS:
		return regionWrapPartial(MemoryRegionVECTORS, h.mem, vectorsBase, vectorsLen)
	case MemoryRegionHIROM:
		return regionWrapPartial(MemoryRegionHIROM, h.mem, hiromBase, hiromLen)
	}

	return nil
}
