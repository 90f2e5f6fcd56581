// This file is part of RetroSoC.
//
// RetroSoC is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RetroSoC is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RetroSoC.  If not, see <https://www.gnu.org/licenses/>.

package cortexm

import (
	"github.com/retrosoc/retrosoc/loader"
)

// The fixed origins of the generic Cortex-M memory map.
const (
	OriginFlash = uint32(0x00000000)
	OriginSRAM  = uint32(0x20000000)

	// a small always-present region at the very top of the address
	// space. instruction fetches immediately following an exception
	// return land here and must not fault
	OriginGuard = uint32(0xfffff000)
	GuardSize   = uint32(0x1000)
)

// GenericRegions is the default MemoryRegions extension point: Flash at
// 0, read-only, sized to the resolved Flash size; SRAM at OriginSRAM,
// sized to the resolved SRAM size, with its bit-band window when the
// descriptor asks for one; and the guard region at the top of the
// address space.
//
// A vendor MemoryRegions implementation may call GenericRegions as a
// sub-step and add further regions afterwards.
func GenericRegions(m *MCU) error {
	var err error

	m.Flash, err = m.Mem.MapROM("flash", OriginFlash, uint32(m.Desc.FlashKiB)*1024)
	if err != nil {
		return err
	}

	m.SRAM, err = m.Mem.MapRAM("sram", OriginSRAM, uint32(m.Desc.SRAMKiB)*1024)
	if err != nil {
		return err
	}

	if m.Desc.HasSRAMBitBand {
		if _, err = m.Mem.MapBitBand("sram-bitband", OriginSRAM); err != nil {
			return err
		}
	}

	if _, err = m.Mem.MapRAM("guard", OriginGuard, GuardSize); err != nil {
		return err
	}

	return nil
}

// GenericImageLoad is the default ImageLoad extension point. It is
// idempotent; the reset cascade relies on that to re-materialise the
// image before core registers are reset.
func GenericImageLoad(m *MCU) error {
	if m.Desc.Image == "" {
		return nil
	}

	img, err := loader.Load(m.Desc.Image, m.Mem, m.Flash)
	if err != nil {
		return err
	}
	m.Image = img

	return nil
}

// GenericPeripherals is the default Peripherals extension point. The
// generic layer has a single fixed peripheral, the ITM trace unit,
// created only when the capability flag selects it.
func GenericPeripherals(m *MCU) error {
	if m.Desc.HasITM {
		return m.AddPeripheral(NewITM())
	}
	return nil
}
