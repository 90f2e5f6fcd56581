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

package stm32

import (
	"sort"

	"github.com/retrosoc/retrosoc/hardware/capability"
)

// gpioFlags builds the bank flag array for banks A up to and including
// the named highest bank.
func gpioFlags(highest capability.GPIOPort) [capability.NumGPIOPorts]bool {
	var f [capability.NumGPIOPorts]bool
	for p := capability.PortA; p <= highest; p++ {
		f[p] = true
	}
	return f
}

// the capability descriptor catalog. descriptors are immutable;
// Variant() hands out copies.
var variants = map[string]capability.Descriptor{
	"stm32f051r8": {
		Name:      "STM32F051R8",
		Family:    capability.FamilyF0,
		Model:     capability.CortexM0,
		SRAMKiB:   8,
		FlashKiB:  64,
		NumIRQ:    64,
		HasGPIO:   gpioFlags(capability.PortF),
		HasSerial: [capability.NumSerialPorts]bool{true, true},
		HasSYSCFG: true,
		Clock:     capability.Clock{HSI: 8_000_000, LSI: 40_000},
	},
	"stm32f103rb": {
		Name:           "STM32F103RB",
		Family:         capability.FamilyF1,
		Model:          capability.CortexM3,
		SRAMKiB:        20,
		FlashKiB:       128,
		NumIRQ:         60,
		HasGPIO:        gpioFlags(capability.PortE),
		HasSerial:      [capability.NumSerialPorts]bool{true, true, true},
		HasPWR:         true,
		HasEXTI:        true,
		HasSRAMBitBand: true,
		Clock:          capability.Clock{HSI: 8_000_000, LSI: 40_000},
	},
	"stm32f407vg": {
		Name:             "STM32F407VG",
		Family:           capability.FamilyF4,
		Model:            capability.CortexM4,
		SRAMKiB:          128,
		FlashKiB:         1024,
		NumIRQ:           82,
		HasGPIO:          gpioFlags(capability.PortI),
		HasSerial:        [capability.NumSerialPorts]bool{true, true, true, true, true, true},
		HasPWR:           true,
		HasSYSCFG:        true,
		HasEXTI:          true,
		HasSRAMBitBand:   true,
		HasPeriphBitBand: true,
		HasITM:           true,
		Clock:            capability.Clock{HSI: 16_000_000, LSI: 32_000},
	},
	"stm32f429zi": {
		Name:             "STM32F429ZI",
		Family:           capability.FamilyF4,
		Model:            capability.CortexM4F,
		SRAMKiB:          192,
		FlashKiB:         2048,
		NumIRQ:           91,
		HasGPIO:          gpioFlags(capability.PortK),
		HasSerial:        [capability.NumSerialPorts]bool{true, true, true, true, true, true},
		HasPWR:           true,
		HasSYSCFG:        true,
		HasEXTI:          true,
		HasSRAMBitBand:   true,
		HasPeriphBitBand: true,
		HasITM:           true,
		Clock:            capability.Clock{HSI: 16_000_000, LSI: 32_000},
	},
}

// Variant returns the capability descriptor for the named chip variant.
func Variant(name string) (capability.Descriptor, bool) {
	d, ok := variants[name]
	return d, ok
}

// VariantNames returns the catalog names in sorted order.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
