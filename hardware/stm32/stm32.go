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

// Package stm32 is the vendor extension layer for STM32 family chips.
// It builds on the generic cortexm composition engine by substituting
// the address-space and peripheral-tree extension points: the vendor
// address map adds the canonical Flash alias at 0x08000000 and the
// peripheral bit-band window; the peripheral tree is driven entirely by
// the capability flags of the selected variant.
//
// Peripheral build order is fixed and significant. Later peripherals
// hold handles to earlier ones (USARTs reference the RCC, GPIO banks
// reference the EXTI) and the reset cascade replays construction order.
package stm32

import (
	"fmt"

	"github.com/retrosoc/retrosoc/chario"
	"github.com/retrosoc/retrosoc/curated"
	"github.com/retrosoc/retrosoc/hardware/capability"
	"github.com/retrosoc/retrosoc/hardware/cortexm"
)

// Error patterns returned by NewMachine().
const (
	UnknownVariant        = "stm32: unknown variant: %s"
	PeripheralWiringError = "stm32: peripheral wiring: %s"
)

// The vendor additions to the generic memory map.
const (
	// the canonical Flash base address. the STM32 family maps its Flash
	// here and aliases it to the boot space at address 0; the emulated
	// map is built the other way around, with the alias forwarding to
	// the region at 0
	OriginFlashAlias = uint32(0x08000000)

	// source window of the peripheral bit-band region
	OriginPeriph = uint32(0x40000000)
)

// fixed NVIC input line per serial port instance (USART1-3, UART4-5,
// USART6). Peripherals store the index, not a transient reference.
var serialIRQ = [capability.NumSerialPorts]int{37, 38, 39, 52, 53, 71}

// Machine is an assembled STM32 chip: the generic MCU plus handles to
// the vendor peripheral subtree. Only the peripherals selected by the
// variant's capability flags are non-nil.
type Machine struct {
	*cortexm.MCU

	RCC      *RCC
	FlashCtl *FlashCtl
	PWR      *PWR
	SYSCFG   *SYSCFG
	EXTI     *EXTI
	GPIO     [capability.NumGPIOPorts]*GPIO
	USART    [capability.NumSerialPorts]*USART

	// NumGPIO is the index of the highest-lettered enabled GPIO bank
	// plus one, not the count of enabled banks. older-style summary
	// bookkeeping, preserved deliberately: with banks A and C enabled
	// and B disabled, NumGPIO is 3
	NumGPIO int
}

// NewMachine assembles the named chip variant. Overrides are resolved
// against the variant's capability descriptor before anything is built.
// Either a fully constructed machine or an error is returned, never a
// partial machine.
func NewMachine(variant string, ov capability.Overrides, col cortexm.Collaborators) (*Machine, error) {
	desc, ok := Variant(variant)
	if !ok {
		return nil, curated.Errorf(UnknownVariant, variant)
	}
	return NewMachineFromDescriptor(desc, ov, col)
}

// NewMachineFromDescriptor assembles a machine from an explicit
// capability descriptor. Useful for tests and for chips not in the
// variant catalog.
func NewMachineFromDescriptor(desc capability.Descriptor, ov capability.Overrides, col cortexm.Collaborators) (*Machine, error) {
	mach := &Machine{}

	mcu, err := cortexm.Construct(desc, ov, cortexm.Ops{
		MemoryRegions: mach.memoryRegions,
		Peripherals:   mach.peripherals,
	}, col)
	if err != nil {
		return nil, err
	}

	mach.MCU = mcu
	return mach, nil
}

// memoryRegions is the vendor MemoryRegions extension point. It
// delegates to the generic composer first and then adds the vendor
// regions.
func (mach *Machine) memoryRegions(m *cortexm.MCU) error {
	if err := cortexm.GenericRegions(m); err != nil {
		return err
	}

	// reads of the canonical Flash base pass through to the region at
	// address 0. read-only follows from the backing region being ROM
	if _, err := m.Mem.MapAlias("flash-alias", OriginFlashAlias, m.Flash, 0, m.Flash.Size()); err != nil {
		return err
	}

	if m.Desc.HasPeriphBitBand {
		if _, err := m.Mem.MapBitBand("periph-bitband", OriginPeriph); err != nil {
			return err
		}
	}

	return nil
}

// peripherals is the vendor Peripherals extension point. Build order is
// a contract: RCC, Flash controller, PWR, SYSCFG, EXTI (before the GPIO
// banks, which register pin forwarding with it), GPIO banks in letter
// order, serial ports in instance order.
func (mach *Machine) peripherals(m *cortexm.MCU) error {
	if err := cortexm.GenericPeripherals(m); err != nil {
		return err
	}

	mach.RCC = NewRCC(m.Desc.Clock, m.Desc.HSE, m.Desc.LSE)
	if err := m.AddPeripheral(mach.RCC); err != nil {
		return err
	}

	mach.FlashCtl = NewFlashCtl()
	if err := m.AddPeripheral(mach.FlashCtl); err != nil {
		return err
	}

	if m.Desc.HasPWR {
		mach.PWR = NewPWR()
		if err := m.AddPeripheral(mach.PWR); err != nil {
			return err
		}
	}

	if m.Desc.HasSYSCFG {
		mach.SYSCFG = NewSYSCFG()
		if err := m.AddPeripheral(mach.SYSCFG); err != nil {
			return err
		}
	}

	if m.Desc.HasEXTI {
		exti, err := NewEXTI(m.NVIC)
		if err != nil {
			return curated.Errorf(PeripheralWiringError, fmt.Sprintf("exti: %v", err))
		}
		mach.EXTI = exti
		if err := m.AddPeripheral(mach.EXTI); err != nil {
			return err
		}
	}

	for p := capability.PortA; p < capability.NumGPIOPorts; p++ {
		if !m.Desc.HasGPIO[p] {
			continue
		}
		mach.GPIO[p] = NewGPIO(p, mach.EXTI)
		if err := m.AddPeripheral(mach.GPIO[p]); err != nil {
			return err
		}
		mach.NumGPIO = int(p) + 1
	}

	for i := 0; i < capability.NumSerialPorts; i++ {
		if !m.Desc.HasSerial[i] {
			continue
		}

		if i >= chario.MaxPorts {
			return curated.Errorf(PeripheralWiringError,
				fmt.Sprintf("usart%d: only %d serial ports supported", i+1, chario.MaxPorts))
		}

		line, err := m.NVIC.Line(serialIRQ[i])
		if err != nil {
			return curated.Errorf(PeripheralWiringError, fmt.Sprintf("usart%d: %v", i+1, err))
		}

		backend := m.Chario(i)
		if backend == nil {
			// no externally configured backend. substitute the discard
			// backend rather than failing construction
			backend = chario.Null{}
		}

		mach.USART[i] = NewUSART(i+1, mach.RCC, line, backend)
		if err := m.AddPeripheral(mach.USART[i]); err != nil {
			return err
		}
	}

	return nil
}

// RouteEXTI records, in the SYSCFG and the EXTI, that the external
// interrupt line is driven by the named GPIO port. A no-op when the
// variant has neither controller.
func (mach *Machine) RouteEXTI(line int, port capability.GPIOPort) {
	if mach.SYSCFG != nil {
		mach.SYSCFG.Select(line, port)
	}
	if mach.EXTI != nil {
		mach.EXTI.Route(line, port)
	}
}
