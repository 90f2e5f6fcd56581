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
	"github.com/retrosoc/retrosoc/hardware/capability"
	"github.com/retrosoc/retrosoc/hardware/cortexm"
)

// RCCID is the peripheral table entry for the clock and reset
// controller.
const RCCID = cortexm.PeriphID("rcc")

// RCC is the clock and reset controller. Always present. It carries the
// oscillator frequencies from the capability descriptor, gates the bus
// clock of the other peripherals, and owns the system clock scale. The
// scale belongs to the machine instance, never to process-wide state.
type RCC struct {
	// internal oscillators, from the capability descriptor
	hsi int64
	lsi int64

	// external oscillators, forwarded from the machine overrides. zero
	// when the board fits no crystal
	hse int64
	lse int64

	// the system clock after reset runs from HSI
	sysclk int64

	// bus clock gates, keyed by peripheral. all closed after reset
	gates map[cortexm.PeriphID]bool
}

// NewRCC is the preferred method of initialisation for the RCC type.
func NewRCC(clk capability.Clock, hse int64, lse int64) *RCC {
	r := &RCC{
		hsi: clk.HSI,
		lsi: clk.LSI,
		hse: hse,
		lse: lse,
	}
	r.Reset()
	return r
}

// ID implements the cortexm.Peripheral interface.
func (r *RCC) ID() cortexm.PeriphID {
	return RCCID
}

// Reset implements the cortexm.Peripheral interface. The system clock
// falls back to HSI and every bus clock gate closes.
func (r *RCC) Reset() {
	r.sysclk = r.hsi
	r.gates = make(map[cortexm.PeriphID]bool)
}

// Sysclk returns the current system clock frequency in Hz.
func (r *RCC) Sysclk() int64 {
	return r.sysclk
}

// ClockScale is the emulator's cycle budget per 100kHz of system clock.
// The single documented initialisation point for what was once a
// process-wide "system clock scale" global: it is derived from the
// resolved clock tree and read, never written, by the execution engine.
func (r *RCC) ClockScale() int {
	return int(r.sysclk / 100_000)
}

// OpenGate enables the bus clock of the given peripheral.
func (r *RCC) OpenGate(id cortexm.PeriphID) {
	r.gates[id] = true
}

// GateOpen returns true if the bus clock of the given peripheral is
// enabled.
func (r *RCC) GateOpen(id cortexm.PeriphID) bool {
	return r.gates[id]
}
