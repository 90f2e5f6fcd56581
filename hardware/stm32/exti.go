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
	"github.com/retrosoc/retrosoc/hardware/nvic"
)

// EXTIID is the peripheral table entry for the external interrupt
// controller.
const EXTIID = cortexm.PeriphID("exti")

// numEXTILines is the number of external interrupt lines, one per GPIO
// pin position.
const numEXTILines = 16

// EXTI is the external interrupt controller. It is constructed before
// the GPIO banks because a bank registers its pin forwarding with the
// EXTI during construction.
type EXTI struct {
	// resolved NVIC input lines, one per external interrupt line. lines
	// 0-4 have dedicated NVIC inputs; 5-9 and 10-15 share one each
	lines [numEXTILines]nvic.Line

	// which GPIO port drives each line. kept in step with the SYSCFG by
	// Machine.RouteEXTI()
	source [numEXTILines]capability.GPIOPort

	// unmasked lines
	imr uint32

	// latched events
	pending uint32
}

// nvicLineFor maps an external interrupt line to its fixed NVIC input
// index.
func nvicLineFor(line int) int {
	switch {
	case line < 5:
		return 6 + line
	case line < 10:
		return 23
	default:
		return 40
	}
}

// NewEXTI resolves the fixed NVIC input lines. Fails when the resolved
// interrupt count of the machine is too small for the fixed indices.
func NewEXTI(n *nvic.NVIC) (*EXTI, error) {
	e := &EXTI{}

	for i := 0; i < numEXTILines; i++ {
		line, err := n.Line(nvicLineFor(i))
		if err != nil {
			return nil, err
		}
		e.lines[i] = line
	}

	e.Reset()
	return e, nil
}

// ID implements the cortexm.Peripheral interface.
func (e *EXTI) ID() cortexm.PeriphID {
	return EXTIID
}

// Reset implements the cortexm.Peripheral interface.
func (e *EXTI) Reset() {
	e.imr = 0
	e.pending = 0
	for i := range e.source {
		e.source[i] = capability.PortA
	}
}

// Route sets the GPIO port driving the external interrupt line.
func (e *EXTI) Route(line int, port capability.GPIOPort) {
	if line < 0 || line >= numEXTILines {
		return
	}
	e.source[line] = port
}

// Unmask enables the external interrupt line.
func (e *EXTI) Unmask(line int) {
	if line < 0 || line >= numEXTILines {
		return
	}
	e.imr |= 1 << line
}

// Pending returns true if the line has a latched event.
func (e *EXTI) Pending(line int) bool {
	if line < 0 || line >= numEXTILines {
		return false
	}
	return e.pending&(1<<line) != 0
}

// pinEvent is called by a GPIO bank when one of its pins goes high. the
// event is forwarded to the NVIC when the pin's line is routed to that
// bank and unmasked.
func (e *EXTI) pinEvent(port capability.GPIOPort, pin int) {
	if pin < 0 || pin >= numEXTILines {
		return
	}
	if e.source[pin] != port {
		return
	}
	if e.imr&(1<<pin) == 0 {
		return
	}

	e.pending |= 1 << pin
	e.lines[pin].Raise()
}
