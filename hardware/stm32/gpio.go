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
	"fmt"

	"github.com/retrosoc/retrosoc/hardware/capability"
	"github.com/retrosoc/retrosoc/hardware/cortexm"
)

// GPIOID returns the peripheral table entry for a GPIO bank.
func GPIOID(p capability.GPIOPort) cortexm.PeriphID {
	return cortexm.PeriphID(fmt.Sprintf("gpio[%s]", p))
}

// numPins per GPIO bank.
const numPins = 16

// GPIO is one bank of 16 general purpose pins. Banks are conditional on
// their individual capability flags and are built in letter order.
type GPIO struct {
	port capability.GPIOPort

	// nil when the variant has no EXTI
	exti *EXTI

	// input data, one bit per pin
	idr uint16

	// output data, one bit per pin
	odr uint16
}

// NewGPIO creates a bank and registers its pin forwarding with the
// EXTI. The EXTI must therefore already exist when the bank is built.
func NewGPIO(port capability.GPIOPort, exti *EXTI) *GPIO {
	return &GPIO{
		port: port,
		exti: exti,
	}
}

// ID implements the cortexm.Peripheral interface.
func (g *GPIO) ID() cortexm.PeriphID {
	return GPIOID(g.port)
}

// Reset implements the cortexm.Peripheral interface.
func (g *GPIO) Reset() {
	g.idr = 0
	g.odr = 0
}

// Port returns the bank letter.
func (g *GPIO) Port() capability.GPIOPort {
	return g.port
}

// SetPin drives an input pin from outside the chip. A rising edge is
// forwarded to the EXTI.
func (g *GPIO) SetPin(pin int, high bool) {
	if pin < 0 || pin >= numPins {
		return
	}

	was := g.idr&(1<<pin) != 0
	if high {
		g.idr |= 1 << pin
	} else {
		g.idr &^= 1 << pin
	}

	if high && !was && g.exti != nil {
		g.exti.pinEvent(g.port, pin)
	}
}

// Pin returns the state of an input pin.
func (g *GPIO) Pin(pin int) bool {
	if pin < 0 || pin >= numPins {
		return false
	}
	return g.idr&(1<<pin) != 0
}
