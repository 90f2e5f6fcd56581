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
	"io"

	"github.com/retrosoc/retrosoc/curated"
	"github.com/retrosoc/retrosoc/hardware/cortexm"
	"github.com/retrosoc/retrosoc/hardware/nvic"
)

// SerialID returns the peripheral table entry for a serial port. num is
// the 1-based instance number.
func SerialID(num int) cortexm.PeriphID {
	return cortexm.PeriphID(fmt.Sprintf("usart[%d]", num))
}

// USART is one serial port instance. Conditional on its capability
// flag. Each port is wired to the RCC for bus clock gating, to a fixed
// NVIC input line, and to a character-stream backend supplied by the
// host (or the null backend when the host supplied none).
type USART struct {
	num     int
	rcc     *RCC
	irq     nvic.Line
	backend io.ReadWriter

	enabled bool
}

// NewUSART is the preferred method of initialisation for the USART
// type. num is the 1-based instance number.
func NewUSART(num int, rcc *RCC, irq nvic.Line, backend io.ReadWriter) *USART {
	return &USART{
		num:     num,
		rcc:     rcc,
		irq:     irq,
		backend: backend,
	}
}

// ID implements the cortexm.Peripheral interface.
func (u *USART) ID() cortexm.PeriphID {
	return SerialID(u.num)
}

// Reset implements the cortexm.Peripheral interface.
func (u *USART) Reset() {
	u.enabled = false
	u.irq.Lower()
}

// IRQ returns the fixed NVIC input line index of the port.
func (u *USART) IRQ() int {
	return u.irq.Index()
}

// Enable switches the port on. The RCC gate for the port must already
// be open.
func (u *USART) Enable() error {
	if !u.rcc.GateOpen(u.ID()) {
		return curated.Errorf("stm32: usart%d: bus clock gate closed", u.num)
	}
	u.enabled = true
	return nil
}

// Transmit writes one byte to the backend and signals transmission
// complete on the port's interrupt line.
func (u *USART) Transmit(b byte) error {
	if !u.enabled {
		return curated.Errorf("stm32: usart%d: not enabled", u.num)
	}
	if _, err := u.backend.Write([]byte{b}); err != nil {
		return curated.Errorf("stm32: usart%d: %v", u.num, err)
	}
	u.irq.Raise()
	return nil
}
