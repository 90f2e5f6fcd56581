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

// SYSCFGID is the peripheral table entry for the system configuration
// controller.
const SYSCFGID = cortexm.PeriphID("syscfg")

// SYSCFG is the system configuration controller. Conditional on the
// capability flag. It records which GPIO port drives each external
// interrupt line; the machine's RouteEXTI() keeps it and the EXTI in
// step.
type SYSCFG struct {
	extiSource [numEXTILines]capability.GPIOPort
}

// NewSYSCFG is the preferred method of initialisation for the SYSCFG
// type.
func NewSYSCFG() *SYSCFG {
	s := &SYSCFG{}
	s.Reset()
	return s
}

// ID implements the cortexm.Peripheral interface.
func (s *SYSCFG) ID() cortexm.PeriphID {
	return SYSCFGID
}

// Reset implements the cortexm.Peripheral interface. Every line falls
// back to port A.
func (s *SYSCFG) Reset() {
	for i := range s.extiSource {
		s.extiSource[i] = capability.PortA
	}
}

// Select routes the external interrupt line to the named port.
func (s *SYSCFG) Select(line int, port capability.GPIOPort) {
	if line < 0 || line >= numEXTILines {
		return
	}
	s.extiSource[line] = port
}

// Source returns the port routed to the external interrupt line.
func (s *SYSCFG) Source(line int) capability.GPIOPort {
	if line < 0 || line >= numEXTILines {
		return capability.PortA
	}
	return s.extiSource[line]
}
