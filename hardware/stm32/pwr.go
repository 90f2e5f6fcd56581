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
	"github.com/retrosoc/retrosoc/hardware/cortexm"
)

// PWRID is the peripheral table entry for the power controller.
const PWRID = cortexm.PeriphID("pwr")

// PWR is the power controller. Conditional on the capability flag.
type PWR struct {
	// backup domain write protection
	backupProtected bool

	// regulator voltage scale, 1 after reset
	scale int
}

// NewPWR is the preferred method of initialisation for the PWR type.
func NewPWR() *PWR {
	p := &PWR{}
	p.Reset()
	return p
}

// ID implements the cortexm.Peripheral interface.
func (p *PWR) ID() cortexm.PeriphID {
	return PWRID
}

// Reset implements the cortexm.Peripheral interface.
func (p *PWR) Reset() {
	p.backupProtected = true
	p.scale = 1
}
