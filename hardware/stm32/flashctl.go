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

// FlashCtlID is the peripheral table entry for the Flash controller.
const FlashCtlID = cortexm.PeriphID("flash")

// FlashCtl is the Flash memory controller. Always present. Programming
// is mediated by the controller, which is why the Flash region itself is
// mapped read-only.
type FlashCtl struct {
	// wait states for the current clock configuration
	latency int

	locked bool
}

// NewFlashCtl is the preferred method of initialisation for the
// FlashCtl type.
func NewFlashCtl() *FlashCtl {
	f := &FlashCtl{}
	f.Reset()
	return f
}

// ID implements the cortexm.Peripheral interface.
func (f *FlashCtl) ID() cortexm.PeriphID {
	return FlashCtlID
}

// Reset implements the cortexm.Peripheral interface.
func (f *FlashCtl) Reset() {
	f.latency = 0
	f.locked = true
}

// Locked returns true while the programming interface is locked.
func (f *FlashCtl) Locked() bool {
	return f.locked
}
