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

// ITMID is the peripheral table entry for the trace unit.
const ITMID = PeriphID("itm")

// numStimulusPorts is fixed by the architecture.
const numStimulusPorts = 32

// ITM is the instrumentation trace macrocell, the one fixed peripheral
// of the generic layer. Only its lifecycle is modelled.
type ITM struct {
	enabled bool

	// per-port enable mask
	ter uint32
}

// NewITM is the preferred method of initialisation for the ITM type.
func NewITM() *ITM {
	return &ITM{}
}

// ID implements the Peripheral interface.
func (itm *ITM) ID() PeriphID {
	return ITMID
}

// Reset implements the Peripheral interface.
func (itm *ITM) Reset() {
	itm.enabled = false
	itm.ter = 0
}

// Enabled returns true while the trace unit is switched on.
func (itm *ITM) Enabled() bool {
	return itm.enabled
}

// Enable switches the trace unit on.
func (itm *ITM) Enable() {
	itm.enabled = true
}

// EnableStimulus opens the numbered stimulus port.
func (itm *ITM) EnableStimulus(port int) {
	if port < 0 || port >= numStimulusPorts {
		return
	}
	itm.ter |= 1 << port
}

// StimulusEnabled returns true if the numbered stimulus port is open.
func (itm *ITM) StimulusEnabled(port int) bool {
	if port < 0 || port >= numStimulusPorts {
		return false
	}
	return itm.ter&(1<<port) != 0
}
