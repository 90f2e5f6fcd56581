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

// Package nvic implements the interrupt fan-out of the emulated chip: N
// input lines, addressable by stable index for the lifetime of the
// machine, funnelled into the processor core's single interrupt input.
//
// Peripherals are handed a Line at construction time. A Line is a value,
// not a reference into transient state, so peripherals built before or
// after other wiring steps all observe the same controller.
package nvic

import (
	"github.com/retrosoc/retrosoc/curated"
)

// Error pattern returned by Line() for an out of range index.
const BadLineIndex = "nvic: interrupt line %d out of range (0-%d)"

// NVIC is the interrupt controller. One output, NumLines inputs.
type NVIC struct {
	// output is wired to the core's interrupt input
	output func()

	pending []bool
}

// New creates an interrupt controller with numIRQ input lines. The
// output function is called whenever any input line is raised.
func New(numIRQ int, output func()) *NVIC {
	return &NVIC{
		output:  output,
		pending: make([]bool, numIRQ),
	}
}

// NumLines returns the number of input lines.
func (n *NVIC) NumLines() int {
	return len(n.pending)
}

// Line returns the input line with the given index. The index remains
// valid for the lifetime of the controller.
func (n *NVIC) Line(index int) (Line, error) {
	if index < 0 || index >= len(n.pending) {
		return Line{}, curated.Errorf(BadLineIndex, index, len(n.pending)-1)
	}
	return Line{nvic: n, index: index}, nil
}

// Pending returns true if the input line with the given index is
// currently raised.
func (n *NVIC) Pending(index int) bool {
	if index < 0 || index >= len(n.pending) {
		return false
	}
	return n.pending[index]
}

// Reset lowers every input line.
func (n *NVIC) Reset() {
	for i := range n.pending {
		n.pending[i] = false
	}
}

// Line is a handle to one interrupt input. Peripherals keep the Line (or
// just its index) and raise it when they need to signal.
type Line struct {
	nvic  *NVIC
	index int
}

// Index returns the input line index.
func (l Line) Index() int {
	return l.index
}

// Raise asserts the input line and propagates to the controller output.
func (l Line) Raise() {
	if l.nvic == nil {
		return
	}
	l.nvic.pending[l.index] = true
	if l.nvic.output != nil {
		l.nvic.output()
	}
}

// Lower deasserts the input line.
func (l Line) Lower() {
	if l.nvic == nil {
		return
	}
	l.nvic.pending[l.index] = false
}
