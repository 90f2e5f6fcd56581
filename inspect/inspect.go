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

// Package inspect renders an assembled machine for humans: the region
// table, the peripheral table, and a graphviz dump of the whole object
// graph for when a table is not enough.
package inspect

import (
	"fmt"
	"io"

	"github.com/bradleyjkemp/memviz"

	"github.com/retrosoc/retrosoc/hardware/stm32"
)

// Summary writes the resolved descriptor, the region table and the
// peripheral table of the machine.
func Summary(w io.Writer, mach *stm32.Machine) {
	d := mach.Desc

	fmt.Fprintf(w, "%s (%s", d.Name, d.Model.Display())
	if d.HasMPU {
		fmt.Fprintf(w, ", MPU")
	}
	if d.HasFPU {
		fmt.Fprintf(w, ", FPU")
	}
	fmt.Fprintf(w, "), Flash: %d KiB, RAM: %d KiB, IRQs: %d\n", d.FlashKiB, d.SRAMKiB, d.NumIRQ)

	if d.Image != "" {
		fmt.Fprintf(w, "image: %s\n", d.Image)
	}

	fmt.Fprintln(w, "\nregions:")
	for _, r := range mach.Mem.Regions() {
		fmt.Fprintf(w, "  %s\n", r)
	}

	fmt.Fprintln(w, "\nperipherals:")
	for _, p := range mach.Peripherals() {
		fmt.Fprintf(w, "  %s\n", p.ID())
	}

	if mach.NumGPIO > 0 {
		fmt.Fprintf(w, "\ngpio banks: %d\n", mach.NumGPIO)
	}
}

// Graph writes the machine's object graph in graphviz dot format.
func Graph(w io.Writer, mach *stm32.Machine) {
	memviz.Map(w, mach)
}
