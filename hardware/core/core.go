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

// Package core provides the processor-core handle used by the
// composition engine. The instruction interpreter itself is an external
// collaborator; this package models only the boundary the machine needs
// during construction and reset: a factory keyed by model name, an
// interrupt input, and architectural reset of the banked registers from
// the vector table.
package core

import (
	"github.com/retrosoc/retrosoc/curated"
	"github.com/retrosoc/retrosoc/hardware/memory"
)

// Error pattern returned by New() for an unknown model name.
const NoSuchCoreModel = "core: no such core model: %s"

// models accepted by the factory. feature flags are resolved by the
// capability package; the factory only needs to know the name.
var models = map[string]bool{
	"cortex-m0":  true,
	"cortex-m0p": true,
	"cortex-m1":  true,
	"cortex-m3":  true,
	"cortex-m4":  true,
	"cortex-m4f": true,
	"cortex-m7":  true,
	"cortex-m7f": true,
}

// Core is the processor core handle. Exclusively owned by the machine
// that created it.
type Core struct {
	model string
	mem   *memory.AddrSpace

	// banked registers visible to reset and inspection
	SP uint32
	PC uint32

	// interrupt input, driven by the interrupt controller's output line
	pending bool
}

// New creates a core handle for the named model, attached to the given
// address space.
func New(model string, mem *memory.AddrSpace) (*Core, error) {
	if !models[model] {
		return nil, curated.Errorf(NoSuchCoreModel, model)
	}
	return &Core{model: model, mem: mem}, nil
}

// Model returns the model name the core was created with.
func (c *Core) Model() string {
	return c.model
}

// Signal drives the core's single interrupt input. Wired to the
// interrupt controller's output line during construction.
func (c *Core) Signal() {
	c.pending = true
}

// Pending returns true while an interrupt is asserted on the core's
// input.
func (c *Core) Pending() bool {
	return c.pending
}

// Reset loads the architectural reset values: the initial stack pointer
// from address 0x00000000 and the reset vector from address 0x00000004.
// The vector fetch goes through the address space, so memory-mapped
// content must be in place before Reset is called.
func (c *Core) Reset() {
	c.SP = c.mem.Read32(0x00000000)
	c.PC = c.mem.Read32(0x00000004) &^ 1
	c.pending = false
}
