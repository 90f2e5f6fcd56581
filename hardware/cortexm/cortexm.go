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

// Package cortexm is the generic composition engine for Cortex-M class
// chips. Construct() runs the strictly ordered construction phases:
// resolve capabilities, create the core, create the address space,
// create the interrupt controller, create the fixed peripherals,
// validate and load the boot image, register the reset hook.
//
// Two of the phases — address-space creation, peripheral creation — and
// the image-load step are extension points. A vendor layer (see the
// stm32 package) substitutes its own functions in the Ops table; a
// substituted function may call the generic implementation explicitly as
// its first step. This is the whole of the "override with optional
// delegation" mechanism: there is no implicit dispatch.
package cortexm

import (
	"io"

	"github.com/retroenv/retrogolib/log"
	"github.com/retrosoc/retrosoc/chario"
	"github.com/retrosoc/retrosoc/curated"
	"github.com/retrosoc/retrosoc/hardware/capability"
	"github.com/retrosoc/retrosoc/hardware/core"
	"github.com/retrosoc/retrosoc/hardware/memory"
	"github.com/retrosoc/retrosoc/hardware/nvic"
	"github.com/retrosoc/retrosoc/loader"
	"github.com/retrosoc/retrosoc/reset"
)

// Error patterns returned by Construct().
const (
	MissingImage    = "cortexm: no boot image specified"
	DuplicatePeriph = "cortexm: peripheral %s created twice"
)

// PeriphID identifies a peripheral by kind and, where applicable,
// instance. For example "rcc", "gpio[A]", "usart[2]".
type PeriphID string

// Peripheral is any on-chip device that joins the peripheral table and
// the reset cascade.
type Peripheral interface {
	ID() PeriphID
	Reset()
}

// Ops is the extension-point table. Every entry defaults to the generic
// implementation when left nil.
type Ops struct {
	// MemoryRegions populates the address space. Defaults to
	// GenericRegions
	MemoryRegions func(*MCU) error

	// Peripherals builds the peripheral subtree. Defaults to
	// GenericPeripherals
	Peripherals func(*MCU) error

	// ImageLoad materialises the boot image. Called once during
	// construction, after all regions exist, and again by every reset.
	// Defaults to GenericImageLoad
	ImageLoad func(*MCU) error
}

// Collaborators are the external services construction consumes. All
// fields are optional.
type Collaborators struct {
	// serial backends for the vendor layer's serial ports
	Chario *chario.Registry

	// the system reset registry. when present, and when an image is
	// configured, the machine registers its reset cascade with it
	Reset *reset.Registry

	Logger *log.Logger
}

// MCU is the assembled chip instance. It owns its children exclusively.
// Mutated only during construction; frozen once Construct() returns.
type MCU struct {
	Desc capability.Resolved

	Core  *core.Core
	NVIC  *nvic.NVIC
	Mem   *memory.AddrSpace
	Flash *memory.Region
	SRAM  *memory.Region

	// where the boot image landed, valid once loaded
	Image loader.Image

	ops Ops
	col Collaborators
	lg  *log.Logger

	periphs   map[PeriphID]Peripheral
	resetList []Peripheral
}

// Construct assembles a chip from a base descriptor and optional
// overrides. It either returns a fully constructed machine or an error;
// a partially constructed machine is never handed back.
func Construct(desc capability.Descriptor, ov capability.Overrides, ops Ops, col Collaborators) (*MCU, error) {
	// phase: ResolveCapabilities
	resolved, err := capability.Resolve(desc, ov)
	if err != nil {
		return nil, err
	}

	if ops.MemoryRegions == nil {
		ops.MemoryRegions = GenericRegions
	}
	if ops.Peripherals == nil {
		ops.Peripherals = GenericPeripherals
	}
	if ops.ImageLoad == nil {
		ops.ImageLoad = GenericImageLoad
	}

	lg := col.Logger
	if lg == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		lg = log.NewWithConfig(cfg)
	}

	m := &MCU{
		Desc:    resolved,
		Mem:     memory.NewAddrSpace(),
		ops:     ops,
		col:     col,
		lg:      lg,
		periphs: make(map[PeriphID]Peripheral),
	}

	lg.Info("device",
		log.String("name", resolved.Name),
		log.String("model", resolved.Model.Display()),
		log.String("mpu", onOff(resolved.HasMPU)),
		log.String("fpu", onOff(resolved.HasFPU)),
		log.Int("flash_kib", resolved.FlashKiB),
		log.Int("sram_kib", resolved.SRAMKiB))

	// phase: CreateCore
	m.Core, err = core.New(resolved.ModelName, m.Mem)
	if err != nil {
		return nil, err
	}
	lg.Debug("core created", log.String("model", resolved.ModelName))

	// phase: CreateAddressSpace (extension point)
	if err := m.ops.MemoryRegions(m); err != nil {
		return nil, err
	}
	lg.Debug("address space created", log.Int("regions", len(m.Mem.Regions())))

	// phase: CreateInterruptController
	m.NVIC = nvic.New(resolved.NumIRQ, m.Core.Signal)
	lg.Debug("interrupt controller created", log.Int("lines", resolved.NumIRQ))

	// phase: CreateFixedPeripherals (extension point)
	if err := m.ops.Peripherals(m); err != nil {
		return nil, err
	}
	lg.Debug("peripherals created", log.Int("count", len(m.periphs)))

	// phase: ValidateImagePresence
	if resolved.Image == "" && !resolved.NoImage {
		return nil, curated.Errorf(MissingImage)
	}

	// phase: ScheduleImageLoad. deferred to this point so that the
	// loader never races region creation
	if resolved.Image != "" {
		if err := m.ops.ImageLoad(m); err != nil {
			return nil, err
		}
		lg.Debug("image loaded",
			log.String("path", resolved.Image),
			log.Int("size", m.Image.Size))
	}

	// phase: RegisterResetHook. only when an image is configured: a
	// reset without an image has nothing to re-materialise
	if resolved.Image != "" && col.Reset != nil {
		col.Reset.Register(m.Reset)
	}

	return m, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// AddPeripheral enters p into the peripheral table and appends it to the
// reset cascade. Cascade order is construction order; there is no
// dependency graph.
func (m *MCU) AddPeripheral(p Peripheral) error {
	if _, ok := m.periphs[p.ID()]; ok {
		return curated.Errorf(DuplicatePeriph, p.ID())
	}
	m.periphs[p.ID()] = p
	m.resetList = append(m.resetList, p)
	return nil
}

// Peripheral returns the device with the given ID, or false when the
// capability flags did not select it.
func (m *MCU) Peripheral(id PeriphID) (Peripheral, bool) {
	p, ok := m.periphs[id]
	return p, ok
}

// Peripherals returns every constructed peripheral in construction
// order.
func (m *MCU) Peripherals() []Peripheral {
	return m.resetList
}

// Chario returns the externally configured backend for the numbered
// serial port, or nil.
func (m *MCU) Chario(port int) io.ReadWriter {
	return m.col.Chario.Backend(port)
}

// Logger returns the construction logger. Never nil.
func (m *MCU) Logger() *log.Logger {
	return m.lg
}

// Reset runs the reset cascade: re-materialise the boot image, reset
// every peripheral in construction order, lower all interrupt lines,
// and reset the processor core last so that its vector fetch sees
// already-reset memory and peripherals. Reset is synchronous, total and
// idempotent.
func (m *MCU) Reset() {
	if m.Desc.Image != "" {
		if err := m.ops.ImageLoad(m); err != nil {
			// the image loaded during construction; a failure here means
			// the file changed under us. report and carry on with the
			// stale content
			m.lg.Error("image re-load failed", err)
		}
	}

	for _, p := range m.resetList {
		p.Reset()
	}

	m.NVIC.Reset()
	m.Core.Reset()
}
