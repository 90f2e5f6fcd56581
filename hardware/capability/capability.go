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

// Package capability defines the immutable hardware-capability descriptor
// for a chip variant and the resolution of that descriptor against user
// supplied overrides. Everything downstream of this package (address map,
// interrupt fan-out, peripheral subtree) is driven by the resolved
// descriptor and nothing else.
package capability

import (
	"github.com/retrosoc/retrosoc/curated"
)

// Model is the processor core model of a chip variant.
type Model int

// List of supported core models.
const (
	CortexM0 Model = iota
	CortexM0Plus
	CortexM1
	CortexM3
	CortexM4
	CortexM4F
	CortexM7
	CortexM7F
)

// FPUType describes the floating point unit fitted to a core model.
type FPUType int

// List of FPU types. FPUNone for core models without an FPU.
const (
	FPUNone FPUType = iota
	FPUv4SPD16
	FPUv5SPD16
)

// Family is the vendor family a chip variant belongs to.
type Family int

// List of vendor families.
const (
	FamilyF0 Family = iota
	FamilyF1
	FamilyF2
	FamilyF3
	FamilyF4
	FamilyL1
)

func (f Family) String() string {
	switch f {
	case FamilyF0:
		return "F0"
	case FamilyF1:
		return "F1"
	case FamilyF2:
		return "F2"
	case FamilyF3:
		return "F3"
	case FamilyF4:
		return "F4"
	case FamilyL1:
		return "L1"
	}

	return "unknown"
}

// GPIOPort identifies a GPIO bank by letter. PortA is index 0.
type GPIOPort int

// List of GPIO ports.
const (
	PortA GPIOPort = iota
	PortB
	PortC
	PortD
	PortE
	PortF
	PortG
	PortH
	PortI
	PortJ
	PortK

	// NumGPIOPorts is the number of addressable GPIO banks.
	NumGPIOPorts
)

func (p GPIOPort) String() string {
	if p < PortA || p >= NumGPIOPorts {
		return "?"
	}
	return string(rune('A' + int(p)))
}

// NumSerialPorts is the number of addressable USART/UART instances.
// Serial ports are identified by instance number 1 to NumSerialPorts,
// stored zero-indexed.
const NumSerialPorts = 6

// Clock describes the internal oscillators of a chip variant.
type Clock struct {
	// frequencies in Hz
	HSI int64
	LSI int64
}

// Descriptor is the immutable capability record for one chip variant. A
// Descriptor is never modified after creation; overrides are applied by
// Resolve() which returns a new Resolved value.
type Descriptor struct {
	Name   string
	Family Family
	Model  Model

	// default sizes in kibibytes. overridable
	SRAMKiB  int
	FlashKiB int

	// default interrupt line count. zero selects DefaultNumIRQ
	NumIRQ int

	// peripheral presence flags. a peripheral is constructed if and only
	// if its flag is set
	HasGPIO          [NumGPIOPorts]bool
	HasSerial        [NumSerialPorts]bool
	HasPWR           bool
	HasSYSCFG        bool
	HasEXTI          bool
	HasSRAMBitBand   bool
	HasPeriphBitBand bool
	HasITM           bool

	Clock Clock
}

// Overrides collects the optional user supplied values that modify a
// Descriptor during resolution. Zero values mean "no override".
type Overrides struct {
	// explicit core model name. must name a supported model when not empty
	Model string

	// sizes in kibibytes. applied only when non-zero
	SRAMKiB  int
	FlashKiB int

	// path of the boot image
	Image string

	// NoImage allows construction without a boot image. used by tests and
	// inspection tooling
	NoImage bool

	// external oscillator frequencies in Hz, forwarded to the clock
	// controller
	HSE int64
	LSE int64
}

// Resolved is a Descriptor with all overrides applied and all per-model
// feature flags forced. It is the only form the rest of the machine ever
// sees.
type Resolved struct {
	Descriptor

	// canonical name of the resolved core model
	ModelName string

	// feature flags hard-wired by the core model
	HasMPU bool
	HasFPU bool
	FPU    FPUType

	// carried over from Overrides
	Image   string
	NoImage bool
	HSE     int64
	LSE     int64
}

// Error patterns returned by Resolve().
const (
	UnsupportedCoreModel = "capability: unsupported core model: %s"
	BadDescriptor        = "capability: bad descriptor: %s"
)

// MaxSRAMKiB is the hardware ceiling on SRAM. larger values would collide
// with the SRAM bit-band window at 0x22000000.
const MaxSRAMKiB = 32 * 1024

// DefaultNumIRQ is used when a descriptor leaves the interrupt line count
// at zero.
const DefaultNumIRQ = 256

// per-model hard-wired feature set. selecting a model silently forces
// these values; they cannot be overridden independently.
type modelSpec struct {
	name    string
	display string
	mpu     bool
	fpu     FPUType
	maxIRQ  int
}

var modelSpecs = map[Model]modelSpec{
	CortexM0:     {name: "cortex-m0", display: "Cortex-M0", maxIRQ: 496},
	CortexM0Plus: {name: "cortex-m0p", display: "Cortex-M0+", maxIRQ: 496},
	CortexM1:     {name: "cortex-m1", display: "Cortex-M1", maxIRQ: 496},
	CortexM3:     {name: "cortex-m3", display: "Cortex-M3", mpu: true, maxIRQ: 240},
	CortexM4:     {name: "cortex-m4", display: "Cortex-M4", mpu: true, maxIRQ: 496},
	CortexM4F:    {name: "cortex-m4f", display: "Cortex-M4F", mpu: true, fpu: FPUv4SPD16, maxIRQ: 496},
	CortexM7:     {name: "cortex-m7", display: "Cortex-M7", mpu: true, maxIRQ: 496},
	CortexM7F:    {name: "cortex-m7f", display: "Cortex-M7F", mpu: true, fpu: FPUv5SPD16, maxIRQ: 496},
}

// ParseModel returns the Model named by s.
func ParseModel(s string) (Model, error) {
	for m, spec := range modelSpecs {
		if spec.name == s {
			return m, nil
		}
	}
	return 0, curated.Errorf(UnsupportedCoreModel, s)
}

// String returns the canonical model name, as accepted by ParseModel().
func (m Model) String() string {
	return modelSpecs[m].name
}

// Display returns the display form of the model name.
func (m Model) Display() string {
	return modelSpecs[m].display
}

// Resolve applies overrides to a base descriptor and returns the resolved
// capability record.
//
// Rules, in order: an explicit model name replaces the descriptor model
// and must be a supported model; per-model feature flags are forced from
// the model table; non-zero size overrides replace defaults; SRAM is
// clamped to MaxSRAMKiB; the interrupt line count defaults to
// DefaultNumIRQ, is clamped to the model's ceiling and is rounded up to
// the next multiple of 32.
func Resolve(d Descriptor, ov Overrides) (Resolved, error) {
	r := Resolved{
		Descriptor: d,
		Image:      ov.Image,
		NoImage:    ov.NoImage,
		HSE:        ov.HSE,
		LSE:        ov.LSE,
	}

	if ov.Model != "" {
		m, err := ParseModel(ov.Model)
		if err != nil {
			return Resolved{}, err
		}
		r.Model = m
	}

	spec, ok := modelSpecs[r.Model]
	if !ok {
		return Resolved{}, curated.Errorf(UnsupportedCoreModel, "unknown")
	}
	r.ModelName = spec.name
	r.HasMPU = spec.mpu
	r.HasFPU = spec.fpu != FPUNone
	r.FPU = spec.fpu

	if ov.SRAMKiB != 0 {
		r.SRAMKiB = ov.SRAMKiB
	}
	if r.SRAMKiB < 0 {
		return Resolved{}, curated.Errorf(BadDescriptor, "negative SRAM size")
	}
	if r.SRAMKiB > MaxSRAMKiB {
		r.SRAMKiB = MaxSRAMKiB
	}

	if ov.FlashKiB != 0 {
		r.FlashKiB = ov.FlashKiB
	}
	if r.FlashKiB < 0 {
		return Resolved{}, curated.Errorf(BadDescriptor, "negative Flash size")
	}

	n := r.NumIRQ
	if n < 0 {
		return Resolved{}, curated.Errorf(BadDescriptor, "negative interrupt line count")
	}
	if n == 0 {
		n = DefaultNumIRQ
	}
	if n > spec.maxIRQ {
		n = spec.maxIRQ
	}

	// round up to the next multiple of 32. when the model ceiling is not
	// itself a multiple of 32 rounding up would breach it, so round down
	// to the nearest multiple instead
	n = (n + 31) &^ 31
	if n > spec.maxIRQ {
		n = spec.maxIRQ &^ 31
	}
	r.NumIRQ = n

	return r, nil
}
