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

package cortexm_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retrosoc/retrosoc/curated"
	"github.com/retrosoc/retrosoc/hardware/capability"
	"github.com/retrosoc/retrosoc/hardware/cortexm"
	"github.com/retrosoc/retrosoc/hardware/memory"
	"github.com/retrosoc/retrosoc/reset"
)

func testDescriptor() capability.Descriptor {
	return capability.Descriptor{
		Name:     "TEST-M4",
		Model:    capability.CortexM4,
		SRAMKiB:  20,
		FlashKiB: 64,
		NumIRQ:   64,
	}
}

func testCollaborators(t *testing.T) cortexm.Collaborators {
	t.Helper()
	return cortexm.Collaborators{Logger: log.NewTestLogger(t)}
}

func TestConstructRegions(t *testing.T) {
	m, err := cortexm.Construct(testDescriptor(), capability.Overrides{NoImage: true},
		cortexm.Ops{}, testCollaborators(t))
	assert.NoError(t, err)

	// a 64KiB/20KiB part maps Flash at [0x00000000-0x0000ffff] and SRAM
	// at [0x20000000-0x20004fff]
	assert.Equal(t, uint32(0x00000000), m.Flash.Origin())
	assert.Equal(t, uint32(0x0000ffff), m.Flash.Memtop())
	assert.Equal(t, memory.ROM, m.Flash.Kind())

	assert.Equal(t, uint32(0x20000000), m.SRAM.Origin())
	assert.Equal(t, uint32(0x20004fff), m.SRAM.Memtop())
	assert.Equal(t, memory.RAM, m.SRAM.Kind())

	// the guard region at the top of the address space is always mapped
	r := m.Mem.Regions()
	last := r[len(r)-1]
	assert.Equal(t, "guard", last.Name())
	assert.Equal(t, uint32(0xfffff000), last.Origin())
	assert.Equal(t, uint32(0xffffffff), last.Memtop())
}

func TestConstructSRAMBitBand(t *testing.T) {
	d := testDescriptor()
	d.HasSRAMBitBand = true

	m, err := cortexm.Construct(d, capability.Overrides{NoImage: true},
		cortexm.Ops{}, testCollaborators(t))
	assert.NoError(t, err)

	m.Mem.Write8(0x20000000, 0x01)
	assert.Equal(t, uint32(1), m.Mem.Read32(0x22000000))
}

func TestConstructMissingImage(t *testing.T) {
	_, err := cortexm.Construct(testDescriptor(), capability.Overrides{},
		cortexm.Ops{}, testCollaborators(t))
	assert.Error(t, err)
	assert.True(t, curated.Is(err, cortexm.MissingImage))
}

func TestConstructNVIC(t *testing.T) {
	m, err := cortexm.Construct(testDescriptor(), capability.Overrides{NoImage: true},
		cortexm.Ops{}, testCollaborators(t))
	assert.NoError(t, err)

	assert.Equal(t, 64, m.NVIC.NumLines())

	// the controller output is wired to the core interrupt input
	l, err := m.NVIC.Line(12)
	assert.NoError(t, err)
	l.Raise()
	assert.True(t, m.Core.Pending())
}

func TestConstructITM(t *testing.T) {
	d := testDescriptor()
	d.HasITM = true

	m, err := cortexm.Construct(d, capability.Overrides{NoImage: true},
		cortexm.Ops{}, testCollaborators(t))
	assert.NoError(t, err)

	_, ok := m.Peripheral(cortexm.ITMID)
	assert.True(t, ok)
}

type fakePeriph struct {
	id     cortexm.PeriphID
	resets *[]cortexm.PeriphID
}

func (p fakePeriph) ID() cortexm.PeriphID { return p.id }
func (p fakePeriph) Reset()               { *p.resets = append(*p.resets, p.id) }

func TestAddPeripheral(t *testing.T) {
	var order []cortexm.PeriphID

	ops := cortexm.Ops{
		Peripherals: func(m *cortexm.MCU) error {
			if err := m.AddPeripheral(fakePeriph{id: "first", resets: &order}); err != nil {
				return err
			}
			return m.AddPeripheral(fakePeriph{id: "second", resets: &order})
		},
	}

	m, err := cortexm.Construct(testDescriptor(), capability.Overrides{NoImage: true},
		ops, testCollaborators(t))
	assert.NoError(t, err)

	// duplicate IDs are rejected
	err = m.AddPeripheral(fakePeriph{id: "first", resets: &order})
	assert.Error(t, err)
	assert.True(t, curated.Is(err, cortexm.DuplicatePeriph))

	// the reset cascade replays construction order
	m.Reset()
	assert.Equal(t, 2, len(order))
	assert.Equal(t, cortexm.PeriphID("first"), order[0])
	assert.Equal(t, cortexm.PeriphID("second"), order[1])
}

func TestConstructImageAndReset(t *testing.T) {
	// a flat binary carrying a vector table
	img := filepath.Join(t.TempDir(), "firmware.bin")
	assert.NoError(t, os.WriteFile(img, []byte{
		0x00, 0x50, 0x00, 0x20, // SP 0x20005000
		0x01, 0x02, 0x00, 0x00, // PC 0x00000201 with thumb bit
	}, 0o644))

	resetReg := reset.NewRegistry()
	col := testCollaborators(t)
	col.Reset = resetReg

	m, err := cortexm.Construct(testDescriptor(), capability.Overrides{Image: img},
		cortexm.Ops{}, col)
	assert.NoError(t, err)
	assert.Equal(t, 8, m.Image.Size)

	// construction loads the image but does not touch core registers;
	// the registered reset hook does
	assert.Equal(t, uint32(0), m.Core.PC)

	resetReg.Invoke()
	assert.Equal(t, uint32(0x20005000), m.Core.SP)
	assert.Equal(t, uint32(0x00000200), m.Core.PC)

	// reset is idempotent
	resetReg.Invoke()
	assert.Equal(t, uint32(0x20005000), m.Core.SP)
	assert.Equal(t, uint32(0x00000200), m.Core.PC)
}

func TestConstructBadImagePath(t *testing.T) {
	_, err := cortexm.Construct(testDescriptor(),
		capability.Overrides{Image: "no/such/file.elf"},
		cortexm.Ops{}, testCollaborators(t))
	assert.Error(t, err)
}
