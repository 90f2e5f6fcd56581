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

package memory_test

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retrosoc/retrosoc/curated"
	"github.com/retrosoc/retrosoc/hardware/memory"
)

func TestMapOverlap(t *testing.T) {
	a := memory.NewAddrSpace()

	_, err := a.MapRAM("sram", 0x20000000, 0x1000)
	assert.NoError(t, err)

	// any intersection with an existing region is rejected
	_, err = a.MapRAM("other", 0x20000800, 0x1000)
	assert.Error(t, err)
	assert.True(t, curated.Is(err, memory.RegionOverlap))

	// adjacency is not an overlap
	_, err = a.MapRAM("adjacent", 0x20001000, 0x1000)
	assert.NoError(t, err)

	_, err = a.MapRAM("empty", 0x30000000, 0)
	assert.Error(t, err)
}

func TestReadWrite(t *testing.T) {
	a := memory.NewAddrSpace()
	_, err := a.MapRAM("sram", 0x20000000, 0x1000)
	assert.NoError(t, err)

	a.Write32(0x20000010, 0xdeadbeef)
	assert.Equal(t, uint32(0xdeadbeef), a.Read32(0x20000010))
	assert.Equal(t, uint16(0xbeef), a.Read16(0x20000010))
	assert.Equal(t, uint8(0xde), a.Read8(0x20000013))

	// unmapped addresses read as zero; writes are discarded
	a.Write32(0x50000000, 0xffffffff)
	assert.Equal(t, uint32(0), a.Read32(0x50000000))
}

func TestROMDiscardWrites(t *testing.T) {
	a := memory.NewAddrSpace()
	flash, err := a.MapROM("flash", 0x00000000, 0x1000)
	assert.NoError(t, err)

	a.Write32(0x00000000, 0x12345678)
	assert.Equal(t, uint32(0), a.Read32(0x00000000))

	// Load bypasses the read-only protection
	assert.NoError(t, a.Load(0x00000000, []byte{0x78, 0x56, 0x34, 0x12}))
	assert.Equal(t, uint32(0x12345678), a.Read32(0x00000000))
	assert.Equal(t, uint32(0x1000), flash.Size())
}

func TestAlias(t *testing.T) {
	a := memory.NewAddrSpace()
	flash, err := a.MapROM("flash", 0x00000000, 0x1000)
	assert.NoError(t, err)
	assert.NoError(t, a.Load(0x00000100, []byte{0xaa, 0xbb, 0xcc, 0xdd}))

	alias, err := a.MapAlias("flash-alias", 0x08000000, flash, 0, flash.Size())
	assert.NoError(t, err)
	assert.Equal(t, memory.Alias, alias.Kind())

	// reads forward to the backing region
	assert.Equal(t, uint32(0xddccbbaa), a.Read32(0x08000100))

	// the alias preserves the backing region's write semantics: a write
	// through a ROM alias is discarded
	a.Write8(0x08000100, 0x00)
	assert.Equal(t, uint8(0xaa), a.Read8(0x00000100))

	// an alias cannot extend past its backing region
	_, err = a.MapAlias("bad", 0x09000000, flash, 0x800, 0x1000)
	assert.Error(t, err)
}

func TestAliasWriteToRAM(t *testing.T) {
	a := memory.NewAddrSpace()
	sram, err := a.MapRAM("sram", 0x20000000, 0x1000)
	assert.NoError(t, err)

	_, err = a.MapAlias("sram-alias", 0x30000000, sram, 0x100, 0x100)
	assert.NoError(t, err)

	a.Write8(0x30000000, 0x42)
	assert.Equal(t, uint8(0x42), a.Read8(0x20000100))
}

func TestBitBand(t *testing.T) {
	a := memory.NewAddrSpace()
	_, err := a.MapRAM("sram", 0x20000000, 0x1000)
	assert.NoError(t, err)

	bb, err := a.MapBitBand("sram-bitband", 0x20000000)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x22000000), bb.Origin())
	assert.Equal(t, uint32(memory.BitBandOffset), bb.Size())

	// word at bbBase + byteOffset*32 + bit*4 addresses one source bit.
	// byte 0x20000004, bit 3
	wordAddr := uint32(0x22000000) + 4*32 + 3*4

	a.Write32(wordAddr, 1)
	assert.Equal(t, uint8(0x08), a.Read8(0x20000004))
	assert.Equal(t, uint32(1), a.Read32(wordAddr))

	// only bit zero of the written value is significant
	a.Write32(wordAddr, 0xfffffffe)
	assert.Equal(t, uint8(0x00), a.Read8(0x20000004))
	assert.Equal(t, uint32(0), a.Read32(wordAddr))

	// a bit-band write does not disturb neighbouring bits
	a.Write8(0x20000004, 0xf7)
	a.Write32(wordAddr, 1)
	assert.Equal(t, uint8(0xff), a.Read8(0x20000004))
}

func TestLoadOutsideBackedMemory(t *testing.T) {
	a := memory.NewAddrSpace()
	_, err := a.MapRAM("sram", 0x20000000, 0x10)
	assert.NoError(t, err)

	// the range runs off the end of the region into unmapped space
	err = a.Load(0x20000008, make([]byte, 0x10))
	assert.Error(t, err)
}

func TestReserved(t *testing.T) {
	a := memory.NewAddrSpace()
	_, err := a.MapReserved("hole", 0x40000000, 0x1000)
	assert.NoError(t, err)

	a.Write32(0x40000000, 0xffffffff)
	assert.Equal(t, uint32(0), a.Read32(0x40000000))
}
