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

package loader_test

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retrosoc/retrosoc/curated"
	"github.com/retrosoc/retrosoc/hardware/memory"
	"github.com/retrosoc/retrosoc/loader"
)

func testAddrSpace(t *testing.T) (*memory.AddrSpace, *memory.Region) {
	t.Helper()

	mem := memory.NewAddrSpace()
	flash, err := mem.MapROM("flash", 0x00000000, 0x1000)
	assert.NoError(t, err)
	return mem, flash
}

// minimalELF assembles a 32-bit ARM executable with a single loadable
// segment containing payload at paddr.
func minimalELF(t *testing.T, entry uint32, paddr uint32, payload []byte) []byte {
	t.Helper()

	const (
		ehSize = 52
		phSize = 32
	)

	hdr := elf.Header32{
		Ident: [elf.EI_NIDENT]byte{
			0x7f, 'E', 'L', 'F',
			byte(elf.ELFCLASS32), byte(elf.ELFDATA2LSB), byte(elf.EV_CURRENT),
		},
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_ARM),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     entry,
		Phoff:     ehSize,
		Ehsize:    ehSize,
		Phentsize: phSize,
		Phnum:     1,
	}

	prog := elf.Prog32{
		Type:   uint32(elf.PT_LOAD),
		Off:    ehSize + phSize,
		Vaddr:  paddr,
		Paddr:  paddr,
		Filesz: uint32(len(payload)),
		Memsz:  uint32(len(payload)),
		Flags:  uint32(elf.PF_R | elf.PF_X),
		Align:  4,
	}

	buf := &bytes.Buffer{}
	assert.NoError(t, binary.Write(buf, binary.LittleEndian, hdr))
	assert.NoError(t, binary.Write(buf, binary.LittleEndian, prog))
	buf.Write(payload)
	return buf.Bytes()
}

func TestLoadELF(t *testing.T) {
	payload := []byte{0x00, 0x50, 0x00, 0x20, 0xc1, 0x00, 0x00, 0x00}
	path := filepath.Join(t.TempDir(), "firmware.elf")
	assert.NoError(t, os.WriteFile(path, minimalELF(t, 0xc1, 0, payload), 0o644))

	mem, flash := testAddrSpace(t)
	img, err := loader.Load(path, mem, flash)
	assert.NoError(t, err)

	assert.Equal(t, path, img.Path)
	assert.Equal(t, uint32(0xc1), img.Entry)
	assert.Equal(t, uint32(0), img.LoadAddr)
	assert.Equal(t, len(payload), img.Size)
	assert.Equal(t, uint32(0x20005000), mem.Read32(0x00000000))
}

func TestLoadELFWrongMachine(t *testing.T) {
	// a valid ELF for the wrong architecture must not fall back to the
	// flat-binary path
	data := minimalELF(t, 0, 0, []byte{1, 2, 3, 4})
	data[18] = 0x3e // EM_X86_64

	path := filepath.Join(t.TempDir(), "wrong.elf")
	assert.NoError(t, os.WriteFile(path, data, 0o644))

	mem, flash := testAddrSpace(t)
	_, err := loader.Load(path, mem, flash)
	assert.Error(t, err)
}

func TestLoadFlatBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firmware.bin")
	assert.NoError(t, os.WriteFile(path, []byte{0xaa, 0xbb, 0xcc, 0xdd}, 0o644))

	mem, flash := testAddrSpace(t)
	img, err := loader.Load(path, mem, flash)
	assert.NoError(t, err)

	assert.Equal(t, uint32(0), img.Entry)
	assert.Equal(t, uint32(0), img.LoadAddr)
	assert.Equal(t, 4, img.Size)
	assert.Equal(t, uint32(0xddccbbaa), mem.Read32(0x00000000))
}

func TestLoadFlatBinaryTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.bin")
	assert.NoError(t, os.WriteFile(path, make([]byte, 0x2000), 0o644))

	mem, flash := testAddrSpace(t)
	_, err := loader.Load(path, mem, flash)
	assert.Error(t, err)
	assert.True(t, curated.Is(err, loader.ImageLoadFailure))
}

func TestLoadMissingFile(t *testing.T) {
	mem, flash := testAddrSpace(t)

	_, err := loader.Load("no/such/image.elf", mem, flash)
	assert.Error(t, err)
	assert.True(t, curated.Is(err, loader.ImageLoadFailure))

	// the error always carries the image path
	assert.True(t, strings.Contains(err.Error(), "no/such/image.elf"))
}

func TestLoadIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firmware.bin")
	assert.NoError(t, os.WriteFile(path, []byte{0x01, 0x02, 0x03, 0x04}, 0o644))

	mem, flash := testAddrSpace(t)

	_, err := loader.Load(path, mem, flash)
	assert.NoError(t, err)

	// scribble over flash and re-load. the image content is restored
	assert.NoError(t, mem.Load(0x00000000, []byte{0xff, 0xff, 0xff, 0xff}))

	img, err := loader.Load(path, mem, flash)
	assert.NoError(t, err)
	assert.Equal(t, 4, img.Size)
	assert.Equal(t, uint32(0x04030201), mem.Read32(0x00000000))
}
