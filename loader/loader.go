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

// Package loader materialises a boot image into the machine's address
// space. The image is first interpreted as a 32-bit ARM ELF executable;
// when that fails it is treated as a flat binary loaded at address 0
// into the Flash region. Loading is idempotent: the reset cascade calls
// it again to re-materialise the image before core registers are reset.
package loader

import (
	"bytes"
	"debug/elf"
	"io"
	"os"

	"github.com/retrosoc/retrosoc/curated"
	"github.com/retrosoc/retrosoc/hardware/memory"
)

// Error pattern for any image that cannot be loaded. Always carries the
// image path.
const ImageLoadFailure = "loader: unable to load image %s: %v"

// Image records where a successfully loaded image landed.
type Image struct {
	Path string

	// Entry is the entry point for ELF images and zero for flat
	// binaries
	Entry uint32

	// LoadAddr is the lowest address written
	LoadAddr uint32

	// Size is the number of bytes written
	Size int
}

// Load reads the file at path and materialises it into mem. A file
// carrying the ELF magic is loaded as a 32-bit ARM executable and is an
// error when it cannot be; anything else is loaded as a flat binary at
// address 0, limited to the size of the flash region.
func Load(path string, mem *memory.AddrSpace, flash *memory.Region) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, curated.Errorf(ImageLoadFailure, path, err)
	}

	if isELF(data) {
		img, err := loadELF(path, data, mem)
		if err != nil {
			return Image{}, curated.Errorf(ImageLoadFailure, path, err)
		}
		return img, nil
	}

	// a flat binary at address 0
	if flash == nil || uint32(len(data)) > flash.Size() {
		return Image{}, curated.Errorf(ImageLoadFailure, path, "image larger than flash")
	}
	if err := mem.Load(0x00000000, data); err != nil {
		return Image{}, curated.Errorf(ImageLoadFailure, path, err)
	}

	return Image{
		Path:     path,
		LoadAddr: 0x00000000,
		Size:     len(data),
	}, nil
}

// isELF is true if data starts with the ELF magic number.
func isELF(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], []byte(elf.ELFMAG))
}

// loadELF interprets data as a 32-bit little-endian ARM executable and
// copies its loadable segments into mem.
func loadELF(path string, data []byte, mem *memory.AddrSpace) (Image, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 || f.Machine != elf.EM_ARM {
		return Image{}, curated.Errorf("loader: not a 32-bit ARM image")
	}

	img := Image{
		Path:     path,
		Entry:    uint32(f.Entry),
		LoadAddr: ^uint32(0),
	}

	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD || p.Filesz == 0 {
			continue
		}

		seg := make([]byte, p.Filesz)
		n, err := p.ReadAt(seg, 0)
		if err != nil && !(err == io.EOF && n == len(seg)) {
			return Image{}, err
		}

		addr := uint32(p.Paddr)
		if err := mem.Load(addr, seg); err != nil {
			return Image{}, err
		}

		if addr < img.LoadAddr {
			img.LoadAddr = addr
		}
		img.Size += len(seg)
	}

	if img.Size == 0 {
		return Image{}, curated.Errorf("loader: no loadable segments")
	}

	return img, nil
}
