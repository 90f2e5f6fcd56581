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

// Package memory implements the 32-bit address space of the emulated
// chip. The address space is an ordered set of regions mapped at
// construction time. Regions never overlap; an attempt to map a region
// over an existing one is a construction error and is never checked
// again at runtime.
//
// Three special region kinds exist alongside plain RAM and ROM. An Alias
// region owns no storage and forwards every access to a backing region
// at a byte offset. A BitBand region exposes each bit of a 1MiB source
// window as one word in a 32MiB window, computed by address arithmetic.
// Reserved regions claim a range without backing it.
package memory

import (
	"fmt"

	"github.com/retrosoc/retrosoc/curated"
)

// Kind classifies a region.
type Kind int

// List of region kinds.
const (
	RAM Kind = iota
	ROM
	Alias
	BitBand
	Reserved
)

func (k Kind) String() string {
	switch k {
	case RAM:
		return "RAM"
	case ROM:
		return "ROM"
	case Alias:
		return "alias"
	case BitBand:
		return "bit-band"
	case Reserved:
		return "reserved"
	}

	return "undefined"
}

// BitBandOffset is the distance between a bit-band source window and its
// alias window. It is also the size of the alias window (32MiB).
const BitBandOffset = 0x02000000

// Region is a contiguous byte range in the address space.
type Region struct {
	name   string
	kind   Kind
	origin uint32
	size   uint32

	// RAM and ROM regions own their storage
	data []byte

	// Alias regions forward to a backing region. the backing region is
	// not owned by the alias
	backing *Region
	offset  uint32

	// BitBand regions record the origin of their source window. accesses
	// resolve through the address space, not the region, so the source
	// can be any mapped region
	srcOrigin uint32
}

// Name returns the region name given at mapping time.
func (r *Region) Name() string { return r.name }

// Kind returns the region kind.
func (r *Region) Kind() Kind { return r.kind }

// Origin is the first address of the region.
func (r *Region) Origin() uint32 { return r.origin }

// Memtop is the last address of the region.
func (r *Region) Memtop() uint32 { return r.origin + r.size - 1 }

// Size returns the region size in bytes.
func (r *Region) Size() uint32 { return r.size }

func (r *Region) String() string {
	return fmt.Sprintf("%-18s %08x-%08x %s", r.name, r.Origin(), r.Memtop(), r.kind)
}

// contains is true if addr falls inside the region.
func (r *Region) contains(addr uint32) bool {
	return addr >= r.origin && addr <= r.Memtop()
}

// Error pattern returned when a region cannot be mapped.
const RegionOverlap = "memory: region %s [%08x-%08x] overlaps %s"

// AddrSpace is the ordered set of regions making up the chip's memory
// map. Mutated only during construction and frozen thereafter.
type AddrSpace struct {
	regions []*Region
}

// NewAddrSpace is the preferred method of initialisation for the
// AddrSpace type.
func NewAddrSpace() *AddrSpace {
	return &AddrSpace{}
}

// Regions returns the mapped regions in mapping order. The returned
// slice must not be modified. Intended for inspection tooling.
func (a *AddrSpace) Regions() []*Region {
	return a.regions
}

// add validates the candidate range against every existing region and
// adds it. the sole mutation point of the address space.
func (a *AddrSpace) add(r *Region) (*Region, error) {
	if r.size == 0 {
		return nil, curated.Errorf("memory: region %s has zero size", r.name)
	}
	if r.origin+r.size-1 < r.origin {
		return nil, curated.Errorf("memory: region %s wraps the address space", r.name)
	}

	for _, e := range a.regions {
		if r.origin <= e.Memtop() && e.origin <= r.Memtop() {
			return nil, curated.Errorf(RegionOverlap, r.name, r.origin, r.Memtop(), e)
		}
	}

	a.regions = append(a.regions, r)
	return r, nil
}

// MapRAM maps a RAM region of the given size at origin.
func (a *AddrSpace) MapRAM(name string, origin uint32, size uint32) (*Region, error) {
	return a.add(&Region{
		name:   name,
		kind:   RAM,
		origin: origin,
		size:   size,
		data:   make([]byte, size),
	})
}

// MapROM maps a read-only region of the given size at origin. Writes
// through the normal access functions are discarded; content is placed
// with Load().
func (a *AddrSpace) MapROM(name string, origin uint32, size uint32) (*Region, error) {
	return a.add(&Region{
		name:   name,
		kind:   ROM,
		origin: origin,
		size:   size,
		data:   make([]byte, size),
	})
}

// MapAlias maps a forwarding view of size bytes of the backing region,
// starting at the given byte offset into it. The alias does not own the
// backing region.
func (a *AddrSpace) MapAlias(name string, origin uint32, backing *Region, offset uint32, size uint32) (*Region, error) {
	if backing == nil {
		return nil, curated.Errorf("memory: alias %s has no backing region", name)
	}
	if offset+size > backing.size {
		return nil, curated.Errorf("memory: alias %s extends past backing region %s", name, backing.name)
	}
	return a.add(&Region{
		name:    name,
		kind:    Alias,
		origin:  origin,
		size:    size,
		backing: backing,
		offset:  offset,
	})
}

// MapBitBand maps the bit-band window for the 1MiB source window at
// srcOrigin. The source origin is forced down to a multiple of 32MiB and
// the window is mapped BitBandOffset above it, covering 32MiB. Each word
// of the window addresses one bit of the source.
func (a *AddrSpace) MapBitBand(name string, srcOrigin uint32) (*Region, error) {
	srcOrigin &^= uint32(BitBandOffset - 1)
	return a.add(&Region{
		name:      name,
		kind:      BitBand,
		origin:    srcOrigin + BitBandOffset,
		size:      BitBandOffset,
		srcOrigin: srcOrigin,
	})
}

// MapReserved claims a range without backing it. Reads return zero and
// writes are discarded.
func (a *AddrSpace) MapReserved(name string, origin uint32, size uint32) (*Region, error) {
	return a.add(&Region{
		name:   name,
		kind:   Reserved,
		origin: origin,
		size:   size,
	})
}

// find returns the region containing addr, or nil.
func (a *AddrSpace) find(addr uint32) *Region {
	for _, r := range a.regions {
		if r.contains(addr) {
			return r
		}
	}
	return nil
}

// Read8 returns the byte at addr. Unmapped addresses read as zero.
func (a *AddrSpace) Read8(addr uint32) uint8 {
	r := a.find(addr)
	if r == nil {
		return 0
	}

	switch r.kind {
	case RAM, ROM:
		return r.data[addr-r.origin]
	case Alias:
		return a.readBacking(r, addr)
	case BitBand:
		// sub-word access to a bit-band word returns the bit in the low
		// byte of the word, zero elsewhere
		if (addr-r.origin)&0x03 != 0 {
			return 0
		}
		return uint8(a.bitBandRead(r, addr))
	}

	return 0
}

// Write8 stores a byte at addr. Writes to ROM, Reserved and unmapped
// addresses are discarded.
func (a *AddrSpace) Write8(addr uint32, v uint8) {
	r := a.find(addr)
	if r == nil {
		return
	}

	switch r.kind {
	case RAM:
		r.data[addr-r.origin] = v
	case Alias:
		a.writeBacking(r, addr, v)
	case BitBand:
		if (addr-r.origin)&0x03 == 0 {
			a.bitBandWrite(r, addr, uint32(v))
		}
	}
}

// Read16 returns the little-endian 16-bit value at addr.
func (a *AddrSpace) Read16(addr uint32) uint16 {
	return uint16(a.Read8(addr)) | uint16(a.Read8(addr+1))<<8
}

// Write16 stores a little-endian 16-bit value at addr.
func (a *AddrSpace) Write16(addr uint32, v uint16) {
	a.Write8(addr, uint8(v))
	a.Write8(addr+1, uint8(v>>8))
}

// Read32 returns the little-endian 32-bit value at addr. A read of a
// bit-band word returns 0 or 1.
func (a *AddrSpace) Read32(addr uint32) uint32 {
	if r := a.find(addr); r != nil && r.kind == BitBand {
		return a.bitBandRead(r, addr)
	}
	return uint32(a.Read16(addr)) | uint32(a.Read16(addr+2))<<16
}

// Write32 stores a little-endian 32-bit value at addr. A write to a
// bit-band word sets or clears the corresponding source bit according to
// bit zero of the value.
func (a *AddrSpace) Write32(addr uint32, v uint32) {
	if r := a.find(addr); r != nil && r.kind == BitBand {
		a.bitBandWrite(r, addr, v)
		return
	}
	a.Write16(addr, uint16(v))
	a.Write16(addr+2, uint16(v>>16))
}

// readBacking resolves an alias access to the backing region. chains of
// aliases resolve recursively through the backing pointers.
func (a *AddrSpace) readBacking(r *Region, addr uint32) uint8 {
	b := r.backing
	idx := r.offset + (addr - r.origin)
	if b.kind == Alias {
		return a.readBacking(b, b.origin+idx)
	}
	if b.data == nil {
		return 0
	}
	return b.data[idx]
}

func (a *AddrSpace) writeBacking(r *Region, addr uint32, v uint8) {
	b := r.backing
	idx := r.offset + (addr - r.origin)
	if b.kind == Alias {
		a.writeBacking(b, b.origin+idx, v)
		return
	}
	if b.kind != RAM {
		// forwarding preserves the backing region's write semantics
		return
	}
	b.data[idx] = v
}

// bit-band address arithmetic. for a word at offset off into the window:
//
//	source byte = srcOrigin + off/32
//	source bit  = (off%32) / 4
func (a *AddrSpace) bitBandRead(r *Region, addr uint32) uint32 {
	off := addr - r.origin
	src := r.srcOrigin + off/32
	bit := (off % 32) / 4
	return uint32(a.Read8(src)>>bit) & 1
}

func (a *AddrSpace) bitBandWrite(r *Region, addr uint32, v uint32) {
	off := addr - r.origin
	src := r.srcOrigin + off/32
	bit := (off % 32) / 4
	b := a.Read8(src)
	if v&1 == 1 {
		b |= 1 << bit
	} else {
		b &^= 1 << bit
	}
	a.Write8(src, b)
}

// Load copies p directly into the storage of the region(s) covering the
// range starting at addr, bypassing read-only protection. It is how the
// image loader materialises a boot image into Flash. Fails if any part
// of the range is not backed by RAM or ROM storage.
func (a *AddrSpace) Load(addr uint32, p []byte) error {
	for len(p) > 0 {
		r := a.find(addr)
		if r == nil || r.data == nil {
			return curated.Errorf("memory: load outside backed memory at %08x", addr)
		}

		idx := addr - r.origin
		n := copy(r.data[idx:], p)
		p = p[n:]
		addr += uint32(n)
	}
	return nil
}

