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

// Package chario is the registry of character-stream backends for the
// emulated serial ports. Backends are configured by the host (a
// terminal, a pipe, a test buffer) before machine construction; a serial
// peripheral whose port has no configured backend is silently attached
// to the Null backend rather than failing construction.
package chario

import (
	"io"

	"github.com/retrosoc/retrosoc/curated"
)

// MaxPorts is the number of serial ports the host can attach a backend
// to.
const MaxPorts = 8

// Error pattern returned by Register() for an out of range port.
const BadPort = "chario: port %d out of range (0-%d)"

// Registry maps serial port indices to externally configured stream
// backends. The zero value is ready to use. A nil *Registry is also
// valid and behaves as a registry with no backends.
type Registry struct {
	backends [MaxPorts]io.ReadWriter
}

// Register attaches a backend to the numbered port, replacing any
// previous backend.
func (r *Registry) Register(port int, b io.ReadWriter) error {
	if port < 0 || port >= MaxPorts {
		return curated.Errorf(BadPort, port, MaxPorts-1)
	}
	r.backends[port] = b
	return nil
}

// Backend returns the backend for the numbered port, or nil when none
// has been registered.
func (r *Registry) Backend(port int) io.ReadWriter {
	if r == nil || port < 0 || port >= MaxPorts {
		return nil
	}
	return r.backends[port]
}

// Null is the discard backend. Writes succeed and vanish; reads report
// EOF.
type Null struct{}

// Read implements io.Reader.
func (Null) Read(_ []byte) (int, error) {
	return 0, io.EOF
}

// Write implements io.Writer.
func (Null) Write(p []byte) (int, error) {
	return len(p), nil
}
