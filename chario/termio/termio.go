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

// Package termio provides a chario backend that attaches a serial port
// to the host terminal in raw mode, wrapping "github.com/pkg/term/termios"
// in functions with friendlier names.
package termio

import (
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Terminal is a raw-mode view of the host terminal, suitable for
// registration as a chario backend. Input and output both use the
// controlling terminal.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr unix.Termios
	rawAttr unix.Termios
}

// Open puts the host terminal into raw mode and returns it as a
// backend. The caller must call Restore() before the process exits or
// the terminal will be left unusable.
func Open() (*Terminal, error) {
	t := &Terminal{
		input:  os.Stdin,
		output: os.Stdout,
	}

	if err := termios.Tcgetattr(t.input.Fd(), &t.canAttr); err != nil {
		return nil, fmt.Errorf("termio: %w", err)
	}

	t.rawAttr = t.canAttr
	termios.Cfmakeraw(&t.rawAttr)

	if err := termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.rawAttr); err != nil {
		return nil, fmt.Errorf("termio: %w", err)
	}

	return t, nil
}

// Restore returns the terminal to canonical mode.
func (t *Terminal) Restore() error {
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.canAttr); err != nil {
		return fmt.Errorf("termio: %w", err)
	}
	return nil
}

// Read implements io.Reader.
func (t *Terminal) Read(p []byte) (int, error) {
	return t.input.Read(p)
}

// Write implements io.Writer.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.output.Write(p)
}
