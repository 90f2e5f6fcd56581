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

package chario_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retrosoc/retrosoc/chario"
	"github.com/retrosoc/retrosoc/curated"
)

func TestRegistry(t *testing.T) {
	r := &chario.Registry{}

	b := &bytes.Buffer{}
	assert.NoError(t, r.Register(0, b))
	assert.True(t, r.Backend(0) == io.ReadWriter(b))
	assert.True(t, r.Backend(1) == nil)

	err := r.Register(chario.MaxPorts, b)
	assert.Error(t, err)
	assert.True(t, curated.Is(err, chario.BadPort))
	assert.Error(t, r.Register(-1, b))
}

func TestNilRegistry(t *testing.T) {
	var r *chario.Registry
	assert.True(t, r.Backend(0) == nil)
}

func TestNull(t *testing.T) {
	var n chario.Null

	sent, err := n.Write([]byte("discarded"))
	assert.NoError(t, err)
	assert.Equal(t, 9, sent)

	_, err = n.Read(make([]byte, 1))
	assert.Equal(t, io.EOF, err)
}
