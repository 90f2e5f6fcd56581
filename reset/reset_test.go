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

package reset_test

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retrosoc/retrosoc/reset"
)

func TestRegistrationOrder(t *testing.T) {
	r := reset.NewRegistry()

	var order []int
	r.Register(func() { order = append(order, 1) })
	r.Register(func() { order = append(order, 2) })
	r.Register(func() { order = append(order, 3) })

	r.Invoke()
	assert.Equal(t, 3, len(order))
	assert.Equal(t, 1, order[0])
	assert.Equal(t, 2, order[1])
	assert.Equal(t, 3, order[2])

	// a second invocation runs the hooks again
	r.Invoke()
	assert.Equal(t, 6, len(order))
}

func TestEmptyRegistry(t *testing.T) {
	r := reset.NewRegistry()
	r.Invoke()
}
