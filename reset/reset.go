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

// Package reset implements the system reset registry. The registry is an
// explicit value created by the host and passed into machine
// construction; there is no process-wide registry and no hidden
// re-initialisation. The machine registers its reset cascade here and
// the host invokes the registry for cold start and for guest-triggered
// system reset.
package reset

// Hook is a registered reset callback. The machine it belongs to is
// captured by closure.
type Hook func()

// Registry holds reset hooks in registration order. The zero value is
// ready to use.
type Registry struct {
	hooks []Hook
}

// NewRegistry is the preferred method of initialisation for the Registry
// type.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a hook. Hooks are never removed; a machine registers
// at most one hook, once, during construction.
func (r *Registry) Register(h Hook) {
	r.hooks = append(r.hooks, h)
}

// Invoke runs every registered hook in registration order. Invocation is
// synchronous and assumed single-threaded relative to the machines the
// hooks belong to.
func (r *Registry) Invoke() {
	for _, h := range r.hooks {
		h()
	}
}
