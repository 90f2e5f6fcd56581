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

// Package curated provides the error type used throughout RetroSoC. A
// curated error keeps hold of the pattern string it was created with so
// that callers can test for a specific class of error without resorting
// to string comparison of the formatted message.
//
// Packages that can fail during machine construction export their error
// patterns as constants. For example:
//
//	_, err := capability.Resolve(desc, overrides)
//	if curated.Is(err, capability.UnsupportedCoreModel) {
//		...
//	}
//
// Has() performs the same test but walks down the chain of wrapped
// curated errors, which is useful when a construction phase wraps the
// error of a sub-step.
package curated
