// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-gameid.
//
// go-gameid is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-gameid is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-gameid.  If not, see <https://www.gnu.org/licenses/>.

package iso9660

import (
	"errors"
	"fmt"
)

// ErrBadVolumeDescriptor indicates the primary volume descriptor at
// logical sector 16 failed its type-1 validation.
var ErrBadVolumeDescriptor = errors.New("invalid primary volume descriptor")

// ErrTruncatedRead indicates a directory-record decoder found fewer
// bytes than the record it was decoding claims to occupy, which
// signals a corrupt or truncated volume rather than a normal
// end-of-directory condition.
var ErrTruncatedRead = errors.New("iso9660: truncated directory record")

// NotFoundError indicates a path lookup found no matching record.
type NotFoundError struct {
	Path string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("record not found: %q", e.Path)
}
