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

package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// IsGdiFile checks if a filename has the .gdi manifest extension.
func IsGdiFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".gdi"
}

// DetectGdiFile finds the .gdi manifest in an archive.
// It scans the archive's file list and returns the path to the first
// file with a .gdi extension.
func DetectGdiFile(arc Archive) (string, error) {
	files, err := arc.List()
	if err != nil {
		return "", fmt.Errorf("list archive files: %w", err)
	}

	for _, file := range files {
		if IsGdiFile(file.Name) {
			return file.Name, nil
		}
	}

	return "", NoGdiFileError{Archive: "archive"}
}
