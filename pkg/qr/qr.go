// Package qr turns text payloads into square module matrices.
//
// Payloads are encoded at the highest error-correction level (H), so a code
// stays decodable with roughly 30% of its modules missing. That tolerance is
// what allows the renderer to clear a centred safe zone for a logo.
//
// [Generate] never fails: payloads that cannot be encoded yield the fixed
// [Placeholder] checkerboard so layout code never has to handle a missing code.
package qr

import (
	qrcode "github.com/skip2/go-qrcode"
)

const (
	// FinderSize is the side length, in modules, of a finder pattern.
	FinderSize = 7

	// PlaceholderSize is the side length of the fallback checkerboard.
	PlaceholderSize = 29
)

// Matrix is a square grid of modules; true means a dark module.
type Matrix struct {
	modules [][]bool
}

// Size returns the side length in modules.
func (m Matrix) Size() int { return len(m.modules) }

// At reports whether the module at row r, column c is dark.
// Out-of-range coordinates are light.
func (m Matrix) At(r, c int) bool {
	if r < 0 || c < 0 || r >= len(m.modules) || c >= len(m.modules) {
		return false
	}
	return m.modules[r][c]
}

// IsFinder reports whether (r, c) lies inside one of the three 7×7 finder
// patterns in the top-left, top-right and bottom-left corners.
func (m Matrix) IsFinder(r, c int) bool {
	n := m.Size()
	top := r < FinderSize
	left := c < FinderSize
	return (top && left) || (top && c >= n-FinderSize) || (r >= n-FinderSize && left)
}

// Equal reports whether two matrices have identical modules.
func (m Matrix) Equal(o Matrix) bool {
	if m.Size() != o.Size() {
		return false
	}
	for r, row := range m.modules {
		for c, v := range row {
			if o.modules[r][c] != v {
				return false
			}
		}
	}
	return true
}

// Rows returns a copy of the module grid.
func (m Matrix) Rows() [][]bool {
	out := make([][]bool, len(m.modules))
	for i, row := range m.modules {
		out[i] = append([]bool(nil), row...)
	}
	return out
}

// Generate encodes payload at error-correction level H without a quiet zone.
// An empty payload is encoded as a single space. If encoding fails, typically
// because the payload exceeds the capacity of the largest version, the
// [Placeholder] matrix is returned instead.
func Generate(payload string) Matrix {
	m, err := Encode(payload)
	if err != nil {
		return Placeholder()
	}
	return m
}

// Encode is like [Generate] but reports encoding failures.
func Encode(payload string) (Matrix, error) {
	if payload == "" {
		payload = " "
	}
	code, err := qrcode.New(payload, qrcode.Highest)
	if err != nil {
		return Matrix{}, err
	}
	code.DisableBorder = true
	return Matrix{modules: code.Bitmap()}, nil
}

// Placeholder returns the fixed 29×29 checkerboard used when encoding fails.
func Placeholder() Matrix {
	modules := make([][]bool, PlaceholderSize)
	for r := range modules {
		modules[r] = make([]bool, PlaceholderSize)
		for c := range modules[r] {
			modules[r][c] = (r+c)%2 == 0
		}
	}
	return Matrix{modules: modules}
}

// FromRows builds a matrix from an explicit module grid. It returns the
// placeholder if rows is empty or not square.
func FromRows(rows [][]bool) Matrix {
	if len(rows) == 0 {
		return Placeholder()
	}
	modules := make([][]bool, len(rows))
	for i, row := range rows {
		if len(row) != len(rows) {
			return Placeholder()
		}
		modules[i] = append([]bool(nil), row...)
	}
	return Matrix{modules: modules}
}
