// Package geometry fits sprite cells into viewports.
//
// All types are plain values. Every operation returns a new value and never
// mutates its inputs, so bounds can be recomputed from any goroutine without
// coordination with the playback state that consumes them.
package geometry

import (
	"image"
	"math"
)

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// Offset represents a 2D point or vector in pixel coordinates.
type Offset struct {
	X float64
	Y float64
}

// Size represents width and height dimensions in pixels.
type Size struct {
	Width  float64
	Height float64
}

// AspectRatio returns Width/Height, or 0 when the size has no height.
func (s Size) AspectRatio() float64 {
	if s.Height == 0 {
		return 0
	}
	return s.Width / s.Height
}

// Bounds is a rectangle described by its top-left corner and extent.
// It is used both for host containers and for fitted sprite cells.
type Bounds struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// BoundsFromSize returns bounds of the given size anchored at the origin.
func BoundsFromSize(width, height float64) Bounds {
	return Bounds{Width: width, Height: height}
}

// Size returns the extent of the bounds.
func (b Bounds) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// Center returns the center point of the bounds.
func (b Bounds) Center() Offset {
	return Offset{
		X: b.X + b.Width*0.5,
		Y: b.Y + b.Height*0.5,
	}
}

// IsEmpty returns true if the bounds have zero, negative or NaN area.
func (b Bounds) IsEmpty() bool {
	return !(b.Width > 0) || !(b.Height > 0)
}

// Contains reports whether other lies entirely inside b, within epsilon.
func (b Bounds) Contains(other Bounds) bool {
	return other.X >= b.X-epsilon &&
		other.Y >= b.Y-epsilon &&
		other.X+other.Width <= b.X+b.Width+epsilon &&
		other.Y+other.Height <= b.Y+b.Height+epsilon
}

// Equal reports whether two bounds match within epsilon.
func (b Bounds) Equal(other Bounds) bool {
	return floatEqual(b.X, other.X) &&
		floatEqual(b.Y, other.Y) &&
		floatEqual(b.Width, other.Width) &&
		floatEqual(b.Height, other.Height)
}

// Rect converts the bounds to an integer image rectangle, rounding each edge
// to the nearest pixel.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(
		int(math.Round(b.X)),
		int(math.Round(b.Y)),
		int(math.Round(b.X+b.Width)),
		int(math.Round(b.Y+b.Height)),
	)
}

// Scale returns the size of a full sheet of columns x rows cells when a single
// cell has the dimensions of b.
func (b Bounds) Scale(columns, rows int) Size {
	return Size{
		Width:  b.Width * float64(columns),
		Height: b.Height * float64(rows),
	}
}

// FitRatio returns the largest rectangle with the given width/height ratio
// that fits inside container, centered on both axes.
//
// A container whose width or height is not a positive finite number, or a
// ratio that is not one, yields zero-area bounds at the container center.
// A NaN or infinite extent counts as zero when centering.
func FitRatio(container Bounds, ratio float64) Bounds {
	if !isFinitePositive(container.Width) || !isFinitePositive(container.Height) || !isFinitePositive(ratio) {
		return Bounds{
			X: container.X + finiteOrZero(container.Width)*0.5,
			Y: container.Y + finiteOrZero(container.Height)*0.5,
		}
	}

	var width, height float64
	if container.Width/container.Height > ratio {
		// Container is wider than the target: height binds.
		height = container.Height
		width = height * ratio
	} else {
		width = container.Width
		height = width / ratio
	}

	return Bounds{
		X:      container.X + (container.Width-width)/2,
		Y:      container.Y + (container.Height-height)/2,
		Width:  width,
		Height: height,
	}
}

// CellIndex returns the column and row of frame in a sheet laid out
// row-major with the given number of columns.
func CellIndex(frame, columns int) (column, row int) {
	if columns < 1 || frame < 0 {
		return 0, 0
	}
	return frame % columns, frame / columns
}

// CellOffset returns the background offset that moves a scaled sheet so the
// cell for frame lines up with a viewport of the size of cell. Offsets are
// negative: the sheet slides left and up to reveal later cells.
func CellOffset(cell Bounds, frame, columns int) Offset {
	column, row := CellIndex(frame, columns)
	return Offset{
		X: -cell.Width * float64(column),
		Y: -cell.Height * float64(row),
	}
}

// floatEqual returns true if two float64 values are approximately equal.
func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
