package present

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/go-drift/reel/pkg/geometry"
	"github.com/go-drift/reel/pkg/sprite"
)

// Tint is a translucent debug color.
type Tint struct {
	Color colorful.Color
	Alpha float64
}

// Debug tints for the container and the fitted cell.
var (
	ContainerTint = Tint{Color: colorful.Color{R: 0, G: 128.0 / 255, B: 0}, Alpha: 0.63}
	CellTint      = Tint{Color: colorful.Color{R: 0, G: 10.0 / 255, B: 128.0 / 255}, Alpha: 0.63}
)

// CSS formats the tint as an rgba() value.
func (t Tint) CSS() string {
	r, g, b := t.Color.Clamped().RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", r, g, b, t.Alpha)
}

// NRGBA returns the tint as a non-premultiplied color.
func (t Tint) NRGBA() color.NRGBA {
	r, g, b := t.Color.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(t.Alpha*255 + 0.5)}
}

// Style is the absolutely positioned box that reveals one cell of the
// sheet. Background fields describe the whole scaled sheet and how far it
// is shifted.
type Style struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64

	BackgroundImage    string
	BackgroundSize     geometry.Size
	BackgroundPosition geometry.Offset

	// Debug tints, nil unless the view asks for them.
	ContainerColor *Tint
	CellColor      *Tint
}

// StyleFor lays out v.
func StyleFor(v sprite.View) Style {
	s := Style{
		Left:               v.Bounds.X,
		Top:                v.Bounds.Y,
		Width:              v.Bounds.Width,
		Height:             v.Bounds.Height,
		BackgroundSize:     v.SheetSize,
		BackgroundPosition: v.CellOffset,
	}
	if v.URL != "" {
		s.BackgroundImage = "url(" + v.URL + ")"
	}
	if v.Debug {
		container, cell := ContainerTint, CellTint
		s.ContainerColor = &container
		s.CellColor = &cell
	}
	return s
}

// CSS renders the cell box as inline style declarations.
func (s Style) CSS() string {
	var b strings.Builder
	if s.CellColor != nil {
		fmt.Fprintf(&b, "background-color: %s; ", s.CellColor.CSS())
	}
	fmt.Fprintf(&b, "position: absolute; top: %spx; left: %spx; width: %spx; height: %spx; overflow: hidden; ",
		px(s.Top), px(s.Left), px(s.Width), px(s.Height))
	if s.BackgroundImage != "" {
		fmt.Fprintf(&b, "background-image: %s; ", s.BackgroundImage)
	}
	fmt.Fprintf(&b, "background-repeat: no-repeat; background-size: %spx %spx; background-position: %spx %spx;",
		px(s.BackgroundSize.Width), px(s.BackgroundSize.Height),
		px(s.BackgroundPosition.X), px(s.BackgroundPosition.Y))
	return b.String()
}

// ContainerCSS renders the container's inline style, which only carries the
// debug tint.
func (s Style) ContainerCSS() string {
	if s.ContainerColor == nil {
		return ""
	}
	return "background-color: " + s.ContainerColor.CSS() + ";"
}

func px(v float64) string {
	if v == 0 {
		// Avoid "-0".
		v = 0
	}
	return fmt.Sprintf("%g", v)
}
