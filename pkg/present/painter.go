package present

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	reelerrors "github.com/go-drift/reel/pkg/errors"
	"github.com/go-drift/reel/pkg/geometry"
	"github.com/go-drift/reel/pkg/sprite"
)

// Painter draws views into images.
type Painter struct {
	// Scaler resamples the cell into the fitted bounds. Nil uses
	// draw.ApproxBiLinear.
	Scaler draw.Scaler
}

func (p Painter) scaler() draw.Scaler {
	if p.Scaler != nil {
		return p.Scaler
	}
	return draw.ApproxBiLinear
}

// Paint draws the cell for v.Frame from img, a decoded sheet laid out as
// described by sheet, into dst. dst coordinates are container coordinates.
// The sheet image may be any size; each cell is an equal share of it.
// An empty view paints nothing.
func (p Painter) Paint(dst draw.Image, img image.Image, sheet sprite.Sheet, v sprite.View) error {
	src, err := CellRect(img.Bounds(), sheet, v.Frame)
	if err != nil {
		return reelerrors.New("present.Paint", reelerrors.KindRender, err)
	}

	if v.Debug {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(ContainerTint.NRGBA()), image.Point{}, draw.Over)
	}
	if v.Bounds.IsEmpty() {
		return nil
	}

	target := v.Bounds.Rect().Add(dst.Bounds().Min)
	if target.Empty() {
		return nil
	}
	if v.Debug {
		draw.Draw(dst, target, image.NewUniform(CellTint.NRGBA()), image.Point{}, draw.Over)
	}
	p.scaler().Scale(dst, target, img, src, draw.Over, nil)
	return nil
}

// CellRect returns the rectangle of frame's cell inside a sheet image with
// the given bounds.
func CellRect(bounds image.Rectangle, sheet sprite.Sheet, frame int) (image.Rectangle, error) {
	if sheet.Columns < 1 || sheet.Rows < 1 {
		return image.Rectangle{}, fmt.Errorf("sheet grid %dx%d is empty", sheet.Columns, sheet.Rows)
	}
	cw, ch := bounds.Dx()/sheet.Columns, bounds.Dy()/sheet.Rows
	if cw == 0 || ch == 0 {
		return image.Rectangle{}, fmt.Errorf("sheet image %v is too small for a %dx%d grid", bounds.Size(), sheet.Columns, sheet.Rows)
	}
	column, row := geometry.CellIndex(frame, sheet.Columns)
	origin := bounds.Min.Add(image.Pt(column*cw, row*ch))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(cw, ch))}, nil
}

// Render paints v onto a new transparent image the size of container.
func (p Painter) Render(container geometry.Size, img image.Image, sheet sprite.Sheet, v sprite.View) (*image.NRGBA, error) {
	rect := geometry.BoundsFromSize(container.Width, container.Height).Rect()
	dst := image.NewNRGBA(rect)
	if err := p.Paint(dst, img, sheet, v); err != nil {
		return nil, err
	}
	return dst, nil
}
