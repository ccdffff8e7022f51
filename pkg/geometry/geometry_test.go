package geometry

import (
	"image"
	"math"
	"testing"
)

func TestFitRatio(t *testing.T) {
	tests := []struct {
		name      string
		container Bounds
		ratio     float64
		want      Bounds
	}{
		{
			name:      "wide container binds height",
			container: Bounds{0, 0, 400, 100},
			ratio:     2,
			want:      Bounds{X: 100, Y: 0, Width: 200, Height: 100},
		},
		{
			name:      "tall container binds width",
			container: Bounds{0, 0, 100, 400},
			ratio:     2,
			want:      Bounds{X: 0, Y: 175, Width: 100, Height: 50},
		},
		{
			name:      "exact ratio fills container",
			container: Bounds{10, 20, 300, 150},
			ratio:     2,
			want:      Bounds{X: 10, Y: 20, Width: 300, Height: 150},
		},
		{
			name:      "offset container keeps origin",
			container: Bounds{50, 50, 200, 200},
			ratio:     0.5,
			want:      Bounds{X: 100, Y: 50, Width: 100, Height: 200},
		},
		{
			name:      "zero width",
			container: Bounds{0, 0, 0, 100},
			ratio:     2,
			want:      Bounds{X: 0, Y: 50},
		},
		{
			name:      "zero height",
			container: Bounds{0, 0, 100, 0},
			ratio:     2,
			want:      Bounds{X: 50, Y: 0},
		},
		{
			name:      "zero ratio",
			container: Bounds{0, 0, 100, 100},
			ratio:     0,
			want:      Bounds{X: 50, Y: 50},
		},
		{
			name:      "NaN ratio",
			container: Bounds{0, 0, 100, 100},
			ratio:     math.NaN(),
			want:      Bounds{X: 50, Y: 50},
		},
		{
			name:      "NaN width",
			container: Bounds{10, 0, math.NaN(), 100},
			ratio:     2,
			want:      Bounds{X: 10, Y: 50},
		},
		{
			name:      "NaN height",
			container: Bounds{0, 0, 100, math.NaN()},
			ratio:     2,
			want:      Bounds{X: 50, Y: 0},
		},
		{
			name:      "infinite width",
			container: Bounds{0, 0, math.Inf(1), 100},
			ratio:     2,
			want:      Bounds{X: 0, Y: 50},
		},
		{
			name:      "infinite ratio",
			container: Bounds{0, 0, 100, 100},
			ratio:     math.Inf(1),
			want:      Bounds{X: 50, Y: 50},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitRatio(tt.container, tt.ratio)
			if !got.Equal(tt.want) {
				t.Errorf("FitRatio(%+v, %v) = %+v, want %+v", tt.container, tt.ratio, got, tt.want)
			}
		})
	}
}

func TestFitRatio_Properties(t *testing.T) {
	containers := []Bounds{
		{0, 0, 640, 480},
		{0, 0, 480, 640},
		{13, 7, 333, 91},
		{-20, -10, 1, 1000},
		{0, 0, 1920, 1080},
	}
	ratios := []float64{0.25, 0.5, 1, 4.0 / 3.0, 16.0 / 9.0, 3}

	for _, c := range containers {
		for _, ratio := range ratios {
			got := FitRatio(c, ratio)
			if math.Abs(got.Width/got.Height-ratio) > 1e-9 {
				t.Errorf("FitRatio(%+v, %v) ratio = %v", c, ratio, got.Width/got.Height)
			}
			if !c.Contains(got) {
				t.Errorf("FitRatio(%+v, %v) = %+v escapes container", c, ratio, got)
			}
			gc, cc := got.Center(), c.Center()
			if !floatEqual(gc.X, cc.X) || !floatEqual(gc.Y, cc.Y) {
				t.Errorf("FitRatio(%+v, %v) center = %+v, want %+v", c, ratio, gc, cc)
			}
			// One dimension always touches the container.
			if !floatEqual(got.Width, c.Width) && !floatEqual(got.Height, c.Height) {
				t.Errorf("FitRatio(%+v, %v) = %+v is not maximal", c, ratio, got)
			}
		}
	}
}

func TestBoundsScale(t *testing.T) {
	got := Bounds{X: 100, Width: 200, Height: 100}.Scale(4, 2)
	want := Size{Width: 800, Height: 200}
	if got != want {
		t.Errorf("Scale = %+v, want %+v", got, want)
	}
}

func TestCellOffset(t *testing.T) {
	cell := Bounds{Width: 200, Height: 100}
	tests := []struct {
		frame, columns int
		want           Offset
	}{
		{0, 4, Offset{0, 0}},
		{1, 4, Offset{-200, 0}},
		{3, 4, Offset{-600, 0}},
		{4, 4, Offset{0, -100}},
		{7, 4, Offset{-600, -100}},
		{5, 1, Offset{0, -500}},
		{3, 0, Offset{0, 0}},
		{-1, 4, Offset{0, 0}},
	}
	for _, tt := range tests {
		if got := CellOffset(cell, tt.frame, tt.columns); got != tt.want {
			t.Errorf("CellOffset(frame=%d, columns=%d) = %+v, want %+v", tt.frame, tt.columns, got, tt.want)
		}
	}
}

func TestCellIndex_WithinSheet(t *testing.T) {
	for columns := 1; columns <= 6; columns++ {
		for rows := 1; rows <= 4; rows++ {
			for frame := 0; frame < columns*rows; frame++ {
				col, row := CellIndex(frame, columns)
				if col < 0 || col >= columns || row < 0 || row >= rows {
					t.Fatalf("CellIndex(%d, %d) = (%d, %d) outside %dx%d", frame, columns, col, row, columns, rows)
				}
				if row*columns+col != frame {
					t.Fatalf("CellIndex(%d, %d) = (%d, %d) does not round-trip", frame, columns, col, row)
				}
			}
		}
	}
}

func TestBoundsRect(t *testing.T) {
	got := Bounds{X: 99.6, Y: 0.4, Width: 200.2, Height: 100}.Rect()
	want := image.Rect(100, 0, 300, 100)
	if got != want {
		t.Errorf("Rect = %v, want %v", got, want)
	}
}

func TestBoundsIsEmpty(t *testing.T) {
	if !(Bounds{Width: 0, Height: 10}).IsEmpty() {
		t.Error("expected zero-width bounds to be empty")
	}
	if (Bounds{Width: 1, Height: 1}).IsEmpty() {
		t.Error("expected 1x1 bounds to be non-empty")
	}
}
