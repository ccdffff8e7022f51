package cmd

import (
	"bytes"
	"testing"

	"github.com/go-drift/reel/pkg/geometry"
)

func TestParseFitArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantRatio float64
		wantErr   bool
	}{
		{"ratio", []string{"-w", "400", "-h", "100", "-ratio", "2"}, 2, false},
		{"frame size", []string{"-w", "400", "-h", "100", "-frame-size", "200x100"}, 2, false},
		{"frame size upper X", []string{"-frame-size", "300X100"}, 3, false},
		{"missing ratio", []string{"-w", "400", "-h", "100"}, 0, true},
		{"bad frame size", []string{"-frame-size", "200"}, 0, true},
		{"bad frame width", []string{"-frame-size", "ax100"}, 0, true},
		{"negative width", []string{"-w", "-1", "-ratio", "2"}, 0, true},
		{"zero rows", []string{"-ratio", "2", "-rows", "0"}, 0, true},
		{"unknown flag", []string{"-ratio", "2", "-depth", "3"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFitArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFitArgs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if err == nil && opts.ratio != tt.wantRatio {
				t.Errorf("ratio = %v, want %v", opts.ratio, tt.wantRatio)
			}
		})
	}
}

func TestPrintFit(t *testing.T) {
	tests := []struct {
		name string
		opts fitOptions
		want string
	}{
		{
			name: "bounds only",
			opts: fitOptions{container: geometry.Bounds{Width: 400, Height: 100}, ratio: 2, rows: 1},
			want: "bounds: x=100 y=0 width=200 height=100\n",
		},
		{
			name: "tall container",
			opts: fitOptions{container: geometry.Bounds{X: 10, Y: 20, Width: 200, Height: 200}, ratio: 2, rows: 1},
			want: "bounds: x=10 y=70 width=200 height=100\n",
		},
		{
			name: "with cell",
			opts: fitOptions{container: geometry.Bounds{Width: 400, Height: 100}, ratio: 2, columns: 4, rows: 2, frame: 5},
			want: "bounds: x=100 y=0 width=200 height=100\n" +
				"sheet: 800x200\n" +
				"cell: frame=5 column=1 row=1 offset=-200,-100\n",
		},
		{
			name: "first cell",
			opts: fitOptions{container: geometry.Bounds{Width: 200, Height: 100}, ratio: 2, columns: 4, rows: 2},
			want: "bounds: x=0 y=0 width=200 height=100\n" +
				"sheet: 800x200\n" +
				"cell: frame=0 column=0 row=0 offset=0,0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printFit(&buf, tt.opts)
			if got := buf.String(); got != tt.want {
				t.Errorf("printFit output:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}
