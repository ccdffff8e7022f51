package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-drift/reel/pkg/geometry"
)

func init() {
	RegisterCommand(&Command{
		Name:  "fit",
		Short: "Compute fitted bounds and cell offsets",
		Long: `Fit a cell of the given aspect ratio into a container and print the
result.

The fitted bounds are the largest rectangle of the ratio centered in the
container. With -columns and -frame, the scaled sheet size and the
background offset of that frame's cell are printed as well.`,
		Usage: "reel fit -w 400 -h 100 [-x 0 -y 0] (-ratio 2 | -frame-size 200x100) [-columns 4 -rows 2 -frame 5]",
		Run:   runFit,
	})
}

type fitOptions struct {
	container geometry.Bounds
	ratio     float64
	columns   int
	rows      int
	frame     int
}

func parseFitArgs(args []string) (fitOptions, error) {
	var opts fitOptions
	var frameSize string

	fs := flag.NewFlagSet("fit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Float64Var(&opts.container.X, "x", 0, "container left edge")
	fs.Float64Var(&opts.container.Y, "y", 0, "container top edge")
	fs.Float64Var(&opts.container.Width, "w", 0, "container width")
	fs.Float64Var(&opts.container.Height, "h", 0, "container height")
	fs.Float64Var(&opts.ratio, "ratio", 0, "cell width/height ratio")
	fs.StringVar(&frameSize, "frame-size", "", "cell size as WIDTHxHEIGHT, instead of -ratio")
	fs.IntVar(&opts.columns, "columns", 0, "sheet columns")
	fs.IntVar(&opts.rows, "rows", 1, "sheet rows")
	fs.IntVar(&opts.frame, "frame", 0, "frame index for the cell offset")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if frameSize != "" {
		size, err := parseSize(frameSize)
		if err != nil {
			return opts, err
		}
		opts.ratio = size.AspectRatio()
	}
	if !(opts.ratio > 0) {
		return opts, fmt.Errorf("a positive -ratio or -frame-size is required")
	}
	if opts.container.Width < 0 || opts.container.Height < 0 {
		return opts, fmt.Errorf("container size must not be negative")
	}
	if opts.columns < 0 || opts.rows < 1 || opts.frame < 0 {
		return opts, fmt.Errorf("-columns, -rows and -frame must not be negative")
	}
	return opts, nil
}

func runFit(args []string) error {
	opts, err := parseFitArgs(args)
	if err != nil {
		return err
	}
	printFit(os.Stdout, opts)
	return nil
}

func printFit(w io.Writer, opts fitOptions) {
	fitted := geometry.FitRatio(opts.container, opts.ratio)
	fmt.Fprintf(w, "bounds: x=%g y=%g width=%g height=%g\n", fitted.X, fitted.Y, fitted.Width, fitted.Height)
	if opts.columns < 1 {
		return
	}
	sheet := fitted.Scale(opts.columns, opts.rows)
	offset := geometry.CellOffset(fitted, opts.frame, opts.columns)
	column, row := geometry.CellIndex(opts.frame, opts.columns)
	fmt.Fprintf(w, "sheet: %gx%g\n", sheet.Width, sheet.Height)
	fmt.Fprintf(w, "cell: frame=%d column=%d row=%d offset=%g,%g\n", opts.frame, column, row, zero(offset.X), zero(offset.Y))
}

// parseSize parses WIDTHxHEIGHT.
func parseSize(v string) (geometry.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(v), "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT", v)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid size %q: %w", v, err)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid size %q: %w", v, err)
	}
	return geometry.Size{Width: width, Height: height}, nil
}

// zero folds negative zero into zero for printing.
func zero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
