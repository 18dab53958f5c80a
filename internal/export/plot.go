package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/spiralarms/internal/analysis"
	"github.com/san-kum/spiralarms/internal/grid"
)

var ErrNoData = errors.New("export: nothing to plot")

// Size of a rendered image in inches at DPI dots per inch.
type Size struct {
	Width, Height float64
	DPI           int
}

func DefaultSize() Size { return Size{Width: 6, Height: 6, DPI: 150} }

type Labels struct {
	Title, X, Y string
}

func newPlot(l Labels) *plot.Plot {
	p := plot.New()
	p.Title.Text = l.Title
	p.X.Label.Text = l.X
	p.Y.Label.Text = l.Y
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Title.Padding = vg.Points(8)
	p.X.Padding = vg.Points(6)
	p.Y.Padding = vg.Points(6)
	return p
}

// WritePNG renders p onto a raster canvas of the given size.
func WritePNG(w io.Writer, p *plot.Plot, size Size) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(size.Width)*vg.Inch, vg.Length(size.Height)*vg.Inch),
		vgimg.UseDPI(size.DPI),
	)
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return bw.Flush()
}

// SaveFile creates path and its directory and hands the file to write.
func SaveFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// HeatmapPlot draws a sampled field with colours spanning its finite range.
func HeatmapPlot(f *grid.Field, l Labels) (*plot.Plot, error) {
	st := f.Stats()
	if st.Count == 0 {
		return nil, ErrNoData
	}
	hm := plotter.NewHeatMap(f, palette.Heat(64, 1))
	hm.Min, hm.Max = st.Min, st.Max
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}
	p := newPlot(l)
	p.Add(hm)
	p.X.Min, p.X.Max = -f.Spec.Extent, f.Spec.Extent
	p.Y.Min, p.Y.Max = -f.Spec.Extent, f.Spec.Extent
	return p, nil
}

func HeatmapPNG(w io.Writer, f *grid.Field, l Labels, size Size) error {
	p, err := HeatmapPlot(f, l)
	if err != nil {
		return err
	}
	return WritePNG(w, p, size)
}

// LinePNG plots ys against xs.
func LinePNG(w io.Writer, xs, ys []float64, l Labels, size Size) error {
	if len(xs) != len(ys) || len(xs) < 2 {
		return ErrNoData
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	return xyPNG(w, pts, l, size, false)
}

// PathPNG plots a trajectory projected onto a plane, with equal axis ranges.
func PathPNG(w io.Writer, pts []analysis.Point, l Labels, size Size) error {
	if len(pts) < 2 {
		return ErrNoData
	}
	return xyPNG(w, toXYs(pts), l, size, true)
}

// ScatterPNG plots unconnected points, as for a surface of section.
func ScatterPNG(w io.Writer, pts []analysis.Point, l Labels, size Size) error {
	if len(pts) == 0 {
		return ErrNoData
	}
	s, err := plotter.NewScatter(toXYs(pts))
	if err != nil {
		return err
	}
	s.GlyphStyle.Radius = vg.Points(1.5)
	p := newPlot(l)
	p.Add(s)
	return WritePNG(w, p, size)
}

func xyPNG(w io.Writer, pts plotter.XYs, l Labels, size Size, square bool) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1)
	p := newPlot(l)
	p.Add(line)
	if square {
		lim := 0.0
		for _, pt := range pts {
			lim = math.Max(lim, math.Max(math.Abs(pt.X), math.Abs(pt.Y)))
		}
		lim *= 1.05
		p.X.Min, p.X.Max = -lim, lim
		p.Y.Min, p.Y.Max = -lim, lim
	}
	return WritePNG(w, p, size)
}

func toXYs(pts []analysis.Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i].X, xys[i].Y = p.X, p.Y
	}
	return xys
}
