package export

import (
	"bytes"
	"errors"
	"image/gif"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/spiralarms/internal/analysis"
	"github.com/san-kum/spiralarms/internal/grid"
	"github.com/san-kum/spiralarms/internal/potential"
)

func sampleField(t *testing.T, ts ...float64) []*grid.Field {
	t.Helper()
	sp := potential.MustNew(potential.DefaultParams())
	frames, err := grid.Frames(sp.Evaluate, grid.Spec{Size: 20, Extent: 2}, ts)
	if err != nil {
		t.Fatal(err)
	}
	return frames
}

func TestHeatmapPNG(t *testing.T) {
	f := sampleField(t, 0)[0]
	var buf bytes.Buffer
	size := Size{Width: 2, Height: 2, DPI: 50}
	if err := HeatmapPNG(&buf, f, Labels{Title: "potential", X: "x", Y: "y"}, size); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("not a png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("image is %dx%d, want 100x100", b.Dx(), b.Dy())
	}
}

func TestHeatmapRejectsUndefinedField(t *testing.T) {
	f := &grid.Field{Spec: grid.Spec{Size: 2, Extent: 1}, Values: []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}}
	if err := HeatmapPNG(&bytes.Buffer{}, f, Labels{}, DefaultSize()); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func circle(n int) []analysis.Point {
	pts := make([]analysis.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n-1)
		pts[i] = analysis.Point{X: math.Cos(a), Y: math.Sin(a)}
	}
	return pts
}

func TestLineAndPathPNG(t *testing.T) {
	size := Size{Width: 2, Height: 1.5, DPI: 40}
	var buf bytes.Buffer
	if err := LinePNG(&buf, []float64{0, 1, 2}, []float64{1, 0, 1}, Labels{Title: "R(t)"}, size); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("line plot: %v", err)
	}

	buf.Reset()
	if err := PathPNG(&buf, circle(50), Labels{}, size); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("path plot: %v", err)
	}

	buf.Reset()
	if err := ScatterPNG(&buf, circle(10), Labels{}, size); err != nil {
		t.Fatal(err)
	}

	if err := LinePNG(&buf, []float64{0}, []float64{1}, Labels{}, size); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if err := LinePNG(&buf, []float64{0, 1}, []float64{1}, Labels{}, size); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for mismatched lengths, got %v", err)
	}
}

func TestFieldImage(t *testing.T) {
	f := &grid.Field{Spec: grid.Spec{Size: 2, Extent: 1}, Values: []float64{0, 1, math.NaN(), 0.5}}
	pal := FramePalette(4)
	img := FieldImage(f, pal, 0, 1, 3)

	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 6 {
		t.Fatalf("image is %dx%d", b.Dx(), b.Dy())
	}
	// row 0 of the field is the bottom of the image
	if got := img.ColorIndexAt(0, 5); got != 1 {
		t.Errorf("minimum maps to index %d, want 1", got)
	}
	if got := img.ColorIndexAt(5, 5); got != 4 {
		t.Errorf("maximum maps to index %d, want 4", got)
	}
	if got := img.ColorIndexAt(0, 0); got != 0 {
		t.Errorf("NaN maps to index %d, want 0", got)
	}
	if got := img.ColorIndexAt(4, 1); got != 3 {
		t.Errorf("midpoint maps to index %d, want 3", got)
	}
}

func TestAnimationGIF(t *testing.T) {
	frames := sampleField(t, 0, 0.5, 1)
	var buf bytes.Buffer
	if err := AnimationGIF(&buf, frames, 2, 5); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 || anim.Delay[0] != 5 {
		t.Errorf("got %d frames, delay %v", len(anim.Image), anim.Delay)
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 40 {
		t.Errorf("frame width %d, want 40", b.Dx())
	}

	if err := AnimationGIF(&buf, nil, 1, 1); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	svg := TrajectoryToSVG(circle(20), 200, 200, "#00ff00")
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("malformed svg: %q", svg)
	}
	if n := strings.Count(svg, " L"); n != 19 {
		t.Errorf("expected 19 line segments, got %d", n)
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke colour missing")
	}
	if TrajectoryToSVG(circle(2)[:1], 10, 10, "red") != "" {
		t.Error("single point should give empty svg")
	}
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.svg")
	err := SaveFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("<svg/>"))
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("read back %q, %v", data, err)
	}
}
