package export

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"

	"gonum.org/v1/plot/palette"

	"github.com/san-kum/spiralarms/internal/grid"
)

// FramePalette is black for undefined cells followed by a heat ramp.
func FramePalette(levels int) color.Palette {
	pal := color.Palette{color.Black}
	return append(pal, palette.Heat(levels, 1).Colors()...)
}

// FieldImage maps f onto pal with [lo, hi] spread over pal[1:], scaling each
// grid cell to a scale x scale block. Row 0 of the image is the top (largest y).
func FieldImage(f *grid.Field, pal color.Palette, lo, hi float64, scale int) *image.Paletted {
	n := f.Spec.Size
	if scale < 1 {
		scale = 1
	}
	img := image.NewPaletted(image.Rect(0, 0, n*scale, n*scale), pal)
	levels := len(pal) - 1
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := f.Z(c, r)
			idx := uint8(0)
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				k := int((v - lo) / span * float64(levels))
				k = min(max(k, 0), levels-1)
				idx = uint8(k + 1)
			}
			y0 := (n - 1 - r) * scale
			for py := 0; py < scale; py++ {
				for px := 0; px < scale; px++ {
					img.SetColorIndex(c*scale+px, y0+py, idx)
				}
			}
		}
	}
	return img
}

// AnimationGIF encodes frames with a colour scale shared by all of them, so
// the pattern can be seen to move. delay is in hundredths of a second.
func AnimationGIF(w io.Writer, frames []*grid.Field, scale, delay int) error {
	if len(frames) == 0 {
		return ErrNoData
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, f := range frames {
		st := f.Stats()
		if st.Count == 0 {
			continue
		}
		lo, hi = math.Min(lo, st.Min), math.Max(hi, st.Max)
	}
	if math.IsInf(lo, 0) {
		return ErrNoData
	}

	pal := FramePalette(255)
	anim := gif.GIF{LoopCount: 0}
	for _, f := range frames {
		anim.Image = append(anim.Image, FieldImage(f, pal, lo, hi, scale))
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
