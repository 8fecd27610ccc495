package prism

import (
	"image"
	"strings"
	"unicode"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextAlign controls horizontal line alignment within a text mesh.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // lines start at x = 0 (default)
	TextAlignCenter                  // lines are centered on x = 0
	TextAlignRight                   // lines end at x = 0
)

// TextAtlas returns the glyph atlas image that TextData UVs index into.
// Upload it with Device.NewTexture and pair it with the text mesh's material.
func TextAtlas(face *basicfont.Face) image.Image {
	return face.Mask
}

// TextData generates one quad per visible glyph of s. size is the world-space
// height of one glyph cell; the first baseline sits at y = 0 and subsequent
// lines go down by the face's line height. Runes the face cannot render fall
// back to the face's replacement glyph or are skipped.
func TextData(face *basicfont.Face, s string, size float32, align TextAlign) MeshData {
	cell := face.Ascent + face.Descent
	if cell <= 0 || size <= 0 {
		return MeshData{}
	}
	scale := size / float32(cell)
	atlas := face.Mask.Bounds()
	aw, ah := float32(atlas.Dx()), float32(atlas.Dy())

	var d MeshData
	lines := strings.Split(s, "\n")
	for li, line := range lines {
		start := d.VertexLen()
		dot := fixed.P(0, li*face.Height)
		for _, r := range line {
			dr, _, maskp, advance, ok := face.Glyph(dot, r)
			dot.X += advance
			if !ok || unicode.IsSpace(r) {
				continue
			}
			x0 := float32(dr.Min.X) * scale
			x1 := float32(dr.Max.X) * scale
			y0 := -float32(dr.Max.Y) * scale
			y1 := -float32(dr.Min.Y) * scale

			u0 := float32(maskp.X-atlas.Min.X) / aw
			u1 := float32(maskp.X-atlas.Min.X+dr.Dx()) / aw
			vTop := 1 - float32(maskp.Y-atlas.Min.Y)/ah
			vBottom := 1 - float32(maskp.Y-atlas.Min.Y+dr.Dy())/ah

			base := uint16(d.VertexLen())
			d.Positions = append(d.Positions,
				x0, y0, 0,
				x1, y0, 0,
				x1, y1, 0,
				x0, y1, 0,
			)
			d.UVs = append(d.UVs,
				u0, vBottom,
				u1, vBottom,
				u1, vTop,
				u0, vTop,
			)
			d.Normals = append(d.Normals,
				0, 0, 1,
				0, 0, 1,
				0, 0, 1,
				0, 0, 1,
			)
			d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
		}

		width := float32(dot.X.Ceil()) * scale
		var shift float32
		switch align {
		case TextAlignCenter:
			shift = -width / 2
		case TextAlignRight:
			shift = -width
		}
		if shift != 0 {
			for i := start * 3; i < len(d.Positions); i += 3 {
				d.Positions[i] += shift
			}
		}
	}
	return d
}
